package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// ── SubjectService ──

func TestSubjectService_Create(t *testing.T) {
	f := setupEntryFixture(t)
	svc := NewSubjectService(f.repo, zap.NewNop())

	tests := []struct {
		code    string
		wantCST bool
	}{
		{"CST101", true},
		{"CS301", false},
		{"MATH101", true},
	}
	for _, tt := range tests {
		got, err := svc.Create(context.Background(), &dto.CreateSubjectRequest{Code: tt.code, Name: "Subject " + tt.code})
		if err != nil {
			t.Fatalf("Create(%s) 应成功: %v", tt.code, err)
		}
		if got.IsCSTCoded != tt.wantCST {
			t.Errorf("%s: is_cst_coded = %v, want %v", tt.code, got.IsCSTCoded, tt.wantCST)
		}
	}

	_, err := svc.Create(context.Background(), &dto.CreateSubjectRequest{Code: "CS301", Name: "Again"})
	if !errors.Is(err, ErrSubjectCodeDuplicate) {
		t.Errorf("期望 ErrSubjectCodeDuplicate，实际 %v", err)
	}
}

func TestSubjectService_Update_KeepsOwnCode(t *testing.T) {
	f := setupEntryFixture(t)
	svc := NewSubjectService(f.repo, zap.NewNop())
	id := f.addSubject("CS301")
	f.addSubject("CT204")

	name := "Data Structures"
	code := "CS301"
	got, err := svc.Update(context.Background(), id, &dto.UpdateSubjectRequest{Code: &code, Name: &name})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if got.Name != name {
		t.Errorf("期望名称 %s，实际 %s", name, got.Name)
	}

	taken := "CT204"
	if _, err := svc.Update(context.Background(), id, &dto.UpdateSubjectRequest{Code: &taken}); !errors.Is(err, ErrSubjectCodeDuplicate) {
		t.Errorf("期望 ErrSubjectCodeDuplicate，实际 %v", err)
	}
}

func TestSubjectService_Delete(t *testing.T) {
	f := setupEntryFixture(t)
	svc := NewSubjectService(f.repo, zap.NewNop())
	used := f.addSubject("CS301")
	unused := f.addSubject("ENG200")
	alice := f.addTeacher("Alice")
	f.mustSubmit(t, f.request(used, []string{alice}, f.addSlot(model.Monday, "09:00", "10:00")))

	if err := svc.Delete(context.Background(), used); !errors.Is(err, ErrSubjectInUse) {
		t.Errorf("期望 ErrSubjectInUse，实际 %v", err)
	}
	if err := svc.Delete(context.Background(), unused); err != nil {
		t.Errorf("Delete 应成功: %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.NewString()); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("期望 ErrSubjectNotFound，实际 %v", err)
	}
}

// ── TeacherService ──

func TestTeacherService_CRUD(t *testing.T) {
	f := setupEntryFixture(t)
	svc := NewTeacherService(f.repo, zap.NewNop())

	email := "alice@example.edu"
	created, err := svc.Create(context.Background(), &dto.CreateTeacherRequest{Name: "Alice", Email: &email})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	name := "Alice Smith"
	updated, err := svc.Update(context.Background(), created.ID, &dto.UpdateTeacherRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.Name != name || updated.Email == nil || *updated.Email != email {
		t.Errorf("unexpected teacher: %+v", updated)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("期望 ErrTeacherNotFound，实际 %v", err)
	}
}

func TestTeacherService_ListEntries(t *testing.T) {
	f := setupEntryFixture(t)
	svc := NewTeacherService(f.repo, zap.NewNop())
	cs := f.addSubject("CS301")
	alice := f.addTeacher("Alice")
	bob := f.addTeacher("Bob")
	f.mustSubmit(t, f.request(cs, []string{alice, bob}, f.addSlot(model.Monday, "09:00", "10:00")))
	f.mustSubmit(t, f.request(cs, []string{bob}, f.addSlot(model.Tuesday, "09:00", "10:00")))

	entries, err := svc.ListEntries(context.Background(), alice, &dto.TeacherEntriesRequest{AcademicYearID: f.yearID})
	if err != nil {
		t.Fatalf("ListEntries 应成功: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Alice 期望 1 节课，实际 %d", len(entries))
	}

	if err := svc.Delete(context.Background(), bob); !errors.Is(err, ErrTeacherInUse) {
		t.Errorf("期望 ErrTeacherInUse，实际 %v", err)
	}
}

// ── AcademicYearService ──

func TestAcademicYearService_Activate(t *testing.T) {
	f := setupEntryFixture(t)
	svc := NewAcademicYearService(f.repo, zap.NewNop())

	next := uuid.NewString()
	f.mocks.years.years[next] = &model.AcademicYear{AcademicYearID: next, Name: "2026-2027"}

	got, err := svc.Activate(context.Background(), next)
	if err != nil {
		t.Fatalf("Activate 应成功: %v", err)
	}
	if !got.IsCurrent || got.Name != "2026-2027" {
		t.Errorf("unexpected result: %+v", got)
	}

	current, err := svc.GetCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetCurrent 应成功: %v", err)
	}
	if current.ID != next {
		t.Errorf("当前学年应为 %s，实际 %s", next, current.ID)
	}

	// 切换后，原学年的提交被拒绝
	cs := f.addSubject("CS301")
	alice := f.addTeacher("Alice")
	f.expectViolation(t, f.request(cs, []string{alice}, f.addSlot(model.Monday, "09:00", "10:00")), RuleInactiveAcademicYear)
}

func TestAcademicYearService_Errors(t *testing.T) {
	f := setupEntryFixture(t)
	svc := NewAcademicYearService(f.repo, zap.NewNop())

	if _, err := svc.Activate(context.Background(), uuid.NewString()); !errors.Is(err, ErrAcademicYearNotFound) {
		t.Errorf("期望 ErrAcademicYearNotFound，实际 %v", err)
	}

	f.mocks.years.currentID = ""
	if _, err := svc.GetCurrent(context.Background()); !errors.Is(err, ErrNoCurrentAcademicYear) {
		t.Errorf("期望 ErrNoCurrentAcademicYear，实际 %v", err)
	}
}
