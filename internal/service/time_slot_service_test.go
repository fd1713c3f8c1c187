package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// ── 测试辅助 ──

func setupTestTimeSlotService(t *testing.T) (TimeSlotService, *entryFixture) {
	t.Helper()
	f := setupEntryFixture(t)
	return NewTimeSlotService(f.repo, time.UTC, zap.NewNop()), f
}

func strPtr(s string) *string { return &s }

// ── Create ──

func TestTimeSlotService_Create_Success(t *testing.T) {
	svc, f := setupTestTimeSlotService(t)

	result, err := svc.Create(context.Background(), &dto.CreateTimeSlotRequest{
		AcademicYearID: f.yearID,
		DayOfWeek:      "monday",
		StartTime:      "08:10",
		EndTime:        "09:00",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.DayOfWeek != "monday" || result.StartTime != "08:10" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestTimeSlotService_Create_InvalidRange(t *testing.T) {
	svc, f := setupTestTimeSlotService(t)

	_, err := svc.Create(context.Background(), &dto.CreateTimeSlotRequest{
		AcademicYearID: f.yearID,
		DayOfWeek:      "monday",
		StartTime:      "10:00",
		EndTime:        "10:00",
	})
	if !errors.Is(err, ErrTimeSlotInvalidRange) {
		t.Errorf("期望 ErrTimeSlotInvalidRange，实际 %v", err)
	}
}

func TestTimeSlotService_Create_Duplicate(t *testing.T) {
	svc, f := setupTestTimeSlotService(t)
	f.addSlot(model.Monday, "09:00:00", "10:00:00")

	_, err := svc.Create(context.Background(), &dto.CreateTimeSlotRequest{
		AcademicYearID: f.yearID,
		DayOfWeek:      "monday",
		StartTime:      "09:00",
		EndTime:        "10:00",
	})
	if !errors.Is(err, ErrTimeSlotDuplicate) {
		t.Errorf("期望 ErrTimeSlotDuplicate，实际 %v", err)
	}
}

func TestTimeSlotService_Create_UnknownYear(t *testing.T) {
	svc, _ := setupTestTimeSlotService(t)

	_, err := svc.Create(context.Background(), &dto.CreateTimeSlotRequest{
		AcademicYearID: uuid.NewString(),
		DayOfWeek:      "monday",
		StartTime:      "09:00",
		EndTime:        "10:00",
	})
	if !errors.Is(err, ErrAcademicYearNotFound) {
		t.Errorf("期望 ErrAcademicYearNotFound，实际 %v", err)
	}
}

// ── Update / Delete ──

func TestTimeSlotService_Update(t *testing.T) {
	svc, f := setupTestTimeSlotService(t)
	id := f.addSlot(model.Monday, "09:00:00", "10:00:00")

	result, err := svc.Update(context.Background(), id, &dto.UpdateTimeSlotRequest{EndTime: strPtr("10:30")})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.StartTime != "09:00" || result.EndTime != "10:30" {
		t.Errorf("期望 09:00-10:30，实际 %s-%s", result.StartTime, result.EndTime)
	}

	_, err = svc.Update(context.Background(), id, &dto.UpdateTimeSlotRequest{StartTime: strPtr("11:00")})
	if !errors.Is(err, ErrTimeSlotInvalidRange) {
		t.Errorf("期望 ErrTimeSlotInvalidRange，实际 %v", err)
	}
}

func TestTimeSlotService_Delete_InUse(t *testing.T) {
	svc, f := setupTestTimeSlotService(t)
	cs := f.addSubject("CS301")
	alice := f.addTeacher("Alice")
	used := f.addSlot(model.Monday, "09:00", "10:00")
	free := f.addSlot(model.Monday, "10:00", "11:00")
	f.mustSubmit(t, f.request(cs, []string{alice}, used))

	if err := svc.Delete(context.Background(), used); !errors.Is(err, ErrTimeSlotInUse) {
		t.Errorf("期望 ErrTimeSlotInUse，实际 %v", err)
	}
	if err := svc.Delete(context.Background(), free); err != nil {
		t.Errorf("未引用的时间段应可删除: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), free); !errors.Is(err, ErrTimeSlotNotFound) {
		t.Errorf("期望 ErrTimeSlotNotFound，实际 %v", err)
	}
}

// ── ImportICS ──

func TestTimeSlotService_ImportICS_SkipsExisting(t *testing.T) {
	svc, f := setupTestTimeSlotService(t)
	f.addSlot(model.Monday, "09:00:00", "10:00:00")

	resp, err := svc.ImportICS(context.Background(), f.yearID, strings.NewReader(testICS))
	if err != nil {
		t.Fatalf("ImportICS 应成功: %v", err)
	}
	// 服务使用 UTC，UTC 事件落在周一 06:00
	if resp.Created != 2 || resp.Skipped != 1 {
		t.Errorf("期望 created=2 skipped=1，实际 %+v", resp)
	}

	list, err := svc.List(context.Background(), &dto.TimeSlotListRequest{AcademicYearID: f.yearID, DayOfWeek: "tuesday"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 1 || !list[0].IsLunch {
		t.Errorf("周二应有 1 个午休时间段，实际 %+v", list)
	}
}

func TestTimeSlotService_ImportICS_Empty(t *testing.T) {
	svc, f := setupTestTimeSlotService(t)
	empty := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//timetable//test//EN\r\nEND:VCALENDAR\r\n"

	_, err := svc.ImportICS(context.Background(), f.yearID, strings.NewReader(empty))
	if !errors.Is(err, ErrTimeSlotImportEmpty) {
		t.Errorf("期望 ErrTimeSlotImportEmpty，实际 %v", err)
	}
}
