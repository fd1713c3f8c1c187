package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/repository"
	pkgerrors "github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/errors"
)

// ── Mock AcademicYearRepository ──

type mockAcademicYearRepo struct {
	years     map[string]*model.AcademicYear
	currentID string
}

func newMockAcademicYearRepo() *mockAcademicYearRepo {
	return &mockAcademicYearRepo{years: make(map[string]*model.AcademicYear)}
}

func (m *mockAcademicYearRepo) GetByID(_ context.Context, id string) (*model.AcademicYear, error) {
	if y, ok := m.years[id]; ok {
		return y, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) List(_ context.Context) ([]model.AcademicYear, error) {
	var result []model.AcademicYear
	for _, y := range m.years {
		result = append(result, *y)
	}
	return result, nil
}

func (m *mockAcademicYearRepo) GetCurrent(_ context.Context) (*model.AcademicYear, error) {
	if y, ok := m.years[m.currentID]; ok {
		return y, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAcademicYearRepo) SetCurrent(_ context.Context, id string) error {
	m.currentID = id
	return nil
}

// ── Mock ReferenceRepository ──

type mockReferenceRepo struct {
	semesters  map[string]*model.Semester
	programs   map[string]*model.Program
	levels     map[string]*model.Level
	sections   map[string]*model.Section
	classrooms map[string]*model.Classroom
}

func newMockReferenceRepo() *mockReferenceRepo {
	return &mockReferenceRepo{
		semesters:  make(map[string]*model.Semester),
		programs:   make(map[string]*model.Program),
		levels:     make(map[string]*model.Level),
		sections:   make(map[string]*model.Section),
		classrooms: make(map[string]*model.Classroom),
	}
}

func findByID[T any](m map[string]*T, id string) (*T, error) {
	if v, ok := m[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReferenceRepo) GetSemester(_ context.Context, id string) (*model.Semester, error) {
	return findByID(m.semesters, id)
}

func (m *mockReferenceRepo) GetProgram(_ context.Context, id string) (*model.Program, error) {
	return findByID(m.programs, id)
}

func (m *mockReferenceRepo) GetLevel(_ context.Context, id string) (*model.Level, error) {
	return findByID(m.levels, id)
}

func (m *mockReferenceRepo) GetSection(_ context.Context, id string) (*model.Section, error) {
	return findByID(m.sections, id)
}

func (m *mockReferenceRepo) GetClassroom(_ context.Context, id string) (*model.Classroom, error) {
	return findByID(m.classrooms, id)
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
	entries  *mockTimetableEntryRepo
}

func newMockSubjectRepo(entries *mockTimetableEntryRepo) *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject), entries: entries}
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	if subject.SubjectID == "" {
		subject.SubjectID = uuid.NewString()
	}
	m.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	return findByID(m.subjects, id)
}

func (m *mockSubjectRepo) GetByCode(_ context.Context, code string) (*model.Subject, error) {
	for _, s := range m.subjects {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) List(_ context.Context, keyword string) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		if keyword == "" || strings.Contains(s.Code, keyword) || strings.Contains(s.Name, keyword) {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	m.subjects[subject.SubjectID] = subject
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string) error {
	delete(m.subjects, id)
	return nil
}

func (m *mockSubjectRepo) CountEntries(_ context.Context, subjectID string) (int64, error) {
	return m.entries.count(func(e *model.TimetableEntry) bool { return e.SubjectID == subjectID }), nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[string]*model.Teacher
	entries  *mockTimetableEntryRepo
}

func newMockTeacherRepo(entries *mockTimetableEntryRepo) *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher), entries: entries}
}

func (m *mockTeacherRepo) Create(_ context.Context, teacher *model.Teacher) error {
	if teacher.TeacherID == "" {
		teacher.TeacherID = uuid.NewString()
	}
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	return findByID(m.teachers, id)
}

func (m *mockTeacherRepo) ListByIDs(_ context.Context, ids []string) ([]model.Teacher, error) {
	var result []model.Teacher
	for _, id := range ids {
		if t, ok := m.teachers[id]; ok {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTeacherRepo) List(_ context.Context, keyword string) ([]model.Teacher, error) {
	var result []model.Teacher
	for _, t := range m.teachers {
		if keyword == "" || strings.Contains(t.Name, keyword) {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTeacherRepo) Update(_ context.Context, teacher *model.Teacher) error {
	m.teachers[teacher.TeacherID] = teacher
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id string) error {
	delete(m.teachers, id)
	return nil
}

func (m *mockTeacherRepo) CountEntries(_ context.Context, teacherID string) (int64, error) {
	return m.entries.count(func(e *model.TimetableEntry) bool { return hasTeacher(e, teacherID) }), nil
}

// ── Mock TimeSlotRepository ──

type mockTimeSlotRepo struct {
	slots   map[string]*model.TimeSlot
	entries *mockTimetableEntryRepo
}

func newMockTimeSlotRepo(entries *mockTimetableEntryRepo) *mockTimeSlotRepo {
	return &mockTimeSlotRepo{slots: make(map[string]*model.TimeSlot), entries: entries}
}

func (m *mockTimeSlotRepo) Create(_ context.Context, slot *model.TimeSlot) error {
	if slot.TimeSlotID == "" {
		slot.TimeSlotID = uuid.NewString()
	}
	m.slots[slot.TimeSlotID] = slot
	return nil
}

func (m *mockTimeSlotRepo) BatchCreate(ctx context.Context, slots []model.TimeSlot) error {
	for i := range slots {
		if err := m.Create(ctx, &slots[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockTimeSlotRepo) GetByID(_ context.Context, id string) (*model.TimeSlot, error) {
	return findByID(m.slots, id)
}

func (m *mockTimeSlotRepo) ListByIDs(_ context.Context, ids []string) ([]model.TimeSlot, error) {
	// 与 WHERE IN 一致：重复 ID 只返回一行
	seen := make(map[string]bool)
	var result []model.TimeSlot
	for _, id := range ids {
		if s, ok := m.slots[id]; ok && !seen[id] {
			seen[id] = true
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockTimeSlotRepo) List(_ context.Context, academicYearID string, day *model.Weekday) ([]model.TimeSlot, error) {
	var result []model.TimeSlot
	for _, s := range m.slots {
		if academicYearID != "" && s.AcademicYearID != academicYearID {
			continue
		}
		if day != nil && s.DayOfWeek != *day {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek.Index() < result[j].DayOfWeek.Index()
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (m *mockTimeSlotRepo) Update(_ context.Context, slot *model.TimeSlot) error {
	m.slots[slot.TimeSlotID] = slot
	return nil
}

func (m *mockTimeSlotRepo) Delete(_ context.Context, id string) error {
	delete(m.slots, id)
	return nil
}

func (m *mockTimeSlotRepo) CountEntries(_ context.Context, slotID string) (int64, error) {
	return m.entries.count(func(e *model.TimetableEntry) bool { return e.TimeSlotID == slotID }), nil
}

// ── Mock TimetableEntryRepository ──

type mockTimetableEntryRepo struct {
	entries []*model.TimetableEntry

	// createErr 非空时 CreateWithTeachers 直接返回该错误
	createErr error
	creates   int
}

func newMockTimetableEntryRepo() *mockTimetableEntryRepo {
	return &mockTimetableEntryRepo{}
}

func (m *mockTimetableEntryRepo) count(match func(*model.TimetableEntry) bool) int64 {
	var n int64
	for _, e := range m.entries {
		if match(e) {
			n++
		}
	}
	return n
}

func hasTeacher(e *model.TimetableEntry, teacherID string) bool {
	for _, t := range e.Teachers {
		if t.TeacherID == teacherID {
			return true
		}
	}
	return false
}

func (m *mockTimetableEntryRepo) CountBySectionSubjectDay(_ context.Context, sectionID, subjectID string, day model.Weekday) (int64, error) {
	return m.count(func(e *model.TimetableEntry) bool {
		return e.SectionID == sectionID && e.SubjectID == subjectID && e.DayOfWeek == day
	}), nil
}

func (m *mockTimetableEntryRepo) CountBySectionSubjectTerm(_ context.Context, sectionID, subjectID, academicYearID, semesterID string) (int64, error) {
	return m.count(func(e *model.TimetableEntry) bool {
		return e.SectionID == sectionID && e.SubjectID == subjectID &&
			e.AcademicYearID == academicYearID && e.SemesterID == semesterID
	}), nil
}

func (m *mockTimetableEntryRepo) ExistsBySectionSlotDay(_ context.Context, sectionID, timeSlotID string, day model.Weekday) (bool, error) {
	return m.count(func(e *model.TimetableEntry) bool {
		return e.SectionID == sectionID && e.TimeSlotID == timeSlotID && e.DayOfWeek == day
	}) > 0, nil
}

func (m *mockTimetableEntryRepo) ListBookedTeachers(_ context.Context, day model.Weekday, timeSlotID string, teacherIDs []string) ([]string, error) {
	var booked []string
	for _, id := range teacherIDs {
		if m.count(func(e *model.TimetableEntry) bool {
			return e.DayOfWeek == day && e.TimeSlotID == timeSlotID && hasTeacher(e, id)
		}) > 0 {
			booked = append(booked, id)
		}
	}
	return booked, nil
}

func (m *mockTimetableEntryRepo) CreateWithTeachers(_ context.Context, entry *model.TimetableEntry, teacherIDs []string) error {
	m.creates++
	if m.createErr != nil {
		return m.createErr
	}
	if entry.TimetableEntryID == "" {
		entry.TimetableEntryID = uuid.NewString()
	}
	if entry.Version == 0 {
		entry.Version = 1
	}
	stored := *entry
	stored.Teachers = nil
	for _, id := range teacherIDs {
		stored.Teachers = append(stored.Teachers, model.Teacher{TeacherID: id})
	}
	m.entries = append(m.entries, &stored)
	return nil
}

func (m *mockTimetableEntryRepo) Update(_ context.Context, entry *model.TimetableEntry) error {
	for _, e := range m.entries {
		if e.TimetableEntryID != entry.TimetableEntryID {
			continue
		}
		if e.Version != entry.Version {
			return pkgerrors.ErrOptimisticLock
		}
		entry.Version++
		e.ClassroomID = entry.ClassroomID
		e.SubjectID = entry.SubjectID
		e.Status = entry.Status
		e.Version = entry.Version
		return nil
	}
	return pkgerrors.ErrOptimisticLock
}

func (m *mockTimetableEntryRepo) ReplaceTeachers(_ context.Context, entryID string, teacherIDs []string) error {
	for _, e := range m.entries {
		if e.TimetableEntryID == entryID {
			e.Teachers = nil
			for _, id := range teacherIDs {
				e.Teachers = append(e.Teachers, model.Teacher{TeacherID: id})
			}
		}
	}
	return nil
}

func (m *mockTimetableEntryRepo) Delete(_ context.Context, id string) error {
	for i, e := range m.entries {
		if e.TimetableEntryID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockTimetableEntryRepo) GetByID(_ context.Context, id string) (*model.TimetableEntry, error) {
	for _, e := range m.entries {
		if e.TimetableEntryID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTimetableEntryRepo) List(_ context.Context, filter repository.EntryFilter, offset, limit int) ([]model.TimetableEntry, int64, error) {
	var matched []model.TimetableEntry
	for _, e := range m.entries {
		if filter.AcademicYearID != "" && e.AcademicYearID != filter.AcademicYearID ||
			filter.SemesterID != "" && e.SemesterID != filter.SemesterID ||
			filter.SectionID != "" && e.SectionID != filter.SectionID ||
			filter.DayOfWeek != "" && e.DayOfWeek != filter.DayOfWeek ||
			filter.TeacherID != "" && !hasTeacher(e, filter.TeacherID) {
			continue
		}
		matched = append(matched, *e)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []model.TimetableEntry{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *mockTimetableEntryRepo) ListBySectionAndSemester(_ context.Context, sectionID, semesterID string) ([]model.TimetableEntry, error) {
	var result []model.TimetableEntry
	for _, e := range m.entries {
		if e.SectionID == sectionID && e.SemesterID == semesterID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockTimetableEntryRepo) ListByTeacher(_ context.Context, teacherID, academicYearID string) ([]model.TimetableEntry, error) {
	var result []model.TimetableEntry
	for _, e := range m.entries {
		if hasTeacher(e, teacherID) && (academicYearID == "" || e.AcademicYearID == academicYearID) {
			result = append(result, *e)
		}
	}
	return result, nil
}

// ── 聚合 ──

type mockRepos struct {
	years     *mockAcademicYearRepo
	refs      *mockReferenceRepo
	subjects  *mockSubjectRepo
	teachers  *mockTeacherRepo
	timeSlots *mockTimeSlotRepo
	entries   *mockTimetableEntryRepo
}

// newMockRepository 以内存实现组装 Repository；未绑定数据库，Transaction 直接执行回调
func newMockRepository() (*repository.Repository, *mockRepos) {
	entries := newMockTimetableEntryRepo()
	m := &mockRepos{
		years:     newMockAcademicYearRepo(),
		refs:      newMockReferenceRepo(),
		subjects:  newMockSubjectRepo(entries),
		teachers:  newMockTeacherRepo(entries),
		timeSlots: newMockTimeSlotRepo(entries),
		entries:   entries,
	}
	repo := &repository.Repository{
		AcademicYear:   m.years,
		Reference:      m.refs,
		Subject:        m.subjects,
		Teacher:        m.teachers,
		TimeSlot:       m.timeSlots,
		TimetableEntry: m.entries,
	}
	return repo, m
}
