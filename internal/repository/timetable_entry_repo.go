package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
	pkgerrors "github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/errors"
)

// OccupancyConstraint 班级-时间段-星期唯一索引名（迁移 000003）
const OccupancyConstraint = "uq_timetable_entries_section_slot_day"

// EntryFilter 课表记录列表筛选条件，空值表示不过滤
type EntryFilter struct {
	AcademicYearID string
	SemesterID     string
	SectionID      string
	TeacherID      string
	DayOfWeek      model.Weekday
}

// TimetableEntryRepository 课表记录数据访问接口
type TimetableEntryRepository interface {
	// ── 冲突校验查询 ──
	CountBySectionSubjectDay(ctx context.Context, sectionID, subjectID string, day model.Weekday) (int64, error)
	CountBySectionSubjectTerm(ctx context.Context, sectionID, subjectID, academicYearID, semesterID string) (int64, error)
	ExistsBySectionSlotDay(ctx context.Context, sectionID, timeSlotID string, day model.Weekday) (bool, error)
	// ListBookedTeachers 返回 teacherIDs 中已在 (day, slot) 有课的教师 ID
	ListBookedTeachers(ctx context.Context, day model.Weekday, timeSlotID string, teacherIDs []string) ([]string, error)

	// ── 写入 ──
	// CreateWithTeachers 创建课表记录并追加教师关联
	CreateWithTeachers(ctx context.Context, entry *model.TimetableEntry, teacherIDs []string) error
	Update(ctx context.Context, entry *model.TimetableEntry) error
	ReplaceTeachers(ctx context.Context, entryID string, teacherIDs []string) error
	Delete(ctx context.Context, id string) error

	// ── 读取 ──
	GetByID(ctx context.Context, id string) (*model.TimetableEntry, error)
	List(ctx context.Context, filter EntryFilter, offset, limit int) ([]model.TimetableEntry, int64, error)
	ListBySectionAndSemester(ctx context.Context, sectionID, semesterID string) ([]model.TimetableEntry, error)
	ListByTeacher(ctx context.Context, teacherID, academicYearID string) ([]model.TimetableEntry, error)
}

type timetableEntryRepo struct {
	db *gorm.DB
}

// NewTimetableEntryRepo 创建 TimetableEntryRepository 实例
func NewTimetableEntryRepo(db *gorm.DB) TimetableEntryRepository {
	return &timetableEntryRepo{db: db}
}

// ────────────────────── 冲突校验查询 ──────────────────────

func (r *timetableEntryRepo) CountBySectionSubjectDay(ctx context.Context, sectionID, subjectID string, day model.Weekday) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimetableEntry{}).
		Where("section_id = ? AND subject_id = ? AND day_of_week = ?", sectionID, subjectID, day).
		Count(&count).Error
	return count, err
}

func (r *timetableEntryRepo) CountBySectionSubjectTerm(ctx context.Context, sectionID, subjectID, academicYearID, semesterID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimetableEntry{}).
		Where("section_id = ? AND subject_id = ? AND academic_year_id = ? AND semester_id = ?",
			sectionID, subjectID, academicYearID, semesterID).
		Count(&count).Error
	return count, err
}

func (r *timetableEntryRepo) ExistsBySectionSlotDay(ctx context.Context, sectionID, timeSlotID string, day model.Weekday) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimetableEntry{}).
		Where("section_id = ? AND time_slot_id = ? AND day_of_week = ?", sectionID, timeSlotID, day).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *timetableEntryRepo) ListBookedTeachers(ctx context.Context, day model.Weekday, timeSlotID string, teacherIDs []string) ([]string, error) {
	var booked []string
	if len(teacherIDs) == 0 {
		return booked, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.TimetableEntryTeacher{}).
		Distinct("timetable_entry_teachers.teacher_id").
		Joins("JOIN timetable_entries e ON e.timetable_entry_id = timetable_entry_teachers.timetable_entry_id").
		Where("e.day_of_week = ? AND e.time_slot_id = ?", day, timeSlotID).
		Where("timetable_entry_teachers.teacher_id IN ?", teacherIDs).
		Pluck("timetable_entry_teachers.teacher_id", &booked).Error
	return booked, err
}

// ────────────────────── 写入 ──────────────────────

func (r *timetableEntryRepo) CreateWithTeachers(ctx context.Context, entry *model.TimetableEntry, teacherIDs []string) error {
	db := r.db.WithContext(ctx)
	// 关联由下方显式写入，避免 gorm 顺带 upsert 教师表
	if err := db.Omit("Subject", "Classroom", "Teachers").Create(entry).Error; err != nil {
		return err
	}
	return attachTeachers(db, entry.TimetableEntryID, teacherIDs)
}

func (r *timetableEntryRepo) Update(ctx context.Context, entry *model.TimetableEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.TimetableEntry{}).
		Where("timetable_entry_id = ? AND version = ?", entry.TimetableEntryID, oldVersion).
		Updates(map[string]interface{}{
			"classroom_id": entry.ClassroomID,
			"subject_id":   entry.SubjectID,
			"status":       entry.Status,
			"version":      oldVersion + 1,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}

func (r *timetableEntryRepo) ReplaceTeachers(ctx context.Context, entryID string, teacherIDs []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("timetable_entry_id = ?", entryID).
		Delete(&model.TimetableEntryTeacher{}).Error; err != nil {
		return err
	}
	return attachTeachers(db, entryID, teacherIDs)
}

func (r *timetableEntryRepo) Delete(ctx context.Context, id string) error {
	// 硬删除；教师关联由外键 ON DELETE CASCADE 清理
	return r.db.WithContext(ctx).
		Where("timetable_entry_id = ?", id).
		Delete(&model.TimetableEntry{}).Error
}

func attachTeachers(db *gorm.DB, entryID string, teacherIDs []string) error {
	if len(teacherIDs) == 0 {
		return nil
	}
	rows := make([]model.TimetableEntryTeacher, 0, len(teacherIDs))
	for _, id := range teacherIDs {
		rows = append(rows, model.TimetableEntryTeacher{TimetableEntryID: entryID, TeacherID: id})
	}
	return db.Create(&rows).Error
}

// ────────────────────── 读取 ──────────────────────

func (r *timetableEntryRepo) GetByID(ctx context.Context, id string) (*model.TimetableEntry, error) {
	var entry model.TimetableEntry
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Classroom").
		Preload("Teachers").
		Where("timetable_entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timetableEntryRepo) List(ctx context.Context, filter EntryFilter, offset, limit int) ([]model.TimetableEntry, int64, error) {
	var entries []model.TimetableEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TimetableEntry{})
	if filter.AcademicYearID != "" {
		db = db.Where("academic_year_id = ?", filter.AcademicYearID)
	}
	if filter.SemesterID != "" {
		db = db.Where("semester_id = ?", filter.SemesterID)
	}
	if filter.SectionID != "" {
		db = db.Where("section_id = ?", filter.SectionID)
	}
	if filter.DayOfWeek != "" {
		db = db.Where("day_of_week = ?", filter.DayOfWeek)
	}
	if filter.TeacherID != "" {
		db = db.Where("timetable_entry_id IN (?)",
			r.db.Model(&model.TimetableEntryTeacher{}).Select("timetable_entry_id").Where("teacher_id = ?", filter.TeacherID))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Subject").Preload("Classroom").Preload("Teachers").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *timetableEntryRepo) ListBySectionAndSemester(ctx context.Context, sectionID, semesterID string) ([]model.TimetableEntry, error) {
	var entries []model.TimetableEntry
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Classroom").
		Preload("Teachers").
		Where("section_id = ? AND semester_id = ?", sectionID, semesterID).
		Order("start_time ASC").
		Find(&entries).Error
	return entries, err
}

func (r *timetableEntryRepo) ListByTeacher(ctx context.Context, teacherID, academicYearID string) ([]model.TimetableEntry, error) {
	var entries []model.TimetableEntry
	db := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Classroom").
		Joins("JOIN timetable_entry_teachers t ON t.timetable_entry_id = timetable_entries.timetable_entry_id").
		Where("t.teacher_id = ?", teacherID)
	if academicYearID != "" {
		db = db.Where("timetable_entries.academic_year_id = ?", academicYearID)
	}
	err := db.Order("timetable_entries.day_of_week ASC, timetable_entries.start_time ASC").
		Find(&entries).Error
	return entries, err
}
