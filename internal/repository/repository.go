package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	AcademicYear   AcademicYearRepository
	Reference      ReferenceRepository
	Subject        SubjectRepository
	Teacher        TeacherRepository
	TimeSlot       TimeSlotRepository
	TimetableEntry TimetableEntryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		AcademicYear:   NewAcademicYearRepo(db),
		Reference:      NewReferenceRepo(db),
		Subject:        NewSubjectRepo(db),
		Teacher:        NewTeacherRepo(db),
		TimeSlot:       NewTimeSlotRepo(db),
		TimetableEntry: NewTimetableEntryRepo(db),
	}
}

// Transaction 在同一数据库事务中执行 fn，fn 返回错误则整体回滚。
// fn 收到的 Repository 所有子仓库均绑定到该事务。
// 未绑定数据库（单元测试以接口字段组装）时直接以自身执行 fn。
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
