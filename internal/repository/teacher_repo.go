package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// TeacherRepository 教师数据访问接口
type TeacherRepository interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByID(ctx context.Context, id string) (*model.Teacher, error)
	// ListByIDs 批量查询，不存在（含已软删除）的 ID 不会出现在结果中
	ListByIDs(ctx context.Context, ids []string) ([]model.Teacher, error)
	List(ctx context.Context, keyword string) ([]model.Teacher, error)
	Update(ctx context.Context, teacher *model.Teacher) error
	Delete(ctx context.Context, id string) error
	CountEntries(ctx context.Context, teacherID string) (int64, error)
}

type teacherRepo struct {
	db *gorm.DB
}

// NewTeacherRepo 创建 TeacherRepository 实例
func NewTeacherRepo(db *gorm.DB) TeacherRepository {
	return &teacherRepo{db: db}
}

func (r *teacherRepo) Create(ctx context.Context, teacher *model.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepo) GetByID(ctx context.Context, id string) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", id).
		First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *teacherRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Teacher, error) {
	var teachers []model.Teacher
	if len(ids) == 0 {
		return teachers, nil
	}
	err := r.db.WithContext(ctx).
		Where("teacher_id IN ?", ids).
		Find(&teachers).Error
	return teachers, err
}

func (r *teacherRepo) List(ctx context.Context, keyword string) ([]model.Teacher, error) {
	var teachers []model.Teacher
	db := r.db.WithContext(ctx)
	if keyword != "" {
		db = db.Where("name ILIKE ?", "%"+keyword+"%")
	}
	err := db.Order("name ASC").Find(&teachers).Error
	return teachers, err
}

func (r *teacherRepo) Update(ctx context.Context, teacher *model.Teacher) error {
	return r.db.WithContext(ctx).Save(teacher).Error
}

func (r *teacherRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("teacher_id = ?", id).
		Delete(&model.Teacher{}).Error
}

func (r *teacherRepo) CountEntries(ctx context.Context, teacherID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimetableEntryTeacher{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error
	return count, err
}
