package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// ReferenceRepository 学期、专业、年级、班级、教室等只读基础数据访问接口
// 这些数据由外部 CRUD 模块维护，本服务只做存在性校验与展示
type ReferenceRepository interface {
	GetSemester(ctx context.Context, id string) (*model.Semester, error)
	GetProgram(ctx context.Context, id string) (*model.Program, error)
	GetLevel(ctx context.Context, id string) (*model.Level, error)
	GetSection(ctx context.Context, id string) (*model.Section, error)
	GetClassroom(ctx context.Context, id string) (*model.Classroom, error)
}

type referenceRepo struct {
	db *gorm.DB
}

// NewReferenceRepo 创建 ReferenceRepository 实例
func NewReferenceRepo(db *gorm.DB) ReferenceRepository {
	return &referenceRepo{db: db}
}

// first 按主键列查询单条记录
func first[T any](ctx context.Context, db *gorm.DB, column, id string) (*T, error) {
	var out T
	if err := db.WithContext(ctx).Where(column+" = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *referenceRepo) GetSemester(ctx context.Context, id string) (*model.Semester, error) {
	return first[model.Semester](ctx, r.db, "semester_id", id)
}

func (r *referenceRepo) GetProgram(ctx context.Context, id string) (*model.Program, error) {
	return first[model.Program](ctx, r.db, "program_id", id)
}

func (r *referenceRepo) GetLevel(ctx context.Context, id string) (*model.Level, error) {
	return first[model.Level](ctx, r.db, "level_id", id)
}

func (r *referenceRepo) GetSection(ctx context.Context, id string) (*model.Section, error) {
	return first[model.Section](ctx, r.db, "section_id", id)
}

func (r *referenceRepo) GetClassroom(ctx context.Context, id string) (*model.Classroom, error) {
	return first[model.Classroom](ctx, r.db, "classroom_id", id)
}
