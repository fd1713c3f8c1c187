package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// AcademicYearRepository 学年数据访问接口
type AcademicYearRepository interface {
	GetByID(ctx context.Context, id string) (*model.AcademicYear, error)
	List(ctx context.Context) ([]model.AcademicYear, error)
	// GetCurrent 读取当前学年指针；未设置时返回 gorm.ErrRecordNotFound
	GetCurrent(ctx context.Context) (*model.AcademicYear, error)
	// SetCurrent 原子地将当前学年指针切换到 id
	SetCurrent(ctx context.Context, id string) error
}

type academicYearRepo struct {
	db *gorm.DB
}

// NewAcademicYearRepo 创建 AcademicYearRepository 实例
func NewAcademicYearRepo(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepo{db: db}
}

func (r *academicYearRepo) GetByID(ctx context.Context, id string) (*model.AcademicYear, error) {
	var year model.AcademicYear
	err := r.db.WithContext(ctx).
		Where("academic_year_id = ?", id).
		First(&year).Error
	if err != nil {
		return nil, err
	}
	return &year, nil
}

func (r *academicYearRepo) List(ctx context.Context) ([]model.AcademicYear, error) {
	var years []model.AcademicYear
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&years).Error
	return years, err
}

func (r *academicYearRepo) GetCurrent(ctx context.Context) (*model.AcademicYear, error) {
	var current model.CurrentAcademicYear
	err := r.db.WithContext(ctx).
		Preload("AcademicYear").
		Where("singleton = ?", true).
		First(&current).Error
	if err != nil {
		return nil, err
	}
	if current.AcademicYear == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return current.AcademicYear, nil
}

func (r *academicYearRepo) SetCurrent(ctx context.Context, id string) error {
	// 单行表 upsert：并发切换时最后一次写入生效，任何时刻至多一个当前学年
	row := model.CurrentAcademicYear{Singleton: true, AcademicYearID: id}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "singleton"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"academic_year_id": id, "updated_at": gorm.Expr("NOW()")}),
		}).
		Create(&row).Error
}
