package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/repository"
)

// ── 学年模块业务错误 ──

var (
	ErrAcademicYearNotFound  = errors.New("学年不存在")
	ErrNoCurrentAcademicYear = errors.New("尚未设置当前学年")
)

// AcademicYearService 当前学年业务接口
type AcademicYearService interface {
	GetCurrent(ctx context.Context) (*dto.AcademicYearResponse, error)
	// Activate 将指定学年设为当前学年，其他学年随之失效
	Activate(ctx context.Context, id string) (*dto.AcademicYearResponse, error)
}

type academicYearService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAcademicYearService 创建 AcademicYearService 实例
func NewAcademicYearService(repo *repository.Repository, logger *zap.Logger) AcademicYearService {
	return &academicYearService{repo: repo, logger: logger}
}

func (s *academicYearService) GetCurrent(ctx context.Context) (*dto.AcademicYearResponse, error) {
	year, err := s.repo.AcademicYear.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCurrentAcademicYear
		}
		s.logger.Error("查询当前学年失败", zap.Error(err))
		return nil, err
	}
	return toAcademicYearResponse(year, year.AcademicYearID), nil
}

func (s *academicYearService) Activate(ctx context.Context, id string) (*dto.AcademicYearResponse, error) {
	year, err := s.repo.AcademicYear.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if err := s.repo.AcademicYear.SetCurrent(ctx, id); err != nil {
		s.logger.Error("切换当前学年失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("当前学年已切换", zap.String("academic_year_id", id), zap.String("name", year.Name))
	return toAcademicYearResponse(year, id), nil
}
