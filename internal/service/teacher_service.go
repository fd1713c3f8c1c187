package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/repository"
)

// ── 教师模块业务错误 ──

var (
	ErrTeacherNotFound = errors.New("教师不存在")
	ErrTeacherInUse    = errors.New("教师已被课表记录引用")
)

// TeacherService 教师业务接口
type TeacherService interface {
	Create(ctx context.Context, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error)
	List(ctx context.Context, req *dto.TeacherListRequest) ([]dto.TeacherResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTeacherRequest) (*dto.TeacherResponse, error)
	Delete(ctx context.Context, id string) error
	// ListEntries 教师每周已排课程
	ListEntries(ctx context.Context, id string, req *dto.TeacherEntriesRequest) ([]dto.TimetableEntryResponse, error)
}

type teacherService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(repo *repository.Repository, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, logger: logger}
}

func (s *teacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error) {
	teacher := &model.Teacher{Name: req.Name, Email: req.Email}
	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("创建教师失败", zap.Error(err))
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) GetByID(ctx context.Context, id string) (*dto.TeacherResponse, error) {
	teacher, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) List(ctx context.Context, req *dto.TeacherListRequest) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.Teacher.List(ctx, req.Keyword)
	if err != nil {
		s.logger.Error("列出教师失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		result = append(result, *toTeacherResponse(&teachers[i]))
	}
	return result, nil
}

func (s *teacherService) Update(ctx context.Context, id string, req *dto.UpdateTeacherRequest) (*dto.TeacherResponse, error) {
	teacher, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		teacher.Name = *req.Name
	}
	if req.Email != nil {
		teacher.Email = req.Email
	}

	if err := s.repo.Teacher.Update(ctx, teacher); err != nil {
		s.logger.Error("更新教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.Teacher.CountEntries(ctx, id)
	if err != nil {
		s.logger.Error("统计教师引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrTeacherInUse
	}

	if err := s.repo.Teacher.Delete(ctx, id); err != nil {
		s.logger.Error("删除教师失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *teacherService) ListEntries(ctx context.Context, id string, req *dto.TeacherEntriesRequest) ([]dto.TimetableEntryResponse, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	entries, err := s.repo.TimetableEntry.ListByTeacher(ctx, id, req.AcademicYearID)
	if err != nil {
		s.logger.Error("查询教师课表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimetableEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toEntryResponse(&entries[i]))
	}
	return result, nil
}

func (s *teacherService) get(ctx context.Context, id string) (*model.Teacher, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}
