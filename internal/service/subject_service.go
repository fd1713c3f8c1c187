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

// ── 科目模块业务错误 ──

var (
	ErrSubjectNotFound      = errors.New("科目不存在")
	ErrSubjectCodeDuplicate = errors.New("科目代码已存在")
	ErrSubjectInUse         = errors.New("科目已被课表记录引用")
)

// SubjectService 科目业务接口
type SubjectService interface {
	Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SubjectResponse, error)
	List(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	Delete(ctx context.Context, id string) error
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

func (s *subjectService) Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	if err := s.ensureCodeAvailable(ctx, req.Code, ""); err != nil {
		return nil, err
	}

	subject := &model.Subject{Code: req.Code, Name: req.Name}
	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		s.logger.Error("创建科目失败", zap.Error(err))
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) GetByID(ctx context.Context, id string) (*dto.SubjectResponse, error) {
	subject, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) List(ctx context.Context, req *dto.SubjectListRequest) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.List(ctx, req.Keyword)
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, *toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

// Update 修改科目；代码变更会改变其 CST 归类，仅影响之后的提交
func (s *subjectService) Update(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil && *req.Code != subject.Code {
		if err := s.ensureCodeAvailable(ctx, *req.Code, id); err != nil {
			return nil, err
		}
		subject.Code = *req.Code
	}
	if req.Name != nil {
		subject.Name = *req.Name
	}

	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		s.logger.Error("更新科目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.Subject.CountEntries(ctx, id)
	if err != nil {
		s.logger.Error("统计科目引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrSubjectInUse
	}

	if err := s.repo.Subject.Delete(ctx, id); err != nil {
		s.logger.Error("删除科目失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *subjectService) get(ctx context.Context, id string) (*model.Subject, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return subject, nil
}

func (s *subjectService) ensureCodeAvailable(ctx context.Context, code, selfID string) error {
	existing, err := s.repo.Subject.GetByCode(ctx, code)
	if err == nil && existing.SubjectID != selfID {
		return ErrSubjectCodeDuplicate
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询科目代码失败", zap.String("code", code), zap.Error(err))
		return err
	}
	return nil
}
