package service

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/repository"
)

// ── 时间段模块业务错误 ──

var (
	ErrTimeSlotNotFound     = errors.New("时间段不存在")
	ErrTimeSlotInvalidRange = errors.New("结束时间必须晚于开始时间")
	ErrTimeSlotDuplicate    = errors.New("该学年同一天已存在相同时间的时间段")
	ErrTimeSlotInUse        = errors.New("时间段已被课表记录引用")
	ErrTimeSlotImportEmpty  = errors.New("ICS 文件中没有可用的工作日课节")
)

// TimeSlotService 时间段业务接口
type TimeSlotService interface {
	Create(ctx context.Context, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error)
	List(ctx context.Context, req *dto.TimeSlotListRequest) ([]dto.TimeSlotResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	Delete(ctx context.Context, id string) error
	// ImportICS 从 iCalendar 批量导入时间段，与已有时间段重复的跳过
	ImportICS(ctx context.Context, academicYearID string, reader io.Reader) (*dto.ImportTimeSlotsResponse, error)
}

type timeSlotService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewTimeSlotService 创建 TimeSlotService 实例
func NewTimeSlotService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) TimeSlotService {
	return &timeSlotService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timeSlotService) Create(ctx context.Context, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	if err := s.ensureAcademicYear(ctx, req.AcademicYearID); err != nil {
		return nil, err
	}
	if req.EndTime <= req.StartTime {
		return nil, ErrTimeSlotInvalidRange
	}

	slot := &model.TimeSlot{
		AcademicYearID: req.AcademicYearID,
		DayOfWeek:      model.Weekday(req.DayOfWeek),
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsLunch:        req.IsLunch,
	}
	if err := s.ensureUnique(ctx, slot); err != nil {
		return nil, err
	}

	if err := s.repo.TimeSlot.Create(ctx, slot); err != nil {
		s.logger.Error("创建时间段失败", zap.Error(err))
		return nil, err
	}

	return toTimeSlotResponse(slot), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timeSlotService) GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error) {
	slot, err := s.repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTimeSlotResponse(slot), nil
}

// ────────────────────── List ──────────────────────

func (s *timeSlotService) List(ctx context.Context, req *dto.TimeSlotListRequest) ([]dto.TimeSlotResponse, error) {
	var day *model.Weekday
	if req.DayOfWeek != "" {
		d := model.Weekday(req.DayOfWeek)
		day = &d
	}

	slots, err := s.repo.TimeSlot.List(ctx, req.AcademicYearID, day)
	if err != nil {
		s.logger.Error("列出时间段失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimeSlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toTimeSlotResponse(&slots[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

// Update 修改时间段；已生成的课表记录保留创建时复制的星期与时间
func (s *timeSlotService) Update(ctx context.Context, id string, req *dto.UpdateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	slot, err := s.repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	slot.StartTime = clock(slot.StartTime)
	slot.EndTime = clock(slot.EndTime)

	if req.DayOfWeek != nil {
		slot.DayOfWeek = model.Weekday(*req.DayOfWeek)
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.IsLunch != nil {
		slot.IsLunch = *req.IsLunch
	}
	if slot.EndTime <= slot.StartTime {
		return nil, ErrTimeSlotInvalidRange
	}
	if err := s.ensureUnique(ctx, slot); err != nil {
		return nil, err
	}

	if err := s.repo.TimeSlot.Update(ctx, slot); err != nil {
		s.logger.Error("更新时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTimeSlotResponse(slot), nil
}

// ────────────────────── Delete ──────────────────────

func (s *timeSlotService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.TimeSlot.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return err
	}

	count, err := s.repo.TimeSlot.CountEntries(ctx, id)
	if err != nil {
		s.logger.Error("统计时间段引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrTimeSlotInUse
	}

	if err := s.repo.TimeSlot.Delete(ctx, id); err != nil {
		s.logger.Error("删除时间段失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── ImportICS ──────────────────────

func (s *timeSlotService) ImportICS(ctx context.Context, academicYearID string, reader io.Reader) (*dto.ImportTimeSlotsResponse, error) {
	if err := s.ensureAcademicYear(ctx, academicYearID); err != nil {
		return nil, err
	}

	parsed, err := ParseTimeSlotsICS(reader, academicYearID, s.loc)
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, ErrTimeSlotImportEmpty
	}

	existing, err := s.repo.TimeSlot.List(ctx, academicYearID, nil)
	if err != nil {
		s.logger.Error("加载已有时间段失败", zap.Error(err))
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[slotKey(&existing[i])] = true
	}

	toCreate := make([]model.TimeSlot, 0, len(parsed))
	for i := range parsed {
		if seen[slotKey(&parsed[i])] {
			continue
		}
		toCreate = append(toCreate, parsed[i])
	}

	if err := s.repo.TimeSlot.BatchCreate(ctx, toCreate); err != nil {
		s.logger.Error("批量创建时间段失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ImportTimeSlotsResponse{
		Created: len(toCreate),
		Skipped: len(parsed) - len(toCreate),
		Slots:   make([]dto.TimeSlotResponse, 0, len(toCreate)),
	}
	for i := range toCreate {
		resp.Slots = append(resp.Slots, *toTimeSlotResponse(&toCreate[i]))
	}

	s.logger.Info("ICS 时间段导入完成",
		zap.String("academic_year_id", academicYearID),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

// ── 内部辅助方法 ──

func (s *timeSlotService) ensureAcademicYear(ctx context.Context, id string) error {
	if _, err := s.repo.AcademicYear.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAcademicYearNotFound
		}
		s.logger.Error("查询学年失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ensureUnique 同一学年同一天不允许重复的起止时间
func (s *timeSlotService) ensureUnique(ctx context.Context, slot *model.TimeSlot) error {
	day := slot.DayOfWeek
	slots, err := s.repo.TimeSlot.List(ctx, slot.AcademicYearID, &day)
	if err != nil {
		return err
	}
	key := slotKey(slot)
	for i := range slots {
		if slots[i].TimeSlotID != slot.TimeSlotID && slotKey(&slots[i]) == key {
			return ErrTimeSlotDuplicate
		}
	}
	return nil
}

func slotKey(slot *model.TimeSlot) string {
	return string(slot.DayOfWeek) + "|" + clock(slot.StartTime) + "|" + clock(slot.EndTime)
}
