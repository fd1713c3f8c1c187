package service

import (
	"context"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/repository"
	pkgerrors "github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/errors"
	applogger "github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/logger"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/metrics"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/validate"
)

// ── 课表记录模块业务错误 ──

var (
	ErrEntryNotFound     = errors.New("课表记录不存在")
	ErrEntrySectionBusy  = errors.New("该班级正在提交课表，请稍后重试")
	ErrClassroomNotFound = errors.New("教室不存在")
	ErrSectionNotFound   = errors.New("班级不存在")
	ErrSemesterNotFound  = errors.New("学期不存在")
)

// TimetableEntryService 课表记录业务接口
type TimetableEntryService interface {
	// Submit 冲突校验引擎：校验通过后每个时间段创建一条课表记录，整体原子提交。
	// 校验失败返回 *RuleViolation。
	Submit(ctx context.Context, req *dto.CreateTimetableEntryRequest) (*dto.CreateTimetableEntriesResponse, error)
	// Import 解析 Excel 并逐行提交，单行被拒绝不影响其他行
	Import(ctx context.Context, reader io.Reader) (*dto.ImportTimetableEntriesResponse, error)
	List(ctx context.Context, req *dto.TimetableEntryListRequest) ([]dto.TimetableEntryResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.TimetableEntryResponse, error)
	Grid(ctx context.Context, req *dto.TimetableGridRequest) (*dto.TimetableGridResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimetableEntryRequest) (*dto.TimetableEntryResponse, error)
	Delete(ctx context.Context, id string) error
}

type timetableEntryService struct {
	repo          *repository.Repository
	locker        SectionLocker
	validate      *validator.Validate
	importMaxRows int
	logger        *zap.Logger
}

// NewTimetableEntryService 创建 TimetableEntryService 实例
func NewTimetableEntryService(repo *repository.Repository, locker SectionLocker, importMaxRows int, logger *zap.Logger) TimetableEntryService {
	return &timetableEntryService{
		repo:          repo,
		locker:        locker,
		validate:      validate.New(),
		importMaxRows: importMaxRows,
		logger:        logger,
	}
}

// ────────────────────── Submit ──────────────────────

// submission 结构校验通过后的提交上下文
type submission struct {
	req        *dto.CreateTimetableEntryRequest
	level      *model.Level
	subject    *model.Subject
	teacherIDs []string         // 去重后
	slots      []model.TimeSlot // 调用方顺序
}

func (s *timetableEntryService) Submit(ctx context.Context, req *dto.CreateTimetableEntryRequest) (*dto.CreateTimetableEntriesResponse, error) {
	entries, err := s.submit(ctx, req)
	s.observe(err, len(entries))
	if err != nil {
		return nil, err
	}

	resp := &dto.CreateTimetableEntriesResponse{Entries: make([]dto.TimetableEntryResponse, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, *toEntryResponse(&entries[i]))
	}
	return resp, nil
}

func (s *timetableEntryService) submit(ctx context.Context, req *dto.CreateTimetableEntryRequest) ([]model.TimetableEntry, error) {
	sub, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Lock(ctx, req.SectionID)
	if err != nil {
		return nil, err
	}
	defer release()

	var created []model.TimetableEntry
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		staged := make([]model.TimetableEntry, 0, len(sub.slots))
		for i := range sub.slots {
			if err := s.checkSlot(ctx, tx, sub, &sub.slots[i], staged); err != nil {
				return err
			}
			staged = append(staged, newEntry(sub, &sub.slots[i]))
		}

		for i := range staged {
			if err := tx.TimetableEntry.CreateWithTeachers(ctx, &staged[i], sub.teacherIDs); err != nil {
				// 并发提交穿过锁时由唯一索引兜底
				if pkgerrors.IsUniqueViolation(err, repository.OccupancyConstraint) {
					return slotOccupied(req.SubjectID, staged[i].TimeSlotID, staged[i].DayOfWeek)
				}
				return err
			}
		}
		created = staged
		return nil
	})
	if err != nil {
		var v *RuleViolation
		if !errors.As(err, &v) {
			applogger.FromContext(ctx, s.logger).Error("提交课表记录失败", zap.String("section_id", req.SectionID), zap.Error(err))
		}
		return nil, err
	}

	applogger.FromContext(ctx, s.logger).Info("课表记录创建成功",
		zap.String("section_id", req.SectionID),
		zap.String("subject_id", req.SubjectID),
		zap.Int("entries", len(created)),
	)
	return created, nil
}

// resolve 结构校验：按固定顺序检查引用存在性与学年状态，不产生副作用
func (s *timetableEntryService) resolve(ctx context.Context, req *dto.CreateTimetableEntryRequest) (*submission, error) {
	if len(req.TeacherIDs) == 0 {
		return nil, invalidInput("teacher_ids", "teacher_ids must contain at least 1 item(s)")
	}
	if n := len(req.TimeSlotIDs); n == 0 || n > MaxSlotsPerRequest {
		return nil, invalidInput("time_slot_ids", "time_slot_ids must contain 1 or 2 items")
	}

	// 学年：存在且为当前学年
	if _, err := lookup(ctx, s.repo.AcademicYear.GetByID, req.AcademicYearID, "academic_year_id", "academic year"); err != nil {
		return nil, err
	}
	current, err := s.repo.AcademicYear.GetCurrent(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if current == nil || current.AcademicYearID != req.AcademicYearID {
		return nil, inactiveAcademicYear()
	}

	if _, err := lookup(ctx, s.repo.Reference.GetSemester, req.SemesterID, "semester_id", "semester"); err != nil {
		return nil, err
	}
	if _, err := lookup(ctx, s.repo.Reference.GetProgram, req.ProgramID, "program_id", "program"); err != nil {
		return nil, err
	}
	level, err := lookup(ctx, s.repo.Reference.GetLevel, req.LevelID, "level_id", "level")
	if err != nil {
		return nil, err
	}
	if _, err := lookup(ctx, s.repo.Reference.GetSection, req.SectionID, "section_id", "section"); err != nil {
		return nil, err
	}
	if _, err := lookup(ctx, s.repo.Reference.GetClassroom, req.ClassroomID, "classroom_id", "classroom"); err != nil {
		return nil, err
	}
	subject, err := lookup(ctx, s.repo.Subject.GetByID, req.SubjectID, "subject_id", "subject")
	if err != nil {
		return nil, err
	}

	// 教师：重复 ID 合并后逐一存在
	teacherIDs := dedupe(req.TeacherIDs)
	teachers, err := s.repo.Teacher.ListByIDs(ctx, teacherIDs)
	if err != nil {
		return nil, err
	}
	if len(teachers) != len(teacherIDs) {
		return nil, &RuleViolation{
			Field:   "teacher_ids",
			Rule:    RuleReferenceNotFound,
			Message: "one or more selected teachers are invalid",
		}
	}

	// 时间段：解析出的不同时间段数必须等于请求数量
	found, err := s.repo.TimeSlot.ListByIDs(ctx, req.TimeSlotIDs)
	if err != nil {
		return nil, err
	}
	if len(found) != len(req.TimeSlotIDs) {
		return nil, timeSlotInvalid()
	}
	byID := make(map[string]model.TimeSlot, len(found))
	for _, slot := range found {
		byID[slot.TimeSlotID] = slot
	}
	slots := make([]model.TimeSlot, 0, len(req.TimeSlotIDs))
	for _, id := range req.TimeSlotIDs {
		slot, ok := byID[id]
		if !ok {
			return nil, timeSlotInvalid()
		}
		slots = append(slots, slot)
	}

	return &submission{
		req:        req,
		level:      level,
		subject:    subject,
		teacherIDs: teacherIDs,
		slots:      slots,
	}, nil
}

// checkSlot 按顺序执行四条规则；计数基于已持久化记录加上本次已暂存的记录
func (s *timetableEntryService) checkSlot(ctx context.Context, tx *repository.Repository, sub *submission, slot *model.TimeSlot, staged []model.TimetableEntry) error {
	req := sub.req

	// 1. 每日上限
	daily, err := tx.TimetableEntry.CountBySectionSubjectDay(ctx, req.SectionID, req.SubjectID, slot.DayOfWeek)
	if err != nil {
		return err
	}
	for i := range staged {
		if staged[i].DayOfWeek == slot.DayOfWeek {
			daily++
		}
	}
	if daily >= MaxSubjectPerDay {
		return dailySubjectCapExceeded(req.SubjectID, slot)
	}

	// 2. 每周上限
	weekly, err := tx.TimetableEntry.CountBySectionSubjectTerm(ctx, req.SectionID, req.SubjectID, req.AcademicYearID, req.SemesterID)
	if err != nil {
		return err
	}
	if weekly+int64(len(staged)) >= MaxSubjectPerWeek {
		return weeklySubjectCapExceeded(req.SubjectID, slot)
	}

	// 3. 时间段占用
	occupied, err := tx.TimetableEntry.ExistsBySectionSlotDay(ctx, req.SectionID, slot.TimeSlotID, slot.DayOfWeek)
	if err != nil {
		return err
	}
	for i := range staged {
		if staged[i].TimeSlotID == slot.TimeSlotID && staged[i].DayOfWeek == slot.DayOfWeek {
			occupied = true
		}
	}
	if occupied {
		return slotOccupied(req.SubjectID, slot.TimeSlotID, slot.DayOfWeek)
	}

	// 4. 教师冲突
	booked, err := tx.TimetableEntry.ListBookedTeachers(ctx, slot.DayOfWeek, slot.TimeSlotID, sub.teacherIDs)
	if err != nil {
		return err
	}
	if len(booked) > 0 {
		if !cstExceptionApplies(sub.subject, sub.level) {
			return teacherConflict(req.SubjectID, slot)
		}
		// TODO: CST 例外目前不限制同一教师的并行课程数，待教务确认政策后补充上限
		metrics.CSTExceptionsApplied.Inc()
		applogger.FromContext(ctx, s.logger).Warn("CST 例外放行教师时间冲突",
			zap.String("subject_code", sub.subject.Code),
			zap.String("level", string(sub.level.Name)),
			zap.String("day", string(slot.DayOfWeek)),
			zap.String("time_slot_id", slot.TimeSlotID),
			zap.Strings("teacher_ids", booked),
		)
	}
	return nil
}

func newEntry(sub *submission, slot *model.TimeSlot) model.TimetableEntry {
	req := sub.req
	teachers := make([]model.Teacher, 0, len(sub.teacherIDs))
	for _, id := range sub.teacherIDs {
		teachers = append(teachers, model.Teacher{TeacherID: id})
	}
	return model.TimetableEntry{
		AcademicYearID: req.AcademicYearID,
		SemesterID:     req.SemesterID,
		ProgramID:      req.ProgramID,
		LevelID:        req.LevelID,
		SectionID:      req.SectionID,
		ClassroomID:    req.ClassroomID,
		SubjectID:      req.SubjectID,
		TimeSlotID:     slot.TimeSlotID,
		DayOfWeek:      slot.DayOfWeek,
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		Status:         model.EntryActive,
		Teachers:       teachers,
	}
}

// observe 记录提交结果指标
func (s *timetableEntryService) observe(err error, created int) {
	var v *RuleViolation
	switch {
	case err == nil:
		metrics.EntrySubmissions.WithLabelValues(metrics.OutcomeCreated).Inc()
		metrics.EntriesCreated.Add(float64(created))
	case errors.As(err, &v):
		metrics.EntrySubmissions.WithLabelValues(metrics.OutcomeRejected).Inc()
		metrics.EntryRuleViolations.WithLabelValues(string(v.Rule)).Inc()
	case errors.Is(err, ErrEntrySectionBusy):
		metrics.EntrySubmissions.WithLabelValues(metrics.OutcomeBusy).Inc()
	default:
		metrics.EntrySubmissions.WithLabelValues(metrics.OutcomeError).Inc()
	}
}

// lookup 按 ID 查询引用数据，不存在时转换为字段级校验失败
func lookup[T any](ctx context.Context, get func(context.Context, string) (*T, error), id, field, label string) (*T, error) {
	v, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referenceNotFound(field, label)
		}
		return nil, err
	}
	return v, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ────────────────────── List ──────────────────────

func (s *timetableEntryService) List(ctx context.Context, req *dto.TimetableEntryListRequest) ([]dto.TimetableEntryResponse, int64, error) {
	filter := repository.EntryFilter{
		AcademicYearID: req.AcademicYearID,
		SemesterID:     req.SemesterID,
		SectionID:      req.SectionID,
		TeacherID:      req.TeacherID,
		DayOfWeek:      model.Weekday(req.DayOfWeek),
	}
	offset := req.Offset()
	entries, total, err := s.repo.TimetableEntry.List(ctx, filter, offset, req.PageSize)
	if err != nil {
		s.logger.Error("列出课表记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TimetableEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toEntryResponse(&entries[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timetableEntryService) GetByID(ctx context.Context, id string) (*dto.TimetableEntryResponse, error) {
	entry, err := s.repo.TimetableEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("查询课表记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// ────────────────────── Grid ──────────────────────

func (s *timetableEntryService) Grid(ctx context.Context, req *dto.TimetableGridRequest) (*dto.TimetableGridResponse, error) {
	if _, err := s.repo.Reference.GetSection(ctx, req.SectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	semester, err := s.repo.Reference.GetSemester(ctx, req.SemesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}

	slots, err := s.repo.TimeSlot.List(ctx, semester.AcademicYearID, nil)
	if err != nil {
		s.logger.Error("加载时间段失败", zap.Error(err))
		return nil, err
	}
	entries, err := s.repo.TimetableEntry.ListBySectionAndSemester(ctx, req.SectionID, req.SemesterID)
	if err != nil {
		s.logger.Error("加载班级课表失败", zap.String("section_id", req.SectionID), zap.Error(err))
		return nil, err
	}

	return buildGrid(req.SectionID, req.SemesterID, slots, entries), nil
}

// buildGrid 组装星期 × 时间段网格；时间段已被删除的记录按其冗余时间补一格
func buildGrid(sectionID, semesterID string, slots []model.TimeSlot, entries []model.TimetableEntry) *dto.TimetableGridResponse {
	type cellKey struct {
		day    model.Weekday
		slotID string
	}
	byCell := make(map[cellKey]*model.TimetableEntry, len(entries))
	for i := range entries {
		byCell[cellKey{entries[i].DayOfWeek, entries[i].TimeSlotID}] = &entries[i]
	}

	grid := &dto.TimetableGridResponse{SectionID: sectionID, SemesterID: semesterID}
	for _, day := range model.Weekdays {
		gd := dto.GridDay{Day: string(day), Cells: []dto.GridCell{}}
		for i := range slots {
			if slots[i].DayOfWeek != day {
				continue
			}
			cell := dto.GridCell{
				TimeSlotID: slots[i].TimeSlotID,
				StartTime:  clock(slots[i].StartTime),
				EndTime:    clock(slots[i].EndTime),
				IsLunch:    slots[i].IsLunch,
			}
			key := cellKey{day, slots[i].TimeSlotID}
			if e, ok := byCell[key]; ok {
				cell.Entry = toEntryResponse(e)
				delete(byCell, key)
			}
			gd.Cells = append(gd.Cells, cell)
		}
		for i := range entries {
			key := cellKey{entries[i].DayOfWeek, entries[i].TimeSlotID}
			if entries[i].DayOfWeek != day {
				continue
			}
			if _, orphan := byCell[key]; !orphan {
				continue
			}
			gd.Cells = append(gd.Cells, dto.GridCell{
				TimeSlotID: entries[i].TimeSlotID,
				StartTime:  clock(entries[i].StartTime),
				EndTime:    clock(entries[i].EndTime),
				Entry:      toEntryResponse(&entries[i]),
			})
		}
		grid.Days = append(grid.Days, gd)
	}
	return grid
}

// ────────────────────── Update ──────────────────────

// Update 直接修改课表记录，不重新执行冲突校验
func (s *timetableEntryService) Update(ctx context.Context, id string, req *dto.UpdateTimetableEntryRequest) (*dto.TimetableEntryResponse, error) {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		entry, err := tx.TimetableEntry.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}
		entry.Version = req.Version

		if req.ClassroomID != nil {
			if _, err := tx.Reference.GetClassroom(ctx, *req.ClassroomID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrClassroomNotFound
				}
				return err
			}
			entry.ClassroomID = *req.ClassroomID
		}
		if req.SubjectID != nil {
			if _, err := tx.Subject.GetByID(ctx, *req.SubjectID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSubjectNotFound
				}
				return err
			}
			entry.SubjectID = *req.SubjectID
		}
		if req.Status != nil {
			entry.Status = model.EntryStatus(*req.Status)
		}

		if err := tx.TimetableEntry.Update(ctx, entry); err != nil {
			return err
		}

		if req.TeacherIDs != nil {
			teacherIDs := dedupe(req.TeacherIDs)
			teachers, err := tx.Teacher.ListByIDs(ctx, teacherIDs)
			if err != nil {
				return err
			}
			if len(teachers) != len(teacherIDs) {
				return ErrTeacherNotFound
			}
			if err := tx.TimetableEntry.ReplaceTeachers(ctx, id, teacherIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrEntryNotFound) && !errors.Is(err, ErrClassroomNotFound) &&
			!errors.Is(err, ErrSubjectNotFound) && !errors.Is(err, ErrTeacherNotFound) &&
			!errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新课表记录失败", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

// Delete 硬删除课表记录及其教师关联
func (s *timetableEntryService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.TimetableEntry.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	if err := s.repo.TimetableEntry.Delete(ctx, id); err != nil {
		s.logger.Error("删除课表记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
