package service

import (
	"go.uber.org/zap"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/config"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/repository"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	AcademicYear   AcademicYearService
	TimetableEntry TimetableEntryService
	TimeSlot       TimeSlotService
	Subject        SubjectService
	Teacher        TeacherService
}

// NewService 创建 Service 聚合；rdb 为 nil 时班级提交锁降级为空实现
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	locker := NewSectionLocker(rdb, cfg.Timetable.SectionLockTTL, cfg.Timetable.SectionLockWait, logger)

	return &Service{
		AcademicYear:   NewAcademicYearService(repo, logger),
		TimetableEntry: NewTimetableEntryService(repo, locker, cfg.Timetable.ImportMaxRows, logger),
		TimeSlot:       NewTimeSlotService(repo, cfg.Timetable.Location(), logger),
		Subject:        NewSubjectService(repo, logger),
		Teacher:        NewTeacherService(repo, logger),
	}
}
