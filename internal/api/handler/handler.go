package handler

import "github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	AcademicYear   *AcademicYearHandler
	TimetableEntry *TimetableEntryHandler
	TimeSlot       *TimeSlotHandler
	Subject        *SubjectHandler
	Teacher        *TeacherHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		AcademicYear:   NewAcademicYearHandler(svc.AcademicYear),
		TimetableEntry: NewTimetableEntryHandler(svc.TimetableEntry),
		TimeSlot:       NewTimeSlotHandler(svc.TimeSlot),
		Subject:        NewSubjectHandler(svc.Subject),
		Teacher:        NewTeacherHandler(svc.Teacher),
	}
}
