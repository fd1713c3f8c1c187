package service

import (
	"time"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

const timestampLayout = "2006-01-02T15:04:05Z07:00"

func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// clock 将数据库 TIME 列（"09:00:00"）规整为 "09:00"
func clock(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// ToViolationResponse 将校验失败转换为响应体，并回显原始请求
func ToViolationResponse(v *RuleViolation, req *dto.CreateTimetableEntryRequest) *dto.EntryViolationResponse {
	return &dto.EntryViolationResponse{
		Field:      v.Field,
		Message:    v.Message,
		Rule:       string(v.Rule),
		Day:        string(v.Day),
		TimeSlotID: v.TimeSlotID,
		SubjectID:  v.SubjectID,
		Input:      req,
	}
}

func toEntryResponse(e *model.TimetableEntry) *dto.TimetableEntryResponse {
	resp := &dto.TimetableEntryResponse{
		ID:             e.TimetableEntryID,
		AcademicYearID: e.AcademicYearID,
		SemesterID:     e.SemesterID,
		ProgramID:      e.ProgramID,
		LevelID:        e.LevelID,
		SectionID:      e.SectionID,
		ClassroomID:    e.ClassroomID,
		SubjectID:      e.SubjectID,
		TimeSlotID:     e.TimeSlotID,
		DayOfWeek:      string(e.DayOfWeek),
		StartTime:      clock(e.StartTime),
		EndTime:        clock(e.EndTime),
		Status:         string(e.Status),
		Version:        e.Version,
		TeacherIDs:     e.TeacherIDs(),
		CreatedAt:      formatTimestamp(e.CreatedAt),
		UpdatedAt:      formatTimestamp(e.UpdatedAt),
	}
	if e.Classroom != nil {
		resp.Classroom = &dto.BriefItem{ID: e.Classroom.ClassroomID, Name: e.Classroom.Name}
	}
	if e.Subject != nil {
		resp.Subject = &dto.SubjectBrief{ID: e.Subject.SubjectID, Code: e.Subject.Code, Name: e.Subject.Name}
	}
	for _, t := range e.Teachers {
		// 新建记录只携带教师 ID，未加载姓名时不输出简要信息
		if t.Name == "" {
			continue
		}
		resp.Teachers = append(resp.Teachers, dto.BriefItem{ID: t.TeacherID, Name: t.Name})
	}
	return resp
}

func toTimeSlotResponse(slot *model.TimeSlot) *dto.TimeSlotResponse {
	return &dto.TimeSlotResponse{
		ID:             slot.TimeSlotID,
		AcademicYearID: slot.AcademicYearID,
		DayOfWeek:      string(slot.DayOfWeek),
		StartTime:      clock(slot.StartTime),
		EndTime:        clock(slot.EndTime),
		IsLunch:        slot.IsLunch,
		CreatedAt:      formatTimestamp(slot.CreatedAt),
		UpdatedAt:      formatTimestamp(slot.UpdatedAt),
	}
}

func toSubjectResponse(subject *model.Subject) *dto.SubjectResponse {
	return &dto.SubjectResponse{
		ID:         subject.SubjectID,
		Code:       subject.Code,
		Name:       subject.Name,
		IsCSTCoded: subject.IsCSTCoded(),
		CreatedAt:  formatTimestamp(subject.CreatedAt),
		UpdatedAt:  formatTimestamp(subject.UpdatedAt),
	}
}

func toTeacherResponse(teacher *model.Teacher) *dto.TeacherResponse {
	return &dto.TeacherResponse{
		ID:        teacher.TeacherID,
		Name:      teacher.Name,
		Email:     teacher.Email,
		CreatedAt: formatTimestamp(teacher.CreatedAt),
		UpdatedAt: formatTimestamp(teacher.UpdatedAt),
	}
}

func toAcademicYearResponse(year *model.AcademicYear, currentID string) *dto.AcademicYearResponse {
	return &dto.AcademicYearResponse{
		ID:        year.AcademicYearID,
		Name:      year.Name,
		StartDate: year.StartDate.Format("2006-01-02"),
		EndDate:   year.EndDate.Format("2006-01-02"),
		IsCurrent: year.AcademicYearID == currentID,
	}
}
