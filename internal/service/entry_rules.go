package service

import (
	"fmt"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/model"
)

// 课表排课上限
const (
	MaxSubjectPerDay   = 2 // 同一班级同一科目每天最多出现次数
	MaxSubjectPerWeek  = 4 // 同一班级同一科目每学年学期最多出现次数
	MaxSlotsPerRequest = 2 // 单次提交最多时间段数
)

// RuleCode 校验规则编码
type RuleCode string

const (
	// 结构校验
	RuleInvalidInput         RuleCode = "invalid_input"
	RuleReferenceNotFound    RuleCode = "reference_not_found"
	RuleInactiveAcademicYear RuleCode = "inactive_academic_year"
	RuleTimeSlotInvalid      RuleCode = "time_slot_invalid"

	// 业务规则（按执行顺序）
	RuleDailySubjectCap  RuleCode = "daily_subject_cap"
	RuleWeeklySubjectCap RuleCode = "weekly_subject_cap"
	RuleSlotOccupied     RuleCode = "slot_occupied"
	RuleTeacherConflict  RuleCode = "teacher_conflict"
)

// RuleViolation 课表提交被拒绝的原因，定位到单个请求字段
type RuleViolation struct {
	Field      string
	Rule       RuleCode
	Message    string
	Day        model.Weekday
	TimeSlotID string
	SubjectID  string
}

func (v *RuleViolation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ── 结构校验失败 ──

func invalidInput(field, message string) *RuleViolation {
	return &RuleViolation{Field: field, Rule: RuleInvalidInput, Message: message}
}

func referenceNotFound(field, label string) *RuleViolation {
	return &RuleViolation{
		Field:   field,
		Rule:    RuleReferenceNotFound,
		Message: fmt.Sprintf("the selected %s is invalid", label),
	}
}

func inactiveAcademicYear() *RuleViolation {
	return &RuleViolation{
		Field:   "academic_year_id",
		Rule:    RuleInactiveAcademicYear,
		Message: "the selected academic year is not active",
	}
}

func timeSlotInvalid() *RuleViolation {
	return &RuleViolation{
		Field:   "time_slot_ids",
		Rule:    RuleTimeSlotInvalid,
		Message: "time slot invalid",
	}
}

// ── 业务规则失败 ──

func dailySubjectCapExceeded(subjectID string, slot *model.TimeSlot) *RuleViolation {
	return &RuleViolation{
		Field:      "subject_id",
		Rule:       RuleDailySubjectCap,
		Message:    fmt.Sprintf("subject already appears %d times on %s", MaxSubjectPerDay, slot.DayOfWeek),
		Day:        slot.DayOfWeek,
		TimeSlotID: slot.TimeSlotID,
		SubjectID:  subjectID,
	}
}

func weeklySubjectCapExceeded(subjectID string, slot *model.TimeSlot) *RuleViolation {
	return &RuleViolation{
		Field:      "subject_id",
		Rule:       RuleWeeklySubjectCap,
		Message:    fmt.Sprintf("subject already appears %d times this week for this section", MaxSubjectPerWeek),
		Day:        slot.DayOfWeek,
		TimeSlotID: slot.TimeSlotID,
		SubjectID:  subjectID,
	}
}

func slotOccupied(subjectID, timeSlotID string, day model.Weekday) *RuleViolation {
	return &RuleViolation{
		Field:      "time_slot_ids",
		Rule:       RuleSlotOccupied,
		Message:    fmt.Sprintf("time slot %s is already assigned for this section", timeSlotID),
		Day:        day,
		TimeSlotID: timeSlotID,
		SubjectID:  subjectID,
	}
}

func teacherConflict(subjectID string, slot *model.TimeSlot) *RuleViolation {
	return &RuleViolation{
		Field:      "teacher_ids",
		Rule:       RuleTeacherConflict,
		Message:    "one or more selected teachers are already assigned at this time",
		Day:        slot.DayOfWeek,
		TimeSlotID: slot.TimeSlotID,
		SubjectID:  subjectID,
	}
}

// cstExceptionApplies CST 类科目且非一年级时，教师时间冲突不计
func cstExceptionApplies(subject *model.Subject, level *model.Level) bool {
	return subject.IsCSTCoded() && !level.IsFirstYear()
}
