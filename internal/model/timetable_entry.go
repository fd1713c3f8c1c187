package model

import "time"

// TimetableEntry 课表记录表（timetable_entries）
// day_of_week / start_time / end_time 为创建时从时间段复制的冗余字段
type TimetableEntry struct {
	TimetableEntryID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timetable_entry_id"`
	AcademicYearID   string      `gorm:"type:uuid;not null"                             json:"academic_year_id"`
	SemesterID       string      `gorm:"type:uuid;not null"                             json:"semester_id"`
	ProgramID        string      `gorm:"type:uuid;not null"                             json:"program_id"`
	LevelID          string      `gorm:"type:uuid;not null"                             json:"level_id"`
	SectionID        string      `gorm:"type:uuid;not null"                             json:"section_id"`
	ClassroomID      string      `gorm:"type:uuid;not null"                             json:"classroom_id"`
	SubjectID        string      `gorm:"type:uuid;not null"                             json:"subject_id"`
	TimeSlotID       string      `gorm:"type:uuid;not null"                             json:"time_slot_id"`
	DayOfWeek        Weekday     `gorm:"type:varchar(10);not null"                      json:"day_of_week"`
	StartTime        string      `gorm:"type:time;not null"                             json:"start_time"`
	EndTime          string      `gorm:"type:time;not null"                             json:"end_time"`
	Status           EntryStatus `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	VersionedModel

	// 关联
	Subject   *Subject   `gorm:"foreignKey:SubjectID;references:SubjectID"     json:"subject,omitempty"`
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
	Teachers  []Teacher  `gorm:"many2many:timetable_entry_teachers;foreignKey:TimetableEntryID;joinForeignKey:TimetableEntryID;references:TeacherID;joinReferences:TeacherID" json:"teachers,omitempty"`
}

// TableName 指定表名
func (TimetableEntry) TableName() string { return "timetable_entries" }

// TeacherIDs 返回已加载的教师 ID 列表
func (e *TimetableEntry) TeacherIDs() []string {
	ids := make([]string, 0, len(e.Teachers))
	for _, t := range e.Teachers {
		ids = append(ids, t.TeacherID)
	}
	return ids
}

// TimetableEntryTeacher 课表-教师关联表（timetable_entry_teachers）
type TimetableEntryTeacher struct {
	TimetableEntryID string    `gorm:"type:uuid;primaryKey"               json:"timetable_entry_id"`
	TeacherID        string    `gorm:"type:uuid;primaryKey"               json:"teacher_id"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (TimetableEntryTeacher) TableName() string { return "timetable_entry_teachers" }
