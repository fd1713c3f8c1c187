package model

// TimeSlot 时间段表（time_slots）
type TimeSlot struct {
	TimeSlotID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_slot_id"`
	AcademicYearID string  `gorm:"type:uuid;not null"                             json:"academic_year_id"`
	DayOfWeek      Weekday `gorm:"type:varchar(10);not null"                      json:"day_of_week"`
	StartTime      string  `gorm:"type:time;not null"                             json:"start_time"` // "09:00"
	EndTime        string  `gorm:"type:time;not null"                             json:"end_time"`
	IsLunch        bool    `gorm:"not null;default:false"                         json:"is_lunch"`
	SoftDeleteModel
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }
