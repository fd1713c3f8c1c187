package dto

// ── 时间段模块 DTO ──

// CreateTimeSlotRequest 创建时间段请求
type CreateTimeSlotRequest struct {
	AcademicYearID string `json:"academic_year_id" binding:"required,uuid"`
	DayOfWeek      string `json:"day_of_week"      binding:"required,weekday"`
	StartTime      string `json:"start_time"       binding:"required,hhmm"` // "09:00"
	EndTime        string `json:"end_time"         binding:"required,hhmm"` // "10:00"
	IsLunch        bool   `json:"is_lunch"`
}

// UpdateTimeSlotRequest 更新时间段请求
type UpdateTimeSlotRequest struct {
	DayOfWeek *string `json:"day_of_week" binding:"omitempty,weekday"`
	StartTime *string `json:"start_time"  binding:"omitempty,hhmm"`
	EndTime   *string `json:"end_time"    binding:"omitempty,hhmm"`
	IsLunch   *bool   `json:"is_lunch"`
}

// TimeSlotListRequest 时间段列表查询参数
type TimeSlotListRequest struct {
	AcademicYearID string `form:"academic_year_id" binding:"omitempty,uuid"`
	DayOfWeek      string `form:"day_of_week"      binding:"omitempty,weekday"`
}

// ImportTimeSlotsRequest iCalendar 导入表单参数（文件字段为 file）
type ImportTimeSlotsRequest struct {
	AcademicYearID string `form:"academic_year_id" binding:"required,uuid"`
}

// TimeSlotResponse 时间段信息响应
type TimeSlotResponse struct {
	ID             string `json:"id"`
	AcademicYearID string `json:"academic_year_id"`
	DayOfWeek      string `json:"day_of_week"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	IsLunch        bool   `json:"is_lunch"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// ImportTimeSlotsResponse iCalendar 导入结果
type ImportTimeSlotsResponse struct {
	Created int                `json:"created"`
	Skipped int                `json:"skipped"` // 与已有时间段重复而跳过的数量
	Slots   []TimeSlotResponse `json:"slots"`
}
