package dto

// ── 课表记录模块 DTO ──

// CreateTimetableEntryRequest 创建课表记录请求（冲突校验引擎入参）
type CreateTimetableEntryRequest struct {
	AcademicYearID string   `json:"academic_year_id" binding:"required,uuid"`
	SemesterID     string   `json:"semester_id"      binding:"required,uuid"`
	ProgramID      string   `json:"program_id"       binding:"required,uuid"`
	LevelID        string   `json:"level_id"         binding:"required,uuid"`
	SectionID      string   `json:"section_id"       binding:"required,uuid"`
	ClassroomID    string   `json:"classroom_id"     binding:"required,uuid"`
	SubjectID      string   `json:"subject_id"       binding:"required,uuid"`
	TeacherIDs     []string `json:"teacher_ids"      binding:"required,min=1,dive,required,uuid"`
	TimeSlotIDs    []string `json:"time_slot_ids"    binding:"required,min=1,max=2,dive,required,uuid"`
}

// UpdateTimetableEntryRequest 更新课表记录请求（不重新执行冲突校验）
type UpdateTimetableEntryRequest struct {
	Version     int      `json:"version"      binding:"required,min=1"`
	ClassroomID *string  `json:"classroom_id" binding:"omitempty,uuid"`
	SubjectID   *string  `json:"subject_id"   binding:"omitempty,uuid"`
	Status      *string  `json:"status"       binding:"omitempty,entry_status"`
	TeacherIDs  []string `json:"teacher_ids"  binding:"omitempty,min=1,dive,required,uuid"` // 提供时整体替换
}

// TimetableEntryListRequest 课表记录列表查询参数
type TimetableEntryListRequest struct {
	PageQuery
	AcademicYearID string `form:"academic_year_id" binding:"omitempty,uuid"`
	SemesterID     string `form:"semester_id"      binding:"omitempty,uuid"`
	SectionID      string `form:"section_id"       binding:"omitempty,uuid"`
	TeacherID      string `form:"teacher_id"       binding:"omitempty,uuid"`
	DayOfWeek      string `form:"day_of_week"      binding:"omitempty,weekday"`
}

// TimetableGridRequest 班级课表网格查询参数
type TimetableGridRequest struct {
	SectionID  string `form:"section_id"  binding:"required,uuid"`
	SemesterID string `form:"semester_id" binding:"required,uuid"`
}

// TimetableEntryResponse 课表记录响应
type TimetableEntryResponse struct {
	ID             string        `json:"id"`
	AcademicYearID string        `json:"academic_year_id"`
	SemesterID     string        `json:"semester_id"`
	ProgramID      string        `json:"program_id"`
	LevelID        string        `json:"level_id"`
	SectionID      string        `json:"section_id"`
	ClassroomID    string        `json:"classroom_id"`
	Classroom      *BriefItem    `json:"classroom,omitempty"`
	SubjectID      string        `json:"subject_id"`
	Subject        *SubjectBrief `json:"subject,omitempty"`
	TimeSlotID     string        `json:"time_slot_id"`
	DayOfWeek      string        `json:"day_of_week"`
	StartTime      string        `json:"start_time"`
	EndTime        string        `json:"end_time"`
	Status         string        `json:"status"`
	Version        int           `json:"version"`
	TeacherIDs     []string      `json:"teacher_ids"`
	Teachers       []BriefItem   `json:"teachers,omitempty"`
	CreatedAt      string        `json:"created_at"`
	UpdatedAt      string        `json:"updated_at"`
}

// BriefItem 关联实体简要信息
type BriefItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubjectBrief 科目简要信息（嵌入课表记录响应）
type SubjectBrief struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateTimetableEntriesResponse 创建成功响应：每个时间段一条记录
type CreateTimetableEntriesResponse struct {
	Entries []TimetableEntryResponse `json:"entries"`
}

// EntryViolationResponse 冲突校验失败响应，回显原始请求以便重新编辑
type EntryViolationResponse struct {
	Field      string                       `json:"field"`
	Message    string                       `json:"message"`
	Rule       string                       `json:"rule"`
	Day        string                       `json:"day,omitempty"`
	TimeSlotID string                       `json:"time_slot_id,omitempty"`
	SubjectID  string                       `json:"subject_id,omitempty"`
	Input      *CreateTimetableEntryRequest `json:"input,omitempty"`
}

// ── 课表网格 ──

// TimetableGridResponse 班级课表网格（星期 × 时间段）
type TimetableGridResponse struct {
	SectionID  string    `json:"section_id"`
	SemesterID string    `json:"semester_id"`
	Days       []GridDay `json:"days"`
}

// GridDay 网格中的一天
type GridDay struct {
	Day   string     `json:"day"`
	Cells []GridCell `json:"cells"`
}

// GridCell 网格单元：一个时间段及其已排课程（可能为空）
type GridCell struct {
	TimeSlotID string                  `json:"time_slot_id"`
	StartTime  string                  `json:"start_time"`
	EndTime    string                  `json:"end_time"`
	IsLunch    bool                    `json:"is_lunch"`
	Entry      *TimetableEntryResponse `json:"entry,omitempty"`
}

// ── Excel 批量导入 ──

// ImportTimetableEntriesResponse 批量导入结果
type ImportTimetableEntriesResponse struct {
	Total    int               `json:"total"`
	Created  int               `json:"created"`
	Rejected int               `json:"rejected"`
	Rows     []ImportRowResult `json:"rows"`
}

// ImportRowResult 单行导入结果
type ImportRowResult struct {
	Row       int                     `json:"row"` // Excel 行号（从 1 开始，含表头）
	Status    string                  `json:"status"`
	EntryIDs  []string                `json:"entry_ids,omitempty"`
	Violation *EntryViolationResponse `json:"violation,omitempty"`
}

// 导入行状态
const (
	ImportRowCreated  = "created"
	ImportRowRejected = "rejected"
)
