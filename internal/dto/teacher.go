package dto

// ── 教师模块 DTO ──

// CreateTeacherRequest 创建教师请求
type CreateTeacherRequest struct {
	Name  string  `json:"name"  binding:"required,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=200"`
}

// UpdateTeacherRequest 更新教师请求
type UpdateTeacherRequest struct {
	Name  *string `json:"name"  binding:"omitempty,min=2,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=200"`
}

// TeacherListRequest 教师列表查询参数
type TeacherListRequest struct {
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// TeacherEntriesRequest 教师课表查询参数
type TeacherEntriesRequest struct {
	AcademicYearID string `form:"academic_year_id" binding:"omitempty,uuid"`
}

// TeacherResponse 教师信息响应
type TeacherResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
