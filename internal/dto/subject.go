package dto

// ── 科目模块 DTO ──

// CreateSubjectRequest 创建科目请求
type CreateSubjectRequest struct {
	Code string `json:"code" binding:"required,min=2,max=20"`
	Name string `json:"name" binding:"required,min=2,max=200"`
}

// UpdateSubjectRequest 更新科目请求
type UpdateSubjectRequest struct {
	Code *string `json:"code" binding:"omitempty,min=2,max=20"`
	Name *string `json:"name" binding:"omitempty,min=2,max=200"`
}

// SubjectListRequest 科目列表查询参数
type SubjectListRequest struct {
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// SubjectResponse 科目信息响应
type SubjectResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	IsCSTCoded bool   `json:"is_cst_coded"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}
