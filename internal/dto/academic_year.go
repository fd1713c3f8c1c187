package dto

// ── 学年模块 DTO ──

// AcademicYearResponse 学年信息响应
type AcademicYearResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsCurrent bool   `json:"is_current"`
}
