package dto

// 分页默认值：一个班级一周的课表记录通常不超过 50 条
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// PageQuery 列表分页参数，缺省时取第 1 页、每页 DefaultPageSize 条
type PageQuery struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// Normalize 填充缺省值，返回 (page, pageSize)
func (q *PageQuery) Normalize() (int, int) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q.Page, q.PageSize
}

// Offset 当前页首条记录的偏移量
func (q *PageQuery) Offset() int {
	page, size := q.Normalize()
	return (page - 1) * size
}
