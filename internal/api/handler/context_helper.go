package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/response"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/validate"
)

// 通用错误码
const (
	codeInvalidParams  = 10001
	codeValidateFailed = 10002
)

// fieldErrorData 字段级参数错误
type fieldErrorData struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MustGetID 从路径参数中提取并校验 UUID 格式的 ID。
// 校验失败时写入 400 响应，调用方应在 ok=false 时直接 return。
func MustGetID(c *gin.Context, code int, label string) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, code, label+" id is invalid")
		return "", false
	}
	return id, true
}

// respondBindError 绑定失败：字段级校验错误返回 422，其余（如 JSON 格式错误）返回 400
func respondBindError(c *gin.Context, err error) {
	if field, msg, ok := validate.FieldError(err); ok {
		response.UnprocessableEntity(c, codeValidateFailed, msg, fieldErrorData{Field: field, Message: msg})
		return
	}
	response.BadRequest(c, codeInvalidParams, "invalid request parameters")
}
