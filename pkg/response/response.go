package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RuleKey gin 上下文中记录被拒绝规则编码的键，请求日志据此输出 rule 字段
const RuleKey = "violation_rule"

// Response 统一响应结构
// code 为 0 表示成功；非 0 为业务错误码，按模块分段
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

func write(c *gin.Context, httpStatus, code int, message string, data interface{}) {
	c.JSON(httpStatus, Response{Code: code, Message: message, Data: data})
}

// ── 成功响应 ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, 0, "success", data)
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, 0, "success", data)
}

// OKPage 200 分页成功
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	write(c, http.StatusOK, 0, "success", PageData{
		List: list,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: pageCount(total, pageSize),
		},
	})
}

func pageCount(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	write(c, httpStatus, code, message, nil)
}

// ErrorWithDetails 带详情的错误响应（文件解析失败时附带底层原因）
func ErrorWithDetails(c *gin.Context, httpStatus int, code int, message, details string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Violation 422 课表规则拒绝；rule 同时写入上下文供请求日志使用
func Violation(c *gin.Context, code int, rule, message string, data interface{}) {
	c.Set(RuleKey, rule)
	write(c, http.StatusUnprocessableEntity, code, message, data)
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409
func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// UnprocessableEntity 422 字段级校验失败，data 中携带出错字段以便回填表单
func UnprocessableEntity(c *gin.Context, code int, message string, data interface{}) {
	write(c, http.StatusUnprocessableEntity, code, message, data)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, 50000, "something went wrong, please try again later")
}
