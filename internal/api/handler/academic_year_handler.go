package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/service"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/response"
)

// AcademicYearHandler 当前学年 HTTP 处理器
type AcademicYearHandler struct {
	yearSvc service.AcademicYearService
}

// NewAcademicYearHandler 创建 AcademicYearHandler
func NewAcademicYearHandler(yearSvc service.AcademicYearService) *AcademicYearHandler {
	return &AcademicYearHandler{yearSvc: yearSvc}
}

// GetCurrent 获取当前学年
// GET /api/v1/academic-years/current
func (h *AcademicYearHandler) GetCurrent(c *gin.Context) {
	year, err := h.yearSvc.GetCurrent(c.Request.Context())
	if err != nil {
		h.handleAcademicYearError(c, err)
		return
	}
	response.OK(c, year)
}

// Activate 设置当前学年
// PUT /api/v1/academic-years/:id/activate
func (h *AcademicYearHandler) Activate(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "academic year")
	if !ok {
		return
	}

	year, err := h.yearSvc.Activate(c.Request.Context(), id)
	if err != nil {
		h.handleAcademicYearError(c, err)
		return
	}
	response.OK(c, year)
}

func (h *AcademicYearHandler) handleAcademicYearError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.NotFound(c, 18001, "academic year not found")
	case errors.Is(err, service.ErrNoCurrentAcademicYear):
		response.NotFound(c, 18002, "no academic year is active")
	default:
		response.InternalError(c)
	}
}
