package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/service"
	pkgerrors "github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/errors"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/response"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/validate"
)

// TimetableEntryHandler 课表记录模块 HTTP 处理器
type TimetableEntryHandler struct {
	entrySvc service.TimetableEntryService
}

// NewTimetableEntryHandler 创建 TimetableEntryHandler
func NewTimetableEntryHandler(entrySvc service.TimetableEntryService) *TimetableEntryHandler {
	return &TimetableEntryHandler{entrySvc: entrySvc}
}

// CreateEntries 提交课表记录（冲突校验引擎）
// POST /api/v1/timetable-entries
func (h *TimetableEntryHandler) CreateEntries(c *gin.Context) {
	var req dto.CreateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		field, msg, ok := validate.FieldError(err)
		if !ok {
			response.BadRequest(c, codeInvalidParams, "invalid request body")
			return
		}
		response.Violation(c, 17002, string(service.RuleInvalidInput), msg, &dto.EntryViolationResponse{
			Field:   field,
			Message: msg,
			Rule:    string(service.RuleInvalidInput),
			Input:   &req,
		})
		return
	}

	resp, err := h.entrySvc.Submit(c.Request.Context(), &req)
	if err != nil {
		var v *service.RuleViolation
		if errors.As(err, &v) {
			response.Violation(c, 17002, string(v.Rule), v.Message, service.ToViolationResponse(v, &req))
			return
		}
		h.handleEntryError(c, err)
		return
	}

	response.Created(c, resp)
}

// ImportEntries 从 Excel 批量提交课表记录
// POST /api/v1/timetable-entries/import  (multipart/form-data, field="file")
func (h *TimetableEntryHandler) ImportEntries(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 17010, "please upload an .xlsx file in field \"file\"")
		return
	}
	defer file.Close()

	resp, err := h.entrySvc.Import(c.Request.Context(), file)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	response.OK(c, resp)
}

// ListEntries 获取课表记录列表
// GET /api/v1/timetable-entries
func (h *TimetableEntryHandler) ListEntries(c *gin.Context) {
	var req dto.TimetableEntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.entrySvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	page, size := req.Normalize()
	response.OKPage(c, list, total, page, size)
}

// GetGrid 获取班级课表网格
// GET /api/v1/timetable-entries/grid
func (h *TimetableEntryHandler) GetGrid(c *gin.Context) {
	var req dto.TimetableGridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	grid, err := h.entrySvc.Grid(c.Request.Context(), &req)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	response.OK(c, grid)
}

// GetEntry 获取课表记录详情
// GET /api/v1/timetable-entries/:id
func (h *TimetableEntryHandler) GetEntry(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "timetable entry")
	if !ok {
		return
	}

	entry, err := h.entrySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	response.OK(c, entry)
}

// UpdateEntry 更新课表记录（不重新执行冲突校验）
// PUT /api/v1/timetable-entries/:id
func (h *TimetableEntryHandler) UpdateEntry(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "timetable entry")
	if !ok {
		return
	}

	var req dto.UpdateTimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.entrySvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEntryError(c, err)
		return
	}

	response.OK(c, entry)
}

// DeleteEntry 删除课表记录
// DELETE /api/v1/timetable-entries/:id
func (h *TimetableEntryHandler) DeleteEntry(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "timetable entry")
	if !ok {
		return
	}

	if err := h.entrySvc.Delete(c.Request.Context(), id); err != nil {
		h.handleEntryError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEntryError 统一处理课表记录模块业务错误
func (h *TimetableEntryHandler) handleEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntryNotFound):
		response.NotFound(c, 17001, "timetable entry not found")
	case errors.Is(err, service.ErrEntrySectionBusy):
		response.Conflict(c, 17003, "another submission for this section is in progress, please retry")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 17004, pkgerrors.ErrOptimisticLock.Error())
	case errors.Is(err, service.ErrClassroomNotFound):
		response.BadRequest(c, 17005, "the selected classroom is invalid")
	case errors.Is(err, service.ErrSubjectNotFound):
		response.BadRequest(c, 17006, "the selected subject is invalid")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.BadRequest(c, 17007, "one or more selected teachers are invalid")
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 17008, "section not found")
	case errors.Is(err, service.ErrSemesterNotFound):
		response.NotFound(c, 17009, "semester not found")
	case errors.Is(err, service.ErrImportInvalidFile):
		response.ErrorWithDetails(c, http.StatusBadRequest, 17010, "the uploaded file is not a valid .xlsx workbook", err.Error())
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, 17011, "the workbook has no data rows below the header")
	case errors.Is(err, service.ErrImportBadHeader):
		response.ErrorWithDetails(c, http.StatusBadRequest, 17012, "the workbook header is missing required columns", err.Error())
	case errors.Is(err, service.ErrImportTooManyRows):
		response.ErrorWithDetails(c, http.StatusBadRequest, 17013, "the workbook has too many rows", err.Error())
	default:
		response.InternalError(c)
	}
}
