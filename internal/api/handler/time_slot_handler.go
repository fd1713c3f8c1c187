package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/service"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/response"
)

// TimeSlotHandler 时间段模块 HTTP 处理器
type TimeSlotHandler struct {
	timeSlotSvc service.TimeSlotService
}

// NewTimeSlotHandler 创建 TimeSlotHandler
func NewTimeSlotHandler(timeSlotSvc service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{timeSlotSvc: timeSlotSvc}
}

// ListTimeSlots 获取时间段列表
// GET /api/v1/time-slots
func (h *TimeSlotHandler) ListTimeSlots(c *gin.Context) {
	var req dto.TimeSlotListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	slots, err := h.timeSlotSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// GetTimeSlot 获取时间段详情
// GET /api/v1/time-slots/:id
func (h *TimeSlotHandler) GetTimeSlot(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "time slot")
	if !ok {
		return
	}

	slot, err := h.timeSlotSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, slot)
}

// CreateTimeSlot 创建时间段
// POST /api/v1/time-slots
func (h *TimeSlotHandler) CreateTimeSlot(c *gin.Context) {
	var req dto.CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	slot, err := h.timeSlotSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.Created(c, slot)
}

// UpdateTimeSlot 更新时间段
// PUT /api/v1/time-slots/:id
func (h *TimeSlotHandler) UpdateTimeSlot(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "time slot")
	if !ok {
		return
	}

	var req dto.UpdateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	slot, err := h.timeSlotSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, slot)
}

// DeleteTimeSlot 删除时间段
// DELETE /api/v1/time-slots/:id
func (h *TimeSlotHandler) DeleteTimeSlot(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "time slot")
	if !ok {
		return
	}

	if err := h.timeSlotSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportTimeSlots 从 iCalendar 文件导入时间段
// POST /api/v1/time-slots/import  (multipart/form-data, field="file", academic_year_id)
func (h *TimeSlotHandler) ImportTimeSlots(c *gin.Context) {
	var req dto.ImportTimeSlotsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 15006, "please upload an .ics file in field \"file\"")
		return
	}
	defer file.Close()

	resp, err := h.timeSlotSvc.ImportICS(c.Request.Context(), req.AcademicYearID, file)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.Created(c, resp)
}

// handleTimeSlotError 统一处理时间段模块业务错误
func (h *TimeSlotHandler) handleTimeSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeSlotNotFound):
		response.NotFound(c, 15001, "time slot not found")
	case errors.Is(err, service.ErrAcademicYearNotFound):
		response.BadRequest(c, 15002, "the selected academic year is invalid")
	case errors.Is(err, service.ErrTimeSlotInvalidRange):
		response.BadRequest(c, 15003, "end_time must be later than start_time")
	case errors.Is(err, service.ErrTimeSlotDuplicate):
		response.Conflict(c, 15004, "a time slot with the same day and times already exists")
	case errors.Is(err, service.ErrTimeSlotInUse):
		response.Conflict(c, 15005, "time slot is used by timetable entries")
	case errors.Is(err, service.ErrTimeSlotImportEmpty):
		response.BadRequest(c, 15007, "the calendar contains no weekday class events")
	case errors.Is(err, service.ErrICSInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15008, "the uploaded file is not a valid iCalendar file", err.Error())
	default:
		response.InternalError(c)
	}
}
