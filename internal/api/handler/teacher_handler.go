package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/service"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/response"
)

// TeacherHandler 教师模块 HTTP 处理器
type TeacherHandler struct {
	teacherSvc service.TeacherService
}

// NewTeacherHandler 创建 TeacherHandler
func NewTeacherHandler(teacherSvc service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherSvc: teacherSvc}
}

// ListTeachers GET /api/v1/teachers
func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	var req dto.TeacherListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	teachers, err := h.teacherSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": teachers})
}

// GetTeacher GET /api/v1/teachers/:id
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "teacher")
	if !ok {
		return
	}

	teacher, err := h.teacherSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.OK(c, teacher)
}

// CreateTeacher POST /api/v1/teachers
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	teacher, err := h.teacherSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.Created(c, teacher)
}

// UpdateTeacher PUT /api/v1/teachers/:id
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "teacher")
	if !ok {
		return
	}

	var req dto.UpdateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	teacher, err := h.teacherSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.OK(c, teacher)
}

// DeleteTeacher DELETE /api/v1/teachers/:id
func (h *TeacherHandler) DeleteTeacher(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "teacher")
	if !ok {
		return
	}

	if err := h.teacherSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListTeacherEntries 教师每周已排课程
// GET /api/v1/teachers/:id/entries
func (h *TeacherHandler) ListTeacherEntries(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "teacher")
	if !ok {
		return
	}

	var req dto.TeacherEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entries, err := h.teacherSvc.ListEntries(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTeacherError(c, err)
		return
	}
	response.OK(c, gin.H{"list": entries})
}

func (h *TeacherHandler) handleTeacherError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 20001, "teacher not found")
	case errors.Is(err, service.ErrTeacherInUse):
		response.Conflict(c, 20002, "teacher is assigned to timetable entries")
	default:
		response.InternalError(c)
	}
}
