package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/dto"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/internal/service"
	"github.com/nanhsuwai/uni-timetable-management-system-sub000/pkg/response"
)

// SubjectHandler 科目模块 HTTP 处理器
type SubjectHandler struct {
	subjectSvc service.SubjectService
}

// NewSubjectHandler 创建 SubjectHandler
func NewSubjectHandler(subjectSvc service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc}
}

// ListSubjects GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	var req dto.SubjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	subjects, err := h.subjectSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": subjects})
}

// GetSubject GET /api/v1/subjects/:id
func (h *SubjectHandler) GetSubject(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "subject")
	if !ok {
		return
	}

	subject, err := h.subjectSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, subject)
}

// CreateSubject POST /api/v1/subjects
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	subject, err := h.subjectSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.Created(c, subject)
}

// UpdateSubject PUT /api/v1/subjects/:id
func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "subject")
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	subject, err := h.subjectSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, subject)
}

// DeleteSubject DELETE /api/v1/subjects/:id
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	id, ok := MustGetID(c, codeInvalidParams, "subject")
	if !ok {
		return
	}

	if err := h.subjectSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleSubjectError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *SubjectHandler) handleSubjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 19001, "subject not found")
	case errors.Is(err, service.ErrSubjectCodeDuplicate):
		response.Conflict(c, 19002, "subject code already exists")
	case errors.Is(err, service.ErrSubjectInUse):
		response.Conflict(c, 19003, "subject is used by timetable entries")
	default:
		response.InternalError(c)
	}
}
