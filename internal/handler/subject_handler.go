package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bunkmate/bunkmate-backend/internal/model"
	"github.com/bunkmate/bunkmate-backend/internal/repository"
	"github.com/bunkmate/bunkmate-backend/internal/response"
	"github.com/bunkmate/bunkmate-backend/internal/service"
	"github.com/bunkmate/bunkmate-backend/internal/validator"
)

type SubjectHandler struct {
	subjectService *service.SubjectService
}

func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// GetAll godoc
// GET /api/v1/subjects
func (h *SubjectHandler) GetAll(c *gin.Context) {
	subjects, err := h.subjectService.GetAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if subjects == nil {
		subjects = []model.SubjectWithStats{}
	}

	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// GetByID godoc
// GET /api/v1/subjects/:id
func (h *SubjectHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	subject, err := h.subjectService.GetByID(c.Request.Context(), id)
	if err != nil {
		failSubjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

// Create godoc
// POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req model.CreateSubjectRequest
	if !validator.Bind(c, &req) {
		return
	}

	subject, err := h.subjectService.Create(c.Request.Context(), &req)
	if err != nil {
		failSubjectError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subject": subject})
}

// Update godoc
// PUT /api/v1/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateSubjectRequest
	if !validator.Bind(c, &req) {
		return
	}

	subject, err := h.subjectService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failSubjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

// Delete godoc
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), id); err != nil {
		failSubjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "subject deleted successfully"})
}

// MarkAttended godoc
// POST /api/v1/subjects/:id/attend
func (h *SubjectHandler) MarkAttended(c *gin.Context) {
	h.mark(c, h.subjectService.MarkAttended)
}

// MarkSkipped godoc
// POST /api/v1/subjects/:id/skip
func (h *SubjectHandler) MarkSkipped(c *gin.Context) {
	h.mark(c, h.subjectService.MarkSkipped)
}

func (h *SubjectHandler) mark(c *gin.Context, op func(ctx context.Context, id int) (*model.SubjectWithStats, error)) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	subject, err := op(c.Request.Context(), id)
	if err != nil {
		failSubjectError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

func failSubjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrSubjectNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, repository.ErrSubjectNameTaken):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrCountersInconsistent):
		response.Fail(c, http.StatusBadRequest, response.ErrCountersInconsistent)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
