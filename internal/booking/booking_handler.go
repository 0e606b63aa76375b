package booking

import (
	"net/http"
	"strconv"

	"go-careops/internal/shared/apperror"
	"go-careops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("booking.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("booking.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("booking request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	branchID := c.GetString("branch_id")
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create booking validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), branchID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	branchID := c.GetString("branch_id")

	resp, err := h.service.GetAll(c.Request.Context(), branchID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), branchID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update booking validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), branchID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), branchID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

// GetConflicts answers "which of this carer's bookings fall inside the given
// window". Used by coordinators to probe ahead of a leave edit.
func (h *Handler) GetConflicts(c *gin.Context) {
	branchID := c.GetString("branch_id")
	carerID := c.Query("carer_id")
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	if carerID == "" || startDate == "" || endDate == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput,
			"carer_id, start_date and end_date are required", nil)
		return
	}

	resp, err := h.service.FindConflicts(c.Request.Context(), branchID, carerID, startDate, endDate)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reassign(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")
	var req ReassignBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http reassign booking validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Reassign(c.Request.Context(), branchID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http cancel booking validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), branchID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
