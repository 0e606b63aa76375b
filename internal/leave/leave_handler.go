package leave

import (
	"net/http"

	"go-careops/internal/shared/apperror"
	"go-careops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	editor  EditorService
	logger  *zap.Logger
}

func NewHandler(service Service, editor EditorService, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, editor: editor, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
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
	actorID := c.GetString("user_id")
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), branchID, actorID, req)
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

	response.Success(c, http.StatusOK, resp, nil)
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

func (h *Handler) Submit(c *gin.Context) {
	branchID := c.GetString("branch_id")
	actorID := c.GetString("user_id")
	id := c.Param("id")

	resp, err := h.service.Submit(c.Request.Context(), branchID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	branchID := c.GetString("branch_id")
	actorID := c.GetString("user_id")
	id := c.Param("id")

	resp, err := h.service.Approve(c.Request.Context(), branchID, actorID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	branchID := c.GetString("branch_id")
	actorID := c.GetString("user_id")
	id := c.Param("id")

	var req struct {
		RejectionReason string `json:"rejection_reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), branchID, actorID, id, req.RejectionReason)
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

// Edit session endpoints. The session is addressed by leave id; all state
// needed to render the editor comes back in every response.

func (h *Handler) OpenEditSession(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")

	resp, err := h.editor.Open(c.Request.Context(), branchID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetEditSession(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")

	resp, err := h.editor.Get(c.Request.Context(), branchID, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SetEditDates(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")

	var req SetDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.editor.SetDates(c.Request.Context(), branchID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ReassignConflict(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")
	bookingID := c.Param("bookingId")

	var req ReassignConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.editor.Reassign(c.Request.Context(), branchID, id, bookingID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CancelConflict(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")
	bookingID := c.Param("bookingId")

	var req CancelConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.editor.Cancel(c.Request.Context(), branchID, id, bookingID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SaveEdit(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")

	var req SaveEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.editor.Save(c.Request.Context(), branchID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CloseEditSession(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")

	if err := h.editor.Close(c.Request.Context(), branchID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"closed": true}, nil)
}
