package clientrate

import (
	"net/http"

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
	l := zap.L().Named("clientrate.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("clientrate.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("client rate request failed",
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
	var req CreateClientRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create client rate validation failed", zap.Error(err))
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

func (h *Handler) Update(c *gin.Context) {
	branchID := c.GetString("branch_id")
	id := c.Param("id")
	var req UpdateClientRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update client rate validation failed", zap.Error(err))
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
