package client

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
	l := zap.L().Named("client.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("client.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("client request failed",
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
	h.logger.Debug("http create client", zap.String("branch_id", branchID))
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create client validation failed", zap.Error(err))
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
	ctx := c.Request.Context()
	branchID := c.GetString("branch_id")
	h.logger.Debug("http get all clients", zap.String("branch_id", branchID))

	resp, err := h.service.GetAll(ctx, branchID)
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
	ctx := c.Request.Context()
	targetID := c.Param("id")
	branchID := c.GetString("branch_id")
	h.logger.Debug("http get client by id",
		zap.String("branch_id", branchID),
		zap.String("client_id", targetID),
	)

	resp, err := h.service.GetByID(ctx, branchID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	branchID := c.GetString("branch_id")
	h.logger.Debug("http update client",
		zap.String("branch_id", branchID),
		zap.String("client_id", id),
	)
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update client validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(ctx, branchID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	branchID := c.GetString("branch_id")
	h.logger.Debug("http delete client",
		zap.String("branch_id", branchID),
		zap.String("client_id", id),
	)

	if err := h.service.Delete(ctx, branchID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) AddNote(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.Param("id")
	branchID := c.GetString("branch_id")
	authorID := c.GetString("user_id")
	h.logger.Debug("http add client note",
		zap.String("branch_id", branchID),
		zap.String("client_id", clientID),
	)
	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http add client note validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AddNote(ctx, branchID, authorID, clientID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetNotes(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.Param("id")
	branchID := c.GetString("branch_id")
	h.logger.Debug("http get client notes",
		zap.String("branch_id", branchID),
		zap.String("client_id", clientID),
	)

	resp, err := h.service.GetNotes(ctx, branchID, clientID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
