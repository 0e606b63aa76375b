package carer

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

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
	l := zap.L().Named("carer.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("carer.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("carer request failed",
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
	h.logger.Debug("http create carer", zap.String("branch_id", branchID))
	var req CreateCarerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create carer validation failed", zap.Error(err))
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
	h.logger.Debug("http get all carers", zap.String("branch_id", branchID))

	resp, err := h.service.GetAll(ctx, branchID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	if q != "" {
		filtered := make([]CarerResponse, 0, len(resp))
		for _, cr := range resp {
			if strings.Contains(strings.ToLower(cr.FullName), q) ||
				strings.Contains(strings.ToLower(cr.Email), q) ||
				strings.Contains(strings.ToLower(cr.StaffNumber), q) {
				filtered = append(filtered, cr)
			}
		}
		resp = filtered
	}

	sortBy := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_by", "name")))
	sortDir := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_dir", "asc")))
	if sortDir != "desc" {
		sortDir = "asc"
	}
	sort.Slice(resp, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "email":
			less = strings.ToLower(resp[i].Email) < strings.ToLower(resp[j].Email)
		case "staff_number":
			less = resp[i].StaffNumber < resp[j].StaffNumber
		default:
			less = strings.ToLower(resp[i].FullName) < strings.ToLower(resp[j].FullName)
		}
		if sortDir == "desc" {
			return !less
		}
		return less
	})

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

func (h *Handler) GetOptions(c *gin.Context) {
	ctx := c.Request.Context()
	branchID := c.GetString("branch_id")
	excludeID := c.Query("exclude")
	h.logger.Debug("http get carer options",
		zap.String("branch_id", branchID),
		zap.String("exclude", excludeID),
	)

	resp, err := h.service.GetOptions(ctx, branchID, excludeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	ctx := c.Request.Context()
	targetID := c.Param("id")
	branchID := c.GetString("branch_id")
	h.logger.Debug("http get carer by id",
		zap.String("branch_id", branchID),
		zap.String("carer_id", targetID),
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
	h.logger.Debug("http update carer",
		zap.String("branch_id", branchID),
		zap.String("carer_id", id),
	)
	var req UpdateCarerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update carer validation failed", zap.Error(err))
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
	h.logger.Debug("http delete carer",
		zap.String("branch_id", branchID),
		zap.String("carer_id", id),
	)

	if err := h.service.Delete(ctx, branchID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
