package auth

import (
	"net/http"

	autherrors "go-careops/internal/auth/errors"
	"go-careops/internal/shared/apperror"
	"go-careops/internal/shared/request"
	"go-careops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Register(c *gin.Context) {
	branchID, err := branchFromContext(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Register(c.Request.Context(), branchID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	pair, user, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	clientType := request.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	if request.IsWebClient(clientType) {
		h.setAuthCookies(c, pair)
		response.Success(c, http.StatusOK, gin.H{"user": user}, nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user, "tokens": pair}, nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	_ = c.ShouldBindJSON(&req)

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie(refreshCookieName)
	}
	if refreshToken == "" {
		writeError(c, autherrors.ErrInvalidRefreshToken)
		return
	}

	pair, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	clientType := request.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	if request.IsWebClient(clientType) {
		h.setAuthCookies(c, pair)
		response.Success(c, http.StatusOK, gin.H{"refreshed": true}, nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tokens": pair}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	rawID := c.GetString("user_id_validated")
	userID, err := uuid.Parse(rawID)
	if err != nil {
		writeError(c, autherrors.ErrInvalidUserID)
		return
	}

	resp, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookieName, "", -1, "/", "", false, true)
	c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, nil)
}

func (h *Handler) setAuthCookies(c *gin.Context, pair *TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessCookieName, pair.AccessToken, int(accessTokenTTL.Seconds()), "/", "", false, true)
	c.SetCookie(refreshCookieName, pair.RefreshToken, int(refreshTokenTTL.Seconds()), "/", "", false, true)
}

func branchFromContext(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString("branch_id")
	branchID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, autherrors.ErrInvalidToken
	}
	return branchID, nil
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
