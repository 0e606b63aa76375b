package clientrate

import (
	"go-careops/internal/middleware"
	"go-careops/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	rates := r.Group("/client-rates")
	rates.Use(middleware.AuthMiddleware())
	rates.Use(middleware.ContextLogger(logger))
	{
		rates.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "client_rate", "read"),
			handler.GetAll,
		)

		rates.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "client_rate", "read"),
			handler.GetById,
		)

		rates.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "client_rate", "create"),
			handler.Create,
		)

		rates.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "client_rate", "update"),
			handler.Update,
		)

		rates.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "client_rate", "delete"),
			handler.Delete,
		)
	}
}
