package carer

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
	carers := r.Group("/carers")
	carers.Use(middleware.AuthMiddleware())
	carers.Use(middleware.ContextLogger(logger))
	{
		carers.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "carer", "read"),
			handler.GetAll,
		)

		carers.GET("/options",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "carer", "read"),
			handler.GetOptions,
		)

		carers.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "carer", "read"),
			handler.GetById,
		)

		carers.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "carer", "create"),
			handler.Create,
		)

		carers.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "carer", "update"),
			handler.Update,
		)

		carers.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "carer", "delete"),
			handler.Delete,
		)
	}
}
