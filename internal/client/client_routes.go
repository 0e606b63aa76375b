package client

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
	clients := r.Group("/clients")
	clients.Use(middleware.AuthMiddleware())
	clients.Use(middleware.ContextLogger(logger))
	{
		clients.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "client", "read"),
			handler.GetAll,
		)

		clients.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "client", "read"),
			handler.GetById,
		)

		clients.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "client", "create"),
			handler.Create,
		)

		clients.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "client", "update"),
			handler.Update,
		)

		clients.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "client", "delete"),
			handler.Delete,
		)

		clients.GET("/:id/notes",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "client", "read"),
			handler.GetNotes,
		)

		clients.POST("/:id/notes",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "client", "update"),
			handler.AddNote,
		)
	}
}
