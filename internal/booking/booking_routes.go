package booking

import (
	"go-careops/internal/middleware"
	"go-careops/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	bookings.Use(middleware.ContextLogger(logger))
	{
		bookings.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "booking", "read"),
			handler.GetAll,
		)

		bookings.GET("/conflicts",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "booking", "read"),
			handler.GetConflicts,
		)

		bookings.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "booking", "read"),
			handler.GetById,
		)

		bookings.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "booking", "create"),
			handler.Create,
		)

		bookings.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "booking", "update"),
			handler.Update,
		)

		bookings.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "booking", "delete"),
			handler.Delete,
		)

		// Reassign and cancel mutate bookings out of band; idempotency keys
		// protect against double-submits from the conflict dialog.
		bookings.POST("/:id/reassign",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "booking", "update"),
			middleware.Idempotency(rdb),
			handler.Reassign,
		)

		bookings.POST("/:id/cancel",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "booking", "update"),
			middleware.Idempotency(rdb),
			handler.Cancel,
		)
	}
}
