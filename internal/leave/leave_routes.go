package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetAll,
		)

		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.GetById,
		)

		leaves.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			handler.Create,
		)

		leaves.POST("/:id/submit",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave", "update"),
			handler.Submit,
		)

		leaves.POST("/:id/approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Approve,
		)

		leaves.POST("/:id/reject",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Reject,
		)

		leaves.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "leave", "delete"),
			handler.Delete,
		)

		// Edit session: the conflict-resolution workflow around date edits.
		editSession := leaves.Group("/:id/edit-session")
		editSession.Use(middleware.RBACAuthorize(rbacService, "leave", "update"))
		{
			editSession.POST("", middleware.RateLimitByUser(0.5, 2), handler.OpenEditSession)
			editSession.GET("", middleware.RateLimitByUser(5, 20), handler.GetEditSession)
			editSession.PUT("/dates", middleware.RateLimitByUser(2, 10), handler.SetEditDates)
			editSession.POST("/bookings/:bookingId/reassign", middleware.RateLimitByUser(1, 5), handler.ReassignConflict)
			editSession.POST("/bookings/:bookingId/cancel", middleware.RateLimitByUser(1, 5), handler.CancelConflict)
			editSession.POST("/save", middleware.RateLimitByUser(0.5, 2), handler.SaveEdit)
			editSession.DELETE("", middleware.RateLimitByUser(1, 5), handler.CloseEditSession)
		}
	}
}
