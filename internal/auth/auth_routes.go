package auth

import (
	"go-careops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler) {
	group := rg.Group("/auth")
	{
		group.POST("/login", handler.Login)
		group.POST("/refresh", handler.Refresh)
		group.POST("/logout", handler.Logout)

		protected := group.Group("")
		protected.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
		{
			protected.GET("/me", handler.Me)
			protected.POST("/register", middleware.RoleMiddleware("ADMIN"), handler.Register)
		}
	}
}
