package middleware

import (
	"net/http"

	"go-careops/internal/shared/response"

	"github.com/gin-gonic/gin"
)

func ExtractUserID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, exists := ctx.Get("user_id")
		if !exists {
			response.Error(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated", nil)
			ctx.Abort()
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Error(ctx, http.StatusUnauthorized, "INVALID_USER_ID", "Invalid user_id format", nil)
			ctx.Abort()
			return
		}

		// Re-set with a known string type for downstream readers.
		ctx.Set("user_id_validated", userIDStr)
		ctx.Next()
	}
}
