package middleware

import (
	"net/http"

	"go-careops/internal/domain"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextCarerID  ContextKey = "carer_id"
	ContextBranchID ContextKey = "branch_id"
)

// RBACService is a local interface; any package with a matching Enforce
// method satisfies it without an import cycle.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		carerID, ok1 := c.Get(string(ContextCarerID))
		branchID, ok2 := c.Get(string(ContextBranchID))

		if !ok1 || !ok2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			CarerID:  carerID.(string),
			BranchID: branchID.(string),
			Resource: resource,
			Action:   action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
