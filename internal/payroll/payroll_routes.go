package payroll

import (
	"go-careops/internal/middleware"
	"go-careops/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetById)
		payrolls.GET("/:id/payslip/download", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.DownloadPayslip)
		if redisClient != nil {
			payrolls.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll", "create"),
				handler.Create,
			)
			payrolls.POST(
				"/:id/payslip",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "payroll", "create"),
				handler.RequestPayslip,
			)
		} else {
			payrolls.POST("", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.Create)
			payrolls.POST("/:id/payslip", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.RequestPayslip)
		}
		payrolls.PUT("/:id", middleware.RBACAuthorize(rbacService, "payroll", "update"), handler.Update)
		payrolls.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payroll", "delete"), handler.Delete)
	}
}
