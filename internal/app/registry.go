package app

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"go-careops/internal/auth"
	"go-careops/internal/booking"
	"go-careops/internal/carer"
	"go-careops/internal/client"
	"go-careops/internal/clientrate"
	"go-careops/internal/leave"
	"go-careops/internal/messaging/kafka"
	"go-careops/internal/middleware"
	"go-careops/internal/payroll"
	"go-careops/internal/rbac"
	"go-careops/internal/rbac/infra"
	"go-careops/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	router.Use(middleware.RequestID())

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	bookingRepo := booking.NewRepository(gormDB)
	carerRepo := carer.NewRepository(gormDB)
	clientRepo := client.NewRepository(gormDB)
	clientRateRepo := clientrate.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo)
	carerService := carer.NewService(db, carerRepo, counterRepo, rdb)
	clientService := client.NewService(clientRepo)
	clientRateService := clientrate.NewService(db, clientRateRepo)
	bookingService := booking.NewService(db, bookingRepo, carerRepo, outboxRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo)
	payrollService := payroll.NewService(db, payrollRepo, outboxRepo)

	// --- Leave edit sessions ---
	sessionStore := leave.NewEditSessionStore(30 * time.Minute)
	sessionStore.StartJanitor(context.Background(), 5*time.Minute)
	leaveEditor := leave.NewEditor(sessionStore, leaveService, bookingService)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	bookingHandler := booking.NewHandler(bookingService)
	carerHandler := carer.NewHandler(carerService)
	clientHandler := client.NewHandler(clientService)
	clientRateHandler := clientrate.NewHandler(clientRateService)
	leaveHandler := leave.NewHandler(leaveService, leaveEditor)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		booking.RegisterRoutes(api, bookingHandler, rbacService, rdb, logger)
		carer.RegisterRoutes(api, carerHandler, rbacService, logger)
		client.RegisterRoutes(api, clientHandler, rbacService, logger)
		clientrate.RegisterRoutes(api, clientRateHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, logger)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
