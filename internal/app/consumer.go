package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-careops/internal/client"
	"go-careops/internal/events"
	"go-careops/internal/messaging/kafka"
	"go-careops/internal/messaging/kafka/consumer"
	"go-careops/internal/payroll"
	"go-careops/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	clientRepo := client.NewRepository(gormDB)
	clientService := client.NewService(clientRepo)

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	payrollRepo := payroll.NewRepository(gormDB)
	payrollService := payroll.NewService(sqlDB, payrollRepo, outboxRepo)

	bookingReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.BookingCancelledTopic,
		GroupID:        "go-careops-client-timeline",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer bookingReader.Close()

	payslipReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollPayslipRequestedTopic,
		GroupID:        "go-careops-payroll-payslip",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer payslipReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeBookingCancelled(ctx, bookingReader, clientService, logger)
	go consumer.ConsumePayrollPayslipRequested(ctx, payslipReader, payrollService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
