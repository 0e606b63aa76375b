package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-careops/internal/events"
	"go-careops/internal/messaging/kafka"
	payrollerrors "go-careops/internal/payroll/errors"
	"go-careops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "DRAFT"
	StatusProcessed = "PROCESSED"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID, actorID string, req CreatePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, branchID string) ([]PayrollResponse, error)
	GetByID(ctx context.Context, branchID, id string) (PayrollResponse, error)
	Update(ctx context.Context, branchID, actorID, id string, req UpdatePayrollRequest) (PayrollResponse, error)
	Delete(ctx context.Context, branchID, id string) error

	RequestPayslip(ctx context.Context, branchID, actorID, id string) (PayrollResponse, error)
	GeneratePayslip(ctx context.Context, branchID, id string) (PayrollResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

// grossFromMinutes rounds down to the whole penny.
func grossFromMinutes(minutes, hourlyRatePence int64) int64 {
	return minutes * hourlyRatePence / 60
}

func (s *service) Create(
	ctx context.Context,
	branchID, actorID string,
	req CreatePayrollRequest,
) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	branchUUID, carerUUID, createdByUUID, periodStart, periodEnd, err := validateCreateRequest(branchID, actorID, req)
	if err != nil {
		return PayrollResponse{}, err
	}

	belongs, err := qtx.CarerBelongsToBranch(ctx, branchID, req.CarerID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !belongs {
		return PayrollResponse{}, payrollerrors.ErrCarerNotInBranch
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, branchID, req.CarerID, periodStart, periodEnd, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	if overlap {
		return PayrollResponse{}, payrollerrors.ErrPayrollOverlap
	}

	rate := req.HourlyRatePence
	if rate == 0 {
		rate, err = qtx.CarerHourlyRate(ctx, branchID, req.CarerID)
		if err != nil {
			return PayrollResponse{}, err
		}
	}
	if rate <= 0 {
		return PayrollResponse{}, payrollerrors.ErrNoRateAvailable
	}

	gross := grossFromMinutes(req.MinutesWorked, rate)
	net := gross + req.ExpensesPence - req.DeductionPence

	payroll := &Payroll{
		ID:              uuid.New(),
		BranchID:        branchUUID,
		CarerID:         carerUUID,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		MinutesWorked:   req.MinutesWorked,
		HourlyRatePence: rate,
		GrossPence:      gross,
		ExpensesPence:   req.ExpensesPence,
		DeductionPence:  req.DeductionPence,
		NetPence:        net,
		Status:          StatusDraft,
		CreatedBy:       createdByUUID,
	}

	if err := qtx.Create(ctx, payroll); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("create payroll success",
		zap.String("payroll_id", payroll.ID.String()),
		zap.String("carer_id", req.CarerID),
		zap.Int64("net_pence", net),
	)
	return mapToResponse(*payroll), nil
}

func (s *service) GetAll(
	ctx context.Context,
	branchID string,
) ([]PayrollResponse, error) {
	payrolls, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(
	ctx context.Context,
	branchID, id string,
) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func (s *service) Update(
	ctx context.Context,
	branchID, actorID, id string,
	req UpdatePayrollRequest,
) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err = uuid.Parse(branchID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidBranchID
	}
	if _, err = uuid.Parse(actorID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}

	carerID, err := uuid.Parse(req.CarerID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidCarerID
	}

	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return PayrollResponse{}, err
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return PayrollResponse{}, err
	}
	if periodStart.After(periodEnd) {
		return PayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}

	payroll, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}

	belongs, err := qtx.CarerBelongsToBranch(ctx, branchID, req.CarerID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !belongs {
		return PayrollResponse{}, payrollerrors.ErrCarerNotInBranch
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, branchID, req.CarerID, periodStart, periodEnd, &id)
	if err != nil {
		return PayrollResponse{}, err
	}
	if overlap {
		return PayrollResponse{}, payrollerrors.ErrPayrollOverlap
	}

	rate := req.HourlyRatePence
	if rate == 0 {
		rate = payroll.HourlyRatePence
	}
	if rate <= 0 {
		return PayrollResponse{}, payrollerrors.ErrNoRateAvailable
	}

	gross := grossFromMinutes(req.MinutesWorked, rate)

	payroll.CarerID = carerID
	payroll.PeriodStart = periodStart
	payroll.PeriodEnd = periodEnd
	payroll.MinutesWorked = req.MinutesWorked
	payroll.HourlyRatePence = rate
	payroll.GrossPence = gross
	payroll.ExpensesPence = req.ExpensesPence
	payroll.DeductionPence = req.DeductionPence
	payroll.NetPence = gross + req.ExpensesPence - req.DeductionPence
	payroll.Status = req.Status

	if req.ApprovedBy != nil && *req.ApprovedBy != "" {
		approverID, err := uuid.Parse(*req.ApprovedBy)
		if err != nil {
			return PayrollResponse{}, payrollerrors.ErrInvalidApprovedBy
		}
		payroll.ApprovedBy = &approverID
	}

	if req.PaidAt != nil && *req.PaidAt != "" {
		paidAt, err := parseDateTime(*req.PaidAt)
		if err != nil {
			return PayrollResponse{}, err
		}
		payroll.PaidAt = &paidAt
	}

	if payroll.Status == StatusPaid && payroll.PaidAt == nil {
		return PayrollResponse{}, payrollerrors.ErrPaidAtRequired
	}

	if err := qtx.Update(ctx, payroll); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func (s *service) Delete(
	ctx context.Context,
	branchID, id string,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, branchID, id); err != nil {
		return err
	}

	return tx.Commit()
}

// RequestPayslip queues payslip generation through the outbox so the API
// request returns fast and the worker picks it up.
func (s *service) RequestPayslip(ctx context.Context, branchID, actorID, id string) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	payroll, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}

	event := events.PayrollPayslipRequestedEvent{
		EventType:   "payroll_payslip_requested",
		RequestID:   rid,
		PayrollID:   payroll.ID.String(),
		BranchID:    branchID,
		RequestedBy: actorID,
		OccurredAt:  time.Now().UTC(),
	}
	if s.outbox != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			return PayrollResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "payroll",
			AggregateID:   payroll.ID.String(),
			EventType:     event.EventType,
			Topic:         events.PayrollPayslipRequestedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return PayrollResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payslip generation queued",
		zap.String("request_id", rid),
		zap.String("payroll_id", id),
	)
	return mapToResponse(*payroll), nil
}

// GeneratePayslip renders the payslip PDF and records its location.
// Idempotent: a payroll whose payslip already exists is returned as is, so a
// redelivered message does not rewrite the file.
func (s *service) GeneratePayslip(ctx context.Context, branchID, id string) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}

	if payroll.PayslipURL != nil && *payroll.PayslipURL != "" {
		return mapToResponse(*payroll), nil
	}

	carerName := payroll.CarerID.String()
	if payroll.Carer != nil {
		carerName = payroll.Carer.FullName
	}

	lines := []string{
		"Payslip",
		fmt.Sprintf("Carer: %s", carerName),
		fmt.Sprintf("Period: %s to %s", payroll.PeriodStart.Format("2006-01-02"), payroll.PeriodEnd.Format("2006-01-02")),
		fmt.Sprintf("Hours worked: %d.%02d", payroll.MinutesWorked/60, payroll.MinutesWorked%60*100/60),
		fmt.Sprintf("Hourly rate: GBP %s", formatPence(payroll.HourlyRatePence)),
		fmt.Sprintf("Gross pay: GBP %s", formatPence(payroll.GrossPence)),
		fmt.Sprintf("Expenses: GBP %s", formatPence(payroll.ExpensesPence)),
		fmt.Sprintf("Deductions: GBP %s", formatPence(payroll.DeductionPence)),
		fmt.Sprintf("Net pay: GBP %s", formatPence(payroll.NetPence)),
	}

	pdf, err := buildSimplePayslipPDF(lines)
	if err != nil {
		return PayrollResponse{}, err
	}

	dir := os.Getenv("PAYSLIP_DIR")
	if dir == "" {
		dir = "payslips"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return PayrollResponse{}, err
	}

	path := filepath.Join(dir, fmt.Sprintf("payslip-%s.pdf", payroll.ID.String()))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return PayrollResponse{}, err
	}

	now := time.Now().UTC()
	payroll.PayslipURL = &path
	payroll.PayslipGeneratedAt = &now

	if err := s.repo.Update(ctx, payroll); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payslip generated",
		zap.String("payroll_id", id),
		zap.String("path", path),
	)
	return mapToResponse(*payroll), nil
}

func validateCreateRequest(
	branchID, actorID string,
	req CreatePayrollRequest,
) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidBranchID
	}

	carerUUID, err := uuid.Parse(req.CarerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidCarerID
	}

	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidActorID
	}

	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}

	if periodStart.After(periodEnd) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidPeriod
	}

	return branchUUID, carerUUID, createdByUUID, periodStart, periodEnd, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func parseDateTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateTimeFormat
	}
	return t, nil
}

func mapToResponse(payroll Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:              payroll.ID.String(),
		BranchID:        payroll.BranchID.String(),
		CarerID:         payroll.CarerID.String(),
		PeriodStart:     payroll.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       payroll.PeriodEnd.Format("2006-01-02"),
		MinutesWorked:   payroll.MinutesWorked,
		HourlyRatePence: payroll.HourlyRatePence,
		GrossPence:      payroll.GrossPence,
		ExpensesPence:   payroll.ExpensesPence,
		DeductionPence:  payroll.DeductionPence,
		NetPence:        payroll.NetPence,
		Status:          payroll.Status,
		CreatedBy:       payroll.CreatedBy.String(),
	}

	if payroll.ApprovedBy != nil {
		v := payroll.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if payroll.PaidAt != nil {
		v := payroll.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	if payroll.ApprovedAt != nil {
		v := payroll.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.PayslipURL = payroll.PayslipURL

	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, payroll := range payrolls {
		resp[i] = mapToResponse(payroll)
	}
	return resp
}
