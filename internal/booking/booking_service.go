package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bookingerrors "go-careops/internal/booking/errors"
	"go-careops/internal/carer"
	"go-careops/internal/events"
	"go-careops/internal/messaging/kafka"
	"go-careops/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const BookingListKeyPrefix = "bookings:list:"

func GetBookingListKey(branchID string) string {
	return BookingListKeyPrefix + branchID
}

//go:generate mockgen -source=booking_service.go -destination=mock/booking_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID string, req CreateBookingRequest) (BookingResponse, error)
	GetAll(ctx context.Context, branchID string) ([]BookingResponse, error)
	GetByID(ctx context.Context, branchID, id string) (BookingResponse, error)
	Update(ctx context.Context, branchID, id string, req UpdateBookingRequest) (BookingResponse, error)
	Delete(ctx context.Context, branchID, id string) error

	FindConflicts(ctx context.Context, branchID, carerID, startDate, endDate string) (ConflictCheckResult, error)
	Reassign(ctx context.Context, branchID, id string, req ReassignBookingRequest) (BookingResponse, error)
	Cancel(ctx context.Context, branchID, id string, req CancelBookingRequest) (BookingResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	carers carer.Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	carers carer.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("booking.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("booking.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		carers: carers,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(
	ctx context.Context,
	branchID string,
	req CreateBookingRequest,
) (BookingResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create booking requested",
		zap.String("request_id", rid),
		zap.String("branch_id", branchID),
		zap.String("carer_id", req.CarerID),
	)

	startAt, endAt, err := parseTimeRange(req.StartAt, req.EndAt)
	if err != nil {
		return BookingResponse{}, err
	}

	bkg := &Booking{
		ID:          uuid.New(),
		BranchID:    uuid.MustParse(branchID),
		ClientID:    uuid.MustParse(req.ClientID),
		CarerID:     uuid.MustParse(req.CarerID),
		StartAt:     startAt,
		EndAt:       endAt,
		ServiceName: req.ServiceName,
		Status:      StatusScheduled,
		Notes:       req.Notes,
	}

	if err := s.repo.Create(ctx, bkg); err != nil {
		s.logger.Error("create booking persist failed", zap.Error(err))
		return BookingResponse{}, mapRepositoryError(err)
	}

	s.invalidateListCache(ctx, branchID)

	s.logger.Info("create booking success",
		zap.String("request_id", rid),
		zap.String("booking_id", bkg.ID.String()),
	)
	return mapToResponse(*bkg), nil
}

func (s *service) GetAll(ctx context.Context, branchID string) ([]BookingResponse, error) {
	cacheKey := GetBookingListKey(branchID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []BookingResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		bookings, err := s.repo.FindAllByBranch(ctx, branchID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(bookings)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 5*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]BookingResponse), nil
}

func (s *service) GetByID(ctx context.Context, branchID, id string) (BookingResponse, error) {
	bkg, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		s.logger.Error("get booking by id failed", zap.Error(err))
		return BookingResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*bkg), nil
}

func (s *service) Update(
	ctx context.Context,
	branchID, id string,
	req UpdateBookingRequest,
) (BookingResponse, error) {
	s.logger.Debug("update booking requested",
		zap.String("branch_id", branchID),
		zap.String("booking_id", id),
	)

	startAt, endAt, err := parseTimeRange(req.StartAt, req.EndAt)
	if err != nil {
		return BookingResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update booking begin tx failed", zap.Error(err))
		return BookingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	bkg, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return BookingResponse{}, mapRepositoryError(err)
	}

	bkg.ClientID = uuid.MustParse(req.ClientID)
	bkg.CarerID = uuid.MustParse(req.CarerID)
	bkg.StartAt = startAt
	bkg.EndAt = endAt
	bkg.ServiceName = req.ServiceName
	bkg.Notes = req.Notes

	if err := qtx.Update(ctx, bkg); err != nil {
		s.logger.Error("update booking persist failed", zap.Error(err))
		return BookingResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return BookingResponse{}, err
	}

	s.invalidateListCache(ctx, branchID)

	s.logger.Info("update booking success", zap.String("booking_id", id))
	return mapToResponse(*bkg), nil
}

func (s *service) Delete(ctx context.Context, branchID, id string) error {
	if err := s.repo.Delete(ctx, branchID, id); err != nil {
		s.logger.Error("delete booking failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.invalidateListCache(ctx, branchID)

	s.logger.Info("delete booking success", zap.String("booking_id", id))
	return nil
}

// FindConflicts reports the carer's bookings that intersect the candidate
// leave window. Errors propagate to the caller unmasked; an error result must
// never be read as "no conflicts".
func (s *service) FindConflicts(ctx context.Context, branchID, carerID, startDate, endDate string) (ConflictCheckResult, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return ConflictCheckResult{}, bookingerrors.ErrInvalidDateRange
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return ConflictCheckResult{}, bookingerrors.ErrInvalidDateRange
	}
	if end.Before(start) {
		return ConflictCheckResult{}, bookingerrors.ErrInvalidDateRange
	}

	from := start
	to := end.Add(24*time.Hour - time.Nanosecond)

	bookings, err := s.repo.FindOverlappingForCarer(ctx, branchID, carerID, from, to)
	if err != nil {
		s.logger.Error("find conflicts failed",
			zap.String("branch_id", branchID),
			zap.String("carer_id", carerID),
			zap.Error(err),
		)
		return ConflictCheckResult{}, mapRepositoryError(err)
	}

	affected := make([]AffectedBooking, len(bookings))
	for i, b := range bookings {
		affected[i] = AffectedBooking{
			ID:          b.ID.String(),
			CarerID:     b.CarerID.String(),
			ClientName:  b.ClientName,
			DisplayDate: b.StartAt.Format("2006-01-02"),
			DisplayTime: fmt.Sprintf("%s - %s", b.StartAt.Format("15:04"), b.EndAt.Format("15:04")),
			ServiceName: b.ServiceName,
			Status:      b.Status,
		}
	}

	return ConflictCheckResult{
		AffectedBookings: affected,
		Total:            len(affected),
	}, nil
}

// Reassign moves the booking to another active carer and appends an audit
// note. The update and its outbox event commit in one transaction so the
// caller either sees the full effect or none of it.
func (s *service) Reassign(
	ctx context.Context,
	branchID, id string,
	req ReassignBookingRequest,
) (BookingResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("reassign booking requested",
		zap.String("request_id", rid),
		zap.String("branch_id", branchID),
		zap.String("booking_id", id),
		zap.String("to_carer_id", req.ToCarerID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reassign booking begin tx failed", zap.Error(err))
		return BookingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	bkg, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return BookingResponse{}, mapRepositoryError(err)
	}
	if bkg.Status == StatusCancelled {
		return BookingResponse{}, bookingerrors.ErrBookingAlreadyCancelled
	}
	if bkg.CarerID.String() == req.ToCarerID {
		return BookingResponse{}, bookingerrors.ErrReassignToSameCarer
	}

	target, err := s.carers.WithTx(tx).FindByIDAndBranch(ctx, branchID, req.ToCarerID)
	if err != nil {
		return BookingResponse{}, bookingerrors.ErrReassignTargetNotFound
	}
	if !target.Active {
		return BookingResponse{}, bookingerrors.ErrReassignTargetInactive
	}

	fromCarer := bkg.CarerID
	bkg.CarerID = target.ID
	bkg.Notes = appendAuditNote(bkg.Notes, fmt.Sprintf(
		"Reassigned to %s (%s) due to carer leave.",
		target.FullName, target.StaffNumber,
	), req.Note)

	if err := qtx.Update(ctx, bkg); err != nil {
		s.logger.Error("reassign booking persist failed", zap.Error(err))
		return BookingResponse{}, mapRepositoryError(err)
	}

	event := events.BookingReassignedEvent{
		EventType:  "booking_reassigned",
		RequestID:  rid,
		BookingID:  bkg.ID.String(),
		BranchID:   branchID,
		FromCarer:  fromCarer.String(),
		ToCarer:    target.ID.String(),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.queueOutboxEvent(ctx, tx, rid, bkg.ID.String(), event.EventType, events.BookingReassignedTopic, event); err != nil {
		return BookingResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reassign booking commit failed", zap.Error(err))
		return BookingResponse{}, err
	}

	s.invalidateListCache(ctx, branchID)
	s.invalidateCarerOptionsCache(ctx, branchID)

	s.logger.Info("reassign booking success",
		zap.String("request_id", rid),
		zap.String("booking_id", id),
		zap.String("from_carer_id", fromCarer.String()),
		zap.String("to_carer_id", target.ID.String()),
	)
	return mapToResponse(*bkg), nil
}

// Cancel marks the booking cancelled with the operator's reason. Same
// transactional contract as Reassign.
func (s *service) Cancel(
	ctx context.Context,
	branchID, id string,
	req CancelBookingRequest,
) (BookingResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return BookingResponse{}, bookingerrors.ErrCancellationReasonRequired
	}

	s.logger.Debug("cancel booking requested",
		zap.String("request_id", rid),
		zap.String("branch_id", branchID),
		zap.String("booking_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel booking begin tx failed", zap.Error(err))
		return BookingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	bkg, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return BookingResponse{}, mapRepositoryError(err)
	}
	if bkg.Status == StatusCancelled {
		return BookingResponse{}, bookingerrors.ErrBookingAlreadyCancelled
	}

	now := time.Now().UTC()
	bkg.Status = StatusCancelled
	bkg.CancellationReason = reason
	bkg.CancelledAt = &now

	if err := qtx.Update(ctx, bkg); err != nil {
		s.logger.Error("cancel booking persist failed", zap.Error(err))
		return BookingResponse{}, mapRepositoryError(err)
	}

	event := events.BookingCancelledEvent{
		EventType:  "booking_cancelled",
		RequestID:  rid,
		BookingID:  bkg.ID.String(),
		BranchID:   branchID,
		ClientID:   bkg.ClientID.String(),
		CarerID:    bkg.CarerID.String(),
		Reason:     reason,
		OccurredAt: now,
	}
	if err := s.queueOutboxEvent(ctx, tx, rid, bkg.ID.String(), event.EventType, events.BookingCancelledTopic, event); err != nil {
		return BookingResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel booking commit failed", zap.Error(err))
		return BookingResponse{}, err
	}

	s.invalidateListCache(ctx, branchID)

	s.logger.Info("cancel booking success",
		zap.String("request_id", rid),
		zap.String("booking_id", id),
	)
	return mapToResponse(*bkg), nil
}

func (s *service) queueOutboxEvent(
	ctx context.Context,
	tx *sql.Tx,
	rid, bookingID, eventType, topic string,
	event any,
) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "booking",
		AggregateID:   bookingID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("booking outbox persist failed",
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) invalidateListCache(ctx context.Context, branchID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetBookingListKey(branchID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate booking list cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func (s *service) invalidateCarerOptionsCache(ctx context.Context, branchID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := carer.GetCarerOptionsKey(branchID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate carer options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func parseTimeRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	startAt, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, bookingerrors.ErrInvalidTimeRange
	}
	endAt, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, bookingerrors.ErrInvalidTimeRange
	}
	if !endAt.After(startAt) {
		return time.Time{}, time.Time{}, bookingerrors.ErrInvalidTimeRange
	}
	return startAt, endAt, nil
}

func appendAuditNote(existing, system, operator string) string {
	note := system
	if strings.TrimSpace(operator) != "" {
		note = note + " " + strings.TrimSpace(operator)
	}
	stamped := fmt.Sprintf("[%s] %s", time.Now().UTC().Format("2006-01-02 15:04"), note)
	if strings.TrimSpace(existing) == "" {
		return stamped
	}
	return existing + "\n" + stamped
}

func mapToResponse(b Booking) BookingResponse {
	resp := BookingResponse{
		ID:                 b.ID.String(),
		BranchID:           b.BranchID.String(),
		ClientID:           b.ClientID.String(),
		ClientName:         b.ClientName,
		CarerID:            b.CarerID.String(),
		StartAt:            b.StartAt.Format(time.RFC3339),
		EndAt:              b.EndAt.Format(time.RFC3339),
		ServiceName:        b.ServiceName,
		Status:             b.Status,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
	}
	if b.CancelledAt != nil {
		resp.CancelledAt = b.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(bookings []Booking) []BookingResponse {
	res := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		res[i] = mapToResponse(b)
	}
	return res
}
