package booking_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-careops/internal/booking"
	bookingerrors "go-careops/internal/booking/errors"
	"go-careops/internal/carer"
	"go-careops/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeBookingRepository struct {
	withTxFn                  func(tx *sql.Tx) booking.Repository
	createFn                  func(ctx context.Context, b *booking.Booking) error
	findAllByBranchFn         func(ctx context.Context, branchID string) ([]booking.Booking, error)
	findByIDAndBranchFn       func(ctx context.Context, branchID, id string) (*booking.Booking, error)
	findOverlappingForCarerFn func(ctx context.Context, branchID, carerID string, from, to time.Time) ([]booking.Booking, error)
	updateFn                  func(ctx context.Context, b *booking.Booking) error
	deleteFn                  func(ctx context.Context, branchID, id string) error
}

func (f *fakeBookingRepository) WithTx(tx *sql.Tx) booking.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBookingRepository) FindAllByBranch(ctx context.Context, branchID string) ([]booking.Booking, error) {
	if f.findAllByBranchFn != nil {
		return f.findAllByBranchFn(ctx, branchID)
	}
	return nil, nil
}

func (f *fakeBookingRepository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*booking.Booking, error) {
	if f.findByIDAndBranchFn != nil {
		return f.findByIDAndBranchFn(ctx, branchID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBookingRepository) FindOverlappingForCarer(ctx context.Context, branchID, carerID string, from, to time.Time) ([]booking.Booking, error) {
	if f.findOverlappingForCarerFn != nil {
		return f.findOverlappingForCarerFn(ctx, branchID, carerID, from, to)
	}
	return nil, nil
}

func (f *fakeBookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, b)
	}
	return nil
}

func (f *fakeBookingRepository) Delete(ctx context.Context, branchID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, branchID, id)
	}
	return nil
}

type fakeCarerRepository struct {
	findByIDAndBranchFn func(ctx context.Context, branchID, id string) (*carer.Carer, error)
}

func (f *fakeCarerRepository) WithTx(tx *sql.Tx) carer.Repository { return f }

func (f *fakeCarerRepository) Create(ctx context.Context, c *carer.Carer) error { return nil }

func (f *fakeCarerRepository) FindAllByBranch(ctx context.Context, branchID string) ([]carer.Carer, error) {
	return nil, nil
}

func (f *fakeCarerRepository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*carer.Carer, error) {
	if f.findByIDAndBranchFn != nil {
		return f.findByIDAndBranchFn(ctx, branchID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCarerRepository) FindActiveOptionsByBranch(ctx context.Context, branchID string) ([]carer.Carer, error) {
	return nil, nil
}

func (f *fakeCarerRepository) Update(ctx context.Context, c *carer.Carer) error { return nil }

func (f *fakeCarerRepository) Delete(ctx context.Context, branchID, id string) error { return nil }

type fakeOutboxRepository struct {
	created  []kafka.OutboxEvent
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type bookingServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service booking.Service
	repo    *fakeBookingRepository
	carers  *fakeCarerRepository
	outbox  *fakeOutboxRepository
}

func setupBookingServiceTest(t *testing.T) *bookingServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeBookingRepository{}
	carers := &fakeCarerRepository{}
	outbox := &fakeOutboxRepository{}
	svc := booking.NewService(db, repo, carers, outbox, nil)

	return &bookingServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		carers:  carers,
		outbox:  outbox,
	}
}

func expectBookingTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestBookingService_FindConflicts(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	carerID := uuid.New().String()

	t.Run("window covers the whole end date", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		deps.repo.findOverlappingForCarerFn = func(ctx context.Context, bid, cid string, from, to time.Time) ([]booking.Booking, error) {
			assert.Equal(t, "2026-03-02", from.Format("2006-01-02"))
			assert.Equal(t, "2026-03-06", to.Format("2006-01-02"))
			assert.Equal(t, 23, to.Hour())
			return []booking.Booking{
				{
					ID:          uuid.New(),
					CarerID:     uuid.MustParse(cid),
					StartAt:     time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
					EndAt:       time.Date(2026, 3, 3, 10, 30, 0, 0, time.UTC),
					ServiceName: "Morning visit",
					Status:      booking.StatusScheduled,
					ClientName:  "Ada Price",
				},
			}, nil
		}

		result, err := deps.service.FindConflicts(ctx, branchID, carerID, "2026-03-02", "2026-03-06")

		assert.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, "2026-03-03", result.AffectedBookings[0].DisplayDate)
		assert.Equal(t, "09:00 - 10:30", result.AffectedBookings[0].DisplayTime)
		assert.Equal(t, "Ada Price", result.AffectedBookings[0].ClientName)
	})

	t.Run("no conflicts", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		result, err := deps.service.FindConflicts(ctx, branchID, carerID, "2026-03-02", "2026-03-06")
		assert.NoError(t, err)
		assert.Equal(t, 0, result.Total)
		assert.Empty(t, result.AffectedBookings)
	})

	t.Run("query failure is surfaced, not swallowed", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		deps.repo.findOverlappingForCarerFn = func(ctx context.Context, bid, cid string, from, to time.Time) ([]booking.Booking, error) {
			return nil, errors.New("db down")
		}

		_, err := deps.service.FindConflicts(ctx, branchID, carerID, "2026-03-02", "2026-03-06")
		assert.Error(t, err)
	})

	t.Run("bad dates", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.FindConflicts(ctx, branchID, carerID, "02-03-2026", "2026-03-06")
		assert.ErrorIs(t, err, bookingerrors.ErrInvalidDateRange)

		_, err = deps.service.FindConflicts(ctx, branchID, carerID, "2026-03-06", "2026-03-02")
		assert.ErrorIs(t, err, bookingerrors.ErrInvalidDateRange)
	})
}

func TestBookingService_Reassign(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	bookingID := uuid.New()
	fromCarer := uuid.New()
	toCarer := uuid.New()

	stored := func() *booking.Booking {
		return &booking.Booking{
			ID:          bookingID,
			BranchID:    uuid.MustParse(branchID),
			ClientID:    uuid.New(),
			CarerID:     fromCarer,
			StartAt:     time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
			EndAt:       time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
			ServiceName: "Morning visit",
			Status:      booking.StatusScheduled,
		}
	}

	t.Run("success queues outbox event and appends audit note", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*booking.Booking, error) {
			return stored(), nil
		}
		deps.carers.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*carer.Carer, error) {
			return &carer.Carer{ID: toCarer, FullName: "Priya Patel", StaffNumber: "CAR-000042", Active: true}, nil
		}

		var updated *booking.Booking
		deps.repo.updateFn = func(ctx context.Context, b *booking.Booking) error {
			updated = b
			return nil
		}

		resp, err := deps.service.Reassign(ctx, branchID, bookingID.String(), booking.ReassignBookingRequest{
			ToCarerID: toCarer.String(),
			Note:      "cover arranged by coordinator",
		})

		assert.NoError(t, err)
		assert.Equal(t, toCarer.String(), resp.CarerID)
		assert.Contains(t, updated.Notes, "Priya Patel")
		assert.Contains(t, updated.Notes, "cover arranged by coordinator")

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "booking_reassigned", deps.outbox.created[0].EventType)
		assert.Equal(t, bookingID.String(), deps.outbox.created[0].AggregateID)
	})

	t.Run("same carer rejected", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*booking.Booking, error) {
			return stored(), nil
		}

		_, err := deps.service.Reassign(ctx, branchID, bookingID.String(), booking.ReassignBookingRequest{
			ToCarerID: fromCarer.String(),
		})
		assert.ErrorIs(t, err, bookingerrors.ErrReassignToSameCarer)
	})

	t.Run("inactive target rejected", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*booking.Booking, error) {
			return stored(), nil
		}
		deps.carers.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*carer.Carer, error) {
			return &carer.Carer{ID: toCarer, Active: false}, nil
		}

		_, err := deps.service.Reassign(ctx, branchID, bookingID.String(), booking.ReassignBookingRequest{
			ToCarerID: toCarer.String(),
		})
		assert.ErrorIs(t, err, bookingerrors.ErrReassignTargetInactive)
	})

	t.Run("missing target rejected", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*booking.Booking, error) {
			return stored(), nil
		}

		_, err := deps.service.Reassign(ctx, branchID, bookingID.String(), booking.ReassignBookingRequest{
			ToCarerID: toCarer.String(),
		})
		assert.ErrorIs(t, err, bookingerrors.ErrReassignTargetNotFound)
	})

	t.Run("cancelled booking rejected", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*booking.Booking, error) {
			b := stored()
			b.Status = booking.StatusCancelled
			return b, nil
		}

		_, err := deps.service.Reassign(ctx, branchID, bookingID.String(), booking.ReassignBookingRequest{
			ToCarerID: toCarer.String(),
		})
		assert.ErrorIs(t, err, bookingerrors.ErrBookingAlreadyCancelled)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	bookingID := uuid.New()

	stored := func() *booking.Booking {
		return &booking.Booking{
			ID:       bookingID,
			BranchID: uuid.MustParse(branchID),
			ClientID: uuid.New(),
			CarerID:  uuid.New(),
			StartAt:  time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
			EndAt:    time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
			Status:   booking.StatusScheduled,
		}
	}

	t.Run("success records reason and timestamp", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*booking.Booking, error) {
			return stored(), nil
		}

		var updated *booking.Booking
		deps.repo.updateFn = func(ctx context.Context, b *booking.Booking) error {
			updated = b
			return nil
		}

		resp, err := deps.service.Cancel(ctx, branchID, bookingID.String(), booking.CancelBookingRequest{
			Reason: "carer on leave",
		})

		assert.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, resp.Status)
		assert.Equal(t, "carer on leave", updated.CancellationReason)
		assert.NotNil(t, updated.CancelledAt)

		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "booking_cancelled", deps.outbox.created[0].EventType)
	})

	t.Run("outbox failure rolls the booking update back", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)

		// All reads and writes must go through the tx-bound repository so the
		// rollback below undoes them together with the outbox insert.
		txRepo := &fakeBookingRepository{}
		txRepo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*booking.Booking, error) {
			return stored(), nil
		}
		updatedOnTx := false
		txRepo.updateFn = func(ctx context.Context, b *booking.Booking) error {
			updatedOnTx = true
			return nil
		}
		deps.repo.withTxFn = func(tx *sql.Tx) booking.Repository {
			assert.NotNil(t, tx)
			return txRepo
		}
		deps.repo.updateFn = func(ctx context.Context, b *booking.Booking) error {
			t.Fatal("update must not run on the pooled connection")
			return nil
		}

		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			return errors.New("outbox insert failed")
		}

		_, err := deps.service.Cancel(ctx, branchID, bookingID.String(), booking.CancelBookingRequest{
			Reason: "carer on leave",
		})

		assert.Error(t, err)
		assert.True(t, updatedOnTx)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("blank reason rejected", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Cancel(ctx, branchID, bookingID.String(), booking.CancelBookingRequest{
			Reason: "   ",
		})
		assert.ErrorIs(t, err, bookingerrors.ErrCancellationReasonRequired)
	})

	t.Run("already cancelled rejected", func(t *testing.T) {
		deps := setupBookingServiceTest(t)
		defer deps.db.Close()

		expectBookingTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndBranchFn = func(ctx context.Context, bid, id string) (*booking.Booking, error) {
			b := stored()
			b.Status = booking.StatusCancelled
			return b, nil
		}

		_, err := deps.service.Cancel(ctx, branchID, bookingID.String(), booking.CancelBookingRequest{
			Reason: "carer on leave",
		})
		assert.ErrorIs(t, err, bookingerrors.ErrBookingAlreadyCancelled)
	})
}
