package clientrate_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-careops/internal/clientrate"
	clientrateerrors "go-careops/internal/clientrate/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeClientRateRepository struct {
	createFn            func(ctx context.Context, rate *clientrate.ClientRate) error
	findAllByBranchFn   func(ctx context.Context, branchID string) ([]clientrate.ClientRate, error)
	findByIDAndBranchFn func(ctx context.Context, branchID, id string) (*clientrate.ClientRate, error)
	findRateForFn       func(ctx context.Context, branchID, clientID string, on time.Time) (*clientrate.ClientRate, error)
	deleteFn            func(ctx context.Context, branchID, id string) error
}

func (f *fakeClientRateRepository) WithTx(tx *sql.Tx) clientrate.Repository { return f }

func (f *fakeClientRateRepository) Create(ctx context.Context, rate *clientrate.ClientRate) error {
	if f.createFn != nil {
		return f.createFn(ctx, rate)
	}
	return nil
}

func (f *fakeClientRateRepository) FindAllByBranch(ctx context.Context, branchID string) ([]clientrate.ClientRate, error) {
	if f.findAllByBranchFn != nil {
		return f.findAllByBranchFn(ctx, branchID)
	}
	return nil, nil
}

func (f *fakeClientRateRepository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*clientrate.ClientRate, error) {
	if f.findByIDAndBranchFn != nil {
		return f.findByIDAndBranchFn(ctx, branchID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClientRateRepository) FindRateFor(ctx context.Context, branchID, clientID string, on time.Time) (*clientrate.ClientRate, error) {
	if f.findRateForFn != nil {
		return f.findRateForFn(ctx, branchID, clientID, on)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClientRateRepository) Delete(ctx context.Context, branchID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, branchID, id)
	}
	return nil
}

func TestClientRateService_Update(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	clientID := uuid.New()
	existingID := uuid.New()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeClientRateRepository{
		findByIDAndBranchFn: func(ctx context.Context, bid, id string) (*clientrate.ClientRate, error) {
			return &clientrate.ClientRate{
				ID:              existingID,
				ClientID:        clientID,
				HourlyRatePence: 2200,
				EffectiveDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	svc := clientrate.NewService(db, repo)

	t.Run("appends a new version instead of mutating", func(t *testing.T) {
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		var created *clientrate.ClientRate
		repo.createFn = func(ctx context.Context, rate *clientrate.ClientRate) error {
			created = rate
			return nil
		}

		resp, err := svc.Update(ctx, branchID, existingID.String(), clientrate.UpdateClientRateRequest{
			ClientID:        clientID.String(),
			HourlyRatePence: 2400,
			EffectiveDate:   "2026-04-01",
		})

		assert.NoError(t, err)
		assert.NotEqual(t, existingID.String(), resp.ID)
		assert.Equal(t, int64(2400), created.HourlyRatePence)
		assert.Equal(t, "2026-04-01", resp.EffectiveDate)
	})

	t.Run("invalid effective date", func(t *testing.T) {
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		_, err := svc.Update(ctx, branchID, existingID.String(), clientrate.UpdateClientRateRequest{
			ClientID:        clientID.String(),
			HourlyRatePence: 2400,
			EffectiveDate:   "01/04/2026",
		})
		assert.ErrorIs(t, err, clientrateerrors.ErrInvalidEffectiveDate)
	})
}

func TestClientRateService_RateFor(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	clientID := uuid.New().String()
	on := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	t.Run("returns the rate effective on the date", func(t *testing.T) {
		repo := &fakeClientRateRepository{
			findRateForFn: func(ctx context.Context, bid, cid string, queried time.Time) (*clientrate.ClientRate, error) {
				assert.Equal(t, on, queried)
				return &clientrate.ClientRate{HourlyRatePence: 2400}, nil
			},
		}
		svc := clientrate.NewService(db, repo)

		rate, err := svc.RateFor(ctx, branchID, clientID, on)
		assert.NoError(t, err)
		assert.Equal(t, int64(2400), rate)
	})

	t.Run("no rate yet for that date", func(t *testing.T) {
		svc := clientrate.NewService(db, &fakeClientRateRepository{})

		_, err := svc.RateFor(ctx, branchID, clientID, on)
		assert.ErrorIs(t, err, clientrateerrors.ErrNoRateForDate)
	})
}
