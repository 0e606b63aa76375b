package clientrate

import (
	"context"
	"database/sql"
	"errors"
	"time"

	clientrateerrors "go-careops/internal/clientrate/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=client_rate_service.go -destination=mock/client_rate_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID string, req CreateClientRateRequest) (ClientRateResponse, error)
	GetAll(ctx context.Context, branchID string) ([]ClientRateResponse, error)
	GetByID(ctx context.Context, branchID, id string) (ClientRateResponse, error)
	Update(ctx context.Context, branchID, id string, req UpdateClientRateRequest) (ClientRateResponse, error)
	Delete(ctx context.Context, branchID, id string) error

	RateFor(ctx context.Context, branchID, clientID string, on time.Time) (int64, error)
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(
	ctx context.Context,
	branchID string,
	req CreateClientRateRequest,
) (ClientRateResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClientRateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return ClientRateResponse{}, err
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return ClientRateResponse{}, clientrateerrors.ErrInvalidEffectiveDate
	}

	rate := &ClientRate{
		ID:              uuid.New(),
		ClientID:        clientID,
		HourlyRatePence: req.HourlyRatePence,
		EffectiveDate:   effectiveDate,
	}

	if err := qtx.Create(ctx, rate); err != nil {
		return ClientRateResponse{}, mapRepositoryError(err)
	}

	created, err := qtx.FindByIDAndBranch(ctx, branchID, rate.ID.String())
	if err != nil {
		return ClientRateResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ClientRateResponse{}, err
	}

	return mapToResponse(*created), nil
}

func (s *service) GetAll(
	ctx context.Context,
	branchID string,
) ([]ClientRateResponse, error) {
	rates, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(rates), nil
}

func (s *service) GetByID(
	ctx context.Context,
	branchID, id string,
) (ClientRateResponse, error) {
	rate, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return ClientRateResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*rate), nil
}

// Update never mutates the existing row; it appends a new rate version so
// past payroll runs keep resolving the rate they were computed with.
func (s *service) Update(
	ctx context.Context,
	branchID, id string,
	req UpdateClientRateRequest,
) (ClientRateResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClientRateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	_, err = qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		return ClientRateResponse{}, mapRepositoryError(err)
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return ClientRateResponse{}, err
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return ClientRateResponse{}, clientrateerrors.ErrInvalidEffectiveDate
	}

	newRate := &ClientRate{
		ID:              uuid.New(),
		ClientID:        clientID,
		HourlyRatePence: req.HourlyRatePence,
		EffectiveDate:   effectiveDate,
	}

	if err := qtx.Create(ctx, newRate); err != nil {
		return ClientRateResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ClientRateResponse{}, err
	}

	return mapToResponse(*newRate), nil
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
		return mapRepositoryError(err)
	}

	return tx.Commit()
}

func (s *service) RateFor(ctx context.Context, branchID, clientID string, on time.Time) (int64, error) {
	rate, err := s.repo.FindRateFor(ctx, branchID, clientID, on)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, clientrateerrors.ErrNoRateForDate
		}
		return 0, err
	}
	return rate.HourlyRatePence, nil
}

func mapToResponse(rate ClientRate) ClientRateResponse {
	return ClientRateResponse{
		ID:              rate.ID.String(),
		ClientID:        rate.ClientID.String(),
		ClientName:      rate.ClientName,
		HourlyRatePence: rate.HourlyRatePence,
		EffectiveDate:   rate.EffectiveDate.Format("2006-01-02"),
	}
}

func mapToListResponse(rates []ClientRate) []ClientRateResponse {
	res := make([]ClientRateResponse, len(rates))
	for i, rate := range rates {
		res[i] = mapToResponse(rate)
	}
	return res
}
