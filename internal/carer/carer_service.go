package carer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	carererrors "go-careops/internal/carer/errors"
	"go-careops/internal/shared/contextutil"
	"go-careops/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const CarerOptionsKeyPrefix = "carers:options:"

func GetCarerOptionsKey(branchID string) string {
	return CarerOptionsKeyPrefix + branchID
}

//go:generate mockgen -source=carer_service.go -destination=mock/carer_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID string, req CreateCarerRequest) (CarerResponse, error)
	GetAll(ctx context.Context, branchID string) ([]CarerResponse, error)
	GetOptions(ctx context.Context, branchID, excludeID string) ([]CarerOption, error)
	GetByID(ctx context.Context, branchID, id string) (CarerResponse, error)
	Update(ctx context.Context, branchID, id string, req UpdateCarerRequest) (CarerResponse, error)
	Delete(ctx context.Context, branchID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("carer.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("carer.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(
	ctx context.Context,
	branchID string,
	req CreateCarerRequest,
) (CarerResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create carer requested",
		zap.String("request_id", rid),
		zap.String("branch_id", branchID),
		zap.String("email", req.Email),
	)

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		s.logger.Warn("create carer invalid hire_date",
			zap.String("hire_date", req.HireDate),
			zap.Error(err),
		)
		return CarerResponse{}, carererrors.ErrInvalidHireDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create carer begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return CarerResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.StaffNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, branchID, "staff_number")
		if err != nil {
			s.logger.Error("create carer generate staff number failed", zap.Error(err))
			return CarerResponse{}, err
		}
		req.StaffNumber = fmt.Sprintf("CAR-%06d", nextVal)
	}

	crr := &Carer{
		ID:              uuid.New(),
		BranchID:        uuid.MustParse(branchID),
		FullName:        req.FullName,
		Email:           req.Email,
		StaffNumber:     req.StaffNumber,
		Phone:           req.Phone,
		HourlyRatePence: req.HourlyRatePence,
		HireDate:        hireDate,
		Active:          true,
	}

	if err := qtx.Create(ctx, crr); err != nil {
		s.logger.Error("create carer persist failed", zap.Error(err))
		return CarerResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create carer commit failed", zap.String("request_id", rid), zap.Error(err))
		return CarerResponse{}, err
	}

	s.invalidateOptionsCache(ctx, branchID)

	s.logger.Info("create carer success",
		zap.String("request_id", rid),
		zap.String("carer_id", crr.ID.String()),
	)

	return mapToResponse(*crr), nil
}

func (s *service) GetAll(
	ctx context.Context,
	branchID string,
) ([]CarerResponse, error) {
	s.logger.Debug("get all carers requested", zap.String("branch_id", branchID))
	carers, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		s.logger.Error("get all carers failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(carers), nil
}

// GetOptions returns active carers for reassignment pickers. The exclude
// filter is applied after the cache read so one cached list serves every
// booking regardless of which carer is being replaced.
func (s *service) GetOptions(ctx context.Context, branchID, excludeID string) ([]CarerOption, error) {
	cacheKey := GetCarerOptionsKey(branchID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var opts []CarerOption
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return filterOptions(opts, excludeID), nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		carers, err := s.repo.FindActiveOptionsByBranch(ctx, branchID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		opts := make([]CarerOption, len(carers))
		for i, c := range carers {
			opts[i] = CarerOption{
				ID:          c.ID.String(),
				FullName:    c.FullName,
				StaffNumber: c.StaffNumber,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(opts); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return opts, nil
	})
	if err != nil {
		return nil, err
	}

	return filterOptions(v.([]CarerOption), excludeID), nil
}

func (s *service) GetByID(
	ctx context.Context,
	branchID, id string,
) (CarerResponse, error) {
	s.logger.Debug("get carer by id requested",
		zap.String("branch_id", branchID),
		zap.String("carer_id", id),
	)
	crr, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		s.logger.Error("get carer by id failed", zap.Error(err))
		return CarerResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*crr), nil
}

func (s *service) Update(
	ctx context.Context,
	branchID, id string,
	req UpdateCarerRequest,
) (CarerResponse, error) {
	s.logger.Debug("update carer requested",
		zap.String("branch_id", branchID),
		zap.String("carer_id", id),
	)

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		s.logger.Warn("update carer invalid hire_date",
			zap.String("hire_date", req.HireDate),
			zap.Error(err),
		)
		return CarerResponse{}, carererrors.ErrInvalidHireDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update carer begin tx failed", zap.Error(err))
		return CarerResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	crr, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		s.logger.Error("update carer fetch existing failed", zap.Error(err))
		return CarerResponse{}, mapRepositoryError(err)
	}

	crr.FullName = req.FullName
	crr.Email = req.Email
	crr.Phone = req.Phone
	crr.HourlyRatePence = req.HourlyRatePence
	crr.HireDate = hireDate
	if req.Active != nil {
		crr.Active = *req.Active
	}

	if err := qtx.Update(ctx, crr); err != nil {
		s.logger.Error("update carer persist failed", zap.Error(err))
		return CarerResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update carer commit failed", zap.Error(err))
		return CarerResponse{}, err
	}

	s.invalidateOptionsCache(ctx, branchID)

	s.logger.Info("update carer success", zap.String("carer_id", id))

	return mapToResponse(*crr), nil
}

func (s *service) Delete(
	ctx context.Context,
	branchID, id string,
) error {
	s.logger.Debug("delete carer requested",
		zap.String("branch_id", branchID),
		zap.String("carer_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete carer begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, branchID, id); err != nil {
		s.logger.Error("delete carer failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete carer commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx, branchID)

	s.logger.Info("delete carer success", zap.String("carer_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, branchID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetCarerOptionsKey(branchID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate carer options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func filterOptions(opts []CarerOption, excludeID string) []CarerOption {
	if excludeID == "" {
		return opts
	}
	filtered := make([]CarerOption, 0, len(opts))
	for _, o := range opts {
		if o.ID == excludeID {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

func mapToResponse(crr Carer) CarerResponse {
	return CarerResponse{
		ID:              crr.ID.String(),
		BranchID:        crr.BranchID.String(),
		FullName:        crr.FullName,
		Email:           crr.Email,
		StaffNumber:     crr.StaffNumber,
		Phone:           crr.Phone,
		HourlyRatePence: crr.HourlyRatePence,
		HireDate:        crr.HireDate.Format("2006-01-02"),
		Active:          crr.Active,
	}
}

func mapToListResponse(carers []Carer) []CarerResponse {
	res := make([]CarerResponse, len(carers))
	for i, c := range carers {
		res[i] = mapToResponse(c)
	}
	return res
}
