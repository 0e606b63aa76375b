package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-careops/internal/leave/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusSubmitted = "SUBMITTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, branchID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, branchID, id string) (LeaveResponse, error)
	Submit(ctx context.Context, branchID, actorID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, branchID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, branchID, actorID, id, rejectionReason string) (LeaveResponse, error)
	Delete(ctx context.Context, branchID, id string) error

	// ApplyEdit persists new dates, type and reason for an existing leave.
	// Only the edit-session workflow calls it; the save gate lives there.
	ApplyEdit(ctx context.Context, branchID, id string, startDate, endDate time.Time, leaveType, reason string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, branchID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("branch_id", branchID),
		zap.String("actor_id", actorID),
		zap.String("carer_id", req.CarerID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	branchUUID, carerUUID, createdByUUID, startDate, endDate, err := validateCreateRequest(branchID, actorID, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	belongs, err := qtx.CarerBelongsToBranch(ctx, branchID, req.CarerID)
	if err != nil {
		s.logger.Error("create leave carer branch check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrCarerNotInBranch
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, branchID, req.CarerID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("branch_id", branchID),
			zap.String("carer_id", req.CarerID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	l := &Leave{
		ID:        uuid.New(),
		BranchID:  branchUUID,
		CarerID:   carerUUID,
		LeaveType: req.LeaveType,
		StartDate: startDate,
		EndDate:   endDate,
		TotalDays: totalDays,
		Reason:    req.Reason,
		Status:    StatusPending,
		CreatedBy: createdByUUID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("branch_id", branchID),
		zap.String("carer_id", req.CarerID),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, branchID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, branchID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Submit(ctx context.Context, branchID, actorID, id string) (LeaveResponse, error) {
	return s.transitionLeaveStatus(ctx, branchID, actorID, id, StatusSubmitted, nil)
}

func (s *service) Approve(ctx context.Context, branchID, actorID, id string) (LeaveResponse, error) {
	return s.transitionLeaveStatus(ctx, branchID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, branchID, actorID, id, rejectionReason string) (LeaveResponse, error) {
	return s.transitionLeaveStatus(ctx, branchID, actorID, id, StatusRejected, &rejectionReason)
}

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	if currentStatus == targetStatus {
		return currentStatus == StatusPending
	}

	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusSubmitted || targetStatus == StatusCancelled
	case StatusSubmitted:
		return targetStatus == StatusApproved || targetStatus == StatusRejected
	default:
		return false
	}
}

func (s *service) transitionLeaveStatus(ctx context.Context, branchID, actorID, id, targetStatus string, rejectionReason *string) (LeaveResponse, error) {
	s.logger.Debug("transition leave status requested",
		zap.String("leave_id", id),
		zap.String("branch_id", branchID),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	l, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if !isAllowedStatusTransition(l.Status, targetStatus) {
		s.logger.Warn("transition leave status invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		l.ApprovedBy = &actorUUID
		now := time.Now().UTC()
		l.ApprovedAt = &now
		l.RejectionReason = nil
	case StatusRejected:
		if rejectionReason == nil || *rejectionReason == "" {
			return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
		}
		l.ApprovedBy = nil
		l.ApprovedAt = nil
		l.RejectionReason = rejectionReason
	default:
		l.ApprovedBy = nil
		l.ApprovedAt = nil
		l.RejectionReason = nil
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("transition leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave status commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("transition leave status success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, branchID, id string) error {
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

func (s *service) ApplyEdit(ctx context.Context, branchID, id string, startDate, endDate time.Time, leaveType, reason string) (LeaveResponse, error) {
	s.logger.Debug("apply leave edit requested",
		zap.String("leave_id", id),
		zap.String("branch_id", branchID),
	)

	if startDate.After(endDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave edit begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, branchID, l.CarerID.String(), startDate, endDate, &id)
	if err != nil {
		s.logger.Error("apply leave edit overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l.StartDate = startDate
	l.EndDate = endDate
	l.TotalDays = int(endDate.Sub(startDate).Hours()/24) + 1
	l.LeaveType = leaveType
	l.Reason = reason

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("apply leave edit persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave edit commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	s.logger.Info("apply leave edit success",
		zap.String("leave_id", id),
		zap.String("start_date", startDate.Format("2006-01-02")),
		zap.String("end_date", endDate.Format("2006-01-02")),
	)
	return mapToResponse(*l), nil
}

func validateCreateRequest(branchID, actorID string, req CreateLeaveRequest) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	branchUUID, err := uuid.Parse(branchID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidBranchID
	}
	carerUUID, err := uuid.Parse(req.CarerID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidCarerID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return branchUUID, carerUUID, createdByUUID, startDate, endDate, nil
}

func parseDate(raw string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return d, nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID.String(),
		BranchID:  l.BranchID.String(),
		CarerID:   l.CarerID.String(),
		LeaveType: l.LeaveType,
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		TotalDays: l.TotalDays,
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedBy: l.CreatedBy.String(),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = l.RejectionReason
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	res := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		res[i] = mapToResponse(l)
	}
	return res
}
