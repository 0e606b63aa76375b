package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAllByBranch(ctx context.Context, branchID string) ([]Leave, error)
	FindByIDAndBranch(ctx context.Context, branchID, id string) (*Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, branchID, id string) error
	CarerBelongsToBranch(ctx context.Context, branchID, carerID string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, branchID, carerID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn routes statements through the bound tx when present, so a write either
// commits with the caller's transaction or rolls back with it.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	if r.tx == nil {
		return r.db.WithContext(ctx)
	}
	db := r.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	db.Statement.ConnPool = r.tx
	return db
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Leave, error) {
	var leaves []Leave
	err := r.conn(ctx).
		Where("branch_id = ?", branchID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).
		Where("branch_id = ?", branchID).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, branchID, id string) error {
	return r.conn(ctx).
		Where("branch_id = ?", branchID).
		Delete(&Leave{}, "id = ?", id).Error
}

func (r *repository) CarerBelongsToBranch(ctx context.Context, branchID, carerID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("carers").
		Where("id = ?", carerID).
		Where("branch_id = ?", branchID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, branchID, carerID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&Leave{}).
		Where("branch_id = ?", branchID).
		Where("carer_id = ?", carerID).
		Where("status <> ?", StatusCancelled).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
