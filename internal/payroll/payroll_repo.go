package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-careops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payroll *Payroll) error
	FindAllByBranch(ctx context.Context, branchID string) ([]Payroll, error)
	FindByIDAndBranch(ctx context.Context, branchID string, id string) (*Payroll, error)
	Update(ctx context.Context, payroll *Payroll) error
	Delete(ctx context.Context, branchID string, id string) error
	CarerBelongsToBranch(ctx context.Context, branchID string, carerID string) (bool, error)
	CarerHourlyRate(ctx context.Context, branchID string, carerID string) (int64, error)
	HasOverlappingPeriod(ctx context.Context, branchID string, carerID string, periodStart time.Time, periodEnd time.Time, excludePayrollID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
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

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.conn(ctx).Create(payroll).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		Order("period_start DESC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID string, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&payroll, "id = ?", id).Error
	return &payroll, err
}

func (r *repository) Update(ctx context.Context, payroll *Payroll) error {
	return r.conn(ctx).Save(payroll).Error
}

func (r *repository) Delete(ctx context.Context, branchID string, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		Delete(&Payroll{}, "id = ?", id).Error
}

func (r *repository) CarerBelongsToBranch(ctx context.Context, branchID string, carerID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Table("carers").
		Where("id = ?", carerID).
		Scopes(tenant.Scope(branchID)).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CarerHourlyRate(ctx context.Context, branchID string, carerID string) (int64, error) {
	var rate int64
	err := r.conn(ctx).
		Table("carers").
		Select("hourly_rate_pence").
		Where("id = ?", carerID).
		Where("branch_id = ?", branchID).
		Where("deleted_at IS NULL").
		Scan(&rate).Error
	return rate, err
}

func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	branchID string,
	carerID string,
	periodStart time.Time,
	periodEnd time.Time,
	excludePayrollID *string,
) (bool, error) {
	db := r.conn(ctx).
		Model(&Payroll{}).
		Scopes(tenant.Scope(branchID)).
		Where("carer_id = ?", carerID).
		Where("NOT (period_end < ? OR period_start > ?)", periodStart, periodEnd)

	if excludePayrollID != nil && *excludePayrollID != "" {
		db = db.Where("id <> ?", *excludePayrollID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
