package carer

import (
	"context"
	"database/sql"

	"go-careops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=carer_repo.go -destination=mock/carer_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, carer *Carer) error
	FindAllByBranch(ctx context.Context, branchID string) ([]Carer, error)
	FindByIDAndBranch(ctx context.Context, branchID string, id string) (*Carer, error)
	FindActiveOptionsByBranch(ctx context.Context, branchID string) ([]Carer, error)
	Update(ctx context.Context, carer *Carer) error
	Delete(ctx context.Context, branchID string, id string) error
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

func (r *repository) Create(ctx context.Context, carer *Carer) error {
	return r.conn(ctx).Create(carer).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Carer, error) {
	var carers []Carer
	err := r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		Find(&carers).Error
	return carers, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID string, id string) (*Carer, error) {
	var carer Carer
	err := r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&carer, "id = ?", id).Error
	return &carer, err
}

func (r *repository) FindActiveOptionsByBranch(ctx context.Context, branchID string) ([]Carer, error) {
	var carers []Carer
	err := r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("active = ?", true).
		Select("id", "full_name", "staff_number").
		Order("full_name ASC").
		Find(&carers).Error
	return carers, err
}

func (r *repository) Update(ctx context.Context, carer *Carer) error {
	return r.conn(ctx).Save(carer).Error
}

func (r *repository) Delete(ctx context.Context, branchID string, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		Delete(&Carer{}, "id = ?", id).Error
}
