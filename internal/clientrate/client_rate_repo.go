package clientrate

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=client_rate_repo.go -destination=mock/client_rate_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rate *ClientRate) error
	FindAllByBranch(ctx context.Context, branchID string) ([]ClientRate, error)
	FindByIDAndBranch(ctx context.Context, branchID string, id string) (*ClientRate, error)
	FindRateFor(ctx context.Context, branchID, clientID string, on time.Time) (*ClientRate, error)
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

func (r *repository) Create(ctx context.Context, rate *ClientRate) error {
	return r.conn(ctx).Create(rate).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]ClientRate, error) {
	var rates []ClientRate
	query := `
SELECT
	client_rates.*,
	clients.full_name AS client_name
FROM client_rates
JOIN clients ON clients.id = client_rates.client_id
WHERE clients.branch_id = ?
ORDER BY
	clients.full_name ASC,
	client_rates.effective_date DESC,
	client_rates.created_at DESC
`

	err := r.conn(ctx).Raw(query, branchID).Scan(&rates).Error
	return rates, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID string, id string) (*ClientRate, error) {
	var rate ClientRate
	err := r.conn(ctx).
		Table("client_rates").
		Select("client_rates.*, clients.full_name AS client_name").
		Joins("JOIN clients ON clients.id = client_rates.client_id").
		Where("client_rates.id = ?", id).
		Where("clients.branch_id = ?", branchID).
		First(&rate).Error
	return &rate, err
}

// FindRateFor picks the newest rate whose effective date is on or before the
// given day. Returns gorm.ErrRecordNotFound when the client has no rate yet.
func (r *repository) FindRateFor(ctx context.Context, branchID, clientID string, on time.Time) (*ClientRate, error) {
	var rate ClientRate
	err := r.conn(ctx).
		Table("client_rates").
		Select("client_rates.*").
		Joins("JOIN clients ON clients.id = client_rates.client_id").
		Where("client_rates.client_id = ?", clientID).
		Where("clients.branch_id = ?", branchID).
		Where("client_rates.effective_date <= ?", on).
		Order("client_rates.effective_date DESC").
		Order("client_rates.created_at DESC").
		First(&rate).Error
	return &rate, err
}

func (r *repository) Delete(ctx context.Context, branchID string, id string) error {
	return r.conn(ctx).
		Table("client_rates").
		Joins("JOIN clients ON clients.id = client_rates.client_id").
		Where("client_rates.id = ?", id).
		Where("clients.branch_id = ?", branchID).
		Delete(&ClientRate{}).Error
}
