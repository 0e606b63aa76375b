package booking

import (
	"context"
	"database/sql"
	"time"

	"go-careops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=booking_repo.go -destination=mock/booking_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, booking *Booking) error
	FindAllByBranch(ctx context.Context, branchID string) ([]Booking, error)
	FindByIDAndBranch(ctx context.Context, branchID string, id string) (*Booking, error)
	FindOverlappingForCarer(ctx context.Context, branchID, carerID string, from, to time.Time) ([]Booking, error)
	Update(ctx context.Context, booking *Booking) error
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

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.conn(ctx).Create(booking).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Booking, error) {
	var bookings []Booking
	err := r.conn(ctx).
		Table("bookings").
		Select("bookings.*, clients.full_name AS client_name").
		Joins("JOIN clients ON clients.id = bookings.client_id").
		Where("bookings.branch_id = ?", branchID).
		Where("bookings.deleted_at IS NULL").
		Order("bookings.start_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID string, id string) (*Booking, error) {
	var booking Booking
	err := r.conn(ctx).
		Table("bookings").
		Select("bookings.*, clients.full_name AS client_name").
		Joins("JOIN clients ON clients.id = bookings.client_id").
		Where("bookings.id = ?", id).
		Where("bookings.branch_id = ?", branchID).
		Where("bookings.deleted_at IS NULL").
		First(&booking).Error
	return &booking, err
}

// FindOverlappingForCarer returns the carer's non-cancelled bookings whose
// time window intersects [from, to]. Rows come back in start order, which is
// the order the conflict list shows them in.
func (r *repository) FindOverlappingForCarer(ctx context.Context, branchID, carerID string, from, to time.Time) ([]Booking, error) {
	var bookings []Booking
	err := r.conn(ctx).
		Table("bookings").
		Select("bookings.*, clients.full_name AS client_name").
		Joins("JOIN clients ON clients.id = bookings.client_id").
		Where("bookings.branch_id = ?", branchID).
		Where("bookings.carer_id = ?", carerID).
		Where("bookings.status NOT IN ?", []string{StatusCancelled, StatusCompleted}).
		Where("NOT (bookings.end_at < ? OR bookings.start_at > ?)", from, to).
		Where("bookings.deleted_at IS NULL").
		Order("bookings.start_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) Update(ctx context.Context, booking *Booking) error {
	return r.conn(ctx).Save(booking).Error
}

func (r *repository) Delete(ctx context.Context, branchID string, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		Delete(&Booking{}, "id = ?", id).Error
}
