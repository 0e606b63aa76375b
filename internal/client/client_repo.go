package client

import (
	"context"
	"database/sql"

	"go-careops/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=client_repo.go -destination=mock/client_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, client *Client) error
	FindAllByBranch(ctx context.Context, branchID string) ([]Client, error)
	FindByIDAndBranch(ctx context.Context, branchID string, id string) (*Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, branchID string, id string) error

	CreateNote(ctx context.Context, note *ClientNote) error
	FindNotesByClient(ctx context.Context, branchID string, clientID string) ([]ClientNote, error)
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

func (r *repository) Create(ctx context.Context, client *Client) error {
	return r.conn(ctx).Create(client).Error
}

func (r *repository) FindAllByBranch(ctx context.Context, branchID string) ([]Client, error) {
	var clients []Client
	err := r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		Find(&clients).Error
	return clients, err
}

func (r *repository) FindByIDAndBranch(ctx context.Context, branchID string, id string) (*Client, error) {
	var cl Client
	err := r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		First(&cl, "id = ?", id).Error
	return &cl, err
}

func (r *repository) Update(ctx context.Context, client *Client) error {
	return r.conn(ctx).Save(client).Error
}

func (r *repository) Delete(ctx context.Context, branchID string, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		Delete(&Client{}, "id = ?", id).Error
}

func (r *repository) CreateNote(ctx context.Context, note *ClientNote) error {
	return r.conn(ctx).Create(note).Error
}

func (r *repository) FindNotesByClient(ctx context.Context, branchID string, clientID string) ([]ClientNote, error) {
	var notes []ClientNote
	err := r.conn(ctx).
		Scopes(tenant.Scope(branchID)).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}
