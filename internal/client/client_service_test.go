package client_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-careops/internal/client"
	clienterrors "go-careops/internal/client/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeClientRepository struct {
	createFn            func(ctx context.Context, c *client.Client) error
	findAllByBranchFn   func(ctx context.Context, branchID string) ([]client.Client, error)
	findByIDAndBranchFn func(ctx context.Context, branchID, id string) (*client.Client, error)
	updateFn            func(ctx context.Context, c *client.Client) error
	deleteFn            func(ctx context.Context, branchID, id string) error
	createNoteFn        func(ctx context.Context, note *client.ClientNote) error
	findNotesByClientFn func(ctx context.Context, branchID, clientID string) ([]client.ClientNote, error)
}

func (f *fakeClientRepository) WithTx(tx *sql.Tx) client.Repository { return f }

func (f *fakeClientRepository) Create(ctx context.Context, c *client.Client) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeClientRepository) FindAllByBranch(ctx context.Context, branchID string) ([]client.Client, error) {
	if f.findAllByBranchFn != nil {
		return f.findAllByBranchFn(ctx, branchID)
	}
	return nil, nil
}

func (f *fakeClientRepository) FindByIDAndBranch(ctx context.Context, branchID, id string) (*client.Client, error) {
	if f.findByIDAndBranchFn != nil {
		return f.findByIDAndBranchFn(ctx, branchID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClientRepository) Update(ctx context.Context, c *client.Client) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return nil
}

func (f *fakeClientRepository) Delete(ctx context.Context, branchID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, branchID, id)
	}
	return nil
}

func (f *fakeClientRepository) CreateNote(ctx context.Context, note *client.ClientNote) error {
	if f.createNoteFn != nil {
		return f.createNoteFn(ctx, note)
	}
	return nil
}

func (f *fakeClientRepository) FindNotesByClient(ctx context.Context, branchID, clientID string) ([]client.ClientNote, error) {
	if f.findNotesByClientFn != nil {
		return f.findNotesByClientFn(ctx, branchID, clientID)
	}
	return nil, nil
}

func TestClientService_AddNote(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	clientID := uuid.New().String()
	authorID := uuid.New().String()

	existing := func(ctx context.Context, bid, id string) (*client.Client, error) {
		return &client.Client{
			ID:       uuid.MustParse(clientID),
			BranchID: uuid.MustParse(branchID),
			FullName: "Ada Price",
			IsActive: true,
		}, nil
	}

	t.Run("records author and category", func(t *testing.T) {
		repo := &fakeClientRepository{findByIDAndBranchFn: existing}
		svc := client.NewService(repo)

		var created *client.ClientNote
		repo.createNoteFn = func(ctx context.Context, note *client.ClientNote) error {
			created = note
			return nil
		}

		resp, err := svc.AddNote(ctx, branchID, authorID, clientID, client.AddNoteRequest{
			Category: client.NoteCategoryCare,
			Body:     "Prefers morning visits",
		})

		assert.NoError(t, err)
		assert.Equal(t, authorID, created.AuthorID.String())
		assert.Equal(t, client.NoteCategoryCare, resp.Category)
		assert.Equal(t, "Prefers morning visits", resp.Body)
	})

	t.Run("system notes fall back to nil author", func(t *testing.T) {
		repo := &fakeClientRepository{findByIDAndBranchFn: existing}
		svc := client.NewService(repo)

		var created *client.ClientNote
		repo.createNoteFn = func(ctx context.Context, note *client.ClientNote) error {
			created = note
			return nil
		}

		_, err := svc.AddNote(ctx, branchID, "", clientID, client.AddNoteRequest{
			Category: client.NoteCategorySystem,
			Body:     "Visit on 2026-03-03 cancelled: carer on leave",
		})

		assert.NoError(t, err)
		assert.Equal(t, uuid.Nil, created.AuthorID)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc := client.NewService(&fakeClientRepository{findByIDAndBranchFn: existing})

		_, err := svc.AddNote(ctx, branchID, authorID, clientID, client.AddNoteRequest{
			Category: "gossip",
			Body:     "nope",
		})
		assert.ErrorIs(t, err, clienterrors.ErrInvalidNoteCategory)
	})

	t.Run("unknown client", func(t *testing.T) {
		svc := client.NewService(&fakeClientRepository{})

		_, err := svc.AddNote(ctx, branchID, authorID, clientID, client.AddNoteRequest{
			Category: client.NoteCategoryGeneral,
			Body:     "hello",
		})
		assert.ErrorIs(t, err, clienterrors.ErrClientNotFound)
	})
}

func TestClientService_GetNotes(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New().String()
	clientID := uuid.New()

	repo := &fakeClientRepository{
		findByIDAndBranchFn: func(ctx context.Context, bid, id string) (*client.Client, error) {
			return &client.Client{ID: clientID, BranchID: uuid.MustParse(branchID)}, nil
		},
		findNotesByClientFn: func(ctx context.Context, bid, cid string) ([]client.ClientNote, error) {
			return []client.ClientNote{
				{ID: uuid.New(), ClientID: clientID, Category: client.NoteCategoryIncident, Body: "fall reported", CreatedAt: time.Now()},
				{ID: uuid.New(), ClientID: clientID, Category: client.NoteCategoryGeneral, Body: "intro visit", CreatedAt: time.Now().Add(-time.Hour)},
			}, nil
		},
	}
	svc := client.NewService(repo)

	notes, err := svc.GetNotes(ctx, branchID, clientID.String())
	assert.NoError(t, err)
	assert.Len(t, notes, 2)
	assert.Equal(t, "fall reported", notes[0].Body)
}
