package client

import (
	"context"
	"time"

	clienterrors "go-careops/internal/client/errors"
	"go-careops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=client_service.go -destination=mock/client_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, branchID string, req CreateClientRequest) (ClientResponse, error)
	GetAll(ctx context.Context, branchID string) ([]ClientResponse, error)
	GetByID(ctx context.Context, branchID, id string) (ClientResponse, error)
	Update(ctx context.Context, branchID, id string, req UpdateClientRequest) (ClientResponse, error)
	Delete(ctx context.Context, branchID, id string) error

	AddNote(ctx context.Context, branchID, authorID, clientID string, req AddNoteRequest) (NoteResponse, error)
	GetNotes(ctx context.Context, branchID, clientID string) ([]NoteResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("client.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("client.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	branchID string,
	req CreateClientRequest,
) (ClientResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create client requested",
		zap.String("request_id", rid),
		zap.String("branch_id", branchID),
	)

	cl := &Client{
		ID:               uuid.New(),
		BranchID:         uuid.MustParse(branchID),
		FullName:         req.FullName,
		AddressLine:      req.AddressLine,
		Postcode:         req.Postcode,
		Phone:            req.Phone,
		EmergencyContact: req.EmergencyContact,
		CareRequirements: req.CareRequirements,
		IsActive:         true,
	}

	if err := s.repo.Create(ctx, cl); err != nil {
		s.logger.Error("create client persist failed", zap.Error(err))
		return ClientResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create client success",
		zap.String("request_id", rid),
		zap.String("client_id", cl.ID.String()),
	)
	return mapToResponse(*cl), nil
}

func (s *service) GetAll(ctx context.Context, branchID string) ([]ClientResponse, error) {
	s.logger.Debug("get all clients requested", zap.String("branch_id", branchID))
	clients, err := s.repo.FindAllByBranch(ctx, branchID)
	if err != nil {
		s.logger.Error("get all clients failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(clients), nil
}

func (s *service) GetByID(ctx context.Context, branchID, id string) (ClientResponse, error) {
	s.logger.Debug("get client by id requested",
		zap.String("branch_id", branchID),
		zap.String("client_id", id),
	)
	cl, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		s.logger.Error("get client by id failed", zap.Error(err))
		return ClientResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*cl), nil
}

func (s *service) Update(
	ctx context.Context,
	branchID, id string,
	req UpdateClientRequest,
) (ClientResponse, error) {
	s.logger.Debug("update client requested",
		zap.String("branch_id", branchID),
		zap.String("client_id", id),
	)

	cl, err := s.repo.FindByIDAndBranch(ctx, branchID, id)
	if err != nil {
		s.logger.Error("update client fetch existing failed", zap.Error(err))
		return ClientResponse{}, mapRepositoryError(err)
	}

	cl.FullName = req.FullName
	cl.AddressLine = req.AddressLine
	cl.Postcode = req.Postcode
	cl.Phone = req.Phone
	cl.EmergencyContact = req.EmergencyContact
	cl.CareRequirements = req.CareRequirements
	if req.IsActive != nil {
		cl.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, cl); err != nil {
		s.logger.Error("update client persist failed", zap.Error(err))
		return ClientResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update client success", zap.String("client_id", id))
	return mapToResponse(*cl), nil
}

func (s *service) Delete(ctx context.Context, branchID, id string) error {
	s.logger.Debug("delete client requested",
		zap.String("branch_id", branchID),
		zap.String("client_id", id),
	)

	if err := s.repo.Delete(ctx, branchID, id); err != nil {
		s.logger.Error("delete client failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	s.logger.Info("delete client success", zap.String("client_id", id))
	return nil
}

// AddNote appends to the client's care record. Notes are immutable once
// written; corrections are made by appending another note.
func (s *service) AddNote(
	ctx context.Context,
	branchID, authorID, clientID string,
	req AddNoteRequest,
) (NoteResponse, error) {
	s.logger.Debug("add client note requested",
		zap.String("branch_id", branchID),
		zap.String("client_id", clientID),
		zap.String("category", req.Category),
	)

	switch req.Category {
	case NoteCategoryGeneral, NoteCategoryCare, NoteCategoryIncident, NoteCategorySystem:
	default:
		return NoteResponse{}, clienterrors.ErrInvalidNoteCategory
	}

	if _, err := s.repo.FindByIDAndBranch(ctx, branchID, clientID); err != nil {
		s.logger.Error("add client note fetch client failed", zap.Error(err))
		return NoteResponse{}, mapRepositoryError(err)
	}

	author, err := uuid.Parse(authorID)
	if err != nil {
		author = uuid.Nil
	}

	note := &ClientNote{
		ID:        uuid.New(),
		BranchID:  uuid.MustParse(branchID),
		ClientID:  uuid.MustParse(clientID),
		AuthorID:  author,
		Category:  req.Category,
		Body:      req.Body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateNote(ctx, note); err != nil {
		s.logger.Error("add client note persist failed", zap.Error(err))
		return NoteResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("add client note success",
		zap.String("client_id", clientID),
		zap.String("note_id", note.ID.String()),
	)
	return mapNoteToResponse(*note), nil
}

func (s *service) GetNotes(ctx context.Context, branchID, clientID string) ([]NoteResponse, error) {
	s.logger.Debug("get client notes requested",
		zap.String("branch_id", branchID),
		zap.String("client_id", clientID),
	)

	notes, err := s.repo.FindNotesByClient(ctx, branchID, clientID)
	if err != nil {
		s.logger.Error("get client notes failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]NoteResponse, len(notes))
	for i, n := range notes {
		res[i] = mapNoteToResponse(n)
	}
	return res, nil
}

func mapToResponse(cl Client) ClientResponse {
	return ClientResponse{
		ID:               cl.ID.String(),
		BranchID:         cl.BranchID.String(),
		FullName:         cl.FullName,
		AddressLine:      cl.AddressLine,
		Postcode:         cl.Postcode,
		Phone:            cl.Phone,
		EmergencyContact: cl.EmergencyContact,
		CareRequirements: cl.CareRequirements,
		IsActive:         cl.IsActive,
	}
}

func mapToListResponse(clients []Client) []ClientResponse {
	res := make([]ClientResponse, len(clients))
	for i, c := range clients {
		res[i] = mapToResponse(c)
	}
	return res
}

func mapNoteToResponse(n ClientNote) NoteResponse {
	return NoteResponse{
		ID:        n.ID.String(),
		ClientID:  n.ClientID.String(),
		AuthorID:  n.AuthorID.String(),
		Category:  n.Category,
		Body:      n.Body,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
