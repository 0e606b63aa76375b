package rbac

import (
	"sync"

	"go-careops/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadBranchPolicy(branchID string) error
	Enforce(req domain.EnforceRequest) (bool, error)

	ListRoles(branchID string) ([]domain.RoleResponse, error)
	GetRole(id string) (domain.RoleResponse, error)
	CreateRole(branchID string, req domain.CreateRoleRequest) (domain.RoleResponse, error)
	UpdateRole(id string, req domain.UpdateRoleRequest) (domain.RoleResponse, error)
	DeleteRole(id string) error
	ListPermissions() ([]domain.PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadBranchPolicy(branchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadBranchPolicyUnlocked(branchID)
}

func (s *service) loadBranchPolicyUnlocked(branchID string) error {
	s.enforcer.ClearPolicy()

	carerRoles, err := s.repo.GetCarerRoles(branchID)
	if err != nil {
		return err
	}

	for _, cr := range carerRoles {
		if _, err := s.enforcer.AddGroupingPolicy(cr.CarerID, cr.RoleID, branchID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(branchID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, branchID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("branch policy loaded",
		zap.String("branch_id", branchID),
		zap.Int("carer_roles", len(carerRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadBranchPolicyUnlocked(req.BranchID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.CarerID,
		req.BranchID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("carer_id", req.CarerID),
			zap.String("branch_id", req.BranchID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("carer_id", req.CarerID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}

func (s *service) ListRoles(branchID string) ([]domain.RoleResponse, error) {
	rows, err := s.repo.ListRoles(branchID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RoleResponse, 0, len(rows))
	for _, row := range rows {
		resp, err := s.roleResponse(row)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *service) GetRole(id string) (domain.RoleResponse, error) {
	row, err := s.repo.GetRoleByID(id)
	if err != nil {
		return domain.RoleResponse{}, err
	}
	return s.roleResponse(*row)
}

func (s *service) CreateRole(branchID string, req domain.CreateRoleRequest) (domain.RoleResponse, error) {
	role := &RoleRow{
		BranchID:    branchID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(role); err != nil {
		return domain.RoleResponse{}, err
	}
	if len(req.Permissions) > 0 {
		if err := s.repo.UpdateRolePermissions(role.ID, req.Permissions); err != nil {
			return domain.RoleResponse{}, err
		}
	}
	return s.roleResponse(*role)
}

func (s *service) UpdateRole(id string, req domain.UpdateRoleRequest) (domain.RoleResponse, error) {
	row, err := s.repo.GetRoleByID(id)
	if err != nil {
		return domain.RoleResponse{}, err
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.Description != "" {
		row.Description = req.Description
	}
	if err := s.repo.UpdateRole(row); err != nil {
		return domain.RoleResponse{}, err
	}
	if req.Permissions != nil {
		if err := s.repo.UpdateRolePermissions(row.ID, req.Permissions); err != nil {
			return domain.RoleResponse{}, err
		}
	}
	return s.roleResponse(*row)
}

func (s *service) DeleteRole(id string) error {
	return s.repo.DeleteRole(id)
}

func (s *service) ListPermissions() ([]domain.PermissionResponse, error) {
	rows, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	out := make([]domain.PermissionResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		})
	}
	return out, nil
}

func (s *service) roleResponse(row RoleRow) (domain.RoleResponse, error) {
	perms, err := s.repo.GetPermissionsByRoleID(row.ID)
	if err != nil {
		return domain.RoleResponse{}, err
	}

	permIDs := make([]string, 0, len(perms))
	for _, p := range perms {
		permIDs = append(permIDs, p.Resource+":"+p.Action)
	}

	return domain.RoleResponse{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Permissions: permIDs,
	}, nil
}
