package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return &user, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return &user, err
	}
	return &user, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return &user, err
	}
	if err := r.resolveEffectiveRole(ctx, &user); err != nil {
		return &user, err
	}
	return &user, nil
}

// resolveEffectiveRole picks the most privileged role assigned to the linked
// carer; users without a carer record keep their stored role.
func (r *repository) resolveEffectiveRole(ctx context.Context, user *User) error {
	if user.CarerID == nil || *user.CarerID == uuid.Nil {
		if user.Role == "" {
			user.Role = "CARER"
		}
		user.Role = strings.ToUpper(strings.TrimSpace(user.Role))
		return nil
	}

	var roleName string
	err := r.db.WithContext(ctx).
		Table("carer_roles cr").
		Select("roles.name").
		Joins("JOIN roles ON roles.id = cr.role_id").
		Where("cr.carer_id = ?", *user.CarerID).
		Where("roles.branch_id = ?", user.BranchID).
		Order(`
			CASE UPPER(roles.name)
				WHEN 'ADMIN' THEN 1
				WHEN 'MANAGER' THEN 2
				WHEN 'COORDINATOR' THEN 3
				WHEN 'FINANCE' THEN 4
				WHEN 'CARER' THEN 5
				ELSE 99
			END ASC`).
		Limit(1).
		Scan(&roleName).Error
	if err != nil {
		return err
	}

	if strings.TrimSpace(roleName) == "" {
		roleName = user.Role
	}
	if strings.TrimSpace(roleName) == "" {
		roleName = "CARER"
	}
	user.Role = strings.ToUpper(strings.TrimSpace(roleName))
	return nil
}
