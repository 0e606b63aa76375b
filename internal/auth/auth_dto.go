package auth

import "github.com/google/uuid"

type RegisterRequest struct {
	CarerID  *uuid.UUID `json:"carer_id" binding:"omitempty"`
	Email    string     `json:"email" binding:"required,email"`
	Name     string     `json:"name" binding:"required"`
	Password string     `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthResponse struct {
	ID       uuid.UUID  `json:"id"`
	BranchID uuid.UUID  `json:"branch_id"`
	CarerID  *uuid.UUID `json:"carer_id,omitempty"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Role     string     `json:"role"`
}
