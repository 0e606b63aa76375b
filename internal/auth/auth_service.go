package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "go-careops/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service interface {
	Register(ctx context.Context, branchID uuid.UUID, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, *AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*AuthResponse, error)
}

type service struct {
	repo   Repository
	secret []byte
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		repo:   repo,
		secret: []byte(os.Getenv("JWT_SECRET")),
		logger: l,
	}
}

func (s *service) Register(ctx context.Context, branchID uuid.UUID, req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, autherrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:       uuid.New(),
		BranchID: branchID,
		CarerID:  req.CarerID,
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     "CARER",
		IsActive: true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("branch_id", branchID.String()),
	)
	return toAuthResponse(user), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenPair, *AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, autherrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, autherrors.ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return nil, nil, autherrors.ErrTokenGenerationFailed
	}
	return pair, toAuthResponse(user), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidRefreshToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, autherrors.ErrInvalidRefreshToken
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return nil, autherrors.ErrInvalidRefreshToken
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, autherrors.ErrInvalidRefreshToken
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, autherrors.ErrTokenGenerationFailed
	}
	return pair, nil
}

func (s *service) GetMe(ctx context.Context, userID uuid.UUID) (*AuthResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}
	return toAuthResponse(user), nil
}

func (s *service) generateTokenPair(user *User) (*TokenPair, error) {
	now := time.Now()

	carerID := ""
	if user.CarerID != nil {
		carerID = user.CarerID.String()
	}

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID.String(),
		"branch_id": user.BranchID.String(),
		"carer_id":  carerID,
		"role":      user.Role,
		"type":      "access",
		"iat":       now.Unix(),
		"exp":       now.Add(accessTokenTTL).Unix(),
	})
	accessToken, err := access.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"type":    "refresh",
		"iat":     now.Unix(),
		"exp":     now.Add(refreshTokenTTL).Unix(),
	})
	refreshToken, err := refresh.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func toAuthResponse(user *User) *AuthResponse {
	return &AuthResponse{
		ID:       user.ID,
		BranchID: user.BranchID,
		CarerID:  user.CarerID,
		Email:    user.Email,
		Name:     user.Name,
		Role:     user.Role,
	}
}
