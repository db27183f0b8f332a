package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"parkhub/internal/cache"
	"parkhub/internal/models"
	"parkhub/internal/password"
	"parkhub/internal/repository"
)

// UserStore defines the account storage contract used by the service.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService contains registration and login logic.
type AuthService struct {
	users  UserStore
	hasher password.Hasher
	tokens *TokenService
	cache  Cache
	logger *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(users UserStore, hasher password.Hasher, tokens *TokenService, cc Cache, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		cache:  cc,
		logger: logger,
	}
}

// Register creates a new user account with the user role.
func (s *AuthService) Register(ctx context.Context, username, email, pass string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || pass == "" {
		return nil, ErrInvalidInput
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, cache.AfterUserChange()...)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, username, pass string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || pass == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
