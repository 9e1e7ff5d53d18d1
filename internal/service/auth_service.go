package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"studenthub/internal/auth"
	apperrors "studenthub/internal/errors"
	"studenthub/internal/model"
	"studenthub/internal/repository"
)

// AuthService handles registration, login and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users        repository.UserRepository
	hasher       *auth.PasswordHasher
	tokens       *auth.JWTService
	refreshStore auth.RefreshTokenStore
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher *auth.PasswordHasher, tokens *auth.JWTService, refreshStore auth.RefreshTokenStore) AuthService {
	return &authService{
		users:        users,
		hasher:       hasher,
		tokens:       tokens,
		refreshStore: refreshStore,
	}
}

// Register creates a new user with a hashed password. Emails are stored
// lowercase so uniqueness is case-insensitive.
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and returns access and refresh tokens. Unknown
// email and wrong password are deliberately the same error.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error) {
	user, err = s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}
	if !s.hasher.Check(password, user.PasswordHash) {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err = s.tokens.Issue(user.ID)
	if err != nil {
		return "", "", nil, fmt.Errorf("issue access token: %w", err)
	}

	tokenID, refreshToken, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return "", "", nil, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.refreshStore.Store(ctx, tokenID, user.ID, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// Refresh validates a refresh token against the store and issues a new access
// token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, tokenID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, err := s.refreshStore.Get(ctx, tokenID)
	if err != nil || storedUserID != userID {
		return "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	_, tokenID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	return s.refreshStore.Delete(ctx, tokenID)
}
