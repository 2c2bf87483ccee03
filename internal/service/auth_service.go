package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"media-catalog-service/internal/models"
	"media-catalog-service/internal/repository"
	"media-catalog-service/internal/token"
)

// ErrInvalidCredentials is returned for a bad login and for a signup
// with a taken username. The message is deliberately the same in both
// cases so responses do not reveal which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles signup, login and token refresh.
type AuthService struct {
	users  *repository.UserRepository
	tokens *token.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup creates a user with a bcrypt-hashed password and issues tokens
// bound to the new user's id.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, string(hash))
	if err != nil {
		// The unique constraint on username decides duplicates, so two
		// concurrent signups for the same name cannot both succeed.
		if strings.Contains(err.Error(), "duplicate key value") {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issueTokens(user)
}

// Login verifies credentials and issues tokens. The bcrypt comparison is
// constant-time with respect to the stored hash.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh mints a new access token for an identity already proven by a
// valid refresh token.
func (s *AuthService) Refresh(userID int64) (string, error) {
	return s.tokens.IssueAccess(userID)
}

// Profile returns the user record behind an authenticated id.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*models.AuthResponse, error) {
	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &models.AuthResponse{
		Token:        access,
		RefreshToken: refresh,
		ID:           user.ID,
		Username:     user.Username,
	}, nil
}
