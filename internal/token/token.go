package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"media-catalog-service/internal/config"
)

const issuer = "media-catalog-api"

// Token classes. Protected routes require an access token; the refresh
// route requires a refresh token.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongUse     = errors.New("wrong token class")
)

// Claims carries the authenticated user id as the subject claim plus the
// token class.
type Claims struct {
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// Manager issues and validates HS256-signed access and refresh tokens.
type Manager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewManager creates a token manager from JWT configuration.
func NewManager(cfg config.JWTConfig) *Manager {
	return &Manager{
		secret:        []byte(cfg.Secret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
	}
}

// IssueAccess mints a short-lived access token bound to the user id.
func (m *Manager) IssueAccess(userID int64) (string, error) {
	return m.issue(userID, UseAccess, m.accessExpiry)
}

// IssueRefresh mints a refresh token bound to the user id.
func (m *Manager) IssueRefresh(userID int64) (string, error) {
	return m.issue(userID, UseRefresh, m.refreshExpiry)
}

func (m *Manager) issue(userID int64, use string, ttl time.Duration) (string, error) {
	if userID <= 0 {
		return "", errors.New("invalid user ID")
	}

	now := time.Now()
	claims := Claims{
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate parses the token, checks the signature, expiry, issuer and
// token class, and returns the user id from the subject claim.
func (m *Manager) Validate(tokenString, use string) (int64, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !tok.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Issuer != issuer {
		return 0, ErrInvalidToken
	}
	if claims.TokenUse != use {
		return 0, ErrWrongUse
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
