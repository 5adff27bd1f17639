package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sjcbulldog/xerodb/internal/config"
	"github.com/sjcbulldog/xerodb/internal/middleware"
	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/repository"
)

// AuthService mints and refreshes JWTs for identities already present in the
// users table. Credential verification happens upstream (team SSO); this
// service only resolves a verified username into a signed token.
type AuthService struct {
	users *repository.UserRepository
	cfg   config.JWTConfig
}

func NewAuthService(users *repository.UserRepository, cfg config.JWTConfig) *AuthService {
	return &AuthService{users: users, cfg: cfg}
}

// TokenPair is what login and refresh return.
type TokenPair struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        entity.User `json:"user"`
}

// IssueToken signs a token for an existing active user.
func (s *AuthService) IssueToken(ctx context.Context, username string) (*TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	if user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("user %s is disabled", username)
	}

	now := time.Now()
	expires := now.Add(s.cfg.AccessTokenExpire)
	claims := middleware.Claims{
		Username: user.Username,
		Name:     user.Name,
		Roles:    user.RoleList(),
		Admin:    user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &TokenPair{AccessToken: signed, ExpiresAt: expires, User: *user}, nil
}

// Refresh re-issues a token from a still-valid one.
func (s *AuthService) Refresh(ctx context.Context, tokenString string) (*TokenPair, error) {
	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return s.IssueToken(ctx, claims.Username)
}
