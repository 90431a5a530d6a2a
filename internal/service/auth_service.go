package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldready/locate-service/internal/auth"
	"github.com/fieldready/locate-service/internal/config"
	"github.com/fieldready/locate-service/internal/domain"
	"github.com/fieldready/locate-service/internal/repository"
	apperrors "github.com/fieldready/locate-service/pkg/util"
)

// AuthService issues tokens for service accounts.
type AuthService struct {
	accounts repository.AccountRepository
	tokens   *auth.TokenManager
	cfg      config.AuthConfig
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cfg:      cfg,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies an account secret and issues a JWT.
func (s *AuthService) Login(ctx context.Context, name, secret string) (string, time.Time, *domain.ServiceAccount, error) {
	account, err := s.accounts.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", time.Time{}, nil, apperrors.MapError(err)
	}
	if !account.Active {
		return "", time.Time{}, nil, apperrors.NewUnauthorized("account disabled")
	}
	if err := auth.CompareSecret(account.SecretHash, secret); err != nil {
		return "", time.Time{}, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(account)
	if err != nil {
		return "", time.Time{}, nil, apperrors.NewInternalError(err)
	}
	return token, expiresAt, account, nil
}
