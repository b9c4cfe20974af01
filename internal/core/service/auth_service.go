package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// AuthService implements registration, credential verification and login.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenIssuer
	cost   int
	logger zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, cost int, logger zerolog.Logger) *AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, tokens: tokens, cost: cost, logger: logger}
}

// Register hashes password and stores a new user. A taken username yields domain.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("register: username and password are required: %w", domain.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("register: %v: %w", err, domain.ErrBadRequest)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Verify returns the identity for a matching username/password pair.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*domain.Identity, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Identity{Username: user.Username}, nil
}

// Login verifies credentials and issues a token for the resulting identity.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	identity, err := s.Verify(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(*identity)
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("username", identity.Username).Msg("token issued")
	return token, nil
}
