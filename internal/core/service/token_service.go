package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// tokenClaims is the JWT payload: the username plus registered claims.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens with a process-wide secret.
// A zero ttl issues tokens without an exp claim.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token asserting identity.Username.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	if identity.Username == "" {
		return "", fmt.Errorf("issue token: %w", domain.ErrBadRequest)
	}

	now := s.now()
	claims := tokenClaims{
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded identity.
func (s *TokenService) Verify(token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrTokenMissing
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Username == "" {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Identity{Username: claims.Username}, nil
}
