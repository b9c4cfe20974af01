package ports

import "github.com/inkwell/blog-api/internal/core/domain"

// TokenIssuer signs identities into stateless tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
}

// TokenVerifier resolves a presented token back to an identity.
// It returns domain.ErrTokenMissing for an empty token and domain.ErrTokenInvalid otherwise.
type TokenVerifier interface {
	Verify(token string) (*domain.Identity, error)
}

type TokenService interface {
	TokenIssuer
	TokenVerifier
}
