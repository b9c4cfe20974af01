package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// UserRepository persists credentials. Create must fail with domain.ErrUserExists
// when the username is already taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
