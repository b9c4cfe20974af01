package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Verify(ctx context.Context, username, password string) (*domain.Identity, error)
	Login(ctx context.Context, username, password string) (string, error)
}
