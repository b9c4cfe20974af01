package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
// UpdateOwned and DeleteOwned match on both id and author; a post owned by
// another author is reported as domain.ErrPostNotFound.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	UpdateOwned(ctx context.Context, id, author, title, content string) (*domain.Post, error)
	DeleteOwned(ctx context.Context, id, author string) (*domain.Post, error)
}
