package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// CreatePostInput carries a new post. Author always comes from the verified token.
type CreatePostInput struct {
	Author  string
	Title   string
	Content string
}

// UpdatePostInput carries an author-scoped update.
type UpdatePostInput struct {
	ID      string
	Author  string
	Title   string
	Content string
}

// PostService defines use-case operations for posts.
type PostService interface {
	List(ctx context.Context) ([]domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	Create(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	Update(ctx context.Context, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, id, author string) error
}
