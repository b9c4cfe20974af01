package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

type nopRecorder struct{}

func (nopRecorder) Record(domain.PostActivity) {}

type PostService struct {
	repo     ports.PostRepository
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewPostService wires the post use cases. activity may be nil.
func NewPostService(repo ports.PostRepository, activity ports.ActivityRecorder, logger zerolog.Logger) *PostService {
	if activity == nil {
		activity = nopRecorder{}
	}
	return &PostService{repo: repo, activity: activity, logger: logger, now: time.Now}
}

// List returns every post. Reads are not scoped to an author.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a post attributed to input.Author.
func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	if input.Author == "" {
		return nil, fmt.Errorf("create post: missing author: %w", domain.ErrBadRequest)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Post{
		Title:     input.Title,
		Content:   input.Content,
		Author:    input.Author,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("author", input.Author).Msg("failed to create post")
		return nil, err
	}

	s.record(created.ID, input.Author, domain.ActionCreated, now)
	s.logger.Info().Str("post_id", created.ID).Str("author", input.Author).Msg("post created")
	return created, nil
}

// Update rewrites title and content of a post owned by input.Author.
func (s *PostService) Update(ctx context.Context, input ports.UpdatePostInput) (*domain.Post, error) {
	updated, err := s.repo.UpdateOwned(ctx, input.ID, input.Author, input.Title, input.Content)
	if err != nil {
		return nil, err
	}

	s.record(updated.ID, input.Author, domain.ActionUpdated, updated.UpdatedAt)
	s.logger.Info().Str("post_id", updated.ID).Str("author", input.Author).Msg("post updated")
	return updated, nil
}

// Delete removes a post owned by author.
func (s *PostService) Delete(ctx context.Context, id, author string) error {
	if _, err := s.repo.DeleteOwned(ctx, id, author); err != nil {
		return err
	}

	s.record(id, author, domain.ActionDeleted, s.now().UTC())
	s.logger.Info().Str("post_id", id).Str("author", author).Msg("post deleted")
	return nil
}

func (s *PostService) record(postID, author string, action domain.PostAction, at time.Time) {
	s.activity.Record(domain.PostActivity{
		PostID: postID,
		Author: author,
		Action: action,
		At:     at,
	})
}
