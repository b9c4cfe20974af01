package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService that appends to the post activity trail.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process persists a single activity entry.
func (s *activityService) Process(ctx context.Context, a domain.PostActivity) error {
	if a.PostID == "" || a.Author == "" {
		return fmt.Errorf("process activity: incomplete entry: %w", domain.ErrBadRequest)
	}

	if err := s.repo.Insert(ctx, a); err != nil {
		return fmt.Errorf("process activity: insert: %w", err)
	}

	s.log.Debug().
		Str("post_id", a.PostID).
		Str("author", a.Author).
		Str("action", string(a.Action)).
		Msg("activity recorded")

	return nil
}
