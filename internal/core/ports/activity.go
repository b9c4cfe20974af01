package ports

import (
	"context"

	"github.com/inkwell/blog-api/internal/core/domain"
)

// ActivityRepository appends entries to the post activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, activity domain.PostActivity) error
}

// ActivityRecorder accepts activities without blocking the caller.
type ActivityRecorder interface {
	Record(activity domain.PostActivity)
}

// ActivityService persists a single activity; the dispatcher calls it from its workers.
type ActivityService interface {
	Process(ctx context.Context, activity domain.PostActivity) error
}
