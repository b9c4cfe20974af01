package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/inkwell/blog-api/internal/core/domain"
	"github.com/inkwell/blog-api/internal/core/ports"
)

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewActivityRepository(db *mongo.Database, timeout time.Duration) ports.ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity), timeout: opTimeout(timeout)}
}

// Insert appends an entry to the post_activity collection.
func (r *ActivityRepository) Insert(ctx context.Context, a domain.PostActivity) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := bson.M{
		"post_id":     a.PostID,
		"author":      a.Author,
		"action":      string(a.Action),
		"at":          a.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
