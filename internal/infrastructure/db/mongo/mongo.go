package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Collection names are fixed; existing deployments already hold data under them.
const (
	collectionUsers    = "users"
	collectionPosts    = "blogs"
	collectionActivity = "post_activity"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := opTimeout(cfg.Timeout)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetTimeout(timeout))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// ErrDuplicateUsernames means the unique username index could not be built
// because the users collection already holds the same username twice. Those
// documents have to be merged or removed before the service can start.
var ErrDuplicateUsernames = errors.New("users collection contains duplicate usernames")

// EnsureIndexes creates the indexes every collection relies on. The unique
// username index is what turns a concurrent duplicate registration into
// domain.ErrUserExists.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionPosts: {
			{Keys: bson.D{{Key: "author", Value: 1}}},
		},
		collectionActivity: {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "at", Value: 1}}},
		},
	}

	for _, name := range []string{collectionUsers, collectionPosts, collectionActivity} {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, specs[name]); err != nil {
			if name == collectionUsers && mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("create indexes on %s: %w: %v", name, ErrDuplicateUsernames, err)
			}
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func opTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}
