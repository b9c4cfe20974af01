package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkwell/blog-api/internal/core/domain"
)

type PostRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewPostRepository(db *mongo.Database, timeout time.Duration) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts), timeout: opTimeout(timeout)}
}

type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Author    string             `bson:"author"`
	CreatedAt time.Time          `bson:"created_at,omitempty"`
	UpdatedAt time.Time          `bson:"updated_at,omitempty"`
}

func (m mongoPost) toDomain() domain.Post {
	return domain.Post{
		ID:        m.ID.Hex(),
		Title:     m.Title,
		Content:   m.Content,
		Author:    m.Author,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Create inserts a new post document and returns it with its generated id.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoPost{
		ID:        primitive.NewObjectID(),
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := doc.toDomain()
	return &created, nil
}

// List returns all posts in insertion order.
func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]domain.Post, len(docs))
	for i, d := range docs {
		posts[i] = d.toDomain()
	}
	return posts, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return decodePost(r.col.FindOne(ctx, bson.M{"_id": oid}))
}

// UpdateOwned sets title and content on the post matching both id and author.
func (r *PostRepository) UpdateOwned(ctx context.Context, id, author, title, content string) (*domain.Post, error) {
	filter, ok := ownedFilter(id, author)
	if !ok {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":      title,
		"content":    content,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	return decodePost(r.col.FindOneAndUpdate(ctx, filter, update, opts))
}

// DeleteOwned removes the post matching both id and author and returns it.
func (r *PostRepository) DeleteOwned(ctx context.Context, id, author string) (*domain.Post, error) {
	filter, ok := ownedFilter(id, author)
	if !ok {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return decodePost(r.col.FindOneAndDelete(ctx, filter))
}

// ownedFilter builds the {_id, author} predicate. Malformed ids report false so
// callers answer with the same not-found as a foreign or missing post.
func ownedFilter(id, author string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || author == "" {
		return nil, false
	}
	return bson.M{"_id": oid, "author": author}, true
}

func decodePost(res *mongo.SingleResult) (*domain.Post, error) {
	var doc mongoPost
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("decode post: %w", err)
	}
	p := doc.toDomain()
	return &p, nil
}
