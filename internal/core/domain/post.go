package domain

import (
	"errors"
	"time"
)

// ErrPostNotFound covers both a missing post and a post owned by someone else.
var ErrPostNotFound = errors.New("post not found")

// Post is a blog entry. Author is set at creation and never changes.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
