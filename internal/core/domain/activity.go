package domain

import "time"

// PostAction is the kind of write recorded in the activity trail.
type PostAction string

const (
	ActionCreated PostAction = "created"
	ActionUpdated PostAction = "updated"
	ActionDeleted PostAction = "deleted"
)

// PostActivity records a single author-scoped write against a post.
type PostActivity struct {
	PostID string
	Author string
	Action PostAction
	At     time.Time
}
