package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PostStore persists posts.
type PostStore interface {
	// Publish locks the author's record, runs check against it and, when check
	// returns nil, stores the post and moves the author's latest post time to
	// post.PublishedAt in a single transaction.
	Publish(ctx context.Context, post Post, check func(author User) error) (Post, error)
}

// Post is a single published work.
type Post struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Medium      string
	PublishedAt time.Time
}

// PublishParams contains the fields an artist submits with a post.
type PublishParams struct {
	Title       string
	Description string
	Medium      string
}
