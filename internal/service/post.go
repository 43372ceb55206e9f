package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/musehabit-server/internal/cadence"
	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
)

const maxTitleLength = 200

// Post publishes artist work, one piece per posting window.
type Post struct {
	posts  model.PostStore
	logger *logger.Logger
}

func NewPost(posts model.PostStore, logger *logger.Logger) *Post {
	return &Post{posts: posts, logger: logger}
}

// Publish stores the post if the artist's window is open at now. Otherwise it
// returns a *model.CadenceError.
func (p *Post) Publish(ctx context.Context, userID uuid.UUID, params model.PublishParams, now time.Time) (model.Post, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return model.Post{}, fmt.Errorf("%w: title is required", model.ErrInvalidArgument)
	}
	if len(title) > maxTitleLength {
		return model.Post{}, fmt.Errorf("%w: title is longer than %d bytes", model.ErrInvalidArgument, maxTitleLength)
	}

	post := model.Post{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Medium:      strings.TrimSpace(params.Medium),
		PublishedAt: now.UTC(),
	}

	saved, err := p.posts.Publish(ctx, post, func(author model.User) error {
		return checkWindow(author, now)
	})
	if err != nil {
		p.logger.Debug("Post service: publish rejected", "user_id", userID, "error", err)
		return model.Post{}, err
	}

	p.logger.Info("Post service: post published", "user_id", userID, "post_id", saved.ID)
	return saved, nil
}

// checkWindow rejects the publish unless the author's window is open at now.
// A latest post stamped after now (another instance with a clock ahead of
// ours) counts as the anchor at its own instant, never as absent.
func checkWindow(author model.User, now time.Time) error {
	at := now
	if author.LatestPostAt != nil && author.LatestPostAt.After(at) {
		at = *author.LatestPostAt
	}

	res := cadence.Evaluate(author.JoinedAt, author.LatestPostAt, at)
	if !res.CanPost {
		return &model.CadenceError{
			DaysUntilNextPost: res.DaysUntilNextPost,
			NextEligibleAt:    res.NextEligibleAt,
		}
	}
	return nil
}
