package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/musehabit-server/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

type PostRepository struct {
	db DB
}

func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{
		db: db,
	}
}

// Publish holds a row lock on the author for the whole transaction, so two
// publishes by the same artist are serialized and the second one sees the
// first one's latest_post_at.
func (r *PostRepository) Publish(ctx context.Context, post model.Post, check func(author model.User) error) (saved model.Post, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	author, err := scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, post.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to lock author: %w", err)
	}

	if err = check(author); err != nil {
		return model.Post{}, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO posts (id, user_id, title, description, medium, published_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID, post.UserID, post.Title, post.Description, post.Medium, post.PublishedAt,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET latest_post_at = $2, updated_at = NOW() WHERE id = $1`,
		post.UserID, post.PublishedAt,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to update latest post: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return model.Post{}, fmt.Errorf("failed to commit post: %w", err)
	}

	return post, nil
}
