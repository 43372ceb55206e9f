package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/musehabit-server/internal/model"
)

const uniqueViolation = "23505"

const userColumns = `id, email, username, display_name, joined_at, latest_post_at,
	notify_thirty_day, notify_ten_day, notify_five_day, notify_three_day, notify_one_day,
	notify_accountability, created_at, updated_at`

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, username, display_name, joined_at, latest_post_at,
			  notify_thirty_day, notify_ten_day, notify_five_day, notify_three_day, notify_one_day,
			  notify_accountability, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING ` + userColumns

	p := user.Prefs
	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.Username, user.DisplayName, user.JoinedAt, user.LatestPostAt,
		p.ThirtyDay, p.TenDay, p.FiveDay, p.ThreeDay, p.OneDay, p.AccountabilityNotice,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if taken := uniqueUserError(err); taken != nil {
			return model.User{}, taken
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return exists, nil
}

// ListPage implements keyset pagination over users ordered by id.
func (r *UserRepository) ListPage(ctx context.Context, afterID uuid.UUID, limit int) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := r.db.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs model.NotificationPrefs) (model.User, error) {
	query := `UPDATE users SET notify_thirty_day = $2, notify_ten_day = $3, notify_five_day = $4,
			  notify_three_day = $5, notify_one_day = $6, notify_accountability = $7, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, id,
		prefs.ThirtyDay, prefs.TenDay, prefs.FiveDay, prefs.ThreeDay, prefs.OneDay, prefs.AccountabilityNotice,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to update preferences: %w", err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.DisplayName, &u.JoinedAt, &u.LatestPostAt,
		&u.Prefs.ThirtyDay, &u.Prefs.TenDay, &u.Prefs.FiveDay, &u.Prefs.ThreeDay, &u.Prefs.OneDay,
		&u.Prefs.AccountabilityNotice, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func uniqueUserError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return model.ErrUsernameTaken
	case "users_email_key":
		return model.ErrEmailTaken
	}
	return nil
}
