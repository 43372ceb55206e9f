package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for artists.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// ListPage returns up to limit users with id greater than afterID, ordered by id.
	ListPage(ctx context.Context, afterID uuid.UUID, limit int) ([]User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, prefs NotificationPrefs) (User, error)
}

// User is an artist account together with its cadence record.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	DisplayName  string
	JoinedAt     time.Time
	LatestPostAt *time.Time
	Prefs        NotificationPrefs
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Name returns the name used to greet the artist.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// NotificationPrefs holds the per-artist reminder switches.
type NotificationPrefs struct {
	ThirtyDay bool `json:"thirty_day"`
	TenDay    bool `json:"ten_day"`
	FiveDay   bool `json:"five_day"`
	ThreeDay  bool `json:"three_day"`
	OneDay    bool `json:"one_day"`
	// AccountabilityNotice is informational; no reminder depends on it.
	AccountabilityNotice bool `json:"accountability_notice"`
}

// RegisterParams contains what an artist submits at signup.
type RegisterParams struct {
	Email       string
	Username    string
	DisplayName string
}
