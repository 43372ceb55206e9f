package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/musehabit-server/internal/cadence"
	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
	"github.com/dtroode/musehabit-server/internal/notify"
	"github.com/dtroode/musehabit-server/internal/slug"
)

const (
	defaultUsername   = "artist"
	maxUsernameSuffix = 1000
)

// Artist manages artist records and answers cadence questions about them.
type Artist struct {
	users      model.UserStore
	tokens     *TokenService
	mailer     model.EmailSender
	renderer   *notify.Renderer
	adminEmail string
	logger     *logger.Logger
}

func NewArtist(
	users model.UserStore,
	tokens *TokenService,
	mailer model.EmailSender,
	renderer *notify.Renderer,
	adminEmail string,
	logger *logger.Logger,
) *Artist {
	return &Artist{
		users:      users,
		tokens:     tokens,
		mailer:     mailer,
		renderer:   renderer,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// Register creates the artist with a unique username derived from the
// requested one (or the display name), then issues an access token.
func (a *Artist) Register(ctx context.Context, params model.RegisterParams, now time.Time) (model.User, string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(params.Email))
	if err != nil {
		return model.User{}, "", fmt.Errorf("%w: email: %v", model.ErrInvalidArgument, err)
	}

	base := slug.Make(params.Username)
	if base == "" {
		base = slug.Make(params.DisplayName)
	}
	if base == "" {
		base = defaultUsername
	}

	now = now.UTC()
	user := model.User{
		ID:          uuid.New(),
		Email:       addr.Address,
		DisplayName: strings.TrimSpace(params.DisplayName),
		JoinedAt:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := a.createWithUniqueUsername(ctx, user, base)
	if err != nil {
		return model.User{}, "", err
	}

	a.logger.Info("Artist service: artist registered",
		"user_id", created.ID,
		"username", created.Username)

	a.notifyAdmin(ctx, created)

	token, err := a.tokens.Issue(created.ID)
	if err != nil {
		return model.User{}, "", err
	}

	return created, token, nil
}

func (a *Artist) createWithUniqueUsername(ctx context.Context, user model.User, base string) (model.User, error) {
	for n := 0; n <= maxUsernameSuffix; n++ {
		candidate := slug.WithSuffix(base, n)

		exists, err := a.users.UsernameExists(ctx, candidate)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			continue
		}

		user.Username = candidate
		created, err := a.users.Create(ctx, user)
		if errors.Is(err, model.ErrUsernameTaken) {
			// Lost a race with a concurrent signup.
			continue
		}
		if err != nil {
			return model.User{}, err
		}
		return created, nil
	}

	return model.User{}, fmt.Errorf("no free username for %q: %w", base, model.ErrUsernameTaken)
}

func (a *Artist) notifyAdmin(ctx context.Context, user model.User) {
	if a.adminEmail == "" {
		return
	}

	email, err := a.renderer.SignupNotice(user, a.adminEmail)
	if err == nil {
		err = a.mailer.Send(ctx, email)
	}
	if err != nil {
		a.logger.Error("Artist service: failed to send signup notice",
			"user_id", user.ID,
			"error", err)
	}
}

func (a *Artist) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs model.NotificationPrefs) (model.User, error) {
	user, err := a.users.UpdatePreferences(ctx, userID, prefs)
	if err != nil {
		return model.User{}, err
	}

	a.logger.Debug("Artist service: preferences updated", "user_id", userID)
	return user, nil
}

// Cadence evaluates the artist's posting window at now.
func (a *Artist) Cadence(ctx context.Context, userID uuid.UUID, now time.Time) (cadence.Result, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return cadence.Result{}, err
	}

	if err := cadence.Validate(user.JoinedAt, user.LatestPostAt, now); err != nil {
		a.logger.Warn("Artist service: inconsistent cadence record",
			"user_id", userID,
			"error", err)
	}

	return cadence.Evaluate(user.JoinedAt, user.LatestPostAt, now), nil
}
