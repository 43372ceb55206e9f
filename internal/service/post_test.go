package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/musehabit-server/internal/mocks"
	"github.com/dtroode/musehabit-server/internal/model"
	"github.com/dtroode/musehabit-server/internal/testutil"
)

func TestPost_Publish(t *testing.T) {
	joined := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	params := model.PublishParams{Title: "  Harbour  ", Medium: "oil"}

	t.Run("window open", func(t *testing.T) {
		store := mocks.NewPostStore(t)
		now := joined.Add(31 * 24 * time.Hour)

		store.On("Author", mock.Anything, userID).Return(model.User{ID: userID, JoinedAt: joined}, nil).Once()
		store.On("Publish", mock.Anything, mock.MatchedBy(func(p model.Post) bool {
			return p.Title == "Harbour" && p.UserID == userID && p.PublishedAt.Equal(now)
		})).Return(model.Post{ID: uuid.New(), UserID: userID, Title: "Harbour"}, nil).Once()

		post, err := NewPost(store, testutil.MakeNoopLogger()).Publish(context.Background(), userID, params, now)
		require.NoError(t, err)
		assert.Equal(t, "Harbour", post.Title)
	})

	t.Run("window closed", func(t *testing.T) {
		store := mocks.NewPostStore(t)
		latest := joined.Add(40 * 24 * time.Hour)
		now := latest.Add(5 * 24 * time.Hour)

		store.On("Author", mock.Anything, userID).
			Return(model.User{ID: userID, JoinedAt: joined, LatestPostAt: &latest}, nil).Once()

		_, err := NewPost(store, testutil.MakeNoopLogger()).Publish(context.Background(), userID, params, now)
		require.ErrorIs(t, err, model.ErrCannotPostYet)

		var cadenceErr *model.CadenceError
		require.True(t, errors.As(err, &cadenceErr))
		assert.Equal(t, 25, cadenceErr.DaysUntilNextPost)
		assert.True(t, cadenceErr.NextEligibleAt.Equal(latest.Add(30*24*time.Hour)))
	})

	t.Run("latest post ahead of local clock", func(t *testing.T) {
		store := mocks.NewPostStore(t)
		now := joined.AddDate(0, 6, 0)
		latest := now.Add(2 * time.Second)

		store.On("Author", mock.Anything, userID).
			Return(model.User{ID: userID, JoinedAt: joined, LatestPostAt: &latest}, nil).Once()

		_, err := NewPost(store, testutil.MakeNoopLogger()).Publish(context.Background(), userID, params, now)
		require.ErrorIs(t, err, model.ErrCannotPostYet)

		var cadenceErr *model.CadenceError
		require.True(t, errors.As(err, &cadenceErr))
		assert.Equal(t, 30, cadenceErr.DaysUntilNextPost)
		assert.True(t, cadenceErr.NextEligibleAt.Equal(latest.Add(30*24*time.Hour)))
	})

	t.Run("invalid title", func(t *testing.T) {
		store := mocks.NewPostStore(t)
		svc := NewPost(store, testutil.MakeNoopLogger())

		_, err := svc.Publish(context.Background(), userID, model.PublishParams{Title: "   "}, joined)
		assert.ErrorIs(t, err, model.ErrInvalidArgument)

		_, err = svc.Publish(context.Background(), userID, model.PublishParams{Title: strings.Repeat("x", 201)}, joined)
		assert.ErrorIs(t, err, model.ErrInvalidArgument)
	})

	t.Run("unknown artist", func(t *testing.T) {
		store := mocks.NewPostStore(t)
		store.On("Author", mock.Anything, userID).Return(model.User{}, model.ErrNotFound).Once()

		_, err := NewPost(store, testutil.MakeNoopLogger()).Publish(context.Background(), userID, params, joined)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
