// Package mocks contains testify mocks of the model interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/musehabit-server/internal/model"
)

var (
	_ model.UserStore     = (*UserStore)(nil)
	_ model.PostStore     = (*PostStore)(nil)
	_ model.DeliveryStore = (*DeliveryStore)(nil)
	_ model.RunStore      = (*RunStore)(nil)
)

type UserStore struct {
	mock.Mock
}

// Create accepts either a model.User or a func(context.Context, model.User) model.User
// as its first return value.
func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, model.User) model.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) ListPage(ctx context.Context, afterID uuid.UUID, limit int) ([]model.User, error) {
	args := m.Called(ctx, afterID, limit)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserStore) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs model.NotificationPrefs) (model.User, error) {
	args := m.Called(ctx, id, prefs)
	return args.Get(0).(model.User), args.Error(1)
}

// PostStore runs the check callback against the author returned by the
// "Author" expectation before consulting the "Publish" one.
type PostStore struct {
	mock.Mock
}

func (m *PostStore) Publish(ctx context.Context, post model.Post, check func(author model.User) error) (model.Post, error) {
	author := m.MethodCalled("Author", ctx, post.UserID)
	if err := author.Error(1); err != nil {
		return model.Post{}, err
	}
	if err := check(author.Get(0).(model.User)); err != nil {
		return model.Post{}, err
	}
	args := m.MethodCalled("Publish", ctx, post)
	return args.Get(0).(model.Post), args.Error(1)
}

type DeliveryStore struct {
	mock.Mock
}

func (m *DeliveryStore) Claim(ctx context.Context, userID uuid.UUID, runDate time.Time, threshold string) (bool, error) {
	args := m.Called(ctx, userID, runDate, threshold)
	return args.Bool(0), args.Error(1)
}

func (m *DeliveryStore) Complete(ctx context.Context, userID uuid.UUID, runDate time.Time, threshold string, status model.DeliveryStatus, sendErr string) error {
	args := m.Called(ctx, userID, runDate, threshold, status, sendErr)
	return args.Error(0)
}

type RunStore struct {
	mock.Mock
}

func (m *RunStore) Claim(ctx context.Context, runDate time.Time, runID uuid.UUID, startedAt time.Time, staleAfter time.Duration) (bool, error) {
	args := m.Called(ctx, runDate, runID, startedAt, staleAfter)
	return args.Bool(0), args.Error(1)
}

func (m *RunStore) Finish(ctx context.Context, report model.RunReport, status model.RunStatus) error {
	args := m.Called(ctx, report, status)
	return args.Error(0)
}

func (m *RunStore) Get(ctx context.Context, runDate time.Time) (model.RunReport, model.RunStatus, error) {
	args := m.Called(ctx, runDate)
	return args.Get(0).(model.RunReport), args.Get(1).(model.RunStatus), args.Error(2)
}
