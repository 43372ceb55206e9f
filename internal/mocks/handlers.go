package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/musehabit-server/internal/cadence"
	"github.com/dtroode/musehabit-server/internal/model"
)

type TokenService struct {
	mock.Mock
}

func (m *TokenService) GetUserID(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type ArtistService struct {
	mock.Mock
}

func (m *ArtistService) Register(ctx context.Context, params model.RegisterParams, now time.Time) (model.User, string, error) {
	args := m.Called(ctx, params, now)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *ArtistService) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs model.NotificationPrefs) (model.User, error) {
	args := m.Called(ctx, userID, prefs)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *ArtistService) Cadence(ctx context.Context, userID uuid.UUID, now time.Time) (cadence.Result, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(cadence.Result), args.Error(1)
}

type PostService struct {
	mock.Mock
}

func (m *PostService) Publish(ctx context.Context, userID uuid.UUID, params model.PublishParams, now time.Time) (model.Post, error) {
	args := m.Called(ctx, userID, params, now)
	return args.Get(0).(model.Post), args.Error(1)
}
