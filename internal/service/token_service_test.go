package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/musehabit-server/internal/mocks"
	"github.com/dtroode/musehabit-server/internal/testutil"
)

func TestTokenService_Issue(t *testing.T) {
	userID := uuid.New()

	manager := mocks.NewTokenManager(t)
	manager.On("GenerateAccessToken", userID).Return("access", nil).Once()

	svc := NewTokenService(manager, testutil.MakeNoopLogger())

	access, err := svc.Issue(userID)
	require.NoError(t, err)
	assert.Equal(t, "access", access)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	userID := uuid.New()

	manager := mocks.NewTokenManager(t)
	manager.On("GenerateAccessToken", userID).Return("", assert.AnError).Once()

	svc := NewTokenService(manager, testutil.MakeNoopLogger())

	_, err := svc.Issue(userID)
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_GetUserID(t *testing.T) {
	userID := uuid.New()
	invalid := errors.New("token is expired")

	manager := mocks.NewTokenManager(t)
	manager.On("ParseAccessToken", "good").Return(userID, nil).Once()
	manager.On("ParseAccessToken", "bad").Return(uuid.Nil, invalid).Once()

	svc := NewTokenService(manager, testutil.MakeNoopLogger())

	got, err := svc.GetUserID("good")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = svc.GetUserID("bad")
	assert.ErrorIs(t, err, invalid)
}
