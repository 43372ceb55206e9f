package mocks

import (
	"context"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/musehabit-server/internal/model"
)

var (
	_ model.EmailSender    = (*EmailSender)(nil)
	_ model.Storage        = (*Storage)(nil)
	_ model.TokenManager   = (*TokenManager)(nil)
	_ model.ContextManager = (*ContextManager)(nil)
	_ model.SecurityLayer  = (*SecurityLayer)(nil)
)

type EmailSender struct {
	mock.Mock
}

func (m *EmailSender) Send(ctx context.Context, email model.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}

func (m *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *Storage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type ContextManager struct {
	mock.Mock
}

func (m *ContextManager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	args := m.Called(ctx, userID)
	return args.Get(0).(context.Context)
}

func (m *ContextManager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	args := m.Called(ctx)
	return args.Get(0).(uuid.UUID), args.Bool(1)
}

type SecurityLayer struct {
	mock.Mock
}

func (m *SecurityLayer) Listen(protocol, addr string) (net.Listener, error) {
	args := m.Called(protocol, addr)
	l, _ := args.Get(0).(net.Listener)
	return l, args.Error(1)
}
