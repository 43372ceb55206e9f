package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid authorization token")
)

// TokenService resolves the artist id from a bearer token.
type TokenService interface {
	GetUserID(token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the artist id into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc is an auth.AuthFunc for go-grpc-middleware.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("authorization"); len(values) > 0 {
			token, _ = strings.CutPrefix(values[0], "Bearer ")
		}
	}

	userID, err := m.authenticateUser(token)
	if err != nil {
		m.logger.Debug("gRPC auth: request rejected", "error", err)
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}

func (m *Authenticate) authenticateUser(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, errMissingToken
	}

	userID, err := m.tokenService.GetUserID(token)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, errInvalidToken
	}

	return userID, nil
}
