// Package context carries the authenticated artist id in incoming gRPC metadata.
package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

const userIDKey = "x-musehabit-user-id"

// Manager stores and reads the artist id.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetUserIDToContext returns a context whose incoming metadata carries userID,
// replacing any value the client sent under the same key.
func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		md = md.Copy()
		md.Set(userIDKey, userID.String())
	} else {
		md = metadata.Pairs(userIDKey, userID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	values := md.Get(userIDKey)
	if len(values) == 0 {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(values[0])
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, false
	}

	return userID, true
}
