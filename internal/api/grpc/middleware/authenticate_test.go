package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcContext "github.com/dtroode/musehabit-server/internal/api/grpc/context"
	"github.com/dtroode/musehabit-server/internal/mocks"
	"github.com/dtroode/musehabit-server/internal/testutil"
)

func TestAuthenticate_AuthFunc(t *testing.T) {
	t.Parallel()

	artistID := uuid.New()

	tests := []struct {
		name       string
		header     []string
		lookup     string // token expected at the token service; empty means no call
		resolvesTo uuid.UUID
		lookupErr  error
		wantMsg    string
	}{
		{
			name:    "no metadata",
			wantMsg: errMissingToken.Error(),
		},
		{
			name:    "bearer prefix with empty token",
			header:  []string{"Bearer "},
			wantMsg: errMissingToken.Error(),
		},
		{
			name:      "expired token",
			header:    []string{"Bearer stale"},
			lookup:    "stale",
			lookupErr: errors.New("token is expired"),
			wantMsg:   errInvalidToken.Error(),
		},
		{
			name:       "token resolving to nil artist",
			header:     []string{"Bearer orphan"},
			lookup:     "orphan",
			resolvesTo: uuid.Nil,
			wantMsg:    errInvalidToken.Error(),
		},
		{
			name:       "token without scheme is forwarded as is",
			header:     []string{"raw-token"},
			lookup:     "raw-token",
			resolvesTo: artistID,
		},
		{
			name:       "first header value wins",
			header:     []string{"Bearer first", "Bearer second"},
			lookup:     "first",
			resolvesTo: artistID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens := mocks.NewTokenService(t)
			if tt.lookup != "" {
				tokens.On("GetUserID", tt.lookup).Return(tt.resolvesTo, tt.lookupErr).Once()
			}
			ctxMgr := grpcContext.NewManager()
			m := NewAuthenticate(tokens, ctxMgr, testutil.MakeNoopLogger())

			ctx := context.Background()
			if len(tt.header) > 0 {
				md := metadata.MD{}
				md.Append("authorization", tt.header...)
				ctx = metadata.NewIncomingContext(ctx, md)
			}

			got, err := m.AuthFunc(ctx)

			if tt.wantMsg != "" {
				assert.Nil(t, got)
				st, ok := status.FromError(err)
				require.True(t, ok)
				assert.Equal(t, codes.Unauthenticated, st.Code())
				assert.Equal(t, tt.wantMsg, st.Message())
				return
			}

			require.NoError(t, err)
			id, ok := ctxMgr.GetUserIDFromContext(got)
			require.True(t, ok)
			assert.Equal(t, artistID, id)
		})
	}
}
