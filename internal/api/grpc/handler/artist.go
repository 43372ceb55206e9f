package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/musehabit-server/internal/cadence"
	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
)

// ArtistService defines account and cadence operations.
type ArtistService interface {
	Register(ctx context.Context, params model.RegisterParams, now time.Time) (model.User, string, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs model.NotificationPrefs) (model.User, error)
	Cadence(ctx context.Context, userID uuid.UUID, now time.Time) (cadence.Result, error)
}

// PostService defines the publish operation.
type PostService interface {
	Publish(ctx context.Context, userID uuid.UUID, params model.PublishParams, now time.Time) (model.Post, error)
}

// Artist handles gRPC endpoints of musehabit.v1.Artist.
type Artist struct {
	artistService  ArtistService
	postService    PostService
	contextManager model.ContextManager
	logger         *logger.Logger
	now            func() time.Time
}

// NewArtist creates a new Artist handler.
func NewArtist(
	artistService ArtistService,
	postService PostService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Artist {
	return &Artist{
		artistService:  artistService,
		postService:    postService,
		contextManager: contextManager,
		logger:         logger,
		now:            time.Now,
	}
}

// Register creates an artist account and returns an access token.
func (h *Artist) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	params := model.RegisterParams{
		Email:       stringField(req, "email"),
		Username:    stringField(req, "username"),
		DisplayName: stringField(req, "display_name"),
	}

	h.logger.Debug("Artist handler: processing register request", "email", params.Email)

	user, token, err := h.artistService.Register(ctx, params, h.now())
	if err != nil {
		h.logger.Error("Artist handler: register failed",
			"email", params.Email,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Artist handler: artist registered",
		"user_id", user.ID,
		"username", user.Username)

	return newStructResponse(map[string]any{
		"user_id":      user.ID.String(),
		"username":     user.Username,
		"access_token": token,
	})
}

// GetCadence reports whether the caller may post and when the window opens.
func (h *Artist) GetCadence(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := h.artistService.Cadence(ctx, userID, h.now())
	if err != nil {
		h.logger.Error("Artist handler: cadence lookup failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return newStructResponse(map[string]any{
		"can_post":             res.CanPost,
		"days_until_next_post": res.DaysUntilNextPost,
		"next_eligible_at":     res.NextEligibleAt.UTC().Format(time.RFC3339),
		"state":                string(res.State),
	})
}

// Publish stores a post when the caller's window is open.
func (h *Artist) Publish(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	params := model.PublishParams{
		Title:       stringField(req, "title"),
		Description: stringField(req, "description"),
		Medium:      stringField(req, "medium"),
	}

	post, err := h.postService.Publish(ctx, userID, params, h.now())
	if err != nil {
		h.logger.Warn("Artist handler: publish rejected",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	h.logger.Info("Artist handler: post published",
		"user_id", userID,
		"post_id", post.ID)

	return newStructResponse(map[string]any{
		"post_id":      post.ID.String(),
		"published_at": post.PublishedAt.UTC().Format(time.RFC3339),
	})
}

// UpdatePreferences replaces the caller's reminder switches. Absent fields
// are treated as false.
func (h *Artist) UpdatePreferences(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := h.userID(ctx)
	if err != nil {
		return nil, err
	}

	prefs := model.NotificationPrefs{
		ThirtyDay:            boolField(req, "thirty_day"),
		TenDay:               boolField(req, "ten_day"),
		FiveDay:              boolField(req, "five_day"),
		ThreeDay:             boolField(req, "three_day"),
		OneDay:               boolField(req, "one_day"),
		AccountabilityNotice: boolField(req, "accountability_notice"),
	}

	user, err := h.artistService.UpdatePreferences(ctx, userID, prefs)
	if err != nil {
		h.logger.Error("Artist handler: preferences update failed",
			"user_id", userID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return newStructResponse(prefsFields(user.Prefs))
}

func (h *Artist) userID(ctx context.Context) (uuid.UUID, error) {
	userID, ok := h.contextManager.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "missing user id")
	}
	return userID, nil
}

func prefsFields(p model.NotificationPrefs) map[string]any {
	return map[string]any{
		"thirty_day":            p.ThirtyDay,
		"ten_day":               p.TenDay,
		"five_day":              p.FiveDay,
		"three_day":             p.ThreeDay,
		"one_day":               p.OneDay,
		"accountability_notice": p.AccountabilityNotice,
	}
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

func boolField(s *structpb.Struct, key string) bool {
	if s == nil {
		return false
	}
	return s.GetFields()[key].GetBoolValue()
}

func newStructResponse(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("encode response: %v", err))
	}
	return out, nil
}

var _ ArtistServer = (*Artist)(nil)
