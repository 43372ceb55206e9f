package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/musehabit-server/internal/api/grpc/handler"
	"github.com/dtroode/musehabit-server/internal/api/grpc/middleware"
	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
)

// Router builds the gRPC server for the artist API.
// It manages service registration and middleware configuration.
type Router struct {
	artistService  handler.ArtistService
	postService    handler.PostService
	tokenService   middleware.TokenService
	logger         *logger.Logger
	contextManager model.ContextManager
}

// New creates new gRPC Router instance.
//
// Parameters:
//   - artistService: registration, preferences and cadence lookups
//   - postService: publishing
//   - tokenService: resolves bearer tokens to artist ids
//   - contextManager: carries the artist id through request contexts
//   - logger: the logger for request logging
func New(
	artistService handler.ArtistService,
	postService handler.PostService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		artistService:  artistService,
		postService:    postService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresAuth matches every artist method except registration. Health and
// reflection stay public.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	method := c.FullMethod()
	return strings.HasPrefix(method, "/"+handler.ArtistServiceName+"/") &&
		method != handler.MethodRegister
}

// Register registers all gRPC services and middleware.
//
// Returns the configured gRPC server instance.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)
	r.registerArtistRoutes(s)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(handler.ArtistServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)
	reflection.Register(s)

	return s
}

func (r *Router) registerArtistRoutes(server *grpc.Server) {
	artistHandler := handler.NewArtist(r.artistService, r.postService, r.contextManager, r.logger)
	handler.RegisterArtistServer(server, artistHandler)
}
