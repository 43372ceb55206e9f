package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	grpcctx "github.com/dtroode/musehabit-server/internal/api/grpc/context"
	"github.com/dtroode/musehabit-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/musehabit-server/internal/api/grpc/server"
	httpapi "github.com/dtroode/musehabit-server/internal/api/http"
	"github.com/dtroode/musehabit-server/internal/model"
	"github.com/dtroode/musehabit-server/internal/server"
	"github.com/dtroode/musehabit-server/internal/trigger"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC artist API, the cron HTTP endpoint and the daily timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), rootOpts)
		},
	}
}

type listening struct {
	server model.Server
	layer  model.SecurityLayer
}

func serve(ctx context.Context, opts *RootOptions) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	var daily *trigger.Daily
	if a.cfg.Cron.DailyAt != "" {
		at, err := trigger.ParseClock(a.cfg.Cron.DailyAt)
		if err != nil {
			return err
		}
		daily = trigger.NewDaily(a.nightly, at, a.logger)
	}

	grpcRouter := router.New(a.artists, a.posts, a.tokens, grpcctx.NewManager(), a.logger)
	httpRouter := httpapi.NewRouter(a.nightly, a.cfg.Cron.Secret, a.logger)

	servers := []listening{
		{
			server: grpcServer.NewGRPCServer(grpcRouter.Register(), fmt.Sprintf(":%s", a.cfg.GRPC.Port)),
			layer:  server.NewSecurityLayer(a.cfg.GRPC.EnableHTTPS, a.cfg.GRPC.CertFileName, a.cfg.GRPC.PrivateKeyFileName),
		},
		{
			server: httpapi.NewHTTPServer(httpRouter.Register(), fmt.Sprintf(":%s", a.cfg.HTTP.Port)),
			layer:  server.NewPlainListener(),
		},
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, l := range servers {
		wg.Add(1)
		go func(l listening) {
			defer wg.Done()
			a.logger.Info("Starting server on", "address", l.server.Address())
			if err := l.server.Start(l.layer); err != nil {
				a.logger.Error("failed to start server", "error", err, "address", l.server.Address())
				cancel()
			}
		}(l)
	}

	if daily != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = daily.Run(ctx)
		}()
	}

	a.logger.Info("musehabit started",
		"version", opts.Build.Version,
		"build_date", opts.Build.Date,
		"commit", opts.Build.Commit)

	<-ctx.Done()
	a.logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, l := range servers {
		if err := l.server.Stop(shutdownCtx); err != nil {
			a.logger.Error("error during server shutdown", "error", err, "address", l.server.Address())
		}
	}

	wg.Wait()
	a.logger.Info("shutdown complete")
	return nil
}
