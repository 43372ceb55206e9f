package server

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/dtroode/musehabit-server/internal/model"
)

var _ model.Server = (*GRPCServer)(nil)

// GRPCServer runs the artist API on a SecurityLayer listener.
type GRPCServer struct {
	server *grpc.Server
	addr   string
}

func NewGRPCServer(server *grpc.Server, addr string) *GRPCServer {
	return &GRPCServer{server: server, addr: addr}
}

// Start blocks serving on the configured address. It returns nil after Stop.
func (s *GRPCServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.server.Serve(listener)
}

// Stop drains in-flight calls until ctx is done, then closes the remaining
// connections.
func (s *GRPCServer) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		<-done
		return fmt.Errorf("graceful stop interrupted: %w", ctx.Err())
	}
}

func (s *GRPCServer) Address() string {
	return s.addr
}
