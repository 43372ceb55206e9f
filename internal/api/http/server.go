package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dtroode/musehabit-server/internal/model"
)

var _ model.Server = (*HTTPServer)(nil)

// HTTPServer runs an echo instance on a SecurityLayer listener.
type HTTPServer struct {
	echo *echo.Echo
	addr string
}

func NewHTTPServer(e *echo.Echo, addr string) *HTTPServer {
	return &HTTPServer{echo: e, addr: addr}
}

func (s *HTTPServer) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.echo.Listener = listener
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *HTTPServer) Address() string {
	return s.addr
}
