package model

import (
	"context"
	"net"
)

// SecurityLayer opens listeners, plain or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network server started on a SecurityLayer listener.
// Both the gRPC and the HTTP servers implement it.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
