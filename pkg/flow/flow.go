// Package flow starts short-lived hosts for an executor and provides the
// matching one-shot clients. A host is acquired at the start of a usage
// block and released with Close when the block exits.
package flow

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	grpcapi "github.com/rchudinov/chainserve/api/grpc"
	"github.com/rchudinov/chainserve/pkg/executor"
	"github.com/rchudinov/chainserve/pkg/gateway"
	"github.com/rchudinov/chainserve/pkg/health/checkers"
)

// Protocol selects the host transport.
type Protocol string

const (
	HTTP      Protocol = "http"
	WebSocket Protocol = "websocket"
	GRPC      Protocol = "grpc"
)

// DefaultPort is used when no port option is given.
const DefaultPort = 12345

// Option configures a host.
type Option func(*options)

type options struct {
	port          int
	log           *logrus.Logger
	authSecret    string
	authIssuer    string
	captureStdout bool
}

// WithPort binds the host to a specific local port. Port 0 picks a free one.
func WithPort(port int) Option {
	return func(o *options) { o.port = port }
}

// WithLogger overrides the host logger.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithAuth guards serving routes with HS256 bearer tokens.
func WithAuth(secret, issuer string) Option {
	return func(o *options) { o.authSecret, o.authIssuer = secret, issuer }
}

// WithStdoutCapture records handler stdout into response envelopes.
func WithStdoutCapture() Option {
	return func(o *options) { o.captureStdout = true }
}

// Host is a transient server bound to a local address. It exists only for
// the duration of one serving session and is torn down by Close.
type Host struct {
	proto     Protocol
	addr      string
	closeOnce sync.Once
	closeErr  error
	closeFn   func() error
}

// Addr returns the bound host:port.
func (h *Host) Addr() string { return h.addr }

// URL returns the address with the protocol scheme attached.
func (h *Host) URL() string {
	switch h.proto {
	case WebSocket:
		return "ws://" + h.addr
	case GRPC:
		return h.addr
	default:
		return "http://" + h.addr
	}
}

// Close tears the host down. Safe to call more than once.
func (h *Host) Close() error {
	h.closeOnce.Do(func() {
		h.closeErr = h.closeFn()
	})
	return h.closeErr
}

// ServeHTTP hosts the executor's run operation over HTTP.
func ServeHTTP(ctx context.Context, exec *executor.Executor, opts ...Option) (*Host, error) {
	return serveGateway(ctx, exec, HTTP, opts)
}

// ServeWebSocket hosts the executor's run operation over websocket (the
// HTTP routes stay available on the same port).
func ServeWebSocket(ctx context.Context, exec *executor.Executor, opts ...Option) (*Host, error) {
	return serveGateway(ctx, exec, WebSocket, opts)
}

// ServeGRPC hosts the executor as the chainserve.Executor gRPC service.
func ServeGRPC(ctx context.Context, exec *executor.Executor, opts ...Option) (*Host, error) {
	o := buildOptions(opts)
	ln, err := listen(ctx, o.port)
	if err != nil {
		return nil, err
	}

	srv := grpc.NewServer()
	grpcapi.Register(srv, exec)
	go func() {
		if err := srv.Serve(ln); err != nil {
			o.log.WithError(err).Error("grpc host stopped")
		}
	}()

	return &Host{
		proto:   GRPC,
		addr:    ln.Addr().String(),
		closeFn: func() error { srv.GracefulStop(); return nil },
	}, nil
}

func serveGateway(ctx context.Context, exec *executor.Executor, proto Protocol, opts []Option) (*Host, error) {
	o := buildOptions(opts)

	gwOpts := []gateway.Option{
		gateway.WithLogger(o.log),
		gateway.WithChecker(checkers.NewExecutorChecker(exec)),
	}
	if o.authSecret != "" {
		gwOpts = append(gwOpts, gateway.WithAuth(o.authSecret, o.authIssuer))
	}
	if o.captureStdout {
		gwOpts = append(gwOpts, gateway.WithStdoutCapture())
	}

	gw := gateway.New(gwOpts...)
	if err := exec.Mount(gw.Registry()); err != nil {
		return nil, err
	}

	ln, err := listen(ctx, o.port)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := gw.Serve(ln); err != nil {
			o.log.WithError(err).Error("gateway host stopped")
		}
	}()

	return &Host{
		proto:   proto,
		addr:    ln.Addr().String(),
		closeFn: gw.Shutdown,
	}, nil
}

func buildOptions(opts []Option) *options {
	o := &options{
		port: DefaultPort,
		log:  logrus.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func listen(ctx context.Context, port int) (net.Listener, error) {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("flow: listen: %w", err)
	}
	return ln, nil
}
