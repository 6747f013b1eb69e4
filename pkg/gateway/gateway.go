// Package gateway assembles the serving gateway: a Fiber app exposing the
// registered serving functions together with probes, docs, and metrics.
package gateway

import (
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	httpapi "github.com/rchudinov/chainserve/api/http"
	"github.com/rchudinov/chainserve/api/http/handlers"
	"github.com/rchudinov/chainserve/pkg/health"
	"github.com/rchudinov/chainserve/pkg/metrics"
	"github.com/rchudinov/chainserve/pkg/security/jwt"
	"github.com/rchudinov/chainserve/pkg/serving"
)

// Option configures a Gateway.
type Option func(*options)

type options struct {
	log           *logrus.Logger
	authSecret    string
	authIssuer    string
	captureStdout bool
	checkers      []health.Checker
	title         string
	version       string
}

// WithLogger overrides the gateway logger.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithAuth guards serving routes with HS256 bearer tokens.
func WithAuth(secret, issuer string) Option {
	return func(o *options) { o.authSecret, o.authIssuer = secret, issuer }
}

// WithStdoutCapture records handler stdout into response envelopes.
// Captured calls are serialized module-wide.
func WithStdoutCapture() Option {
	return func(o *options) { o.captureStdout = true }
}

// WithChecker adds a readiness checker behind /dry_run.
func WithChecker(c health.Checker) Option {
	return func(o *options) { o.checkers = append(o.checkers, c) }
}

// WithInfo sets the API document title and version.
func WithInfo(title, version string) Option {
	return func(o *options) { o.title, o.version = title, version }
}

// Gateway hosts a serving registry over HTTP and websocket.
type Gateway struct {
	app     *fiber.App
	reg     *serving.Registry
	log     *logrus.Logger
	metrics *metrics.Metrics
	opts    *options
	mounted bool
}

func New(opts ...Option) *Gateway {
	o := &options{
		log:     logrus.New(),
		title:   "chainserve",
		version: "1.0",
	}
	for _, opt := range opts {
		opt(o)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	m := metrics.New()
	app.Use(recover.New())
	app.Use(m.Middleware())

	return &Gateway{
		app:     app,
		reg:     serving.NewRegistry(),
		log:     o.log,
		metrics: m,
		opts:    o,
	}
}

// Registry returns the serving function registry. Register everything
// before calling Mount.
func (g *Gateway) Registry() *serving.Registry { return g.reg }

// Mount builds all routes from the current registry. Must be called once,
// after registration and before Serve.
func (g *Gateway) Mount() {
	if g.mounted {
		return
	}
	g.mounted = true

	o := g.opts
	var authMW fiber.Handler
	if o.authSecret != "" {
		authMW = jwt.NewAuthMiddleware(o.authSecret, o.authIssuer)
	}

	healthH := handlers.NewHealthHandler(health.NewService(o.checkers...))
	runH := handlers.NewRunHandler(g.reg, o.captureStdout, g.log)
	wsH := handlers.NewWSHandler(g.reg, g.log)
	docsH := handlers.NewDocsHandler(g.reg, o.title, o.version)

	g.app.Get("/metrics", g.metrics.Handler())
	httpapi.Register(g.app, g.reg, healthH, runH, wsH, docsH, authMW)
}

// App exposes the Fiber app, mainly for in-process tests.
func (g *Gateway) App() *fiber.App {
	g.Mount()
	return g.app
}

// Serve blocks serving on ln until Shutdown.
func (g *Gateway) Serve(ln net.Listener) error {
	g.Mount()
	g.log.WithField("addr", ln.Addr().String()).Info("gateway listening")
	return g.app.Listener(ln)
}

// Shutdown gracefully stops the app.
func (g *Gateway) Shutdown() error {
	return g.app.Shutdown()
}
