package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"github.com/rchudinov/chainserve/api/http/handlers"
	"github.com/rchudinov/chainserve/pkg/serving"
)

// Register wires all HTTP routes onto given Fiber app. Serving routes are
// derived from the registry; authMW (optional) guards serving routes only,
// probes and docs stay open.
func Register(
	app *fiber.App,
	reg *serving.Registry,
	health *handlers.HealthHandler,
	run *handlers.RunHandler,
	ws *handlers.WSHandler,
	docs *handlers.DocsHandler,
	authMW fiber.Handler,
) {
	// Probes
	app.Get("/healthz", health.Healthz)
	app.Get("/dry_run", health.DryRun)

	// API docs
	app.Get("/openapi.json", docs.OpenAPI)
	app.Get("/docs/*", swagger.New(swagger.Config{URL: "/openapi.json"}))
	app.Get("/redoc", docs.Redoc)

	guarded := func(h fiber.Handler) []fiber.Handler {
		if authMW != nil {
			return []fiber.Handler{authMW, h}
		}
		return []fiber.Handler{h}
	}

	upgradeOnly := func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}

	for _, e := range reg.ByProtocol(serving.ProtocolHTTP) {
		app.Post("/"+e.Name, guarded(run.Invoke(e.Name))...)
	}
	// the auth guard runs before the upgrade, so an unauthorized dial is
	// rejected at the handshake
	for _, e := range reg.ByProtocol(serving.ProtocolWebSocket) {
		hs := append(guarded(upgradeOnly), websocket.New(ws.Serve(e.Name)))
		app.Get("/"+e.Name, hs...)
	}
}
