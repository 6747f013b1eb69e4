package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rchudinov/chainserve/pkg/serving"
)

// DocsHandler serves the OpenAPI document and the Redoc page. The document
// is assembled from the registry because serving routes are registered at
// runtime, not annotated statically.
type DocsHandler struct {
	reg     *serving.Registry
	title   string
	version string
}

func NewDocsHandler(reg *serving.Registry, title, version string) *DocsHandler {
	return &DocsHandler{reg: reg, title: title, version: version}
}

// OpenAPI renders the OpenAPI 3.0 document for the current registry.
func (h *DocsHandler) OpenAPI(c *fiber.Ctx) error {
	envelope := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"result": map[string]any{"description": "function result"},
			"error":  map[string]any{"type": "string"},
			"stdout": map[string]any{"type": "string"},
		},
	}
	statusResp := map[string]any{
		"200": map[string]any{
			"description": "OK",
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{
						"type":       "object",
						"properties": map[string]any{"status": map[string]any{"type": "string"}},
					},
				},
			},
		},
	}

	paths := map[string]any{
		"/healthz": map[string]any{
			"get": map[string]any{"summary": "Liveness probe", "tags": []string{"health"}, "responses": statusResp},
		},
		"/dry_run": map[string]any{
			"get": map[string]any{"summary": "Readiness probe", "tags": []string{"health"}, "responses": statusResp},
		},
	}
	for _, e := range h.reg.ByProtocol(serving.ProtocolHTTP) {
		paths["/"+e.Name] = map[string]any{
			"post": map[string]any{
				"summary": e.Doc,
				"tags":    []string{"serving"},
				"requestBody": map[string]any{
					"required": true,
					"content": map[string]any{
						"application/json": map[string]any{
							"schema": map[string]any{
								"type":        "object",
								"description": "named inputs, plus optional \"envs\" string map",
							},
						},
					},
				},
				"responses": map[string]any{
					"200": map[string]any{
						"description": "result envelope",
						"content": map[string]any{
							"application/json": map[string]any{"schema": envelope},
						},
					},
				},
			},
		}
	}

	return c.JSON(map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": h.title, "version": h.version},
		"paths":   paths,
	})
}

const redocPage = `<!DOCTYPE html>
<html>
  <head>
    <title>API Reference</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
  </head>
  <body>
    <redoc spec-url="/openapi.json"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>`

// Redoc serves the Redoc single-page reference.
func (h *DocsHandler) Redoc(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(redocPage)
}
