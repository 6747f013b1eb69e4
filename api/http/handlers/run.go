package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rchudinov/chainserve/api/http/presenter"
	"github.com/rchudinov/chainserve/pkg/serving"
)

// RunHandler exposes registered serving functions as POST routes.
type RunHandler struct {
	reg     *serving.Registry
	capture bool
	log     *logrus.Logger
}

func NewRunHandler(reg *serving.Registry, captureStdout bool, log *logrus.Logger) *RunHandler {
	return &RunHandler{reg: reg, capture: captureStdout, log: log}
}

// Invoke returns the handler for one serving function.
// @Summary Invoke a serving function
// @Description Accepts a JSON mapping of the function's named inputs, plus an optional "envs" string map applied for the duration of the call.
// @Tags    serving
// @Accept  json
// @Produce json
// @Success 200 {object} serving.Output
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /{name} [post]
func (h *RunHandler) Invoke(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entry, ok := h.reg.Lookup(name)
		if !ok {
			return presenter.Error(c, http.StatusNotFound, "unknown serving function: "+name)
		}
		var body map[string]any
		if err := c.BodyParser(&body); err != nil {
			return presenter.Error(c, http.StatusBadRequest, "request body must be a JSON object")
		}

		inputs, envs := splitEnvs(body)
		callID := uuid.NewString()
		h.log.WithFields(logrus.Fields{
			"call_id":  callID,
			"function": name,
		}).Debug("serving call")

		out := serving.Call(c.Context(), entry, inputs, serving.CallOptions{
			Envs:          envs,
			CaptureStdout: h.capture,
		})
		if out.Error != "" {
			h.log.WithFields(logrus.Fields{
				"call_id":  callID,
				"function": name,
				"error":    out.Error,
			}).Warn("serving call failed")
		}
		return presenter.Envelope(c, out)
	}
}

// splitEnvs pulls the reserved "envs" field out of a request body.
func splitEnvs(body map[string]any) (map[string]any, map[string]string) {
	raw, ok := body["envs"]
	if !ok {
		return body, nil
	}
	delete(body, "envs")
	m, ok := raw.(map[string]any)
	if !ok {
		return body, nil
	}
	envs := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			envs[k] = s
		}
	}
	return body, envs
}
