package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"

	"github.com/rchudinov/chainserve/pkg/serving"
)

// WSHandler exposes registered serving functions as websocket routes.
// Each JSON frame received is one invocation; streaming functions emit one
// envelope per token and the connection is closed once the stream ends.
type WSHandler struct {
	reg *serving.Registry
	log *logrus.Logger
}

func NewWSHandler(reg *serving.Registry, log *logrus.Logger) *WSHandler {
	return &WSHandler{reg: reg, log: log}
}

// Serve returns the websocket connection handler for one serving function.
func (h *WSHandler) Serve(name string) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		defer conn.Close()
		entry, ok := h.reg.Lookup(name)
		if !ok {
			_ = conn.WriteJSON(serving.Output{Error: "unknown serving function: " + name})
			return
		}
		ctx := context.Background()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				h.log.WithField("function", name).Debug("websocket client disconnected")
				return
			}
			var body map[string]any
			if err := json.Unmarshal(data, &body); err != nil {
				// a bad frame gets an error envelope; the connection keeps serving
				if err := conn.WriteJSON(serving.Output{Error: "request frame must be a JSON object"}); err != nil {
					return
				}
				continue
			}
			inputs, envs := splitEnvs(body)
			streamed, err := serving.CallStream(ctx, entry, inputs, serving.CallOptions{Envs: envs}, func(out serving.Output) error {
				return conn.WriteJSON(out)
			})
			if err != nil {
				h.log.WithFields(logrus.Fields{
					"function": name,
					"error":    err.Error(),
				}).Warn("websocket send failed")
				return
			}
			if streamed {
				// one streaming exchange per connection, matching the
				// synchronous request-response contract
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
	}
}
