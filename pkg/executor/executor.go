// Package executor merges a chain with serving behavior: it owns the
// result-mapping contract and mounts the chain as the "run" serving function.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rchudinov/chainserve/pkg/chain"
	"github.com/rchudinov/chainserve/pkg/llm"
	"github.com/rchudinov/chainserve/pkg/llm/openai"
	"github.com/rchudinov/chainserve/pkg/serving"
)

// Executor wraps a chain for network serving.
type Executor struct {
	ch chain.Chain
}

// New wraps an already constructed chain.
func New(ch chain.Chain) (*Executor, error) {
	if ch == nil {
		return nil, errors.New("executor: chain is nil")
	}
	return &Executor{ch: ch}, nil
}

// FromConfig builds the chain from a declarative config, forwarding the
// config's model block to the backend constructor.
func FromConfig(ctx context.Context, cfg chain.Config) (*Executor, error) {
	m := openai.New(llm.FromMap(cfg.Model))
	ch, err := chain.New(ctx, cfg, m)
	if err != nil {
		return nil, err
	}
	return New(ch)
}

// Chain returns the wrapped chain.
func (e *Executor) Chain() chain.Chain { return e.ch }

// Run executes the chain and maps its text output: under the chain's output
// key when it has exactly one, otherwise under the default result key.
func (e *Executor) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	out, err := e.ch.Run(ctx, inputs)
	if err != nil {
		return nil, err
	}
	keys := e.ch.OutputKeys()
	if len(keys) == 1 {
		return map[string]any{keys[0]: out}, nil
	}
	return map[string]any{serving.ResultKey: out}, nil
}

// RunStream streams the chain output token by token. Chains that cannot
// stream report an error.
func (e *Executor) RunStream(ctx context.Context, inputs map[string]any, emit func(token string) error) error {
	s, ok := e.ch.(chain.Streamer)
	if !ok {
		return errors.New("executor: chain does not support streaming")
	}
	return s.RunStream(ctx, inputs, emit)
}

// Mount registers the executor as the "run" serving function over HTTP and
// websocket.
func (e *Executor) Mount(reg *serving.Registry) error {
	doc := fmt.Sprintf("Run the chain. Inputs: %s.", strings.Join(e.ch.InputKeys(), ", "))
	entry := serving.Entry{
		Name:      "run",
		Doc:       doc,
		Handler:   func(ctx context.Context, inputs map[string]any) (any, error) { return e.Run(ctx, inputs) },
		Protocols: []serving.Protocol{serving.ProtocolHTTP, serving.ProtocolWebSocket},
	}
	if _, ok := e.ch.(chain.Streamer); ok {
		entry.Stream = e.RunStream
	}
	return reg.Register(entry)
}
