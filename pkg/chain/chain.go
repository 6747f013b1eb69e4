// Package chain adapts eino-composed chains to the serving layer: an opaque
// unit of work that takes named inputs and returns generated text.
package chain

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Chain is an opaque callable over named inputs.
type Chain interface {
	Run(ctx context.Context, inputs map[string]any) (string, error)
	InputKeys() []string
	OutputKeys() []string
}

// Streamer is implemented by chains that can emit their output incrementally.
type Streamer interface {
	RunStream(ctx context.Context, inputs map[string]any, emit func(token string) error) error
}

// LLMChain is a prompt-template-plus-chat-model chain compiled with eino.
type LLMChain struct {
	run       compose.Runnable[map[string]any, *schema.Message]
	inputKeys []string
	outputKey string
}

var (
	_ Chain    = (*LLMChain)(nil)
	_ Streamer = (*LLMChain)(nil)
)

// New compiles a chain from cfg backed by the given chat model.
func New(ctx context.Context, cfg Config, m model.BaseChatModel) (*LLMChain, error) {
	if m == nil {
		return nil, errors.New("chain: chat model is nil")
	}
	cfg = cfg.withDefaults()
	format, err := cfg.formatType()
	if err != nil {
		return nil, err
	}
	msgs, err := cfg.messageTemplates()
	if err != nil {
		return nil, err
	}

	tpl := prompt.FromMessages(format, msgs...)
	run, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(tpl).
		AppendChatModel(m).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain: compile: %w", err)
	}

	inputKeys := cfg.InputKeys
	if len(inputKeys) == 0 {
		inputKeys = cfg.inferInputKeys()
	}
	return &LLMChain{
		run:       run,
		inputKeys: inputKeys,
		outputKey: cfg.OutputKey,
	}, nil
}

// Run formats the template with inputs, invokes the model, and returns the
// generated text.
func (c *LLMChain) Run(ctx context.Context, inputs map[string]any) (string, error) {
	msg, err := c.run.Invoke(ctx, inputs)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

// RunStream is like Run but calls emit once per generated chunk.
func (c *LLMChain) RunStream(ctx context.Context, inputs map[string]any, emit func(token string) error) error {
	sr, err := c.run.Stream(ctx, inputs)
	if err != nil {
		return err
	}
	defer sr.Close()
	for {
		msg, err := sr.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if msg.Content == "" {
			continue
		}
		if err := emit(msg.Content); err != nil {
			return err
		}
	}
}

func (c *LLMChain) InputKeys() []string { return c.inputKeys }

func (c *LLMChain) OutputKeys() []string { return []string{c.outputKey} }
