package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/rchudinov/chainserve/pkg/llm"
)

// Client is a minimal OpenAI-compatible chat completions client implementing
// the eino chat model contract.
type Client struct {
	cfg    llm.Config
	httpDo *http.Client
}

var _ model.BaseChatModel = (*Client)(nil)

func New(cfg llm.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &Client{
		cfg: cfg,
		httpDo: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Model reports the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionsResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// Generate sends the conversation and returns the complete model reply.
func (c *Client) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	resp, err := c.post(ctx, input, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("no choices returned by model")
	}
	return schema.AssistantMessage(out.Choices[0].Message.Content, nil), nil
}

// Stream sends the conversation with stream enabled and forwards each SSE
// delta as a message chunk.
func (c *Client) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	resp, err := c.post(ctx, input, true)
	if err != nil {
		return nil, err
	}

	sr, sw := schema.Pipe[*schema.Message](8)
	go func() {
		defer sw.Close()
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" || data == "[DONE]" {
				continue
			}
			var chunk chatCompletionsResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				sw.Send(nil, fmt.Errorf("decode stream chunk: %w", err))
				return
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if closed := sw.Send(schema.AssistantMessage(chunk.Choices[0].Delta.Content, nil), nil); closed {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			sw.Send(nil, err)
		}
	}()
	return sr, nil
}

func (c *Client) post(ctx context.Context, input []*schema.Message, stream bool) (*http.Response, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New("openai api key is empty")
	}
	msgs := make([]message, 0, len(input))
	for _, m := range input {
		msgs = append(msgs, message{Role: string(m.Role), Content: m.Content})
	}
	reqBody := chatCompletionsRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Stream:      stream,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.cfg.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		resp.Body.Close()
		return nil, fmt.Errorf("openai http %d: %v", resp.StatusCode, errMap)
	}
	return resp, nil
}
