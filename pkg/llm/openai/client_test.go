package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rchudinov/chainserve/pkg/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(llm.Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "test-model"})
}

func TestGenerate(t *testing.T) {
	var gotReq chatCompletionsRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"bonjour"}}]}`)
	})

	out, err := c.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("Translate to French."),
		schema.UserMessage("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "bonjour", out.Content)
	assert.Equal(t, schema.Assistant, out.Role)

	assert.Equal(t, "test-model", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestGenerateNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[]}`)
	})
	_, err := c.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.Error(t, err)
}

func TestGenerateHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"invalid api key"}}`)
	})
	_, err := c.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestGenerateEmptyAPIKey(t *testing.T) {
	c := New(llm.Config{})
	_, err := c.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.Error(t, err)
}

func TestStream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"bon\"}}]}\n\n")
		_, _ = io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"jour\"}}]}\n\n")
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	})

	sr, err := c.Stream(context.Background(), []*schema.Message{schema.UserMessage("hello")})
	require.NoError(t, err)
	defer sr.Close()

	var got string
	for {
		msg, err := sr.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got += msg.Content
	}
	assert.Equal(t, "bonjour", got)
}

func TestDefaults(t *testing.T) {
	c := New(llm.Config{APIKey: "sk-test"})
	assert.Equal(t, "gpt-4o-mini", c.Model())
	assert.Equal(t, "https://api.openai.com/v1", c.cfg.BaseURL)
}
