package chain

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoModel joins the formatted prompt back into the reply, so tests can
// observe what the template produced.
type echoModel struct{}

func (m *echoModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	parts := make([]string, 0, len(input))
	for _, msg := range input {
		parts = append(parts, string(msg.Role)+": "+msg.Content)
	}
	return schema.AssistantMessage(strings.Join(parts, "\n"), nil), nil
}

func (m *echoModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	chunks := make([]*schema.Message, 0, len(input))
	for _, msg := range input {
		chunks = append(chunks, schema.AssistantMessage(msg.Content, nil))
	}
	return schema.StreamReaderFromArray(chunks), nil
}

func TestLLMChainRun(t *testing.T) {
	cfg := Config{
		Messages: []Message{
			{Role: "system", Content: "You translate to {language}."},
			{Role: "user", Content: "{text}"},
		},
	}
	ch, err := New(context.Background(), cfg, &echoModel{})
	require.NoError(t, err)

	out, err := ch.Run(context.Background(), map[string]any{
		"language": "French",
		"text":     "good morning",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "You translate to French.")
	assert.Contains(t, out, "user: good morning")
}

func TestLLMChainKeys(t *testing.T) {
	cfg := Config{
		Messages: []Message{{Role: "user", Content: "{question} about {product}"}},
	}
	ch, err := New(context.Background(), cfg, &echoModel{})
	require.NoError(t, err)

	assert.Equal(t, []string{"product", "question"}, ch.InputKeys())
	assert.Equal(t, []string{"text"}, ch.OutputKeys())
}

func TestLLMChainExplicitKeys(t *testing.T) {
	cfg := Config{
		Messages:  []Message{{Role: "user", Content: "{text}"}},
		InputKeys: []string{"text"},
		OutputKey: "answer",
	}
	ch, err := New(context.Background(), cfg, &echoModel{})
	require.NoError(t, err)

	assert.Equal(t, []string{"text"}, ch.InputKeys())
	assert.Equal(t, []string{"answer"}, ch.OutputKeys())
}

func TestLLMChainRunStream(t *testing.T) {
	cfg := Config{
		Messages: []Message{{Role: "user", Content: "{text}"}},
	}
	ch, err := New(context.Background(), cfg, &echoModel{})
	require.NoError(t, err)

	var tokens []string
	err = ch.RunStream(context.Background(), map[string]any{"text": "stream me"}, func(token string) error {
		tokens = append(tokens, token)
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
	assert.Contains(t, strings.Join(tokens, ""), "stream me")
}

func TestNewNilModel(t *testing.T) {
	_, err := New(context.Background(), Config{Messages: []Message{{Content: "hi"}}}, nil)
	assert.Error(t, err)
}
