package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rchudinov/chainserve/pkg/serving"
)

type stubChain struct {
	out     string
	err     error
	inKeys  []string
	outKeys []string
}

func (s *stubChain) Run(ctx context.Context, inputs map[string]any) (string, error) {
	return s.out, s.err
}
func (s *stubChain) InputKeys() []string  { return s.inKeys }
func (s *stubChain) OutputKeys() []string { return s.outKeys }

type stubStreamChain struct {
	stubChain
	tokens []string
}

func (s *stubStreamChain) RunStream(ctx context.Context, inputs map[string]any, emit func(string) error) error {
	for _, tok := range s.tokens {
		if err := emit(tok); err != nil {
			return err
		}
	}
	return nil
}

func TestRunSingleOutputKey(t *testing.T) {
	exec, err := New(&stubChain{out: "bonjour", outKeys: []string{"translation"}})
	require.NoError(t, err)

	result, err := exec.Run(context.Background(), map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"translation": "bonjour"}, result)
}

func TestRunDefaultResultKey(t *testing.T) {
	exec, err := New(&stubChain{out: "bonjour", outKeys: []string{"a", "b"}})
	require.NoError(t, err)

	result, err := exec.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{serving.ResultKey: "bonjour"}, result)
}

func TestRunChainError(t *testing.T) {
	exec, err := New(&stubChain{err: errors.New("bad prompt"), outKeys: []string{"text"}})
	require.NoError(t, err)

	_, err = exec.Run(context.Background(), nil)
	assert.EqualError(t, err, "bad prompt")
}

func TestNewNilChain(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestRunStreamUnsupported(t *testing.T) {
	exec, err := New(&stubChain{outKeys: []string{"text"}})
	require.NoError(t, err)

	err = exec.RunStream(context.Background(), nil, func(string) error { return nil })
	assert.Error(t, err)
}

func TestMount(t *testing.T) {
	exec, err := New(&stubStreamChain{
		stubChain: stubChain{out: "ok", inKeys: []string{"text"}, outKeys: []string{"text"}},
		tokens:    []string{"o", "k"},
	})
	require.NoError(t, err)

	reg := serving.NewRegistry()
	require.NoError(t, exec.Mount(reg))

	entry, ok := reg.Lookup("run")
	require.True(t, ok)
	assert.NotNil(t, entry.Stream)
	assert.Contains(t, entry.Doc, "text")

	// mounted on both protocols
	assert.Len(t, reg.ByProtocol(serving.ProtocolHTTP), 1)
	assert.Len(t, reg.ByProtocol(serving.ProtocolWebSocket), 1)

	// second mount on the same registry collides
	assert.Error(t, exec.Mount(reg))
}
