package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]any{
		"api_key":     "sk-test",
		"base_url":    "http://localhost:1234/v1",
		"model":       "gpt-4o-mini",
		"temperature": 0.7,
		"max_tokens":  256,
	})

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "http://localhost:1234/v1", cfg.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-6)
	assert.Equal(t, 256, cfg.MaxTokens)
}

func TestFromMapDropsUnknownKeys(t *testing.T) {
	cfg := FromMap(map[string]any{
		"model":       "gpt-4o",
		"verbose":     true,
		"chain_type":  "llm",
		"temperature": "hot",
	})

	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Zero(t, cfg.Temperature)
}

func TestFromMapYAMLNumbers(t *testing.T) {
	// yaml decoding hands over float64 and int depending on the literal
	cfg := FromMap(map[string]any{
		"temperature": float64(1),
		"max_tokens":  float64(512),
	})
	assert.InDelta(t, 1.0, cfg.Temperature, 1e-6)
	assert.Equal(t, 512, cfg.MaxTokens)
}

func TestFromMapNil(t *testing.T) {
	assert.Zero(t, FromMap(nil))
}
