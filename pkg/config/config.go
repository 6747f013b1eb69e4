package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/rchudinov/chainserve/pkg/llm"
)

type Config struct {
	Port          int
	AuthSecret    string
	AuthIssuer    string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnvInt("PORT", 12345),
		AuthSecret:    os.Getenv("AUTH_SECRET"),
		AuthIssuer:    getEnv("AUTH_ISSUER", "chainserve"),
		OpenAIAPIKey:  getEnv(llm.APIKeyEnv, llm.PlaceholderAPIKey),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
	}
	return cfg
}

// ModelDefaults merges the environment settings into a chain config's model
// block, without overriding values the config sets explicitly.
func (c Config) ModelDefaults(model map[string]any) map[string]any {
	if model == nil {
		model = make(map[string]any)
	}
	setIfMissing(model, "api_key", c.OpenAIAPIKey)
	setIfMissing(model, "base_url", c.OpenAIBaseURL)
	setIfMissing(model, "model", c.OpenAIModel)
	return model
}

func setIfMissing(m map[string]any, key, value string) {
	if value == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
