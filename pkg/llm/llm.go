package llm

const (
	// APIKeyEnv is the environment variable the API key is read from.
	APIKeyEnv = "OPENAI_API_KEY"
	// PlaceholderAPIKey is the documented fallback used when APIKeyEnv is
	// unset. Requests sent with it will be rejected by any real backend.
	PlaceholderAPIKey = "sk-placeholder"
)

// Config describes an OpenAI-compatible chat-completions backend.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// FromMap builds a Config from a loosely typed config block, ignoring keys
// the backend does not accept. Chain configs are user-supplied, so unknown
// fields are dropped rather than rejected.
func FromMap(m map[string]any) Config {
	var cfg Config
	for k, v := range m {
		switch k {
		case "api_key":
			cfg.APIKey, _ = v.(string)
		case "base_url":
			cfg.BaseURL, _ = v.(string)
		case "model":
			cfg.Model, _ = v.(string)
		case "temperature":
			switch t := v.(type) {
			case float64:
				cfg.Temperature = float32(t)
			case float32:
				cfg.Temperature = t
			case int:
				cfg.Temperature = float32(t)
			}
		case "max_tokens":
			switch t := v.(type) {
			case int:
				cfg.MaxTokens = t
			case float64:
				cfg.MaxTokens = int(t)
			}
		}
	}
	return cfg
}
