package chain

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/cloudwego/eino/schema"
	"gopkg.in/yaml.v3"
)

// Message is one templated message of a chain prompt.
type Message struct {
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
}

// Config declares a chain: prompt messages, template format, input/output
// keys, and the model block forwarded to the backend constructor.
type Config struct {
	Messages  []Message `yaml:"messages" json:"messages"`
	Format    string    `yaml:"format" json:"format"`
	InputKeys []string  `yaml:"input_keys" json:"input_keys"`
	OutputKey string    `yaml:"output_key" json:"output_key"`
	// Model is kept loosely typed; unknown keys are dropped by the backend
	// rather than rejected here.
	Model map[string]any `yaml:"model" json:"model"`
}

// ParseConfig decodes a YAML chain config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("chain: parse config: %w", err)
	}
	if len(cfg.Messages) == 0 {
		return Config{}, fmt.Errorf("chain: config has no messages")
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.Format == "" {
		c.Format = "fstring"
	}
	if c.OutputKey == "" {
		c.OutputKey = "text"
	}
	return c
}

func (c Config) formatType() (schema.FormatType, error) {
	switch c.Format {
	case "fstring":
		return schema.FString, nil
	case "gotemplate":
		return schema.GoTemplate, nil
	case "jinja2":
		return schema.Jinja2, nil
	default:
		return 0, fmt.Errorf("chain: unknown template format %q", c.Format)
	}
}

func (c Config) messageTemplates() ([]schema.MessagesTemplate, error) {
	out := make([]schema.MessagesTemplate, 0, len(c.Messages))
	for _, m := range c.Messages {
		switch m.Role {
		case "system":
			out = append(out, schema.SystemMessage(m.Content))
		case "user", "human", "":
			out = append(out, schema.UserMessage(m.Content))
		case "assistant", "ai":
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			return nil, fmt.Errorf("chain: unknown message role %q", m.Role)
		}
	}
	return out, nil
}

// fstring placeholders look like {name}; doubled braces escape a literal.
var fstringVar = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// inferInputKeys extracts placeholder names from fstring templates. Other
// formats require explicit input_keys.
func (c Config) inferInputKeys() []string {
	if c.Format != "fstring" {
		return nil
	}
	seen := make(map[string]struct{})
	for _, m := range c.Messages {
		for _, match := range fstringVar.FindAllStringSubmatch(m.Content, -1) {
			seen[match[1]] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
