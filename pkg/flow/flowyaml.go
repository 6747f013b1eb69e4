package flow

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the declarative description of one serving flow, suitable for
// handing to tooling or checking into a repo next to the chain config.
type Document struct {
	Type    string       `yaml:"jtype"`
	Gateway GatewayEntry `yaml:"gateway"`
}

// GatewayEntry describes the gateway block of a flow document.
type GatewayEntry struct {
	Uses     string   `yaml:"uses"`
	Port     []int    `yaml:"port"`
	Protocol []string `yaml:"protocol"`
}

// DocumentFor builds the flow document for a chain config file.
func DocumentFor(configPath string, port int, proto Protocol) Document {
	if port == 0 {
		port = DefaultPort
	}
	return Document{
		Type: "Flow",
		Gateway: GatewayEntry{
			Uses:     configPath,
			Port:     []int{port},
			Protocol: []string{string(proto)},
		},
	}
}

// YAML renders the document.
func (d Document) YAML() (string, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("flow: marshal document: %w", err)
	}
	return string(data), nil
}
