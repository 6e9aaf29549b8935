package models

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChatConfigFile is the per-conversation config filename.
const ChatConfigFile = "config.yml"

// ChatConfig holds per-conversation settings stored next to the log.
type ChatConfig struct {
	Name      string `yaml:"name,omitempty"`
	Model     string `yaml:"model,omitempty"`
	Workspace string `yaml:"workspace,omitempty"`
}

// LoadChatConfig reads the conversation config from dir. A missing file is
// not an error and yields a zero config.
func LoadChatConfig(dir string) (ChatConfig, error) {
	var cfg ChatConfig
	b, err := os.ReadFile(filepath.Join(dir, ChatConfigFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read chat config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse chat config in %s: %w", dir, err)
	}
	return cfg, nil
}

// Save writes the config to dir.
func (c ChatConfig) Save(dir string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal chat config: %w", err)
	}
	path := filepath.Join(dir, ChatConfigFile)
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write chat config: %w", err)
	}
	return nil
}
