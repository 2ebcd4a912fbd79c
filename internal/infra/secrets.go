package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SecretConfig holds values kept out of the main config file, such as a
// registry URL carrying a provider API key.
type SecretConfig struct {
	Registry struct {
		URL string `yaml:"url"`
	} `yaml:"registry"`
}

// LoadSecretConfig loads secrets from a separate yaml file.
// It returns error if file is missing (Fail Fast).
func LoadSecretConfig(path string) (*SecretConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret config: %w", err)
	}

	var cfg SecretConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse secret config: %w", err)
	}

	return &cfg, nil
}

func (s *SecretConfig) apply(cfg *Config) {
	if s.Registry.URL != "" {
		cfg.Registry.URL = s.Registry.URL
	}
}
