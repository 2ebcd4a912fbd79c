package infra

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the settings that may come from the environment.
// Empty values leave the file setting untouched.
type envOverrides struct {
	RegistryURL       string `env:"CONSIDERATION_REGISTRY_URL"`
	ControllerAddress string `env:"CONSIDERATION_CONTROLLER_ADDRESS"`
	ProtocolAddress   string `env:"CONSIDERATION_PROTOCOL_ADDRESS"`
	StorageDriver     string `env:"CONSIDERATION_STORAGE_DRIVER"`
	StoragePath       string `env:"CONSIDERATION_STORAGE_PATH"`
	LogLevel          string `env:"CONSIDERATION_LOG_LEVEL"`
	LogFormat         string `env:"CONSIDERATION_LOG_FORMAT"`
	TimeoutMS         int    `env:"CONSIDERATION_REGISTRY_TIMEOUT_MS"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func overrideWithEnv(cfg *Config) error {
	var o envOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Registry.URL, o.RegistryURL)
	set(&cfg.Registry.ControllerAddress, o.ControllerAddress)
	set(&cfg.Protocol.Address, o.ProtocolAddress)
	set(&cfg.Storage.Driver, o.StorageDriver)
	set(&cfg.Storage.Path, o.StoragePath)
	set(&cfg.Logging.Level, o.LogLevel)
	set(&cfg.Logging.Format, o.LogFormat)
	if o.TimeoutMS != 0 {
		cfg.Registry.TimeoutMS = o.TimeoutMS
	}
	return nil
}
