package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"consideration_go/internal/domain"
)

// Config holds every setting of the node.
// App names this node to peers (User-Agent), in logs and on the banner.
// LoadConfig reads the file, applies secrets and environment overrides, then validates.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Protocol struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		Address string `yaml:"address"` // verifying contract
	} `yaml:"protocol"`

	Registry struct {
		URL               string `yaml:"url"`
		ControllerAddress string `yaml:"controller_address"`
		TimeoutMS         int    `yaml:"timeout_ms"`
		ChainPollSec      int    `yaml:"chain_poll_sec"`
		RateLimit         struct {
			Burst     int     `yaml:"burst"`
			PerSecond float64 `yaml:"per_second"`
		} `yaml:"rate_limit"`
		SecretsPath string `yaml:"secrets_path"`
	} `yaml:"registry"`

	Storage struct {
		Driver string `yaml:"driver"` // sqlite | memory
		Path   string `yaml:"path"`   // relative to workspace data dir when not absolute
	} `yaml:"storage"`

	Manifest struct {
		Keep int `yaml:"keep"`
	} `yaml:"manifest"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json
	} `yaml:"logging"`
}

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// LoadConfig reads and parses the config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}

	if cfg.Registry.SecretsPath != "" {
		secrets, err := LoadSecretConfig(cfg.Registry.SecretsPath)
		if err != nil {
			return nil, err
		}
		secrets.apply(cfg)
	}

	// Environment wins over file and secrets.
	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ParseConfig decodes YAML and fills defaults. It does not validate.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = AppName
	}
	if c.App.Version == "" {
		c.App.Version = "dev"
	}
	if c.Protocol.Name == "" {
		c.Protocol.Name = domain.ProtocolName
	}
	if c.Protocol.Version == "" {
		c.Protocol.Version = domain.ProtocolVersion
	}
	if c.Registry.TimeoutMS == 0 {
		c.Registry.TimeoutMS = 10_000
	}
	if c.Registry.ChainPollSec == 0 {
		c.Registry.ChainPollSec = 60
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "consideration.db"
	}
	if c.Manifest.Keep == 0 {
		c.Manifest.Keep = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	var errs []error

	if !isWSURL(c.Registry.URL) {
		errs = append(errs, fmt.Errorf("invalid registry WS URL: %q", c.Registry.URL))
	}
	if err := validateAddress("protocol address", c.Protocol.Address); err != nil {
		errs = append(errs, err)
	}
	if err := validateAddress("conduit controller address", c.Registry.ControllerAddress); err != nil {
		errs = append(errs, err)
	}
	if c.Registry.TimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("registry timeout must not be negative"))
	}
	if c.Registry.ChainPollSec < 0 {
		errs = append(errs, fmt.Errorf("chain poll interval must not be negative"))
	}
	if c.Registry.RateLimit.Burst < 0 || c.Registry.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("registry rate limit must not be negative"))
	}

	switch c.Storage.Driver {
	case DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver: %q", c.Storage.Driver))
	}

	if c.Manifest.Keep < 0 {
		errs = append(errs, fmt.Errorf("manifest keep must not be negative"))
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format: %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// RegistryTimeout returns the per-call timeout for registry requests.
func (c *Config) RegistryTimeout() time.Duration {
	return time.Duration(c.Registry.TimeoutMS) * time.Millisecond
}

// ChainPollInterval returns how often the running node re-reads the chain id.
func (c *Config) ChainPollInterval() time.Duration {
	return time.Duration(c.Registry.ChainPollSec) * time.Second
}

// ProtocolAddress returns the parsed verifying contract address.
func (c *Config) ProtocolAddress() common.Address {
	return common.HexToAddress(c.Protocol.Address)
}

// ControllerAddress returns the parsed conduit controller address.
func (c *Config) ControllerAddress() common.Address {
	return common.HexToAddress(c.Registry.ControllerAddress)
}

func isWSURL(s string) bool {
	return strings.HasPrefix(s, "ws://") || strings.HasPrefix(s, "wss://")
}

func validateAddress(field, s string) error {
	if !common.IsHexAddress(s) {
		return fmt.Errorf("invalid %s: %q", field, s)
	}
	if common.HexToAddress(s) == (common.Address{}) {
		return fmt.Errorf("%s must not be zero", field)
	}
	return nil
}
