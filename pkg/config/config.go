package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`

	Discord struct {
		Token    string `yaml:"token" validate:"required"`
		Prefix   string `yaml:"prefix" default:"$"`
		Presence string `yaml:"presence" default:"$<token>"`
	} `yaml:"discord"`

	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Providers struct {
		Timeout time.Duration `yaml:"timeout" default:"10s"`
		// Priority maps a chain to the ordered provider list tried during
		// resolution. Misconfigured names are rejected at startup.
		Priority map[string][]string `yaml:"priority"`

		DexScreener struct {
			BaseURL string `yaml:"base_url" default:"https://api.dexscreener.com"`
		} `yaml:"dexscreener"`

		Birdeye struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url" default:"https://public-api.birdeye.so"`
		} `yaml:"birdeye"`

		CoinGecko struct {
			APIKey  string `yaml:"api_key"`
			BaseURL string `yaml:"base_url" default:"https://api.coingecko.com/api/v3"`
		} `yaml:"coingecko"`

		GoPlus struct {
			BaseURL string `yaml:"base_url" default:"https://api.gopluslabs.io/api/v1"`
		} `yaml:"goplus"`
	} `yaml:"providers"`

	Claude struct {
		APIKey    string        `yaml:"api_key"`
		BaseURL   string        `yaml:"base_url" default:"https://api.anthropic.com"`
		Model     string        `yaml:"model" default:"claude-3-opus-20240229"`
		MaxTokens int           `yaml:"max_tokens" default:"1000"`
		Timeout   time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"claude"`
}

// Load reads and parses a YAML configuration file, applies defaults and
// validates required fields.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.finalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides secrets with environment
// variables. Validation runs after overrides so secrets may come from either
// place.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyEnv()

	if err := c.finalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("CLAUDE_API_KEY"); v != "" {
		c.Claude.APIKey = v
	}
	if v := os.Getenv("BIRDEYE_API_KEY"); v != "" {
		c.Providers.Birdeye.APIKey = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.Providers.CoinGecko.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) finalize() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	if len(c.Providers.Priority) == 0 {
		c.Providers.Priority = DefaultPriority()
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// DefaultPriority is the provider order tried per chain when the config file
// does not override it.
func DefaultPriority() map[string][]string {
	return map[string][]string{
		"eth": {"dexscreener", "coingecko"},
		"bsc": {"dexscreener", "coingecko"},
		"sol": {"dexscreener", "birdeye"},
		// hintless symbol searches, where the best match decides the chain
		"any": {"dexscreener", "coingecko", "birdeye"},
	}
}
