// ABOUTME: Configuration loader for the webtop CLI
// ABOUTME: Reads WEBTOP_* environment variables, optionally from a .env file

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/schoolkit/webtop/webtop"
)

// EnvPrefix prefixes every variable read by Load.
const EnvPrefix = "webtop"

type Config struct {
	// Credentials
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`

	// Login parameters
	Data           string `envconfig:"DATA" default:"+Aabe7FAdVluG6Lu+0ibrA=="`
	RememberMe     bool   `envconfig:"REMEMBER_ME" default:"false"`
	BiometricLogin string `envconfig:"BIOMETRIC_LOGIN"`

	// Transport
	BaseURL   string        `envconfig:"BASE_URL" default:"https://webtopserver.smartschool.co.il"`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"20s"`
	AutoLogin bool          `envconfig:"AUTO_LOGIN" default:"true"`
}

// Load reads an optional .env file from the working directory, then the environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.BaseURL = ensureScheme(strings.TrimSpace(cfg.BaseURL))

	return cfg, nil
}

// Validate checks the fields needed before talking to the portal.
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("WEBTOP_USERNAME is required")
	}
	if c.Password == "" {
		return fmt.Errorf("WEBTOP_PASSWORD is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("WEBTOP_BASE_URL must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("WEBTOP_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

// ClientOptions converts the configuration into portal client options.
func (c *Config) ClientOptions() []webtop.Option {
	return []webtop.Option{
		webtop.WithBaseURL(c.BaseURL),
		webtop.WithTimeout(c.Timeout),
		webtop.WithData(c.Data),
		webtop.WithRememberMe(c.RememberMe),
		webtop.WithBiometricLogin(c.BiometricLogin),
		webtop.WithAutoLogin(c.AutoLogin),
	}
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
