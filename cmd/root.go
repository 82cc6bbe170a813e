// ABOUTME: Root command for the webtop CLI
// ABOUTME: Handles global flags, configuration and portal client construction

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/schoolkit/webtop/config"
	"github.com/schoolkit/webtop/webtop"
)

var (
	baseURL    string
	jsonOutput bool
	timeout    time.Duration
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "webtop",
	Short: "CLI for the Webtop school portal",
	Long: `webtop is a command-line client for the Webtop (SmartSchool) portal.

It logs in with your portal credentials and prints homework, messages,
schedules and other dashboard data.

Environment Variables:
  WEBTOP_USERNAME     Portal user name (required)
  WEBTOP_PASSWORD     Portal password (prompted when unset on a terminal)
  WEBTOP_DATA         Opaque login Data value
  WEBTOP_BASE_URL     Portal URL (default: ` + webtop.DefaultBaseURL + `)
  WEBTOP_TIMEOUT      Request timeout (default: 20s)
  WEBTOP_REMEMBER_ME  Send RememberMe on login (default: false)
  LOG_LEVEL           debug, info, warn, error (default: warn)
  LOG_FORMAT          text, json (default: text)

Variables may also be placed in a .env file in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with a context canceled on SIGINT/SIGTERM
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Portal URL (overrides WEBTOP_BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (overrides WEBTOP_TIMEOUT)")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// ConfigError marks failures caused by missing or invalid settings.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}

// loadConfig reads the environment, applies flag overrides and prompts for a missing password.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	if cfg.Password == "" && cfg.Username != "" {
		password, err := passwordPrompt(cfg.Username)
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		cfg.Password = password
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

// newClient builds a portal client from configuration. Callers must Close it.
func newClient() (*webtop.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	opts := append(cfg.ClientOptions(), webtop.WithLogger(slog.Default()))
	return webtop.New(cfg.Username, cfg.Password, opts...), nil
}

// withClient runs fn with a configured client and closes it afterwards.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *webtop.Client) error) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(cmd.Context(), c)
}
