package cfg

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/pelletier/go-toml"

	"github.com/delino/devbird-action/internal/scanner"
)

const (
	DefAutoDevAPIURL = "https://autodev.api.delino.io"
	DefDevBirdAPIURL = "https://devbird.api.delino.io"
)

// Environment variables that override the configured backend base URLs.
const (
	EnvAutoDevAPIURL = "AUTODEV_API_URL"
	EnvDevBirdAPIURL = "DEVBIRD_API_URL"
)

type Config struct {
	AutoDevAPIURL     string `toml:"autodev_api_url" default:"https://autodev.api.delino.io"`
	DevBirdAPIURL     string `toml:"devbird_api_url" default:"https://devbird.api.delino.io"`
	HTTPClientTimeout string `toml:"http_client_timeout" default:"0s"`
	PlanFilePattern   string `toml:"plan_file_pattern" default:"PLAN-*.yaml"`
	MaxBranches       int    `toml:"max_branches" default:"20"`
	LogFormat         string `toml:"log_format" default:"console"`
	LogTimeKey        string `toml:"log_time_key" default:"time"`
	LogLevel          string `toml:"log_level" default:"info"`
}

// Default returns the configuration that is used when no configuration file
// is passed.
func Default() *Config {
	return &Config{
		AutoDevAPIURL:     DefAutoDevAPIURL,
		DevBirdAPIURL:     DefDevBirdAPIURL,
		HTTPClientTimeout: "0s",
		PlanFilePattern:   scanner.DefPlanFilePattern,
		MaxBranches:       scanner.DefMaxBranches,
		LogFormat:         "console",
		LogTimeKey:        "time",
		LogLevel:          "info",
	}
}

// Load reads a TOML configuration from reader.
// Options that are not set in the file keep their default values.
func Load(reader io.Reader) (*Config, error) {
	result := Default()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, result); err != nil {
		return nil, err
	}

	return result, nil
}

// ApplyEnv overwrites the backend URLs with the values of the
// AUTODEV_API_URL and DEVBIRD_API_URL environment variables, if they are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAutoDevAPIURL); v != "" {
		c.AutoDevAPIURL = v
	}

	if v := getenv(EnvDevBirdAPIURL); v != "" {
		c.DevBirdAPIURL = v
	}
}

// Timeout returns the parsed HTTPClientTimeout.
// 0 means that no timeout is enforced.
func (c *Config) Timeout() (time.Duration, error) {
	if c.HTTPClientTimeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.HTTPClientTimeout)
	if err != nil {
		return 0, fmt.Errorf("http_client_timeout: %w", err)
	}

	if d < 0 {
		return 0, errors.New("http_client_timeout must not be negative")
	}

	return d, nil
}

func (c *Config) Validate() error {
	for name, val := range map[string]string{
		"autodev_api_url": c.AutoDevAPIURL,
		"devbird_api_url": c.DevBirdAPIURL,
	} {
		u, err := url.Parse(val)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		if !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("%s: %q is not an absolute url", name, val)
		}
	}

	if c.MaxBranches <= 0 {
		return fmt.Errorf("max_branches must be greater than 0, is %d", c.MaxBranches)
	}

	if c.PlanFilePattern == "" {
		return errors.New("plan_file_pattern is empty")
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}

	return nil
}

func (c *Config) Marshal(writer io.Writer) error {
	return toml.NewEncoder(writer).Encode(c)
}
