// Package config loads server configuration from defaults, an optional config
// file, POTA_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pota-logger/backend/internal/pota"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "POTA"

// DatabaseFile is the SQLite file name inside DataDir.
const DatabaseFile = "pota-logger.db"

// Config holds the server configuration.
type Config struct {
	Addr        string   `mapstructure:"addr"`
	DataDir     string   `mapstructure:"data_dir"`
	DatabaseURL string   `mapstructure:"database_url"`
	StaticDir   string   `mapstructure:"static_dir"`
	LogLevel    string   `mapstructure:"log_level"`
	LogFormat   string   `mapstructure:"log_format"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	PotaAPIURL       string        `mapstructure:"pota_api_url"`
	ParkTimeout      time.Duration `mapstructure:"park_timeout"`
	SpotTimeout      time.Duration `mapstructure:"spot_timeout"`
	ParkCacheTTL     time.Duration `mapstructure:"park_cache_ttl"`
	SpotPollInterval time.Duration `mapstructure:"spot_poll_interval"`
	RadioTimeout     time.Duration `mapstructure:"radio_timeout"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8000")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("database_url", "")
	v.SetDefault("static_dir", "./static")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("pota_api_url", pota.DefaultBaseURL)
	v.SetDefault("park_timeout", 5*time.Second)
	v.SetDefault("spot_timeout", 10*time.Second)
	v.SetDefault("park_cache_ttl", time.Hour)
	v.SetDefault("spot_poll_interval", 60*time.Second)
	v.SetDefault("radio_timeout", 5*time.Second)
}

// RegisterFlags defines the flags shared by every command.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a config file (yaml, json or toml)")
	fs.String("data-dir", "./data", "Directory for the SQLite database")
	fs.String("database-url", "", "Postgres URL; overrides the SQLite file when set")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	fs.String("log-format", "text", "Log format (text, json)")
}

// RegisterServeFlags defines the flags used only by the server.
func RegisterServeFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":8000", "HTTP listen address")
	fs.String("static-dir", "./static", "Directory of frontend files to serve")
	fs.Duration("spot-poll-interval", 60*time.Second, "Spot watcher interval, 0 disables")
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds the set flags in fs to their config keys. Flag names use
// dashes where keys use underscores.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("binding flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// LoadDotEnv loads variables from path into the environment when the file
// exists. Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads the optional config file named by the "config" key and decodes
// every setting into a Config.
func Load(v *viper.Viper) (*Config, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		Addr:             v.GetString("addr"),
		DataDir:          v.GetString("data_dir"),
		DatabaseURL:      v.GetString("database_url"),
		StaticDir:        v.GetString("static_dir"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
		CORSOrigins:      splitList(v.GetStringSlice("cors_origins")),
		PotaAPIURL:       strings.TrimRight(v.GetString("pota_api_url"), "/"),
		ParkTimeout:      v.GetDuration("park_timeout"),
		SpotTimeout:      v.GetDuration("spot_timeout"),
		ParkCacheTTL:     v.GetDuration("park_cache_ttl"),
		SpotPollInterval: v.GetDuration("spot_poll_interval"),
		RadioTimeout:     v.GetDuration("radio_timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.DatabaseURL == "" && c.DataDir == "" {
		return errors.New("either data_dir or database_url is required")
	}
	if c.PotaAPIURL == "" {
		return errors.New("pota_api_url must not be empty")
	}
	if c.SpotPollInterval < 0 {
		return errors.New("spot_poll_interval must not be negative")
	}
	for name, d := range map[string]time.Duration{
		"park_timeout":   c.ParkTimeout,
		"spot_timeout":   c.SpotTimeout,
		"park_cache_ttl": c.ParkCacheTTL,
		"radio_timeout":  c.RadioTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// DatabaseDSN returns the connection string for storage.Open.
func (c *Config) DatabaseDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return filepath.Join(c.DataDir, DatabaseFile)
}

// POTA returns the POTA API client configuration.
func (c *Config) POTA() pota.Config {
	return pota.Config{
		BaseURL:      c.PotaAPIURL,
		ParkTimeout:  c.ParkTimeout,
		SpotTimeout:  c.SpotTimeout,
		ParkCacheTTL: c.ParkCacheTTL,
	}
}

// splitList flattens comma separated entries, as given in environment variables.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
