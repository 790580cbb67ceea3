// Package config loads settings for the grouprequest command from a .env
// file, YAML config files, and GROUPREQUEST_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmynk/grouprequest/internal/dispatch"
	"github.com/mmynk/grouprequest/internal/payment"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "GROUPREQUEST"

// Config holds runtime settings for a dispatch run.
type Config struct {
	// APIBaseURL is the root of the payment service API.
	APIBaseURL string `mapstructure:"api_base_url" validate:"required,url"`

	// AccessToken overrides the token stored in TokenFile.
	AccessToken string `mapstructure:"access_token"`

	// TokenFile is where an access token entered at the prompt is cached.
	TokenFile string `mapstructure:"token_file" validate:"required"`

	// RequestLimit is the number of successful requests allowed per run.
	RequestLimit int `mapstructure:"request_limit" validate:"gt=0"`

	// RequestTimeout bounds each call to the payment service.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`

	// LedgerPath is the SQLite run ledger. Empty disables the ledger.
	LedgerPath string `mapstructure:"ledger_path"`

	// MetricsFile receives Prometheus metrics after each run. Empty disables it.
	MetricsFile string `mapstructure:"metrics_file"`

	// OutDir is where remainder tables are written.
	OutDir string `mapstructure:"out_dir" validate:"required"`
}

// Load reads configuration. An explicit path must exist; without one the
// global file ($HOME/.grouprequest/config.yaml) and then the project file
// (./.grouprequest.yaml) are merged when present. Environment variables win
// over both.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigType("yaml")
		for _, p := range []string{GlobalConfigPath(), ProjectConfigPath()} {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			v.SetConfigFile(p)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", p, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required settings are present and sane.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_base_url", payment.DefaultBaseURL)
	v.SetDefault("access_token", "")
	v.SetDefault("token_file", defaultTokenFile())
	v.SetDefault("request_limit", dispatch.DefaultRequestLimit)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("ledger_path", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("out_dir", ".")
}

// GlobalConfigPath returns the path to the per-user config file.
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".grouprequest", "config.yaml")
}

// ProjectConfigPath returns the path to the config file in the working directory.
func ProjectConfigPath() string {
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".grouprequest.yaml")
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".grouprequest", "token")
	}
	return filepath.Join(home, ".grouprequest", "token")
}
