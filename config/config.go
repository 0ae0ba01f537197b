// ABOUTME: Runtime configuration loaded from env, .env, and an optional YAML file
// ABOUTME: Wraps viper with mandato defaults rooted at XDG paths
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// AppName names the XDG subdirectories and the env prefix.
const AppName = "mandato"

// Config holds all runtime configuration. Every key can be set in
// config.yaml or through a MANDATO_* environment variable.
type Config struct {
	DBPath        string `mapstructure:"db_path"`
	Locale        string `mapstructure:"locale"`
	MessagesFile  string `mapstructure:"messages_file"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"` // auto | console | json
	ImportWorkers int    `mapstructure:"import_workers"`
	LenientStage  bool   `mapstructure:"lenient_stage"`
}

// DefaultDBPath is the database location when db_path is unset.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, AppName+".db")
}

// DefaultConfigDir is searched for config.yaml.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Load reads configuration. configFile may be empty, in which case
// config.yaml is looked up in the working directory and the XDG config dir;
// a missing file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("locale", "es")
	v.SetDefault("messages_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")
	v.SetDefault("import_workers", 4)
	v.SetDefault("lenient_stage", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.ImportWorkers < 1 {
		cfg.ImportWorkers = 1
	}
	return cfg, nil
}
