// Package config loads the configuration of the worm command.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/remdragon/worm/dialect"
)

const maxWalkDepth = 25

// FileNames are the config file names looked up by Load, in order.
var FileNames = []string{"worm.yaml", "worm.yml"}

// Config represents the worm configuration from worm.yaml.
type Config struct {
	// SchemasDir holds the schema descriptor files.
	SchemasDir string `mapstructure:"schemas_dir" yaml:"schemas_dir"`

	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
	// Debug logs every statement.
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Load discovers and loads configuration with precedence
// env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none
// found), and any error encountered.
func Load(explicitPath string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := findConfigFile(explicitPath)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, path, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, path, fmt.Errorf("unmarshaling config: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schemas_dir", "schemas")
	v.SetDefault("database.driver", dialect.SQLite)
	v.SetDefault("database.dsn", "file:worm.db")
	v.SetDefault("database.debug", false)
	v.SetDefault("log.level", "info")
}

// findConfigFile finds the config file to use. An explicit path must exist.
// Otherwise it walks up from the working directory looking for one of
// FileNames, stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	dir := cwd
	for range maxWalkDepth {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// ResolvedSchemasDir returns dir if set, or the configured schemas_dir.
func (c *Config) ResolvedSchemasDir(dir string) string {
	if dir != "" {
		return dir
	}
	return c.SchemasDir
}
