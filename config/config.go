// Package config loads filekit settings from defaults, an optional TOML/YAML
// config file, FILEKIT_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	AppName   = "filekit"
	EnvPrefix = "FILEKIT"
)

// Config stores all configuration of the application.
type Config struct {
	Log      LogConfig      `mapstructure:"log" toml:"log"`
	Collect  CollectConfig  `mapstructure:"collect" toml:"collect"`
	Organize OrganizeConfig `mapstructure:"organize" toml:"organize"`
	Rename   RenameConfig   `mapstructure:"rename" toml:"rename"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"` // console or json
}

type CollectConfig struct {
	Workers int    `mapstructure:"workers" toml:"workers"`
	Format  string `mapstructure:"format" toml:"format"` // xlsx, csv or json
}

// OrganizeConfig holds the organize job inputs. Paths have no defaults; they
// come from the config file, the environment or flags.
type OrganizeConfig struct {
	Source           string `mapstructure:"source" toml:"source"`
	Destination      string `mapstructure:"destination" toml:"destination"`
	Mapping          string `mapstructure:"mapping" toml:"mapping"`
	EntityTypeColumn string `mapstructure:"entity_type_column" toml:"entity_type_column"`
	NumberColumn     string `mapstructure:"number_column" toml:"number_column"`
	DocumentColumn   string `mapstructure:"document_column" toml:"document_column"`
	MissingLog       string `mapstructure:"missing_log" toml:"missing_log"`
	ErrorLog         string `mapstructure:"error_log" toml:"error_log"`
}

type RenameConfig struct {
	ProgressEvery int `mapstructure:"progress_every" toml:"progress_every"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Collect: CollectConfig{
			Workers: 1,
			Format:  "xlsx",
		},
		Organize: OrganizeConfig{
			EntityTypeColumn: "EntityType",
			NumberColumn:     "Number",
			DocumentColumn:   "DocumentName",
		},
		Rename: RenameConfig{
			ProgressEvery: 100,
		},
	}
}

// New returns a viper instance primed with defaults and environment binding.
// Commands bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("collect.workers", d.Collect.Workers)
	v.SetDefault("collect.format", d.Collect.Format)
	v.SetDefault("organize.source", "")
	v.SetDefault("organize.destination", "")
	v.SetDefault("organize.mapping", "")
	v.SetDefault("organize.entity_type_column", d.Organize.EntityTypeColumn)
	v.SetDefault("organize.number_column", d.Organize.NumberColumn)
	v.SetDefault("organize.document_column", d.Organize.DocumentColumn)
	v.SetDefault("organize.missing_log", "")
	v.SetDefault("organize.error_log", "")
	v.SetDefault("rename.progress_every", d.Rename.ProgressEvery)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and decodes the merged settings.
// An explicit path must exist. Without one, filekit.{toml,yaml} is looked up
// in the working directory and the user config directory, and a missing file
// is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// WriteExample writes cfg as TOML to path, refusing to overwrite an existing
// file.
func WriteExample(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
