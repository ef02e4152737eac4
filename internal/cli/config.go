package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name of the configuration file looked up
	// in the working directory.
	ConfigFileName = "mf6io"
	// EnvPrefix prefixes environment variables overriding configuration,
	// e.g. MF6IO_LOG_LEVEL.
	EnvPrefix = "MF6IO"
)

// Config is the CLI configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	DFN    DFNConfig    `mapstructure:"dfn"`
	Encode EncodeConfig `mapstructure:"encode"`
	Decode DecodeConfig `mapstructure:"decode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DFNConfig struct {
	// Dir holds the DFN files components are loaded from.
	Dir string `mapstructure:"dir"`
}

type EncodeConfig struct {
	Indent    int    `mapstructure:"indent"`
	Separator string `mapstructure:"separator"`
}

type DecodeConfig struct {
	DisallowUnknown bool   `mapstructure:"disallow_unknown"`
	BaseDir         string `mapstructure:"base_dir"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Log:    LogConfig{Level: "warn"},
		Encode: EncodeConfig{Indent: 2, Separator: " "},
	}
}

// newViper returns a viper instance carrying the defaults and reading
// MF6IO_* environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("dfn.dir", d.DFN.Dir)
	v.SetDefault("encode.indent", d.Encode.Indent)
	v.SetDefault("encode.separator", d.Encode.Separator)
	v.SetDefault("decode.disallow_unknown", d.Decode.DisallowUnknown)
	v.SetDefault("decode.base_dir", d.Decode.BaseDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig reads the configuration file into v and decodes the result.
// An explicit path must exist; otherwise mf6io.toml is looked up in the
// working directory and is optional.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Encode.Indent < 0 {
		return nil, fmt.Errorf("invalid config: encode.indent must not be negative, got %d", cfg.Encode.Indent)
	}
	return &cfg, nil
}
