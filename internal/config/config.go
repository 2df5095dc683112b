package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. UNIFLOW_STORAGE_BACKEND.
const EnvPrefix = "UNIFLOW"

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Network NetworkConfig `mapstructure:"network"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Journal JournalConfig `mapstructure:"journal"`
}

// StorageConfig selects the settings backend.
type StorageConfig struct {
	Backend string        `mapstructure:"backend"`
	Path    string        `mapstructure:"path"`
	Latency time.Duration `mapstructure:"latency"`
}

// NetworkConfig selects the counter source.
type NetworkConfig struct {
	Source  string        `mapstructure:"source"`
	URL     string        `mapstructure:"url"`
	Latency time.Duration `mapstructure:"latency"`
}

// EngineConfig tunes the store.
type EngineConfig struct {
	EffectTimeout time.Duration `mapstructure:"effect_timeout"`
	MaxSteps      int           `mapstructure:"max_steps"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// JournalConfig names the transition journal. An empty Path disables it.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.path", filepath.Join(dataDir(), "uniflow.db"))
	v.SetDefault("storage.latency", 100*time.Millisecond)
	v.SetDefault("network.source", "random")
	v.SetDefault("network.url", "")
	v.SetDefault("network.latency", time.Second)
	v.SetDefault("engine.effect_timeout", 30*time.Second)
	v.SetDefault("engine.max_steps", 1000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("journal.path", "")
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "uniflow")
}

// Load reads configuration from file and env.
//
// path names an explicit config file (TOML or YAML by extension); when
// empty, UNIFLOW_CONFIG is consulted and then ~/.config/uniflow/config.toml.
// Only an explicitly named file must exist.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "uniflow"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "sqlite", "pebble":
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (memory, sqlite, pebble)", c.Storage.Backend)
	}
	switch c.Network.Source {
	case "random", "http":
	default:
		return fmt.Errorf("network.source: unsupported value %q (random, http)", c.Network.Source)
	}
	if c.Network.Source == "http" && c.Network.URL == "" {
		return fmt.Errorf("network.url: required when network.source is http")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q (text, json)", c.Log.Format)
	}
	if c.Engine.EffectTimeout < 0 {
		return fmt.Errorf("engine.effect_timeout: must not be negative")
	}
	return nil
}
