// Package config loads runtime settings from defaults, an optional YAML file
// and HEARTH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "HEARTH"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Game    GameConfig    `mapstructure:"game"`
	Journal JournalConfig `mapstructure:"journal"`
	Log     LogConfig     `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr       string `mapstructure:"addr"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

type GameConfig struct {
	// Seed 0 seeds from the wall clock.
	Seed         int64         `mapstructure:"seed"`
	Catalog      string        `mapstructure:"catalog"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

type JournalConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	MemoryLimit int    `mapstructure:"memory_limit"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func Default() Config {
	return Config{
		HTTP: HTTPConfig{Addr: ":8080", CORSOrigin: "*"},
		Game: GameConfig{TickInterval: time.Second},
		Journal: JournalConfig{
			Driver:      DriverMemory,
			MemoryLimit: 1000,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// New returns a viper instance with defaults and env binding applied and the
// config file read. An empty path looks for hearth.yaml in the working
// directory and tolerates its absence; an explicit path must exist.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("http.addr", def.HTTP.Addr)
	v.SetDefault("http.cors_origin", def.HTTP.CORSOrigin)
	v.SetDefault("game.seed", def.Game.Seed)
	v.SetDefault("game.catalog", def.Game.Catalog)
	v.SetDefault("game.tick_interval", def.Game.TickInterval)
	v.SetDefault("journal.driver", def.Journal.Driver)
	v.SetDefault("journal.dsn", def.Journal.DSN)
	v.SetDefault("journal.memory_limit", def.Journal.MemoryLimit)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		return v, nil
	}
	v.SetConfigName("hearth")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals and validates v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	v, err := New(path)
	if err != nil {
		return Config{}, err
	}
	return Decode(v)
}

func (c Config) Validate() error {
	switch c.Journal.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.Journal.DSN) == "" {
			return fmt.Errorf("%w: journal.dsn is required for postgres", ErrInvalidConfig)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown journal.driver %q", ErrInvalidConfig, c.Journal.Driver)
	}
	if c.Journal.MemoryLimit < 0 {
		return fmt.Errorf("%w: journal.memory_limit must not be negative", ErrInvalidConfig)
	}
	if c.Game.TickInterval < 0 {
		return fmt.Errorf("%w: game.tick_interval must not be negative", ErrInvalidConfig)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// NewLogger builds the process logger described by c.
func NewLogger(c LogConfig, w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, s)
	}
	return level, nil
}
