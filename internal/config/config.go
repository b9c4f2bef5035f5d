// Package config loads server and client settings from an optional YAML file
// with QUESTFORGE_* environment overrides applied on top.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	EnvConfigPath  = "QUESTFORGE_CONFIG"
	EnvDSN         = "QUESTFORGE_DB_DSN"
	EnvHTTPAddr    = "QUESTFORGE_HTTP_ADDR"
	EnvDriver      = "QUESTFORGE_STORAGE_DRIVER"
	EnvSQLitePath  = "QUESTFORGE_SQLITE_PATH"
	EnvTickMs      = "QUESTFORGE_TICK_MS"
	EnvLogLevel    = "QUESTFORGE_LOG_LEVEL"
	defaultAddr    = ":8080"
	defaultSQLite  = "questforge.db"
	defaultLevel   = "info"
	defaultTick    = time.Second
	defaultSaveTTL = 5 * time.Second
	defaultIdle    = 30 * time.Minute
	defaultTUILog  = "questforge-tui.log"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Adventure AdventureConfig `yaml:"adventure"`
	Log       LogConfig       `yaml:"log"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
	// AllowOrigins lists CORS origins; empty allows any.
	AllowOrigins []string `yaml:"allow_origins"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlite_path"`
	// MigrationsDir overrides the migrations embedded in the binary.
	MigrationsDir string `yaml:"migrations_dir"`
}

type AdventureConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	SaveTimeout  time.Duration `yaml:"save_timeout"`
	// SessionIdle closes server sessions unused for this long.
	SessionIdle time.Duration `yaml:"session_idle"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File redirects log output; the terminal client always sets one.
	File string `yaml:"file"`
}

func Default() Config {
	return Config{
		HTTP:      HTTPConfig{Addr: defaultAddr},
		Storage:   StorageConfig{SQLitePath: defaultSQLite},
		Adventure: AdventureConfig{TickInterval: defaultTick, SaveTimeout: defaultSaveTTL, SessionIdle: defaultIdle},
		Log:       LogConfig{Level: defaultLevel},
	}
}

// ClientDefault is Default for the terminal client: local sqlite storage and
// logs kept out of the terminal.
func ClientDefault() Config {
	cfg := Default()
	cfg.Storage.Driver = DriverSQLite
	cfg.Log.File = defaultTUILog
	return cfg
}

// LoadClient is Load starting from ClientDefault.
func LoadClient(path string) (Config, error) {
	return loadFrom(ClientDefault(), path, os.LookupEnv)
}

// Load reads path, or QUESTFORGE_CONFIG when path is empty, then applies env
// overrides. Without any file the defaults are used.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	return loadFrom(Default(), path, lookup)
}

func loadFrom(cfg Config, path string, lookup func(string) (string, bool)) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path, _ = lookup(EnvConfigPath)
	}
	if path = strings.TrimSpace(path); path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a YAML payload on top of the defaults without env overrides.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: %s does not exist", path)
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvHTTPAddr, &c.HTTP.Addr)
	str(EnvDriver, &c.Storage.Driver)
	str(EnvDSN, &c.Storage.DSN)
	str(EnvSQLitePath, &c.Storage.SQLitePath)
	str(EnvLogLevel, &c.Log.Level)

	if v, ok := lookup(EnvTickMs); ok && strings.TrimSpace(v) != "" {
		ms, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || ms <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidConfig, EnvTickMs, v)
		}
		c.Adventure.TickInterval = time.Duration(ms) * time.Millisecond
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		// A DSN alone selects postgres.
		if c.Storage.DSN != "" {
			c.Storage.Driver = DriverPostgres
		} else {
			c.Storage.Driver = DriverMemory
		}
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = defaultAddr
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = defaultSQLite
	}
	if c.Adventure.TickInterval <= 0 {
		c.Adventure.TickInterval = defaultTick
	}
	if c.Adventure.SaveTimeout <= 0 {
		c.Adventure.SaveTimeout = defaultSaveTTL
	}
	if c.Adventure.SessionIdle <= 0 {
		c.Adventure.SessionIdle = defaultIdle
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLevel
	}
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("%w: storage.dsn is required for the postgres driver", ErrInvalidConfig)
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if _, err := c.Log.HlogLevel(); err != nil {
		return err
	}
	return nil
}

// HlogLevel maps the configured level name onto hertz's logger levels.
func (l LogConfig) HlogLevel() (hlog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "trace":
		return hlog.LevelTrace, nil
	case "debug":
		return hlog.LevelDebug, nil
	case "", "info":
		return hlog.LevelInfo, nil
	case "notice":
		return hlog.LevelNotice, nil
	case "warn", "warning":
		return hlog.LevelWarn, nil
	case "error":
		return hlog.LevelError, nil
	case "fatal":
		return hlog.LevelFatal, nil
	default:
		return hlog.LevelInfo, fmt.Errorf("%w: unknown log.level %q", ErrInvalidConfig, l.Level)
	}
}
