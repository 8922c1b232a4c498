package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "IDSRV"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Schema       string `mapstructure:"schema"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	// Textfile is where counters are written on shutdown. Empty disables it.
	Textfile string `mapstructure:"textfile"`
}

var ErrUnsupportedDriver = errors.New("unsupported_database_driver")

// NewViper returns a viper instance with defaults and environment binding
// applied. A .env file in the working directory is loaded first when present.
// When path is set the file is read and must exist.
func NewViper(path string) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "file:idsrv.db?_pragma=foreign_keys(1)")
	v.SetDefault("database.schema", "")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("metrics.textfile", "")
}

// New decodes v into a Config and checks it.
func New(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Database.Driver)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return Config{}, errors.New("database.dsn is required")
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 1
	}
	switch {
	case cfg.Database.Driver == DriverSQLite && strings.Contains(cfg.Database.DSN, ":memory:"):
		cfg.Database.MaxOpenConns = 1
	case cfg.Database.Driver == DriverPostgres && cfg.Database.MaxOpenConns < 2:
		// migrate holds the advisory lock on its own connection.
		cfg.Database.MaxOpenConns = 2
	}
	return cfg, nil
}
