// Package config loads application configuration from an optional
// wellwise.yaml, a best-effort .env file and WELLWISE_* environment
// variables, and sets up the global zap logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Market  MarketConfig  `yaml:"market" mapstructure:"market"`
	RefData RefDataConfig `yaml:"refdata" mapstructure:"refdata"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig selects and configures the scenario backend.
type StoreConfig struct {
	Driver     string `yaml:"driver" mapstructure:"driver"`
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	RedisAddr  string `yaml:"redis_addr" mapstructure:"redis_addr"`
	Key        string `yaml:"key" mapstructure:"key"`
}

// MarketConfig configures the advisory FX / oil price feeds.
type MarketConfig struct {
	Live            bool    `yaml:"live" mapstructure:"live"`
	FXURL           string  `yaml:"fx_url" mapstructure:"fx_url"`
	TimeoutSecs     int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MinRefreshSecs  int     `yaml:"min_refresh_secs" mapstructure:"min_refresh_secs"`
	DefaultOilPrice float64 `yaml:"default_oil_price" mapstructure:"default_oil_price"`
}

func (m MarketConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSecs) * time.Second
}

func (m MarketConfig) MinRefresh() time.Duration {
	return time.Duration(m.MinRefreshSecs) * time.Second
}

// RefDataConfig points at an optional reference table override file.
type RefDataConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	if _, err := loadDotEnv(".env"); err != nil {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	v.SetConfigName("wellwise")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("WELLWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", StoreSQLite)
	v.SetDefault("store.sqlite_path", "./wellwise.db")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.key", "wellwise_scenarios")
	v.SetDefault("market.live", false)
	v.SetDefault("market.fx_url", "https://api.exchangerate-api.com/v4/latest/USD")
	v.SetDefault("market.timeout_secs", 5)
	v.SetDefault("market.min_refresh_secs", 3600)
	v.SetDefault("market.default_oil_price", 75.0)
	v.SetDefault("refdata.path", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the application cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Store.Key == "" {
		return eris.New("config: store key must not be empty")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
