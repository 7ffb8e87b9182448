package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort        string        `mapstructure:"SERVER_PORT"`
	PostgresURL       string        `mapstructure:"POSTGRES_URL"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	AdminUser         string        `mapstructure:"ADMIN_USER"`
	AdminPasswordHash string        `mapstructure:"ADMIN_PASSWORD_HASH"`
	SearchBackend     string        `mapstructure:"SEARCH_BACKEND"`
	CacheTTL          time.Duration `mapstructure:"CACHE_TTL"`
	CacheSize         int           `mapstructure:"CACHE_SIZE"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	LogConsole        bool          `mapstructure:"LOG_CONSOLE"`
}

const (
	BackendQuery = "query"
	BackendScan  = "scan"
)

// Load reads configuration from the environment. Every key needs a default,
// otherwise Unmarshal does not see the env override.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", ":8080")
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("ADMIN_USER", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("SEARCH_BACKEND", BackendQuery)
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("CACHE_SIZE", 512)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_CONSOLE", false)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	if cfg.SearchBackend != BackendScan {
		cfg.SearchBackend = BackendQuery
	}
	return cfg
}
