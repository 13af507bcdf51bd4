package configs

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort      string        `mapstructure:"SERVER_PORT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	StoreBackend     string `mapstructure:"STORE_BACKEND"`
	StoreFilePath    string `mapstructure:"STORE_FILE_PATH"`
	StoreRedisAddr   string `mapstructure:"STORE_REDIS_ADDR"`
	StoreRedisPrefix string `mapstructure:"STORE_REDIS_PREFIX"`
	ProductsSeedFile string `mapstructure:"PRODUCTS_SEED_FILE"`

	RateLimiterMaxRequests      int           `mapstructure:"RATE_LIMITER_MAX_REQUESTS"`
	RateLimiterWindow           time.Duration `mapstructure:"RATE_LIMITER_WINDOW"`
	RateLimiterTimeDelay        time.Duration `mapstructure:"RATE_LIMITER_TIME_DELAY"`
	RateLimiterTokenMaxRequests int           `mapstructure:"RATE_LIMITER_TOKEN_MAX_REQUESTS"`
	RateLimiterTokenTimeDelay   time.Duration `mapstructure:"RATE_LIMITER_TOKEN_TIME_DELAY"`
	RateLimiterCleanupInterval  time.Duration `mapstructure:"RATE_LIMITER_CLEANUP_INTERVAL"`
	RateLimiterTTL              time.Duration `mapstructure:"RATE_LIMITER_TTL"`
	RateLimiterRedisAddr        string        `mapstructure:"RATE_LIMITER_REDIS_ADDR"`

	EventsAMQPURL  string `mapstructure:"EVENTS_AMQP_URL"`
	EventsExchange string `mapstructure:"EVENTS_EXCHANGE"`

	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFile       string `mapstructure:"LOG_FILE"`
	LogMaxSizeMB  int    `mapstructure:"LOG_MAX_SIZE_MB"`
	LogMaxBackups int    `mapstructure:"LOG_MAX_BACKUPS"`
	LogMaxAgeDays int    `mapstructure:"LOG_MAX_AGE_DAYS"`
}

var defaults = map[string]any{
	"SERVER_PORT":      "8080",
	"SHUTDOWN_TIMEOUT": "10s",

	"STORE_BACKEND":      "memory",
	"STORE_FILE_PATH":    "data/products.json",
	"STORE_REDIS_ADDR":   "localhost:6379",
	"STORE_REDIS_PREFIX": "products:",
	"PRODUCTS_SEED_FILE": "",

	"RATE_LIMITER_MAX_REQUESTS":       0,
	"RATE_LIMITER_WINDOW":             "1s",
	"RATE_LIMITER_TIME_DELAY":         "5m",
	"RATE_LIMITER_TOKEN_MAX_REQUESTS": 0,
	"RATE_LIMITER_TOKEN_TIME_DELAY":   "5m",
	"RATE_LIMITER_CLEANUP_INTERVAL":   "1m",
	"RATE_LIMITER_TTL":                "10m",
	"RATE_LIMITER_REDIS_ADDR":         "",

	"EVENTS_AMQP_URL": "",
	"EVENTS_EXCHANGE": "products",

	"LOG_LEVEL":        "info",
	"LOG_FILE":         "",
	"LOG_MAX_SIZE_MB":  100,
	"LOG_MAX_BACKUPS":  3,
	"LOG_MAX_AGE_DAYS": 28,
}

// LoadConfig reads path/.env when present and lets environment variables
// override any value from it.
func LoadConfig(path string) (*Config, error) {
	var config *Config

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, ".env"))
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return config, nil
}
