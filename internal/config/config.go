package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string `mapstructure:"db_driver" validate:"required,oneof=mysql postgres sqlite"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name" validate:"required"`
	DBSSLMode  string `mapstructure:"db_sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`

	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	SessionSecret string `mapstructure:"session_secret" validate:"required"`

	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl" validate:"gt=0"`

	GinMode         string        `mapstructure:"gin_mode" validate:"oneof=debug release test"`
	Port            int           `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

var defaults = map[string]any{
	"db_driver":        "mysql",
	"db_host":          "localhost",
	"db_port":          "3306",
	"db_user":          "taskuser",
	"db_password":      "taskpassword",
	"db_name":          "task_management",
	"db_sslmode":       "disable",
	"sqlite_path":      "tasks.db",
	"redis_host":       "",
	"redis_port":       "6379",
	"session_secret":   "default-secret-key-change-me",
	"jwt_secret":       "default-jwt-secret-key-change-me-please",
	"jwt_ttl":          "1h",
	"gin_mode":         "debug",
	"port":             8080,
	"log_level":        "info",
	"shutdown_timeout": "10s",
}

// Load reads configuration from the environment, optionally layered over the
// YAML file named by CONFIG_FILE. Environment variables win.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// RedisAddr returns the Redis address, or "" when sessions should stay in cookies.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}
