package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBConfig struct {
		DBHost     string `env:"AUTH_DB_HOST"`
		DBPort     string `env:"AUTH_DB_PORT"`
		DBUser     string `env:"AUTH_DB_USER"`
		DBPassword string `env:"AUTH_DB_PASSWORD"`
		DBName     string `env:"AUTH_DB_NAME"`
		DBSSLMode  string `env:"AUTH_DB_SSLMODE"`
	}

	UserServiceURL string        `env:"USER_SERVICE_URL"`
	JWTSecret      string        `env:"JWT_SECRET"`
	AccessTTL      time.Duration `env:"JWT_ACCESS_TTL"`
	RefreshTTL     time.Duration `env:"JWT_REFRESH_TTL"`
	MigrationsPath string        `env:"AUTH_MIGRATIONS_PATH"`
	HTTPPort       int           `env:"AUTH_HTTP_PORT"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.DBConfig.DBHost = getEnvOrDefault("AUTH_DB_HOST", "localhost")
	cfg.DBConfig.DBPort = getEnvOrDefault("AUTH_DB_PORT", "5432")
	cfg.DBConfig.DBUser = getEnvOrDefault("AUTH_DB_USER", "postgres")
	cfg.DBConfig.DBPassword = getEnvOrDefault("AUTH_DB_PASSWORD", "postgres")
	cfg.DBConfig.DBName = getEnvOrDefault("AUTH_DB_NAME", "auth_db")
	cfg.DBConfig.DBSSLMode = getEnvOrDefault("AUTH_DB_SSLMODE", "disable")

	cfg.UserServiceURL = getEnvOrDefault("USER_SERVICE_URL", "http://localhost:8084")
	cfg.JWTSecret = getEnvOrDefault("JWT_SECRET", "dev-secret-change-me")
	cfg.MigrationsPath = getEnvOrDefault("AUTH_MIGRATIONS_PATH", "file://migrations/auth")

	accessTTL, err := time.ParseDuration(getEnvOrDefault("JWT_ACCESS_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TTL: %w", err)
	}
	cfg.AccessTTL = accessTTL

	refreshTTL, err := time.ParseDuration(getEnvOrDefault("JWT_REFRESH_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_TTL: %w", err)
	}
	cfg.RefreshTTL = refreshTTL

	portStr := getEnvOrDefault("AUTH_HTTP_PORT", "8083")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_HTTP_PORT: %w", err)
	}
	cfg.HTTPPort = port

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func (c *Config) GetDBMigrationConnectionString() string {
	return fmt.Sprintf("%s:%s@%s:%s/%s?sslmode=%s",
		c.DBConfig.DBUser, c.DBConfig.DBPassword, c.DBConfig.DBHost, c.DBConfig.DBPort, c.DBConfig.DBName, c.DBConfig.DBSSLMode)
}
