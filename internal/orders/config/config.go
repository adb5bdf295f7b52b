package config

import (
	"fmt"
	"os"
	"strconv"

	"shop/internal/events"
)

type Config struct {
	DBConfig struct {
		DBHost     string `env:"ORDERS_DB_HOST"`
		DBPort     string `env:"ORDERS_DB_PORT"`
		DBUser     string `env:"ORDERS_DB_USER"`
		DBPassword string `env:"ORDERS_DB_PASSWORD"`
		DBName     string `env:"ORDERS_DB_NAME"`
		DBSSLMode  string `env:"ORDERS_DB_SSLMODE"`
	}

	KafkaURL                string `env:"KAFKA_BROKER_URL"`
	KafkaOrderCreatedTopic  string `env:"KAFKA_ORDER_CREATED_TOPIC"`
	KafkaPaymentResultTopic string `env:"KAFKA_PAYMENT_RESULT_TOPIC"`
	KafkaConsumerGroup      string `env:"KAFKA_CONSUMER_GROUP"`

	UserServiceURL string `env:"USER_SERVICE_URL"`
	MigrationsPath string `env:"ORDERS_MIGRATIONS_PATH"`
	HTTPPort       int    `env:"ORDERS_HTTP_PORT"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.DBConfig.DBHost = getEnvOrDefault("ORDERS_DB_HOST", "localhost")
	cfg.DBConfig.DBPort = getEnvOrDefault("ORDERS_DB_PORT", "5432")
	cfg.DBConfig.DBUser = getEnvOrDefault("ORDERS_DB_USER", "postgres")
	cfg.DBConfig.DBPassword = getEnvOrDefault("ORDERS_DB_PASSWORD", "postgres")
	cfg.DBConfig.DBName = getEnvOrDefault("ORDERS_DB_NAME", "orders_db")
	cfg.DBConfig.DBSSLMode = getEnvOrDefault("ORDERS_DB_SSLMODE", "disable")

	cfg.KafkaURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaOrderCreatedTopic = getEnvOrDefault("KAFKA_ORDER_CREATED_TOPIC", events.OrderCreatedTopic)
	cfg.KafkaPaymentResultTopic = getEnvOrDefault("KAFKA_PAYMENT_RESULT_TOPIC", events.PaymentResultTopic)
	cfg.KafkaConsumerGroup = getEnvOrDefault("KAFKA_CONSUMER_GROUP", events.OrderServiceGroup)

	cfg.UserServiceURL = getEnvOrDefault("USER_SERVICE_URL", "http://localhost:8084")
	cfg.MigrationsPath = getEnvOrDefault("ORDERS_MIGRATIONS_PATH", "file://migrations/orders")

	portStr := getEnvOrDefault("ORDERS_HTTP_PORT", "8081")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ORDERS_HTTP_PORT: %w", err)
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

func (c *Config) GetKafkaBrokers() []string {
	return []string{c.KafkaURL}
}
