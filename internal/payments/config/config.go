package config

import (
	"fmt"
	"os"
	"strconv"

	"shop/internal/events"
)

type Config struct {
	DBConfig struct {
		DBHost     string `env:"PAYMENTS_DB_HOST"`
		DBPort     string `env:"PAYMENTS_DB_PORT"`
		DBUser     string `env:"PAYMENTS_DB_USER"`
		DBPassword string `env:"PAYMENTS_DB_PASSWORD"`
		DBName     string `env:"PAYMENTS_DB_NAME"`
		DBSSLMode  string `env:"PAYMENTS_DB_SSLMODE"`
	}

	KafkaURL                string `env:"KAFKA_BROKER_URL"`
	KafkaOrderCreatedTopic  string `env:"KAFKA_ORDER_CREATED_TOPIC"`
	KafkaPaymentResultTopic string `env:"KAFKA_PAYMENT_RESULT_TOPIC"`
	KafkaConsumerGroup      string `env:"KAFKA_CONSUMER_GROUP"`

	RandomAPIURL   string `env:"RANDOM_API_URL"`
	MigrationsPath string `env:"PAYMENTS_MIGRATIONS_PATH"`
	HTTPPort       int    `env:"PAYMENTS_HTTP_PORT"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.DBConfig.DBHost = getEnvOrDefault("PAYMENTS_DB_HOST", "localhost")
	cfg.DBConfig.DBPort = getEnvOrDefault("PAYMENTS_DB_PORT", "5432")
	cfg.DBConfig.DBUser = getEnvOrDefault("PAYMENTS_DB_USER", "postgres")
	cfg.DBConfig.DBPassword = getEnvOrDefault("PAYMENTS_DB_PASSWORD", "postgres")
	cfg.DBConfig.DBName = getEnvOrDefault("PAYMENTS_DB_NAME", "payments_db")
	cfg.DBConfig.DBSSLMode = getEnvOrDefault("PAYMENTS_DB_SSLMODE", "disable")

	cfg.KafkaURL = getEnvOrDefault("KAFKA_BROKER_URL", "localhost:9092")
	cfg.KafkaOrderCreatedTopic = getEnvOrDefault("KAFKA_ORDER_CREATED_TOPIC", events.OrderCreatedTopic)
	cfg.KafkaPaymentResultTopic = getEnvOrDefault("KAFKA_PAYMENT_RESULT_TOPIC", events.PaymentResultTopic)
	cfg.KafkaConsumerGroup = getEnvOrDefault("KAFKA_CONSUMER_GROUP", events.PaymentServiceGroup)

	cfg.RandomAPIURL = getEnvOrDefault("RANDOM_API_URL", "https://www.random.org/integers/?num=1&min=1&max=100&col=1&base=10&format=plain&rnd=new")
	cfg.MigrationsPath = getEnvOrDefault("PAYMENTS_MIGRATIONS_PATH", "file://migrations/payments")

	portStr := getEnvOrDefault("PAYMENTS_HTTP_PORT", "8082")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENTS_HTTP_PORT: %w", err)
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
