package config

import (
	"fmt"
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"

	"adventure-server/pkg/utils"
)

// Config хранит конфигурацию веб-сервиса.
type Config struct {
	Port     string `envconfig:"WEB_SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Параметры подключения к БД сообщества (прохождения, оценки, жалобы)
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`

	// Контент-сервис
	ContentServiceURL string        `envconfig:"CONTENT_SERVICE_URL" default:"http://content-service:8081"`
	ClientTimeout     time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10s"`

	// RabbitMQ: очередь событий о жалобах. Пустой URL отключает публикацию.
	RabbitMQURL      string `envconfig:"RABBITMQ_URL"`
	ReportQueueName  string `envconfig:"REPORT_QUEUE_NAME" default:"story_reports"`

	// Ограничение частоты запросов
	RateLimitPerSecond int `envconfig:"RATE_LIMIT_PER_SECOND" default:"20"`

	// Секретные поля БЕЗ envconfig тегов
	DBPassword    string
	JWTSecret     string
	ContentAPIKey string
}

// GetDSN собирает строку подключения к PostgreSQL.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig загружает конфигурацию из переменных окружения и секретов.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка обработки переменных окружения: %w", err)
	}

	dbPassword, err := utils.ReadSecretWithFallback("db_password", "DB_PASSWORD")
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать секрет db_password: %w", err)
	}
	cfg.DBPassword = dbPassword

	jwtSecret, err := utils.ReadSecretWithFallback("jwt_secret", "JWT_SECRET")
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать секрет jwt_secret: %w", err)
	}
	cfg.JWTSecret = jwtSecret

	contentAPIKey, err := utils.ReadSecretWithFallback("content_api_key", "CONTENT_API_KEY")
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать секрет content_api_key: %w", err)
	}
	cfg.ContentAPIKey = contentAPIKey

	log.Printf("Конфигурация Web Service загружена:")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  DB DSN: postgres://%s:***@%s:%s/%s?sslmode=%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	log.Printf("  Content Service URL: %s", cfg.ContentServiceURL)
	if cfg.RabbitMQURL != "" {
		log.Printf("  Report Queue: %s", cfg.ReportQueueName)
	} else {
		log.Println("  RabbitMQ: отключен")
	}

	return &cfg, nil
}
