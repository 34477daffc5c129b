package config

import (
	"fmt"
	"log"
	"time"

	"adventure-server/pkg/utils"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию для Content Service
type Config struct {
	// Настройки сервера
	Port     string `envconfig:"CONTENT_SERVER_PORT" default:"8081"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Настройки PostgreSQL
	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_MINUTES" default:"5m"`
	// Секретное поле БЕЗ envconfig тега
	DBPassword string

	// Write-credential для мутирующих эндпоинтов.
	// Секретное поле БЕЗ envconfig тега
	APIKey string
}

// GetDSN возвращает строку подключения (DSN) для PostgreSQL
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig загружает конфигурацию из переменных окружения и секретов
func LoadConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации content-service: %w", err)
	}

	var loadErr error
	cfg.DBPassword, loadErr = utils.ReadSecretWithFallback("db_password", "DB_PASSWORD")
	if loadErr != nil {
		return nil, loadErr
	}

	cfg.APIKey, loadErr = utils.ReadSecretWithFallback("content_api_key", "CONTENT_API_KEY")
	if loadErr != nil {
		return nil, loadErr
	}

	log.Printf("Конфигурация Content Service загружена:")
	log.Printf("  Port: %s", cfg.Port)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  DB DSN: postgres://%s:***@%s:%s/%s?sslmode=%s", cfg.DBUser, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
	log.Printf("  DB Max Conns: %d", cfg.DBMaxConns)
	log.Println("  API Key: [ЗАГРУЖЕН]")

	return &cfg, nil
}
