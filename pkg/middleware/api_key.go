package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// APIKeyHeader - заголовок с общим write-credential контент-сервиса.
const APIKeyHeader = "X-API-Key"

// APIKeyAuthMiddleware создает Echo middleware для проверки общего
// write-credential доверенных вызывающих. Проверка выполняется ДО любой
// другой валидации запроса; несовпадение и отсутствие ключа неразличимы
// для клиента.
func APIKeyAuthMiddleware(apiKey string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.With(zap.String("path", c.Request().URL.Path))

			provided := c.Request().Header.Get(APIKeyHeader)
			if provided == "" {
				log.Warn("X-API-Key header missing")
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: missing API key")
			}

			// Сравнение за константное время
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				log.Warn("API key mismatch")
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: invalid API key")
			}

			return next(c)
		}
	}
}
