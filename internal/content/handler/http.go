package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"adventure-server/internal/content/service"
	"adventure-server/pkg/middleware"
	"adventure-server/pkg/models"
)

// AuthorIDHeader - заголовок, которым доверенный вызывающий сервис
// передает идентификатор автора для проверок владения.
const AuthorIDHeader = "X-Author-ID"

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

// requestValidator оборачивает go-playground/validator для echo.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewRequestValidator создает echo.Validator на базе go-playground/validator.
func NewRequestValidator() echo.Validator {
	return &requestValidator{validate: validator.New()}
}

// ContentHandler обрабатывает HTTP запросы контент-сервиса.
type ContentHandler struct {
	service service.ContentService
	logger  *zap.Logger
	apiKey  string
}

// NewContentHandler создает новый ContentHandler.
func NewContentHandler(s service.ContentService, logger *zap.Logger, apiKey string) *ContentHandler {
	return &ContentHandler{
		service: s,
		logger:  logger.Named("ContentHandler"),
		apiKey:  apiKey,
	}
}

// RegisterRoutes регистрирует маршруты контент-сервиса.
// Читающие маршруты открыты, пишущие защищены ключом API.
func (h *ContentHandler) RegisterRoutes(e *echo.Echo) {
	writeAuth := middleware.APIKeyAuthMiddleware(h.apiKey, h.logger)

	storiesGroup := e.Group("/stories")
	{
		storiesGroup.GET("", h.listStories)
		storiesGroup.GET("/:id", h.getStory)
		storiesGroup.GET("/:id/start", h.getStartPage)
		storiesGroup.GET("/:id/pages", h.listStoryPages)

		storiesGroup.POST("", h.createStory, writeAuth)
		storiesGroup.PUT("/:id", h.updateStory, writeAuth)
		storiesGroup.DELETE("/:id", h.deleteStory, writeAuth)
		storiesGroup.POST("/:id/pages", h.createPage, writeAuth)
	}

	pagesGroup := e.Group("/pages")
	{
		pagesGroup.GET("/:id", h.getPage)

		pagesGroup.PUT("/:id", h.updatePage, writeAuth)
		pagesGroup.DELETE("/:id", h.deletePage, writeAuth)
		pagesGroup.POST("/:id/choices", h.createChoice, writeAuth)
		pagesGroup.PUT("/:page_id/choices/:choice_id", h.updateChoice, writeAuth)
		pagesGroup.DELETE("/:page_id/choices/:choice_id", h.deleteChoice, writeAuth)
	}
}

// --- Вспомогательные функции --- //

func uuidFromString(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

func serviceCreateStoryParams(req CreateStoryRequest) service.CreateStoryParams {
	return service.CreateStoryParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StoryStatus(req.Status),
		AuthorID:    req.AuthorID,
	}
}

// parseUUIDParam извлекает и валидирует UUID из path-параметра.
func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// authorIDFromRequest читает опциональный заголовок X-Author-ID.
// Отсутствие заголовка не ошибка: вызов считается анонимным.
func authorIDFromRequest(c echo.Context) (*uuid.UUID, error) {
	raw := c.Request().Header.Get(AuthorIDHeader)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s header: %q", AuthorIDHeader, raw)
	}
	return &id, nil
}

func handleServiceError(c echo.Context, err error) error {
	var statusCode int
	var apiErr APIError

	switch {
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		apiErr = APIError{Message: "Resource not found"}
	case errors.Is(err, service.ErrNoStartPage):
		statusCode = http.StatusNotFound
		apiErr = APIError{Message: err.Error()}
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		apiErr = APIError{Message: "Access denied"}
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, service.ErrStartPageMismatch):
		statusCode = http.StatusBadRequest
		apiErr = APIError{Message: err.Error()}
	default:
		statusCode = http.StatusInternalServerError
		apiErr = APIError{Message: "Internal server error"}
	}
	return c.JSON(statusCode, apiErr)
}
