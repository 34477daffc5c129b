package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/internal/web/service"
	"adventure-server/pkg/authutils"
	"adventure-server/pkg/middleware"
	"adventure-server/pkg/models"
)

// WebHandler обрабатывает HTTP запросы веб-сервиса.
type WebHandler struct {
	reader    service.ReaderService
	authors   service.AuthorService
	community service.CommunityService
	verifier  *authutils.JWTVerifier
	logger    *zap.Logger
}

// NewWebHandler создает новый WebHandler.
func NewWebHandler(
	reader service.ReaderService,
	authors service.AuthorService,
	community service.CommunityService,
	logger *zap.Logger,
	jwtSecret string,
) *WebHandler {
	verifier, err := authutils.NewJWTVerifier(jwtSecret, logger)
	if err != nil {
		logger.Fatal("Failed to create JWT Verifier", zap.Error(err))
	}
	return &WebHandler{
		reader:    reader,
		authors:   authors,
		community: community,
		verifier:  verifier,
		logger:    logger.Named("WebHandler"),
	}
}

// RegisterRoutes регистрирует маршруты веб-сервиса. writeLimiter
// навешивается на пишущие эндпоинты.
func (h *WebHandler) RegisterRoutes(router *gin.Engine, writeLimiter gin.HandlerFunc) {
	requireAuth := middleware.RequireAuth(h.verifier, h.logger)
	optionalAuth := middleware.OptionalAuth(h.verifier, h.logger)
	requireModerator := middleware.RequireRole(models.RoleModerator, h.logger)

	api := router.Group("/api")
	{
		// Читательский поток: анонимам можно, токен учитывается при записи
		// прохождений.
		api.GET("/stories", h.listStories)
		api.GET("/stories/:id", h.getStory)
		api.GET("/stories/:id/start", h.getStartPage)
		api.GET("/stories/:id/pages/:page_id", optionalAuth, h.renderPage)
		api.GET("/stats", h.getStats)

		api.POST("/stories/:id/rating", requireAuth, writeLimiter, h.rateStory)
		api.POST("/stories/:id/report", requireAuth, writeLimiter, h.reportStory)

		me := api.Group("/me", requireAuth)
		{
			me.GET("/stories", h.listMyStories)
			me.POST("/stories", writeLimiter, h.createStory)
			me.PUT("/stories/:id", writeLimiter, h.editStory)
			me.DELETE("/stories/:id", writeLimiter, h.deleteStory)
			me.POST("/stories/:id/publish", writeLimiter, h.publishStory)
			me.POST("/stories/:id/unpublish", writeLimiter, h.unpublishStory)
		}

		moderation := api.Group("/moderation", requireAuth, requireModerator)
		{
			moderation.GET("/reports", h.listReports)
			moderation.POST("/reports/:id/resolve", h.resolveReport)
			moderation.POST("/stories/:id/suspend", h.suspendStory)
			moderation.POST("/stories/:id/publish", h.moderatorPublishStory)
		}
	}
}

// --- Вспомогательные функции --- //

// pathUUID извлекает UUID из path-параметра, отвечая 400 при мусоре.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// mustUserID достает идентификатор пользователя, положенный RequireAuth.
func (h *WebHandler) mustUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		h.logger.Error("user id missing from authenticated request context",
			zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
		return uuid.Nil, false
	}
	return userID, true
}

func (h *WebHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "resource not found"})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
	case errors.Is(err, models.ErrUnauthorized):
		// Контент-сервис отверг наш ключ API: для клиента это сбой сервиса.
		h.logger.Error("content service rejected internal credential", zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "upstream service unavailable"})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "upstream service unavailable"})
	default:
		h.logger.Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}
