package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/pkg/middleware"
)

// listStories возвращает опубликованные истории со сводками сообщества.
// GET /api/stories
func (h *WebHandler) listStories(c *gin.Context) {
	stories, err := h.reader.ListPublishedStories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list published stories", zap.Error(err))
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

// GET /api/stories/:id
func (h *WebHandler) getStory(c *gin.Context) {
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	story, err := h.reader.GetStoryDetail(c.Request.Context(), storyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// GET /api/stories/:id/start
func (h *WebHandler) getStartPage(c *gin.Context) {
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	page, err := h.reader.GetStartPage(c.Request.Context(), storyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// renderPage возвращает страницу истории; посещение концовки фиксируется
// как прохождение (анонимное при отсутствии токена).
// GET /api/stories/:id/pages/:page_id
func (h *WebHandler) renderPage(c *gin.Context) {
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	pageID, ok := pathUUID(c, "page_id")
	if !ok {
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.UserIDFromContext(c); ok {
		userID = &id
	}

	page, err := h.reader.RenderPage(c.Request.Context(), storyID, pageID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/stats
func (h *WebHandler) getStats(c *gin.Context) {
	stats, err := h.reader.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to collect play stats", zap.Error(err))
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
