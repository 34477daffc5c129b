package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adventure-server/internal/web/author"
	"adventure-server/pkg/models"
)

// BuildResultResponse - ответ на массовое создание/редактирование истории.
type BuildResultResponse struct {
	StoryID    string   `json:"story_id"`
	PageIDs    []string `json:"page_ids"`
	FailedStep string   `json:"failed_step,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func toBuildResultResponse(r *author.BuildResult) BuildResultResponse {
	resp := BuildResultResponse{
		StoryID:    r.StoryID.String(),
		PageIDs:    make([]string, 0, len(r.PageIDs)),
		FailedStep: r.FailedStep,
	}
	for _, id := range r.PageIDs {
		resp.PageIDs = append(resp.PageIDs, id.String())
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	return resp
}

// GET /api/me/stories
func (h *WebHandler) listMyStories(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	stories, err := h.authors.ListMyStories(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

// createStory принимает форму с клиентскими индексами страниц и прогоняет
// сценарий создания. Частичный сбой не откатывается: ответ 207 несет всё
// уже созданное и описание оборвавшегося шага.
// POST /api/me/stories
func (h *WebHandler) createStory(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var draft author.StoryDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if draft.Title == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "title is required"})
		return
	}

	result := h.authors.CreateStory(c.Request.Context(), userID, draft)
	if result.Failed() {
		c.JSON(http.StatusMultiStatus, toBuildResultResponse(result))
		return
	}
	c.JSON(http.StatusCreated, toBuildResultResponse(result))
}

// PUT /api/me/stories/:id
func (h *WebHandler) editStory(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var edit author.StoryEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result := h.authors.EditStory(c.Request.Context(), userID, storyID, edit)
	if result.Failed() {
		// Сбой первого же шага с Forbidden/NotFound отдаем как обычную ошибку.
		if result.FailedStep == "update story metadata" {
			h.handleServiceError(c, result.Err)
			return
		}
		c.JSON(http.StatusMultiStatus, toBuildResultResponse(result))
		return
	}
	c.JSON(http.StatusOK, toBuildResultResponse(result))
}

// DELETE /api/me/stories/:id
func (h *WebHandler) deleteStory(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.authors.DeleteStory(c.Request.Context(), userID, storyID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.logger.Info("story deleted by author",
		zap.String("storyID", storyID.String()),
		zap.String("authorID", userID.String()))
	c.Status(http.StatusNoContent)
}

// POST /api/me/stories/:id/publish
func (h *WebHandler) publishStory(c *gin.Context) {
	h.setOwnStoryStatus(c, models.StatusPublished)
}

// POST /api/me/stories/:id/unpublish
func (h *WebHandler) unpublishStory(c *gin.Context) {
	h.setOwnStoryStatus(c, models.StatusDraft)
}

func (h *WebHandler) setOwnStoryStatus(c *gin.Context, status models.StoryStatus) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	story, err := h.authors.SetStatus(c.Request.Context(), userID, storyID, status)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}
