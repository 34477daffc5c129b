package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"adventure-server/pkg/models"
)

// RateStoryRequest - тело запроса POST /api/stories/:id/rating.
type RateStoryRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"omitempty,max=2000"`
}

// ReportStoryRequest - тело запроса POST /api/stories/:id/report.
type ReportStoryRequest struct {
	Reason      string `json:"reason" binding:"required,oneof=spam offensive inappropriate copyright other"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// POST /api/stories/:id/rating
func (h *WebHandler) rateStory(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req RateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	rating, err := h.community.RateStory(c.Request.Context(), userID, storyID, req.Rating, req.Comment)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// POST /api/stories/:id/report
func (h *WebHandler) reportStory(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ReportStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	report, err := h.community.ReportStory(c.Request.Context(), userID, storyID, models.ReportReason(req.Reason), req.Description)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// --- Модерация --- //

// GET /api/moderation/reports
func (h *WebHandler) listReports(c *gin.Context) {
	reports, err := h.community.ListUnresolvedReports(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list unresolved reports", zap.Error(err))
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

// POST /api/moderation/reports/:id/resolve
func (h *WebHandler) resolveReport(c *gin.Context) {
	reportID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.community.ResolveReport(c.Request.Context(), reportID); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "resolved"})
}

// POST /api/moderation/stories/:id/suspend
func (h *WebHandler) suspendStory(c *gin.Context) {
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	story, err := h.community.SuspendStory(c.Request.Context(), storyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// POST /api/moderation/stories/:id/publish
func (h *WebHandler) moderatorPublishStory(c *gin.Context) {
	storyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	story, err := h.community.PublishStory(c.Request.Context(), storyID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}
