package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"adventure-server/pkg/models"
)

// listStories обрабатывает GET /stories с опциональными фильтрами
// ?status= и ?author_id=.
func (h *ContentHandler) listStories(c echo.Context) error {
	var filter models.StoryFilter
	if raw := c.QueryParam("status"); raw != "" {
		status := models.StoryStatus(raw)
		filter.Status = &status
	}
	if raw := c.QueryParam("author_id"); raw != "" {
		authorID, err := uuidFromString(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, APIError{Message: "invalid author_id"})
		}
		filter.AuthorID = &authorID
	}

	stories, err := h.service.ListStories(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("listStories failed", zap.Error(err))
		return handleServiceError(c, err)
	}

	resp := make([]StoryResponse, 0, len(stories))
	for i := range stories {
		resp = append(resp, toStoryResponse(&stories[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ContentHandler) getStory(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	story, err := h.service.GetStory(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toStoryResponse(story))
}

// getStartPage обрабатывает GET /stories/:id/start.
func (h *ContentHandler) getStartPage(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	page, err := h.service.GetStartPage(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPageResponse(page))
}

func (h *ContentHandler) createStory(c echo.Context) error {
	var req CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	story, err := h.service.CreateStory(c.Request().Context(), serviceCreateStoryParams(req))
	if err != nil {
		return handleServiceError(c, err)
	}
	storiesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toStoryResponse(story))
}

func (h *ContentHandler) updateStory(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	authorID, err := authorIDFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}

	var req UpdateStoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	update := models.StoryUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartPageID: req.StartPageID,
	}
	if req.Status != nil {
		status := models.StoryStatus(*req.Status)
		update.Status = &status
	}

	story, err := h.service.UpdateStory(c.Request().Context(), id, update, authorID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toStoryResponse(story))
}

func (h *ContentHandler) deleteStory(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	authorID, err := authorIDFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}

	if err := h.service.DeleteStory(c.Request().Context(), id, authorID); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
