package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"adventure-server/internal/content/service"
	"adventure-server/pkg/models"
)

// listStoryPages обрабатывает GET /stories/:id/pages.
func (h *ContentHandler) listStoryPages(c echo.Context) error {
	storyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	pages, err := h.service.ListStoryPages(c.Request().Context(), storyID)
	if err != nil {
		return handleServiceError(c, err)
	}
	resp := make([]PageResponse, 0, len(pages))
	for i := range pages {
		resp = append(resp, toPageResponse(&pages[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ContentHandler) getPage(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	page, err := h.service.GetPage(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPageResponse(page))
}

func (h *ContentHandler) createPage(c echo.Context) error {
	storyID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}

	var req CreatePageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	page, err := h.service.CreatePage(c.Request().Context(), service.CreatePageParams{
		StoryID:     storyID,
		Text:        req.Text,
		IsEnding:    req.IsEnding,
		EndingLabel: req.EndingLabel,
		IsStartPage: req.IsStartPage,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	pagesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, models.IDResponse{ID: page.ID.String()})
}

func (h *ContentHandler) updatePage(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}

	var req UpdatePageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	page, err := h.service.UpdatePage(c.Request().Context(), id, models.PageUpdate{
		Text:        req.Text,
		IsEnding:    req.IsEnding,
		EndingLabel: req.EndingLabel,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, models.IDResponse{ID: page.ID.String()})
}

func (h *ContentHandler) deletePage(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	if err := h.service.DeletePage(c.Request().Context(), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
