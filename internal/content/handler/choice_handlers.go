package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"adventure-server/internal/content/service"
	"adventure-server/pkg/models"
)

func (h *ContentHandler) createChoice(c echo.Context) error {
	pageID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}

	var req CreateChoiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	choice, err := h.service.CreateChoice(c.Request().Context(), service.CreateChoiceParams{
		PageID:     pageID,
		Text:       req.Text,
		NextPageID: req.NextPageID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	choicesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toChoiceResponse(*choice))
}

func (h *ContentHandler) updateChoice(c echo.Context) error {
	pageID, err := parseUUIDParam(c, "page_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	choiceID, err := parseUUIDParam(c, "choice_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}

	var req UpdateChoiceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	choice, err := h.service.UpdateChoice(c.Request().Context(), pageID, choiceID, models.ChoiceUpdate{
		Text:       req.Text,
		NextPageID: req.NextPageID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toChoiceResponse(*choice))
}

func (h *ContentHandler) deleteChoice(c echo.Context) error {
	pageID, err := parseUUIDParam(c, "page_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	choiceID, err := parseUUIDParam(c, "choice_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	}
	if err := h.service.DeleteChoice(c.Request().Context(), pageID, choiceID); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
