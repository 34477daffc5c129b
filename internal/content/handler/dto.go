package handler

import (
	"time"

	"github.com/google/uuid"

	"adventure-server/pkg/models"
)

// --- Запросы ---

// CreateStoryRequest - тело запроса POST /stories.
type CreateStoryRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft published suspended"`
	AuthorID    *uuid.UUID `json:"author_id"`
}

// UpdateStoryRequest - тело запроса PUT /stories/:id. Все поля опциональны,
// обновляются только переданные.
type UpdateStoryRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft published suspended"`
	StartPageID *uuid.UUID `json:"start_page_id"`
}

// CreatePageRequest - тело запроса POST /stories/:id/pages.
type CreatePageRequest struct {
	Text        string  `json:"text" validate:"required"`
	IsEnding    bool    `json:"is_ending"`
	EndingLabel *string `json:"ending_label" validate:"omitempty,max=255"`
	IsStartPage bool    `json:"is_start_page"`
}

// UpdatePageRequest - тело запроса PUT /pages/:id.
type UpdatePageRequest struct {
	Text        *string `json:"text" validate:"omitempty,min=1"`
	IsEnding    *bool   `json:"is_ending"`
	EndingLabel *string `json:"ending_label" validate:"omitempty,max=255"`
}

// CreateChoiceRequest - тело запроса POST /pages/:id/choices.
type CreateChoiceRequest struct {
	Text       string    `json:"text" validate:"required,max=500"`
	NextPageID uuid.UUID `json:"next_page_id" validate:"required"`
}

// UpdateChoiceRequest - тело запроса PUT /pages/:page_id/choices/:choice_id.
type UpdateChoiceRequest struct {
	Text       *string    `json:"text" validate:"omitempty,min=1,max=500"`
	NextPageID *uuid.UUID `json:"next_page_id"`
}

// --- Ответы ---

// StoryResponse представляет историю в ответах API.
type StoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartPageID *uuid.UUID `json:"start_page_id"`
	AuthorID    *uuid.UUID `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ChoiceResponse представляет выбор в ответах API.
type ChoiceResponse struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	NextPageID uuid.UUID `json:"next_page_id"`
}

// PageResponse представляет страницу вместе с её выборами.
type PageResponse struct {
	ID          uuid.UUID        `json:"id"`
	StoryID     uuid.UUID        `json:"story_id"`
	Text        string           `json:"text"`
	IsEnding    bool             `json:"is_ending"`
	EndingLabel *string          `json:"ending_label,omitempty"`
	IsStartPage bool             `json:"is_start_page"`
	Choices     []ChoiceResponse `json:"choices"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func toStoryResponse(s *models.Story) StoryResponse {
	return StoryResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Status:      string(s.Status),
		StartPageID: s.StartPageID,
		AuthorID:    s.AuthorID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toChoiceResponse(c models.Choice) ChoiceResponse {
	return ChoiceResponse{ID: c.ID, Text: c.Text, NextPageID: c.NextPageID}
}

func toPageResponse(p *models.PageWithChoices) PageResponse {
	choices := make([]ChoiceResponse, 0, len(p.Choices))
	for _, c := range p.Choices {
		choices = append(choices, toChoiceResponse(c))
	}
	return PageResponse{
		ID:          p.ID,
		StoryID:     p.StoryID,
		Text:        p.Text,
		IsEnding:    p.IsEnding,
		EndingLabel: p.EndingLabel,
		IsStartPage: p.IsStartPage,
		Choices:     choices,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
