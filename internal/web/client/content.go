package client

import (
	"context"

	"github.com/google/uuid"

	"adventure-server/pkg/models"
)

//go:generate mockery --name ContentServiceClient --output mocks --outpkg mocks

// CreateStoryInput - данные для создания истории в контент-сервисе.
type CreateStoryInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	AuthorID    *uuid.UUID `json:"author_id,omitempty"`
}

// CreatePageInput - данные для создания страницы.
type CreatePageInput struct {
	Text        string  `json:"text"`
	IsEnding    bool    `json:"is_ending"`
	EndingLabel *string `json:"ending_label,omitempty"`
	IsStartPage bool    `json:"is_start_page"`
}

// CreateChoiceInput - данные для создания варианта выбора.
type CreateChoiceInput struct {
	Text       string    `json:"text"`
	NextPageID uuid.UUID `json:"next_page_id"`
}

// ContentServiceClient определяет интерфейс для взаимодействия с API
// контент-сервиса.
type ContentServiceClient interface {
	ListStories(ctx context.Context, filter models.StoryFilter) ([]models.Story, error)
	GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error)
	GetStartPage(ctx context.Context, storyID uuid.UUID) (*models.PageWithChoices, error)
	GetPage(ctx context.Context, pageID uuid.UUID) (*models.PageWithChoices, error)
	ListStoryPages(ctx context.Context, storyID uuid.UUID) ([]models.PageWithChoices, error)

	CreateStory(ctx context.Context, input CreateStoryInput) (*models.Story, error)
	// UpdateStory передает actingAuthorID в заголовке X-Author-ID
	// для проверки владения на стороне контент-сервиса.
	UpdateStory(ctx context.Context, id uuid.UUID, update models.StoryUpdate, actingAuthorID *uuid.UUID) (*models.Story, error)
	DeleteStory(ctx context.Context, id uuid.UUID, actingAuthorID *uuid.UUID) error

	CreatePage(ctx context.Context, storyID uuid.UUID, input CreatePageInput) (uuid.UUID, error)
	UpdatePage(ctx context.Context, pageID uuid.UUID, update models.PageUpdate) error
	DeletePage(ctx context.Context, pageID uuid.UUID) error

	CreateChoice(ctx context.Context, pageID uuid.UUID, input CreateChoiceInput) (*models.Choice, error)
	UpdateChoice(ctx context.Context, pageID, choiceID uuid.UUID, update models.ChoiceUpdate) error
	DeleteChoice(ctx context.Context, pageID, choiceID uuid.UUID) error
}
