package mocks

import (
	"context"

	"adventure-server/internal/content/service"
	"adventure-server/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ContentService - мок сервиса контента для тестов обработчиков.
type ContentService struct {
	mock.Mock
}

var _ service.ContentService = (*ContentService)(nil)

func (m *ContentService) ListStories(ctx context.Context, filter models.StoryFilter) ([]models.Story, error) {
	args := m.Called(ctx, filter)
	stories, _ := args.Get(0).([]models.Story)
	return stories, args.Error(1)
}

func (m *ContentService) GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *ContentService) GetStartPage(ctx context.Context, storyID uuid.UUID) (*models.PageWithChoices, error) {
	args := m.Called(ctx, storyID)
	page, _ := args.Get(0).(*models.PageWithChoices)
	return page, args.Error(1)
}

func (m *ContentService) CreateStory(ctx context.Context, params service.CreateStoryParams) (*models.Story, error) {
	args := m.Called(ctx, params)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *ContentService) UpdateStory(ctx context.Context, id uuid.UUID, update models.StoryUpdate, requestingAuthorID *uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, id, update, requestingAuthorID)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}

func (m *ContentService) DeleteStory(ctx context.Context, id uuid.UUID, requestingAuthorID *uuid.UUID) error {
	args := m.Called(ctx, id, requestingAuthorID)
	return args.Error(0)
}

func (m *ContentService) ListStoryPages(ctx context.Context, storyID uuid.UUID) ([]models.PageWithChoices, error) {
	args := m.Called(ctx, storyID)
	pages, _ := args.Get(0).([]models.PageWithChoices)
	return pages, args.Error(1)
}

func (m *ContentService) GetPage(ctx context.Context, id uuid.UUID) (*models.PageWithChoices, error) {
	args := m.Called(ctx, id)
	page, _ := args.Get(0).(*models.PageWithChoices)
	return page, args.Error(1)
}

func (m *ContentService) CreatePage(ctx context.Context, params service.CreatePageParams) (*models.Page, error) {
	args := m.Called(ctx, params)
	page, _ := args.Get(0).(*models.Page)
	return page, args.Error(1)
}

func (m *ContentService) UpdatePage(ctx context.Context, id uuid.UUID, update models.PageUpdate) (*models.Page, error) {
	args := m.Called(ctx, id, update)
	page, _ := args.Get(0).(*models.Page)
	return page, args.Error(1)
}

func (m *ContentService) DeletePage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ContentService) CreateChoice(ctx context.Context, params service.CreateChoiceParams) (*models.Choice, error) {
	args := m.Called(ctx, params)
	choice, _ := args.Get(0).(*models.Choice)
	return choice, args.Error(1)
}

func (m *ContentService) UpdateChoice(ctx context.Context, pageID, choiceID uuid.UUID, update models.ChoiceUpdate) (*models.Choice, error) {
	args := m.Called(ctx, pageID, choiceID, update)
	choice, _ := args.Get(0).(*models.Choice)
	return choice, args.Error(1)
}

func (m *ContentService) DeleteChoice(ctx context.Context, pageID, choiceID uuid.UUID) error {
	args := m.Called(ctx, pageID, choiceID)
	return args.Error(0)
}
