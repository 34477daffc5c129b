package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"adventure-server/internal/web/client"
	"adventure-server/pkg/models"
)

// Mock ContentServiceClient
type ContentServiceClient struct {
	mock.Mock
}

func (m *ContentServiceClient) ListStories(ctx context.Context, filter models.StoryFilter) ([]models.Story, error) {
	args := m.Called(ctx, filter)
	stories, _ := args.Get(0).([]models.Story)
	return stories, args.Error(1)
}
func (m *ContentServiceClient) GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}
func (m *ContentServiceClient) GetStartPage(ctx context.Context, storyID uuid.UUID) (*models.PageWithChoices, error) {
	args := m.Called(ctx, storyID)
	page, _ := args.Get(0).(*models.PageWithChoices)
	return page, args.Error(1)
}
func (m *ContentServiceClient) GetPage(ctx context.Context, pageID uuid.UUID) (*models.PageWithChoices, error) {
	args := m.Called(ctx, pageID)
	page, _ := args.Get(0).(*models.PageWithChoices)
	return page, args.Error(1)
}
func (m *ContentServiceClient) ListStoryPages(ctx context.Context, storyID uuid.UUID) ([]models.PageWithChoices, error) {
	args := m.Called(ctx, storyID)
	pages, _ := args.Get(0).([]models.PageWithChoices)
	return pages, args.Error(1)
}
func (m *ContentServiceClient) CreateStory(ctx context.Context, input client.CreateStoryInput) (*models.Story, error) {
	args := m.Called(ctx, input)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}
func (m *ContentServiceClient) UpdateStory(ctx context.Context, id uuid.UUID, update models.StoryUpdate, actingAuthorID *uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, id, update, actingAuthorID)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}
func (m *ContentServiceClient) DeleteStory(ctx context.Context, id uuid.UUID, actingAuthorID *uuid.UUID) error {
	args := m.Called(ctx, id, actingAuthorID)
	return args.Error(0)
}
func (m *ContentServiceClient) CreatePage(ctx context.Context, storyID uuid.UUID, input client.CreatePageInput) (uuid.UUID, error) {
	args := m.Called(ctx, storyID, input)
	pageID, _ := args.Get(0).(uuid.UUID)
	return pageID, args.Error(1)
}
func (m *ContentServiceClient) UpdatePage(ctx context.Context, pageID uuid.UUID, update models.PageUpdate) error {
	args := m.Called(ctx, pageID, update)
	return args.Error(0)
}
func (m *ContentServiceClient) DeletePage(ctx context.Context, pageID uuid.UUID) error {
	args := m.Called(ctx, pageID)
	return args.Error(0)
}
func (m *ContentServiceClient) CreateChoice(ctx context.Context, pageID uuid.UUID, input client.CreateChoiceInput) (*models.Choice, error) {
	args := m.Called(ctx, pageID, input)
	choice, _ := args.Get(0).(*models.Choice)
	return choice, args.Error(1)
}
func (m *ContentServiceClient) UpdateChoice(ctx context.Context, pageID, choiceID uuid.UUID, update models.ChoiceUpdate) error {
	args := m.Called(ctx, pageID, choiceID, update)
	return args.Error(0)
}
func (m *ContentServiceClient) DeleteChoice(ctx context.Context, pageID, choiceID uuid.UUID) error {
	args := m.Called(ctx, pageID, choiceID)
	return args.Error(0)
}
