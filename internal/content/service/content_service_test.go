package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adventure-server/internal/content/service"
	"adventure-server/pkg/interfaces/mocks"
	"adventure-server/pkg/models"
)

func newService(stories *mocks.StoryRepository, pages *mocks.PageRepository, choices *mocks.ChoiceRepository) service.ContentService {
	return service.NewContentService(stories, pages, choices, zap.NewNop())
}

func TestCreateStory(t *testing.T) {
	ctx := context.Background()

	t.Run("Status defaults to draft", func(t *testing.T) {
		mockStories := new(mocks.StoryRepository)
		mockStories.On("Create", ctx, mock.MatchedBy(func(s *models.Story) bool {
			return s.Status == models.StatusDraft && s.Title == "Test"
		})).Return(nil).Once()

		svc := newService(mockStories, new(mocks.PageRepository), new(mocks.ChoiceRepository))
		story, err := svc.CreateStory(ctx, service.CreateStoryParams{Title: "Test"})

		assert.NoError(t, err)
		assert.Equal(t, models.StatusDraft, story.Status)
		mockStories.AssertExpectations(t)
	})

	t.Run("Empty title rejected", func(t *testing.T) {
		svc := newService(new(mocks.StoryRepository), new(mocks.PageRepository), new(mocks.ChoiceRepository))
		_, err := svc.CreateStory(ctx, service.CreateStoryParams{})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("Unknown status rejected", func(t *testing.T) {
		svc := newService(new(mocks.StoryRepository), new(mocks.PageRepository), new(mocks.ChoiceRepository))
		_, err := svc.CreateStory(ctx, service.CreateStoryParams{Title: "Test", Status: "archived"})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

// Матрица владения: запрещено только когда и у истории, и у запроса автор
// задан и они различаются.
func TestUpdateStoryOwnership(t *testing.T) {
	ctx := context.Background()
	storyID := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()
	newTitle := "Renamed"

	cases := []struct {
		name          string
		storedAuthor  *uuid.UUID
		requesting    *uuid.UUID
		wantForbidden bool
	}{
		{"Both match", &owner, &owner, false},
		{"Both differ", &owner, &stranger, true},
		{"Stored nil", nil, &stranger, false},
		{"Requesting nil", &owner, nil, false},
		{"Both nil", nil, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockStories := new(mocks.StoryRepository)
			stored := &models.Story{
				ID:       storyID,
				Title:    "Original",
				Status:   models.StatusDraft,
				AuthorID: tc.storedAuthor,
			}
			mockStories.On("GetByID", ctx, storyID).Return(stored, nil)
			if !tc.wantForbidden {
				mockStories.On("UpdateFields", ctx, storyID, mock.Anything).Return(nil).Once()
			}

			svc := newService(mockStories, new(mocks.PageRepository), new(mocks.ChoiceRepository))
			_, err := svc.UpdateStory(ctx, storyID, models.StoryUpdate{Title: &newTitle}, tc.requesting)

			if tc.wantForbidden {
				assert.ErrorIs(t, err, models.ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
			mockStories.AssertExpectations(t)
		})
	}
}

func TestUpdateStoryStartPage(t *testing.T) {
	ctx := context.Background()
	storyID := uuid.New()
	pageID := uuid.New()

	t.Run("Start page must belong to the story", func(t *testing.T) {
		mockStories := new(mocks.StoryRepository)
		mockPages := new(mocks.PageRepository)
		mockStories.On("GetByID", ctx, storyID).Return(&models.Story{ID: storyID}, nil)
		mockPages.On("GetByID", ctx, pageID).Return(&models.Page{ID: pageID, StoryID: uuid.New()}, nil)

		svc := newService(mockStories, mockPages, new(mocks.ChoiceRepository))
		_, err := svc.UpdateStory(ctx, storyID, models.StoryUpdate{StartPageID: &pageID}, nil)

		assert.ErrorIs(t, err, service.ErrStartPageMismatch)
	})

	t.Run("Missing start page is invalid input", func(t *testing.T) {
		mockStories := new(mocks.StoryRepository)
		mockPages := new(mocks.PageRepository)
		mockStories.On("GetByID", ctx, storyID).Return(&models.Story{ID: storyID}, nil)
		mockPages.On("GetByID", ctx, pageID).Return(nil, models.ErrNotFound)

		svc := newService(mockStories, mockPages, new(mocks.ChoiceRepository))
		_, err := svc.UpdateStory(ctx, storyID, models.StoryUpdate{StartPageID: &pageID}, nil)

		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestCreatePage(t *testing.T) {
	ctx := context.Background()
	storyID := uuid.New()

	t.Run("Start page flag wires story pointer", func(t *testing.T) {
		mockStories := new(mocks.StoryRepository)
		mockPages := new(mocks.PageRepository)
		mockStories.On("GetByID", ctx, storyID).Return(&models.Story{ID: storyID}, nil)
		mockPages.On("Create", ctx, mock.MatchedBy(func(p *models.Page) bool {
			p.ID = uuid.New()
			return p.StoryID == storyID && p.Text == "Вход в пещеру"
		})).Return(nil).Once()
		mockStories.On("SetStartPage", ctx, storyID, mock.Anything).Return(nil).Once()

		svc := newService(mockStories, mockPages, new(mocks.ChoiceRepository))
		page, err := svc.CreatePage(ctx, service.CreatePageParams{
			StoryID:     storyID,
			Text:        "Вход в пещеру",
			IsStartPage: true,
		})

		assert.NoError(t, err)
		assert.NotNil(t, page)
		mockStories.AssertExpectations(t)
		mockPages.AssertExpectations(t)
	})

	t.Run("Unknown story", func(t *testing.T) {
		mockStories := new(mocks.StoryRepository)
		mockStories.On("GetByID", ctx, storyID).Return(nil, models.ErrNotFound)

		svc := newService(mockStories, new(mocks.PageRepository), new(mocks.ChoiceRepository))
		_, err := svc.CreatePage(ctx, service.CreatePageParams{StoryID: storyID, Text: "x"})

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestCreateChoice(t *testing.T) {
	ctx := context.Background()
	storyID := uuid.New()
	pageID := uuid.New()
	targetID := uuid.New()

	t.Run("Target in another story allowed", func(t *testing.T) {
		// Принадлежность цели той же истории не проверяется,
		// достаточно её существования.
		mockPages := new(mocks.PageRepository)
		mockPages.On("GetByID", ctx, pageID).Return(&models.Page{ID: pageID, StoryID: storyID}, nil)
		mockPages.On("GetByID", ctx, targetID).Return(&models.Page{ID: targetID, StoryID: uuid.New()}, nil)
		mockChoices := new(mocks.ChoiceRepository)
		mockChoices.On("Create", ctx, mock.AnythingOfType("*models.Choice")).Return(nil)

		svc := newService(new(mocks.StoryRepository), mockPages, mockChoices)
		choice, err := svc.CreateChoice(ctx, service.CreateChoiceParams{
			PageID: pageID, Text: "Идти дальше", NextPageID: targetID,
		})

		require.NoError(t, err)
		assert.Equal(t, targetID, choice.NextPageID)
		mockChoices.AssertExpectations(t)
	})

	t.Run("Missing target is invalid input, not NotFound", func(t *testing.T) {
		mockPages := new(mocks.PageRepository)
		mockPages.On("GetByID", ctx, pageID).Return(&models.Page{ID: pageID, StoryID: storyID}, nil)
		mockPages.On("GetByID", ctx, targetID).Return(nil, models.ErrNotFound)

		svc := newService(new(mocks.StoryRepository), mockPages, new(mocks.ChoiceRepository))
		_, err := svc.CreateChoice(ctx, service.CreateChoiceParams{
			PageID: pageID, Text: "Идти дальше", NextPageID: targetID,
		})

		assert.ErrorIs(t, err, models.ErrInvalidInput)
		assert.NotErrorIs(t, err, models.ErrNotFound)
	})
}

// Выбор ищется только в паре со своей страницей: чужая страница в пути
// означает NotFound, а не утечку чужого выбора.
func TestChoiceScopedLookups(t *testing.T) {
	ctx := context.Background()
	pageID := uuid.New()
	choiceID := uuid.New()

	mockChoices := new(mocks.ChoiceRepository)
	mockChoices.On("Delete", ctx, pageID, choiceID).Return(models.ErrNotFound).Once()

	svc := newService(new(mocks.StoryRepository), new(mocks.PageRepository), mockChoices)
	err := svc.DeleteChoice(ctx, pageID, choiceID)

	assert.ErrorIs(t, err, models.ErrNotFound)
	mockChoices.AssertExpectations(t)
}

func TestGetStartPage(t *testing.T) {
	ctx := context.Background()
	storyID := uuid.New()

	t.Run("No start page set", func(t *testing.T) {
		mockStories := new(mocks.StoryRepository)
		mockStories.On("GetByID", ctx, storyID).Return(&models.Story{ID: storyID}, nil)

		svc := newService(mockStories, new(mocks.PageRepository), new(mocks.ChoiceRepository))
		_, err := svc.GetStartPage(ctx, storyID)

		assert.ErrorIs(t, err, service.ErrNoStartPage)
	})

	t.Run("Start page flagged in response", func(t *testing.T) {
		pageID := uuid.New()
		mockStories := new(mocks.StoryRepository)
		mockPages := new(mocks.PageRepository)
		mockChoices := new(mocks.ChoiceRepository)

		story := &models.Story{ID: storyID, StartPageID: &pageID}
		mockStories.On("GetByID", ctx, storyID).Return(story, nil)
		mockPages.On("GetByID", ctx, pageID).Return(&models.Page{ID: pageID, StoryID: storyID}, nil)
		mockChoices.On("ListByPage", ctx, pageID).Return([]models.Choice{}, nil)

		svc := newService(mockStories, mockPages, mockChoices)
		page, err := svc.GetStartPage(ctx, storyID)

		assert.NoError(t, err)
		assert.True(t, page.IsStartPage)
	})
}

func TestDeleteStory(t *testing.T) {
	ctx := context.Background()
	storyID := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()

	t.Run("Foreign story forbidden", func(t *testing.T) {
		mockStories := new(mocks.StoryRepository)
		mockStories.On("GetByID", ctx, storyID).Return(&models.Story{ID: storyID, AuthorID: &owner}, nil)

		svc := newService(mockStories, new(mocks.PageRepository), new(mocks.ChoiceRepository))
		err := svc.DeleteStory(ctx, storyID, &stranger)

		assert.ErrorIs(t, err, models.ErrForbidden)
		mockStories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Repo error propagated", func(t *testing.T) {
		repoErr := errors.New("connection reset")
		mockStories := new(mocks.StoryRepository)
		mockStories.On("GetByID", ctx, storyID).Return(&models.Story{ID: storyID}, nil)
		mockStories.On("Delete", ctx, storyID).Return(repoErr)

		svc := newService(mockStories, new(mocks.PageRepository), new(mocks.ChoiceRepository))
		err := svc.DeleteStory(ctx, storyID, nil)

		assert.ErrorIs(t, err, repoErr)
	})
}
