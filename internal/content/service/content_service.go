package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/pkg/interfaces"
	"adventure-server/pkg/models"
)

// CreateStoryParams - входные данные создания истории.
type CreateStoryParams struct {
	Title       string
	Description string
	Status      models.StoryStatus
	AuthorID    *uuid.UUID
}

// CreatePageParams - входные данные создания страницы.
type CreatePageParams struct {
	StoryID     uuid.UUID
	Text        string
	IsEnding    bool
	EndingLabel *string
	IsStartPage bool
}

// CreateChoiceParams - входные данные создания выбора на странице.
type CreateChoiceParams struct {
	PageID     uuid.UUID
	Text       string
	NextPageID uuid.UUID
}

// ContentService определяет операции над графом историй.
type ContentService interface {
	ListStories(ctx context.Context, filter models.StoryFilter) ([]models.Story, error)
	GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error)
	GetStartPage(ctx context.Context, storyID uuid.UUID) (*models.PageWithChoices, error)
	CreateStory(ctx context.Context, params CreateStoryParams) (*models.Story, error)
	UpdateStory(ctx context.Context, id uuid.UUID, update models.StoryUpdate, requestingAuthorID *uuid.UUID) (*models.Story, error)
	DeleteStory(ctx context.Context, id uuid.UUID, requestingAuthorID *uuid.UUID) error

	ListStoryPages(ctx context.Context, storyID uuid.UUID) ([]models.PageWithChoices, error)
	GetPage(ctx context.Context, id uuid.UUID) (*models.PageWithChoices, error)
	CreatePage(ctx context.Context, params CreatePageParams) (*models.Page, error)
	UpdatePage(ctx context.Context, id uuid.UUID, update models.PageUpdate) (*models.Page, error)
	DeletePage(ctx context.Context, id uuid.UUID) error

	CreateChoice(ctx context.Context, params CreateChoiceParams) (*models.Choice, error)
	UpdateChoice(ctx context.Context, pageID, choiceID uuid.UUID, update models.ChoiceUpdate) (*models.Choice, error)
	DeleteChoice(ctx context.Context, pageID, choiceID uuid.UUID) error
}

type contentService struct {
	stories interfaces.StoryRepository
	pages   interfaces.PageRepository
	choices interfaces.ChoiceRepository
	logger  *zap.Logger
}

var _ ContentService = (*contentService)(nil)

// NewContentService создает новый экземпляр ContentService.
func NewContentService(
	stories interfaces.StoryRepository,
	pages interfaces.PageRepository,
	choices interfaces.ChoiceRepository,
	logger *zap.Logger,
) ContentService {
	return &contentService{
		stories: stories,
		pages:   pages,
		choices: choices,
		logger:  logger.Named("ContentService"),
	}
}

func (s *contentService) ListStories(ctx context.Context, filter models.StoryFilter) ([]models.Story, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, *filter.Status)
	}
	return s.stories.List(ctx, filter)
}

func (s *contentService) GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	return s.stories.GetByID(ctx, id)
}

// GetStartPage возвращает стартовую страницу истории вместе с её выборами.
func (s *contentService) GetStartPage(ctx context.Context, storyID uuid.UUID) (*models.PageWithChoices, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.StartPageID == nil {
		return nil, fmt.Errorf("story %s: %w", storyID, ErrNoStartPage)
	}
	page, err := s.GetPage(ctx, *story.StartPageID)
	if err != nil {
		return nil, err
	}
	page.IsStartPage = true
	return page, nil
}

func (s *contentService) CreateStory(ctx context.Context, params CreateStoryParams) (*models.Story, error) {
	if params.Title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	status := params.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, params.Status)
	}

	story := &models.Story{
		Title:       params.Title,
		Description: params.Description,
		Status:      status,
		AuthorID:    params.AuthorID,
	}
	if err := s.stories.Create(ctx, story); err != nil {
		s.logger.Error("failed to create story", zap.Error(err))
		return nil, err
	}
	s.logger.Info("story created",
		zap.String("storyID", story.ID.String()),
		zap.String("status", string(story.Status)))
	return story, nil
}

func (s *contentService) UpdateStory(ctx context.Context, id uuid.UUID, update models.StoryUpdate, requestingAuthorID *uuid.UUID) (*models.Story, error) {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(story, requestingAuthorID); err != nil {
		return nil, err
	}
	if update.Status != nil && !update.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, *update.Status)
	}
	if update.StartPageID != nil {
		page, err := s.pages.GetByID(ctx, *update.StartPageID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("%w: start page %s not found", models.ErrInvalidInput, *update.StartPageID)
			}
			return nil, err
		}
		if page.StoryID != id {
			return nil, fmt.Errorf("%w: page %s", ErrStartPageMismatch, page.ID)
		}
	}
	if err := s.stories.UpdateFields(ctx, id, update); err != nil {
		return nil, err
	}
	return s.stories.GetByID(ctx, id)
}

func (s *contentService) DeleteStory(ctx context.Context, id uuid.UUID, requestingAuthorID *uuid.UUID) error {
	story, err := s.stories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwnership(story, requestingAuthorID); err != nil {
		return err
	}
	if err := s.stories.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete story", zap.String("storyID", id.String()), zap.Error(err))
		return err
	}
	s.logger.Info("story deleted", zap.String("storyID", id.String()))
	return nil
}

// ListStoryPages возвращает все страницы истории вместе с выборами.
func (s *contentService) ListStoryPages(ctx context.Context, storyID uuid.UUID) ([]models.PageWithChoices, error) {
	story, err := s.stories.GetByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	pages, err := s.pages.ListByStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	pageIDs := make([]uuid.UUID, 0, len(pages))
	for _, p := range pages {
		pageIDs = append(pageIDs, p.ID)
	}
	choicesByPage, err := s.choices.ListByPages(ctx, pageIDs)
	if err != nil {
		return nil, err
	}

	result := make([]models.PageWithChoices, 0, len(pages))
	for _, p := range pages {
		pw := models.PageWithChoices{Page: p, Choices: choicesByPage[p.ID]}
		if pw.Choices == nil {
			pw.Choices = []models.Choice{}
		}
		if story.StartPageID != nil && *story.StartPageID == p.ID {
			pw.IsStartPage = true
		}
		result = append(result, pw)
	}
	return result, nil
}

func (s *contentService) GetPage(ctx context.Context, id uuid.UUID) (*models.PageWithChoices, error) {
	page, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	choices, err := s.choices.ListByPage(ctx, id)
	if err != nil {
		return nil, err
	}
	pw := &models.PageWithChoices{Page: *page, Choices: choices}
	story, err := s.stories.GetByID(ctx, page.StoryID)
	if err != nil {
		return nil, err
	}
	if story.StartPageID != nil && *story.StartPageID == page.ID {
		pw.IsStartPage = true
	}
	return pw, nil
}

func (s *contentService) CreatePage(ctx context.Context, params CreatePageParams) (*models.Page, error) {
	if params.Text == "" {
		return nil, fmt.Errorf("%w: text is required", models.ErrInvalidInput)
	}
	if _, err := s.stories.GetByID(ctx, params.StoryID); err != nil {
		return nil, err
	}

	page := &models.Page{
		StoryID:     params.StoryID,
		Text:        params.Text,
		IsEnding:    params.IsEnding,
		EndingLabel: params.EndingLabel,
	}
	if err := s.pages.Create(ctx, page); err != nil {
		s.logger.Error("failed to create page", zap.String("storyID", params.StoryID.String()), zap.Error(err))
		return nil, err
	}
	if params.IsStartPage {
		if err := s.stories.SetStartPage(ctx, params.StoryID, page.ID); err != nil {
			s.logger.Error("failed to set start page",
				zap.String("storyID", params.StoryID.String()),
				zap.String("pageID", page.ID.String()),
				zap.Error(err))
			return nil, err
		}
	}
	return page, nil
}

func (s *contentService) UpdatePage(ctx context.Context, id uuid.UUID, update models.PageUpdate) (*models.Page, error) {
	if update.Text != nil && *update.Text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", models.ErrInvalidInput)
	}
	if err := s.pages.UpdateFields(ctx, id, update); err != nil {
		return nil, err
	}
	return s.pages.GetByID(ctx, id)
}

func (s *contentService) DeletePage(ctx context.Context, id uuid.UUID) error {
	if err := s.pages.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("page deleted", zap.String("pageID", id.String()))
	return nil
}

func (s *contentService) CreateChoice(ctx context.Context, params CreateChoiceParams) (*models.Choice, error) {
	if params.Text == "" {
		return nil, fmt.Errorf("%w: text is required", models.ErrInvalidInput)
	}
	if _, err := s.pages.GetByID(ctx, params.PageID); err != nil {
		return nil, err
	}
	// Цель обязана существовать; принадлежность той же истории не
	// требуется, инструменты авторинга сами не выходят за её пределы.
	if _, err := s.pages.GetByID(ctx, params.NextPageID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: next page %s not found", models.ErrInvalidInput, params.NextPageID)
		}
		return nil, err
	}

	choice := &models.Choice{
		PageID:     params.PageID,
		Text:       params.Text,
		NextPageID: params.NextPageID,
	}
	if err := s.choices.Create(ctx, choice); err != nil {
		s.logger.Error("failed to create choice", zap.String("pageID", params.PageID.String()), zap.Error(err))
		return nil, err
	}
	return choice, nil
}

func (s *contentService) UpdateChoice(ctx context.Context, pageID, choiceID uuid.UUID, update models.ChoiceUpdate) (*models.Choice, error) {
	if update.Text != nil && *update.Text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", models.ErrInvalidInput)
	}
	if update.NextPageID != nil {
		if _, err := s.pages.GetByID(ctx, *update.NextPageID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("%w: next page %s not found", models.ErrInvalidInput, *update.NextPageID)
			}
			return nil, err
		}
	}
	if err := s.choices.UpdateFields(ctx, pageID, choiceID, update); err != nil {
		return nil, err
	}
	return s.choices.GetByID(ctx, pageID, choiceID)
}

func (s *contentService) DeleteChoice(ctx context.Context, pageID, choiceID uuid.UUID) error {
	return s.choices.Delete(ctx, pageID, choiceID)
}

// checkOwnership реализует мягкую проверку владения: конфликт возникает
// только когда и у истории, и у запроса автор указан явно и они различаются.
func checkOwnership(story *models.Story, requestingAuthorID *uuid.UUID) error {
	if story.AuthorID == nil || requestingAuthorID == nil {
		return nil
	}
	if *story.AuthorID != *requestingAuthorID {
		return models.ErrForbidden
	}
	return nil
}
