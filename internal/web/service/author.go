package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/internal/web/author"
	"adventure-server/internal/web/client"
	"adventure-server/pkg/models"
)

// AuthorService обслуживает кабинет автора: список собственных историй,
// массовое создание и редактирование через оркестратор, публикация.
type AuthorService interface {
	ListMyStories(ctx context.Context, authorID uuid.UUID) ([]models.Story, error)
	CreateStory(ctx context.Context, authorID uuid.UUID, draft author.StoryDraft) *author.BuildResult
	EditStory(ctx context.Context, authorID, storyID uuid.UUID, edit author.StoryEdit) *author.BuildResult
	DeleteStory(ctx context.Context, authorID, storyID uuid.UUID) error
	// SetStatus переводит историю автора между draft и published.
	SetStatus(ctx context.Context, authorID, storyID uuid.UUID, status models.StoryStatus) (*models.Story, error)
}

type authorService struct {
	content client.ContentServiceClient
	builder *author.Builder
	logger  *zap.Logger
}

var _ AuthorService = (*authorService)(nil)

// NewAuthorService создает новый AuthorService.
func NewAuthorService(content client.ContentServiceClient, builder *author.Builder, logger *zap.Logger) AuthorService {
	return &authorService{
		content: content,
		builder: builder,
		logger:  logger.Named("AuthorService"),
	}
}

func (s *authorService) ListMyStories(ctx context.Context, authorID uuid.UUID) ([]models.Story, error) {
	return s.content.ListStories(ctx, models.StoryFilter{AuthorID: &authorID})
}

func (s *authorService) CreateStory(ctx context.Context, authorID uuid.UUID, draft author.StoryDraft) *author.BuildResult {
	result := s.builder.CreateStory(ctx, authorID, draft)
	if result.Failed() {
		s.logger.Warn("story creation stopped mid-sequence",
			zap.String("authorID", authorID.String()),
			zap.String("failedStep", result.FailedStep),
			zap.Error(result.Err))
	}
	return result
}

func (s *authorService) EditStory(ctx context.Context, authorID, storyID uuid.UUID, edit author.StoryEdit) *author.BuildResult {
	result := s.builder.EditStory(ctx, authorID, storyID, edit)
	if result.Failed() {
		s.logger.Warn("story edit stopped mid-sequence",
			zap.String("storyID", storyID.String()),
			zap.String("failedStep", result.FailedStep),
			zap.Error(result.Err))
	}
	return result
}

func (s *authorService) DeleteStory(ctx context.Context, authorID, storyID uuid.UUID) error {
	return s.content.DeleteStory(ctx, storyID, &authorID)
}

func (s *authorService) SetStatus(ctx context.Context, authorID, storyID uuid.UUID, status models.StoryStatus) (*models.Story, error) {
	update := models.StoryUpdate{Status: &status}
	return s.content.UpdateStory(ctx, storyID, update, &authorID)
}
