package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/internal/web/client"
	"adventure-server/pkg/interfaces"
	"adventure-server/pkg/models"
)

// StorySummary - история, обогащенная данными сообщества.
type StorySummary struct {
	models.Story
	AvgRating   *float64 `json:"avg_rating"`
	RatingCount int      `json:"rating_count"`
	PlayCount   int      `json:"play_count"`
}

// StatsOverview - сводка прохождений по историям и распределение концовок.
type StatsOverview struct {
	Plays   []models.StoryPlayStat `json:"plays"`
	Endings []models.EndingStat    `json:"endings"`
}

// ReaderService обслуживает читательский поток: каталог, страницы,
// запись прохождений, статистика.
type ReaderService interface {
	ListPublishedStories(ctx context.Context) ([]StorySummary, error)
	GetStoryDetail(ctx context.Context, storyID uuid.UUID) (*StorySummary, error)
	GetStartPage(ctx context.Context, storyID uuid.UUID) (*models.PageWithChoices, error)
	// RenderPage возвращает страницу истории. Если страница является
	// концовкой, фиксируется прохождение (дедупликации нет намеренно).
	RenderPage(ctx context.Context, storyID, pageID uuid.UUID, userID *uuid.UUID) (*models.PageWithChoices, error)
	GetStats(ctx context.Context) (*StatsOverview, error)
}

type readerService struct {
	content client.ContentServiceClient
	plays   interfaces.PlayRepository
	ratings interfaces.RatingRepository
	logger  *zap.Logger
}

var _ ReaderService = (*readerService)(nil)

// NewReaderService создает новый ReaderService.
func NewReaderService(
	content client.ContentServiceClient,
	plays interfaces.PlayRepository,
	ratings interfaces.RatingRepository,
	logger *zap.Logger,
) ReaderService {
	return &readerService{
		content: content,
		plays:   plays,
		ratings: ratings,
		logger:  logger.Named("ReaderService"),
	}
}

func (s *readerService) ListPublishedStories(ctx context.Context) ([]StorySummary, error) {
	published := models.StatusPublished
	stories, err := s.content.ListStories(ctx, models.StoryFilter{Status: &published})
	if err != nil {
		return nil, err
	}

	summaries := make([]StorySummary, 0, len(stories))
	for i := range stories {
		summary, err := s.enrich(ctx, &stories[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (s *readerService) GetStoryDetail(ctx context.Context, storyID uuid.UUID) (*StorySummary, error) {
	story, err := s.content.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	// Читателям видны только опубликованные истории.
	if story.Status != models.StatusPublished {
		return nil, models.ErrNotFound
	}
	return s.enrich(ctx, story)
}

func (s *readerService) GetStartPage(ctx context.Context, storyID uuid.UUID) (*models.PageWithChoices, error) {
	return s.content.GetStartPage(ctx, storyID)
}

func (s *readerService) RenderPage(ctx context.Context, storyID, pageID uuid.UUID, userID *uuid.UUID) (*models.PageWithChoices, error) {
	page, err := s.content.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page.StoryID != storyID {
		return nil, models.ErrNotFound
	}

	if page.IsEnding {
		play := &models.Play{
			UserID:       userID,
			StoryID:      storyID,
			EndingPageID: pageID,
		}
		if err := s.plays.Create(ctx, play); err != nil {
			// Чтение страницы важнее учета: прохождение теряем, страницу отдаем.
			s.logger.Error("failed to record play",
				zap.String("storyID", storyID.String()),
				zap.String("pageID", pageID.String()),
				zap.Error(err))
		} else {
			playsRecordedTotal.Inc()
		}
	}
	return page, nil
}

func (s *readerService) GetStats(ctx context.Context) (*StatsOverview, error) {
	plays, err := s.plays.StatsByStory(ctx)
	if err != nil {
		return nil, err
	}
	endings, err := s.plays.EndingStats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsOverview{Plays: plays, Endings: endings}, nil
}

// enrich дополняет историю сводкой оценок и числом прохождений.
func (s *readerService) enrich(ctx context.Context, story *models.Story) (*StorySummary, error) {
	summary := &StorySummary{Story: *story}

	ratingSummary, err := s.ratings.SummaryForStory(ctx, story.ID)
	if err != nil {
		return nil, fmt.Errorf("rating summary for story %s: %w", story.ID, err)
	}
	summary.AvgRating = ratingSummary.AvgRating
	summary.RatingCount = ratingSummary.RatingCount

	playCount, err := s.plays.CountByStory(ctx, story.ID)
	if err != nil {
		return nil, fmt.Errorf("play count for story %s: %w", story.ID, err)
	}
	summary.PlayCount = playCount
	return summary, nil
}
