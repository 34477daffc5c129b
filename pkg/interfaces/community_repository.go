package interfaces

import (
	"context"

	"adventure-server/pkg/models"

	"github.com/google/uuid"
)

// PlayRepository хранит записи о прохождениях. Только добавление,
// записи никогда не изменяются и не удаляются.
//
//go:generate mockery --name PlayRepository --output ./mocks --outpkg mocks --case=underscore
type PlayRepository interface {
	Create(ctx context.Context, play *models.Play) error
	CountByStory(ctx context.Context, storyID uuid.UUID) (int, error)
	// StatsByStory возвращает количество прохождений по историям,
	// отсортированное по убыванию.
	StatsByStory(ctx context.Context) ([]models.StoryPlayStat, error)
	// EndingStats возвращает распределение прохождений по концовкам,
	// отсортированное по убыванию количества.
	EndingStats(ctx context.Context) ([]models.EndingStat, error)
}

// RatingRepository хранит оценки. Upsert по (user_id, story_id).
//
//go:generate mockery --name RatingRepository --output ./mocks --outpkg mocks --case=underscore
type RatingRepository interface {
	// Upsert вставляет оценку или перезаписывает существующую той же пары
	// (user, story).
	Upsert(ctx context.Context, rating *models.Rating) error
	GetByUserAndStory(ctx context.Context, userID, storyID uuid.UUID) (*models.Rating, error)
	SummaryForStory(ctx context.Context, storyID uuid.UUID) (models.RatingSummary, error)
}

// ReportRepository хранит жалобы пользователей.
//
//go:generate mockery --name ReportRepository --output ./mocks --outpkg mocks --case=underscore
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	// ListUnresolved возвращает нерешенные жалобы, новые первыми.
	ListUnresolved(ctx context.Context) ([]models.Report, error)
	// Resolve помечает жалобу решенной.
	Resolve(ctx context.Context, id uuid.UUID) error
}
