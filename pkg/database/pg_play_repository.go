package database

import (
	"context"
	"fmt"
	"time"

	"adventure-server/pkg/interfaces"
	"adventure-server/pkg/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check
var _ interfaces.PlayRepository = (*pgPlayRepository)(nil)

const (
	createPlayQuery = `
		INSERT INTO plays (id, user_id, story_id, ending_page_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	countPlaysByStoryQuery = `SELECT COUNT(*) FROM plays WHERE story_id = $1`

	playStatsQuery = `
		SELECT story_id, COUNT(*) AS total_plays
		FROM plays
		GROUP BY story_id
		ORDER BY total_plays DESC
	`
	endingStatsQuery = `
		SELECT story_id, ending_page_id, COUNT(*) AS count
		FROM plays
		GROUP BY story_id, ending_page_id
		ORDER BY count DESC
	`
)

// pgPlayRepository реализует PlayRepository для PostgreSQL.
// Записи только добавляются: ни обновления, ни удаления нет.
type pgPlayRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgPlayRepository создает новый экземпляр репозитория прохождений.
func NewPgPlayRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.PlayRepository {
	return &pgPlayRepository{
		db:     db,
		logger: logger.Named("PgPlayRepo"),
	}
}

// Create добавляет запись о прохождении. Дедупликации нет намеренно:
// каждый показ концовки фиксируется отдельно.
func (r *pgPlayRepository) Create(ctx context.Context, play *models.Play) error {
	if play.ID == uuid.Nil {
		play.ID = uuid.New()
	}
	play.CreatedAt = time.Now().UTC()

	logFields := []zap.Field{
		zap.String("storyID", play.StoryID.String()),
		zap.String("endingPageID", play.EndingPageID.String()),
	}
	if play.UserID != nil {
		logFields = append(logFields, zap.String("userID", play.UserID.String()))
	}

	_, err := r.db.Exec(ctx, createPlayQuery,
		play.ID,
		play.UserID,
		play.StoryID,
		play.EndingPageID,
		play.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to record play", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to record play: %w", err)
	}

	r.logger.Info("Play recorded", logFields...)
	return nil
}

// CountByStory возвращает общее число прохождений истории.
func (r *pgPlayRepository) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, countPlaysByStoryQuery, storyID).Scan(&count); err != nil {
		r.logger.Error("Failed to count plays", zap.String("storyID", storyID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to count plays for story %s: %w", storyID, err)
	}
	return count, nil
}

// StatsByStory возвращает количество прохождений по историям по убыванию.
func (r *pgPlayRepository) StatsByStory(ctx context.Context) ([]models.StoryPlayStat, error) {
	var stats []models.StoryPlayStat
	if err := pgxscan.Select(ctx, r.db, &stats, playStatsQuery); err != nil {
		r.logger.Error("Failed to load play stats", zap.Error(err))
		return nil, fmt.Errorf("failed to load play stats: %w", err)
	}
	if stats == nil {
		stats = []models.StoryPlayStat{}
	}
	return stats, nil
}

// EndingStats возвращает распределение прохождений по концовкам по убыванию.
func (r *pgPlayRepository) EndingStats(ctx context.Context) ([]models.EndingStat, error) {
	var stats []models.EndingStat
	if err := pgxscan.Select(ctx, r.db, &stats, endingStatsQuery); err != nil {
		r.logger.Error("Failed to load ending stats", zap.Error(err))
		return nil, fmt.Errorf("failed to load ending stats: %w", err)
	}
	if stats == nil {
		stats = []models.EndingStat{}
	}
	return stats, nil
}
