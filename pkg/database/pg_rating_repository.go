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
var _ interfaces.RatingRepository = (*pgRatingRepository)(nil)

const (
	// Повторная оценка той же пары (user, story) перезаписывает предыдущую.
	upsertRatingQuery = `
		INSERT INTO ratings (id, user_id, story_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, story_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
	`
	getRatingQuery = `
		SELECT id, user_id, story_id, rating, comment, created_at, updated_at
		FROM ratings WHERE user_id = $1 AND story_id = $2
	`
	ratingSummaryQuery = `SELECT AVG(rating)::float8, COUNT(*) FROM ratings WHERE story_id = $1`
)

// pgRatingRepository реализует RatingRepository для PostgreSQL.
type pgRatingRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgRatingRepository создает новый экземпляр репозитория оценок.
func NewPgRatingRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.RatingRepository {
	return &pgRatingRepository{
		db:     db,
		logger: logger.Named("PgRatingRepo"),
	}
}

// Upsert вставляет оценку или перезаписывает существующую.
func (r *pgRatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	now := time.Now().UTC()
	rating.CreatedAt = now
	rating.UpdatedAt = now

	logFields := []zap.Field{
		zap.String("userID", rating.UserID.String()),
		zap.String("storyID", rating.StoryID.String()),
		zap.Int("rating", rating.Rating),
	}

	_, err := r.db.Exec(ctx, upsertRatingQuery,
		rating.ID,
		rating.UserID,
		rating.StoryID,
		rating.Rating,
		rating.Comment,
		rating.CreatedAt,
		rating.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert rating", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	r.logger.Info("Rating saved", logFields...)
	return nil
}

// GetByUserAndStory возвращает оценку пользователя для истории.
func (r *pgRatingRepository) GetByUserAndStory(ctx context.Context, userID, storyID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := pgxscan.Get(ctx, r.db, &rating, getRatingQuery, userID, storyID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get rating",
			zap.String("userID", userID.String()),
			zap.String("storyID", storyID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &rating, nil
}

// SummaryForStory возвращает агрегат оценок истории.
// AvgRating равен nil, если оценок ещё нет.
func (r *pgRatingRepository) SummaryForStory(ctx context.Context, storyID uuid.UUID) (models.RatingSummary, error) {
	summary := models.RatingSummary{StoryID: storyID}
	err := r.db.QueryRow(ctx, ratingSummaryQuery, storyID).Scan(&summary.AvgRating, &summary.RatingCount)
	if err != nil {
		r.logger.Error("Failed to load rating summary", zap.String("storyID", storyID.String()), zap.Error(err))
		return summary, fmt.Errorf("failed to load rating summary for story %s: %w", storyID, err)
	}
	return summary, nil
}
