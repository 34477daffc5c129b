package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adventure-server/pkg/interfaces"
	"adventure-server/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check
var _ interfaces.StoryRepository = (*pgStoryRepository)(nil)

const (
	storyFields = `id, title, description, status, start_page_id, author_id, created_at, updated_at`

	createStoryQuery = `
		INSERT INTO stories (id, title, description, status, start_page_id, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	getStoryByIDQuery = `SELECT ` + storyFields + ` FROM stories WHERE id = $1`

	setStartPageQuery = `UPDATE stories SET start_page_id = $2, updated_at = NOW() WHERE id = $1`

	deleteStoryQuery = `DELETE FROM stories WHERE id = $1`
)

// pgStoryRepository реализует StoryRepository для PostgreSQL.
type pgStoryRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgStoryRepository создает новый экземпляр репозитория историй.
func NewPgStoryRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

func scanStory(row pgx.Row) (*models.Story, error) {
	var s models.Story
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.Status,
		&s.StartPageID,
		&s.AuthorID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create создает новую историю.
func (r *pgStoryRepository) Create(ctx context.Context, story *models.Story) error {
	if story.ID == uuid.Nil {
		story.ID = uuid.New()
	}
	now := time.Now().UTC()
	story.CreatedAt = now
	story.UpdatedAt = now

	logFields := []zap.Field{
		zap.String("storyID", story.ID.String()),
		zap.String("status", string(story.Status)),
	}
	r.logger.Debug("Creating story", logFields...)

	_, err := r.db.Exec(ctx, createStoryQuery,
		story.ID,
		story.Title,
		story.Description,
		story.Status,
		story.StartPageID,
		story.AuthorID,
		story.CreatedAt,
		story.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create story: %w", err)
	}

	r.logger.Info("Story created", logFields...)
	return nil
}

// GetByID получает историю по её ID.
func (r *pgStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	logFields := []zap.Field{zap.String("storyID", id.String())}

	story, err := scanStory(r.db.QueryRow(ctx, getStoryByIDQuery, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("Story not found by ID", logFields...)
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get story by ID", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get story %s: %w", id, err)
	}
	return story, nil
}

// List возвращает истории по предикатам равенства фильтра, новые первыми.
func (r *pgStoryRepository) List(ctx context.Context, filter models.StoryFilter) ([]models.Story, error) {
	query := `SELECT ` + storyFields + ` FROM stories`
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list stories", zap.Error(err))
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	stories := make([]models.Story, 0)
	for rows.Next() {
		var s models.Story
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Status, &s.StartPageID, &s.AuthorID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan story row: %w", err)
		}
		stories = append(stories, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("story rows iteration error: %w", err)
	}
	return stories, nil
}

// UpdateFields обновляет только переданные (не-nil) поля истории.
// Пустое обновление - no-op (но существование записи всё равно проверяется).
func (r *pgStoryRepository) UpdateFields(ctx context.Context, id uuid.UUID, update models.StoryUpdate) error {
	logFields := []zap.Field{zap.String("storyID", id.String())}

	if update.IsEmpty() {
		// Нечего менять, но NotFound для отсутствующей записи сохраняем.
		_, err := r.GetByID(ctx, id)
		return err
	}

	setParts := make([]string, 0, 5)
	args := []any{id}

	if update.Title != nil {
		args = append(args, *update.Title)
		setParts = append(setParts, fmt.Sprintf("title = $%d", len(args)))
	}
	if update.Description != nil {
		args = append(args, *update.Description)
		setParts = append(setParts, fmt.Sprintf("description = $%d", len(args)))
	}
	if update.Status != nil {
		args = append(args, *update.Status)
		setParts = append(setParts, fmt.Sprintf("status = $%d", len(args)))
	}
	if update.StartPageID != nil {
		args = append(args, *update.StartPageID)
		setParts = append(setParts, fmt.Sprintf("start_page_id = $%d", len(args)))
	}
	setParts = append(setParts, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE stories SET %s WHERE id = $1", strings.Join(setParts, ", "))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update story %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Story not found for update", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Story updated", logFields...)
	return nil
}

// SetStartPage устанавливает start_page_id истории.
func (r *pgStoryRepository) SetStartPage(ctx context.Context, storyID, pageID uuid.UUID) error {
	logFields := []zap.Field{
		zap.String("storyID", storyID.String()),
		zap.String("pageID", pageID.String()),
	}

	tag, err := r.db.Exec(ctx, setStartPageQuery, storyID, pageID)
	if err != nil {
		r.logger.Error("Failed to set start page", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to set start page for story %s: %w", storyID, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Story not found for start page update", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Start page set", logFields...)
	return nil
}

// Delete удаляет историю; страницы и их варианты выбора удаляются
// каскадно на уровне схемы.
func (r *pgStoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	logFields := []zap.Field{zap.String("storyID", id.String())}

	tag, err := r.db.Exec(ctx, deleteStoryQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to delete story %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Story not found for delete", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Story deleted", logFields...)
	return nil
}
