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
var _ interfaces.PageRepository = (*pgPageRepository)(nil)

const (
	pageFields = `id, story_id, text, is_ending, ending_label, created_at, updated_at`

	createPageQuery = `
		INSERT INTO pages (id, story_id, text, is_ending, ending_label, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	getPageByIDQuery = `SELECT ` + pageFields + ` FROM pages WHERE id = $1`

	listPagesByStoryQuery = `SELECT ` + pageFields + ` FROM pages WHERE story_id = $1 ORDER BY created_at, id`

	// Отзываем варианты выбора, указывающие на удаляемую страницу.
	// Варианты самой страницы удаляются каскадом choices.page_id,
	// start_page_id историй обнуляется FK ON DELETE SET NULL.
	retractChoicesQuery = `DELETE FROM choices WHERE next_page_id = $1`
	deletePageQuery     = `DELETE FROM pages WHERE id = $1`
)

// pgPageRepository реализует PageRepository для PostgreSQL.
type pgPageRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgPageRepository создает новый экземпляр репозитория страниц.
func NewPgPageRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.PageRepository {
	return &pgPageRepository{
		db:     db,
		logger: logger.Named("PgPageRepo"),
	}
}

func scanPage(row pgx.Row) (*models.Page, error) {
	var p models.Page
	err := row.Scan(
		&p.ID,
		&p.StoryID,
		&p.Text,
		&p.IsEnding,
		&p.EndingLabel,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create создает новую страницу.
func (r *pgPageRepository) Create(ctx context.Context, page *models.Page) error {
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now

	logFields := []zap.Field{
		zap.String("pageID", page.ID.String()),
		zap.String("storyID", page.StoryID.String()),
		zap.Bool("isEnding", page.IsEnding),
	}
	r.logger.Debug("Creating page", logFields...)

	_, err := r.db.Exec(ctx, createPageQuery,
		page.ID,
		page.StoryID,
		page.Text,
		page.IsEnding,
		page.EndingLabel,
		page.CreatedAt,
		page.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create page", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create page: %w", err)
	}

	r.logger.Info("Page created", logFields...)
	return nil
}

// GetByID получает страницу по ID.
func (r *pgPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	page, err := scanPage(r.db.QueryRow(ctx, getPageByIDQuery, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.logger.Warn("Page not found by ID", zap.String("pageID", id.String()))
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get page %s: %w", id, err)
	}
	return page, nil
}

// ListByStory возвращает страницы истории в порядке создания.
func (r *pgPageRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Page, error) {
	rows, err := r.db.Query(ctx, listPagesByStoryQuery, storyID)
	if err != nil {
		r.logger.Error("Failed to list pages", zap.String("storyID", storyID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list pages for story %s: %w", storyID, err)
	}
	defer rows.Close()

	pages := make([]models.Page, 0)
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(&p.ID, &p.StoryID, &p.Text, &p.IsEnding, &p.EndingLabel, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan page row: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("page rows iteration error: %w", err)
	}
	return pages, nil
}

// UpdateFields обновляет только переданные (не-nil) поля страницы.
func (r *pgPageRepository) UpdateFields(ctx context.Context, id uuid.UUID, update models.PageUpdate) error {
	logFields := []zap.Field{zap.String("pageID", id.String())}

	if update.IsEmpty() {
		_, err := r.GetByID(ctx, id)
		return err
	}

	setParts := make([]string, 0, 4)
	args := []any{id}

	if update.Text != nil {
		args = append(args, *update.Text)
		setParts = append(setParts, fmt.Sprintf("text = $%d", len(args)))
	}
	if update.IsEnding != nil {
		args = append(args, *update.IsEnding)
		setParts = append(setParts, fmt.Sprintf("is_ending = $%d", len(args)))
	}
	if update.EndingLabel != nil {
		args = append(args, *update.EndingLabel)
		setParts = append(setParts, fmt.Sprintf("ending_label = $%d", len(args)))
	}
	setParts = append(setParts, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE pages SET %s WHERE id = $1", strings.Join(setParts, ", "))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update page", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update page %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Page not found for update", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Page updated", logFields...)
	return nil
}

// Delete удаляет страницу и отзывает варианты выбора, указывающие на неё.
// Два последовательных Exec: хранилище атомарно только на уровне
// одной записи.
func (r *pgPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	logFields := []zap.Field{zap.String("pageID", id.String())}

	retracted, err := r.db.Exec(ctx, retractChoicesQuery, id)
	if err != nil {
		r.logger.Error("Failed to retract choices targeting page", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to retract choices targeting page %s: %w", id, err)
	}
	if n := retracted.RowsAffected(); n > 0 {
		r.logger.Info("Retracted choices targeting deleted page", append(logFields, zap.Int64("count", n))...)
	}

	tag, err := r.db.Exec(ctx, deletePageQuery, id)
	if err != nil {
		r.logger.Error("Failed to delete page", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to delete page %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Page not found for delete", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Page deleted", logFields...)
	return nil
}
