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
var _ interfaces.ChoiceRepository = (*pgChoiceRepository)(nil)

const (
	choiceFields = `id, page_id, text, next_page_id, created_at, updated_at`

	createChoiceQuery = `
		INSERT INTO choices (id, page_id, text, next_page_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	// Точечные выборки всегда скоупированы парой (page_id, id).
	getChoiceByIDQuery    = `SELECT ` + choiceFields + ` FROM choices WHERE page_id = $1 AND id = $2`
	listChoicesByPage     = `SELECT ` + choiceFields + ` FROM choices WHERE page_id = $1 ORDER BY created_at, id`
	listChoicesByPages    = `SELECT ` + choiceFields + ` FROM choices WHERE page_id = ANY($1) ORDER BY created_at, id`
	deleteChoiceByIDQuery = `DELETE FROM choices WHERE page_id = $1 AND id = $2`
)

// pgChoiceRepository реализует ChoiceRepository для PostgreSQL.
type pgChoiceRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgChoiceRepository создает новый экземпляр репозитория вариантов выбора.
func NewPgChoiceRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ChoiceRepository {
	return &pgChoiceRepository{
		db:     db,
		logger: logger.Named("PgChoiceRepo"),
	}
}

func scanChoiceRows(rows pgx.Rows) ([]models.Choice, error) {
	choices := make([]models.Choice, 0)
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.PageID, &c.Text, &c.NextPageID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan choice row: %w", err)
		}
		choices = append(choices, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("choice rows iteration error: %w", err)
	}
	return choices, nil
}

// Create создает новый вариант выбора.
func (r *pgChoiceRepository) Create(ctx context.Context, choice *models.Choice) error {
	if choice.ID == uuid.Nil {
		choice.ID = uuid.New()
	}
	now := time.Now().UTC()
	choice.CreatedAt = now
	choice.UpdatedAt = now

	logFields := []zap.Field{
		zap.String("choiceID", choice.ID.String()),
		zap.String("pageID", choice.PageID.String()),
		zap.String("nextPageID", choice.NextPageID.String()),
	}
	r.logger.Debug("Creating choice", logFields...)

	_, err := r.db.Exec(ctx, createChoiceQuery,
		choice.ID,
		choice.PageID,
		choice.Text,
		choice.NextPageID,
		choice.CreatedAt,
		choice.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create choice", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create choice: %w", err)
	}

	r.logger.Info("Choice created", logFields...)
	return nil
}

// GetByID получает вариант выбора, скоупированный парой (pageID, choiceID).
func (r *pgChoiceRepository) GetByID(ctx context.Context, pageID, choiceID uuid.UUID) (*models.Choice, error) {
	var c models.Choice
	err := r.db.QueryRow(ctx, getChoiceByIDQuery, pageID, choiceID).Scan(
		&c.ID, &c.PageID, &c.Text, &c.NextPageID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Choice not found",
				zap.String("pageID", pageID.String()),
				zap.String("choiceID", choiceID.String()))
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get choice %s on page %s: %w", choiceID, pageID, err)
	}
	return &c, nil
}

// ListByPage возвращает варианты выбора страницы в порядке создания.
func (r *pgChoiceRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]models.Choice, error) {
	rows, err := r.db.Query(ctx, listChoicesByPage, pageID)
	if err != nil {
		r.logger.Error("Failed to list choices", zap.String("pageID", pageID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list choices for page %s: %w", pageID, err)
	}
	defer rows.Close()
	return scanChoiceRows(rows)
}

// ListByPages возвращает варианты выбора набора страниц одной выборкой,
// сгруппированные по page_id.
func (r *pgChoiceRepository) ListByPages(ctx context.Context, pageIDs []uuid.UUID) (map[uuid.UUID][]models.Choice, error) {
	result := make(map[uuid.UUID][]models.Choice, len(pageIDs))
	if len(pageIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, listChoicesByPages, pageIDs)
	if err != nil {
		r.logger.Error("Failed to list choices for pages", zap.Int("pageCount", len(pageIDs)), zap.Error(err))
		return nil, fmt.Errorf("failed to list choices for pages: %w", err)
	}
	defer rows.Close()

	choices, err := scanChoiceRows(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range choices {
		result[c.PageID] = append(result[c.PageID], c)
	}
	return result, nil
}

// UpdateFields обновляет только переданные (не-nil) поля варианта выбора.
func (r *pgChoiceRepository) UpdateFields(ctx context.Context, pageID, choiceID uuid.UUID, update models.ChoiceUpdate) error {
	logFields := []zap.Field{
		zap.String("pageID", pageID.String()),
		zap.String("choiceID", choiceID.String()),
	}

	if update.IsEmpty() {
		_, err := r.GetByID(ctx, pageID, choiceID)
		return err
	}

	setParts := make([]string, 0, 3)
	args := []any{pageID, choiceID}

	if update.Text != nil {
		args = append(args, *update.Text)
		setParts = append(setParts, fmt.Sprintf("text = $%d", len(args)))
	}
	if update.NextPageID != nil {
		args = append(args, *update.NextPageID)
		setParts = append(setParts, fmt.Sprintf("next_page_id = $%d", len(args)))
	}
	setParts = append(setParts, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE choices SET %s WHERE page_id = $1 AND id = $2", strings.Join(setParts, ", "))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update choice", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update choice %s on page %s: %w", choiceID, pageID, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Choice not found for update", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Choice updated", logFields...)
	return nil
}

// Delete удаляет вариант выбора, скоупированный парой (pageID, choiceID).
func (r *pgChoiceRepository) Delete(ctx context.Context, pageID, choiceID uuid.UUID) error {
	logFields := []zap.Field{
		zap.String("pageID", pageID.String()),
		zap.String("choiceID", choiceID.String()),
	}

	tag, err := r.db.Exec(ctx, deleteChoiceByIDQuery, pageID, choiceID)
	if err != nil {
		r.logger.Error("Failed to delete choice", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to delete choice %s on page %s: %w", choiceID, pageID, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Choice not found for delete", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Choice deleted", logFields...)
	return nil
}
