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
var _ interfaces.ReportRepository = (*pgReportRepository)(nil)

const (
	createReportQuery = `
		INSERT INTO reports (id, user_id, story_id, reason, description, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
	`
	getReportByIDQuery = `
		SELECT id, user_id, story_id, reason, description, resolved, created_at
		FROM reports WHERE id = $1
	`
	listUnresolvedReportsQuery = `
		SELECT id, user_id, story_id, reason, description, resolved, created_at
		FROM reports WHERE resolved = FALSE ORDER BY created_at DESC
	`
	resolveReportQuery = `UPDATE reports SET resolved = TRUE WHERE id = $1`
)

// pgReportRepository реализует ReportRepository для PostgreSQL.
type pgReportRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgReportRepository создает новый экземпляр репозитория жалоб.
func NewPgReportRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ReportRepository {
	return &pgReportRepository{
		db:     db,
		logger: logger.Named("PgReportRepo"),
	}
}

// Create добавляет жалобу.
func (r *pgReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now().UTC()
	report.Resolved = false

	logFields := []zap.Field{
		zap.String("reportID", report.ID.String()),
		zap.String("storyID", report.StoryID.String()),
		zap.String("reason", string(report.Reason)),
	}

	_, err := r.db.Exec(ctx, createReportQuery,
		report.ID,
		report.UserID,
		report.StoryID,
		report.Reason,
		report.Description,
		report.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create report", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create report: %w", err)
	}

	r.logger.Info("Report created", logFields...)
	return nil
}

// GetByID возвращает жалобу по ID.
func (r *pgReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := pgxscan.Get(ctx, r.db, &report, getReportByIDQuery, id)
	if err != nil {
		if pgxscan.NotFound(err) {
			r.logger.Warn("Report not found by ID", zap.String("reportID", id.String()))
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get report", zap.String("reportID", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get report %s: %w", id, err)
	}
	return &report, nil
}

// ListUnresolved возвращает нерешенные жалобы, новые первыми.
func (r *pgReportRepository) ListUnresolved(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	if err := pgxscan.Select(ctx, r.db, &reports, listUnresolvedReportsQuery); err != nil {
		r.logger.Error("Failed to list unresolved reports", zap.Error(err))
		return nil, fmt.Errorf("failed to list unresolved reports: %w", err)
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

// Resolve помечает жалобу решенной.
func (r *pgReportRepository) Resolve(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, resolveReportQuery, id)
	if err != nil {
		r.logger.Error("Failed to resolve report", zap.String("reportID", id.String()), zap.Error(err))
		return fmt.Errorf("failed to resolve report %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Report not found for resolve", zap.String("reportID", id.String()))
		return models.ErrNotFound
	}

	r.logger.Info("Report resolved", zap.String("reportID", id.String()))
	return nil
}
