package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/internal/web/client"
	"adventure-server/internal/web/messaging"
	"adventure-server/pkg/interfaces"
	"adventure-server/pkg/models"
)

// CommunityService обслуживает оценки, жалобы и действия модерации.
type CommunityService interface {
	// RateStory сохраняет оценку пользователя; повторная оценка той же
	// истории перезаписывает предыдущую.
	RateStory(ctx context.Context, userID, storyID uuid.UUID, rating int, comment string) (*models.Rating, error)
	ReportStory(ctx context.Context, reporterID, storyID uuid.UUID, reason models.ReportReason, description string) (*models.Report, error)

	ListUnresolvedReports(ctx context.Context) ([]models.Report, error)
	ResolveReport(ctx context.Context, reportID uuid.UUID) error
	// SuspendStory и PublishStory - модераторские переключатели статуса,
	// проверка владения не выполняется.
	SuspendStory(ctx context.Context, storyID uuid.UUID) (*models.Story, error)
	PublishStory(ctx context.Context, storyID uuid.UUID) (*models.Story, error)
}

type communityService struct {
	content   client.ContentServiceClient
	ratings   interfaces.RatingRepository
	reports   interfaces.ReportRepository
	publisher messaging.ReportEventPublisher
	logger    *zap.Logger
}

var _ CommunityService = (*communityService)(nil)

// NewCommunityService создает новый CommunityService.
func NewCommunityService(
	content client.ContentServiceClient,
	ratings interfaces.RatingRepository,
	reports interfaces.ReportRepository,
	publisher messaging.ReportEventPublisher,
	logger *zap.Logger,
) CommunityService {
	return &communityService{
		content:   content,
		ratings:   ratings,
		reports:   reports,
		publisher: publisher,
		logger:    logger.Named("CommunityService"),
	}
}

func (s *communityService) RateStory(ctx context.Context, userID, storyID uuid.UUID, rating int, comment string) (*models.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrInvalidInput)
	}
	if _, err := s.content.GetStory(ctx, storyID); err != nil {
		return nil, err
	}

	record := &models.Rating{
		UserID:  userID,
		StoryID: storyID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.ratings.Upsert(ctx, record); err != nil {
		s.logger.Error("failed to upsert rating",
			zap.String("storyID", storyID.String()),
			zap.String("userID", userID.String()),
			zap.Error(err))
		return nil, err
	}
	ratingsUpsertedTotal.Inc()
	return record, nil
}

func (s *communityService) ReportStory(ctx context.Context, reporterID, storyID uuid.UUID, reason models.ReportReason, description string) (*models.Report, error) {
	if !reason.IsValid() {
		return nil, fmt.Errorf("%w: unknown report reason %q", models.ErrInvalidInput, reason)
	}
	if _, err := s.content.GetStory(ctx, storyID); err != nil {
		return nil, err
	}

	report := &models.Report{
		UserID:      reporterID,
		StoryID:     storyID,
		Reason:      reason,
		Description: description,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		s.logger.Error("failed to create report", zap.String("storyID", storyID.String()), zap.Error(err))
		return nil, err
	}
	reportsCreatedTotal.Inc()

	event := messaging.ReportEvent{
		ReportID:    report.ID,
		StoryID:     report.StoryID,
		ReporterID:  report.UserID,
		Reason:      string(report.Reason),
		Description: report.Description,
		CreatedAt:   report.CreatedAt,
	}
	if err := s.publisher.PublishReportCreated(ctx, event); err != nil {
		// Жалоба уже сохранена, потеря события не повод отказывать пользователю.
		s.logger.Error("failed to publish report event",
			zap.String("reportID", report.ID.String()),
			zap.Error(err))
	}
	return report, nil
}

func (s *communityService) ListUnresolvedReports(ctx context.Context) ([]models.Report, error) {
	return s.reports.ListUnresolved(ctx)
}

func (s *communityService) ResolveReport(ctx context.Context, reportID uuid.UUID) error {
	if err := s.reports.Resolve(ctx, reportID); err != nil {
		return err
	}
	s.logger.Info("report resolved", zap.String("reportID", reportID.String()))
	return nil
}

func (s *communityService) SuspendStory(ctx context.Context, storyID uuid.UUID) (*models.Story, error) {
	return s.setStatus(ctx, storyID, models.StatusSuspended)
}

func (s *communityService) PublishStory(ctx context.Context, storyID uuid.UUID) (*models.Story, error) {
	return s.setStatus(ctx, storyID, models.StatusPublished)
}

func (s *communityService) setStatus(ctx context.Context, storyID uuid.UUID, status models.StoryStatus) (*models.Story, error) {
	update := models.StoryUpdate{Status: &status}
	story, err := s.content.UpdateStory(ctx, storyID, update, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("story status changed by moderator",
		zap.String("storyID", storyID.String()),
		zap.String("status", string(status)))
	return story, nil
}
