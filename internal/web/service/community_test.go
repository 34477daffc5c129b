package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	clientMocks "adventure-server/internal/web/client/mocks"
	"adventure-server/internal/web/messaging"
	messagingMocks "adventure-server/internal/web/messaging/mocks"
	"adventure-server/internal/web/service"
	repoMocks "adventure-server/pkg/interfaces/mocks"
	"adventure-server/pkg/models"
)

func TestRateStory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	storyID := uuid.New()

	t.Run("Valid rating upserted", func(t *testing.T) {
		mockContent := new(clientMocks.ContentServiceClient)
		mockRatings := new(repoMocks.RatingRepository)

		mockContent.On("GetStory", ctx, storyID).Return(&models.Story{ID: storyID}, nil)
		mockRatings.On("Upsert", ctx, mock.MatchedBy(func(r *models.Rating) bool {
			return r.UserID == userID && r.StoryID == storyID && r.Rating == 5
		})).Return(nil).Once()

		svc := service.NewCommunityService(mockContent, mockRatings, new(repoMocks.ReportRepository), messaging.NopReportPublisher{}, zap.NewNop())
		rating, err := svc.RateStory(ctx, userID, storyID, 5, "отлично")

		assert.NoError(t, err)
		assert.Equal(t, 5, rating.Rating)
		mockRatings.AssertExpectations(t)
	})

	t.Run("Out of range rating rejected", func(t *testing.T) {
		svc := service.NewCommunityService(new(clientMocks.ContentServiceClient), new(repoMocks.RatingRepository), new(repoMocks.ReportRepository), messaging.NopReportPublisher{}, zap.NewNop())

		for _, rating := range []int{0, 6, -1} {
			_, err := svc.RateStory(ctx, userID, storyID, rating, "")
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		}
	})

	t.Run("Unknown story rejected", func(t *testing.T) {
		mockContent := new(clientMocks.ContentServiceClient)
		mockContent.On("GetStory", ctx, storyID).Return(nil, models.ErrNotFound)

		mockRatings := new(repoMocks.RatingRepository)
		svc := service.NewCommunityService(mockContent, mockRatings, new(repoMocks.ReportRepository), messaging.NopReportPublisher{}, zap.NewNop())
		_, err := svc.RateStory(ctx, userID, storyID, 3, "")

		assert.ErrorIs(t, err, models.ErrNotFound)
		mockRatings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestReportStory(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	storyID := uuid.New()

	t.Run("Report saved and event published", func(t *testing.T) {
		mockContent := new(clientMocks.ContentServiceClient)
		mockReports := new(repoMocks.ReportRepository)
		mockPublisher := new(messagingMocks.ReportEventPublisher)

		mockContent.On("GetStory", ctx, storyID).Return(&models.Story{ID: storyID}, nil)
		mockReports.On("Create", ctx, mock.MatchedBy(func(r *models.Report) bool {
			r.ID = uuid.New()
			return r.StoryID == storyID && r.Reason == models.ReasonSpam
		})).Return(nil).Once()
		mockPublisher.On("PublishReportCreated", ctx, mock.MatchedBy(func(e messaging.ReportEvent) bool {
			return e.StoryID == storyID && e.Reason == "spam"
		})).Return(nil).Once()

		svc := service.NewCommunityService(mockContent, new(repoMocks.RatingRepository), mockReports, mockPublisher, zap.NewNop())
		report, err := svc.ReportStory(ctx, userID, storyID, models.ReasonSpam, "реклама")

		assert.NoError(t, err)
		assert.Equal(t, models.ReasonSpam, report.Reason)
		mockReports.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("Publish failure does not fail the report", func(t *testing.T) {
		mockContent := new(clientMocks.ContentServiceClient)
		mockReports := new(repoMocks.ReportRepository)
		mockPublisher := new(messagingMocks.ReportEventPublisher)

		mockContent.On("GetStory", ctx, storyID).Return(&models.Story{ID: storyID}, nil)
		mockReports.On("Create", ctx, mock.Anything).Return(nil)
		mockPublisher.On("PublishReportCreated", ctx, mock.Anything).Return(assert.AnError)

		svc := service.NewCommunityService(mockContent, new(repoMocks.RatingRepository), mockReports, mockPublisher, zap.NewNop())
		_, err := svc.ReportStory(ctx, userID, storyID, models.ReasonOther, "")

		assert.NoError(t, err)
	})

	t.Run("Unknown reason rejected", func(t *testing.T) {
		svc := service.NewCommunityService(new(clientMocks.ContentServiceClient), new(repoMocks.RatingRepository), new(repoMocks.ReportRepository), messaging.NopReportPublisher{}, zap.NewNop())
		_, err := svc.ReportStory(ctx, userID, storyID, "harassment", "")
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestModerationStatusSwitches(t *testing.T) {
	ctx := context.Background()
	storyID := uuid.New()

	t.Run("Suspend bypasses ownership", func(t *testing.T) {
		mockContent := new(clientMocks.ContentServiceClient)
		suspended := models.StatusSuspended
		mockContent.On("UpdateStory", ctx, storyID, models.StoryUpdate{Status: &suspended}, (*uuid.UUID)(nil)).
			Return(&models.Story{ID: storyID, Status: suspended}, nil).Once()

		svc := service.NewCommunityService(mockContent, new(repoMocks.RatingRepository), new(repoMocks.ReportRepository), messaging.NopReportPublisher{}, zap.NewNop())
		story, err := svc.SuspendStory(ctx, storyID)

		assert.NoError(t, err)
		assert.Equal(t, suspended, story.Status)
		mockContent.AssertExpectations(t)
	})

	t.Run("Publish restores visibility", func(t *testing.T) {
		mockContent := new(clientMocks.ContentServiceClient)
		published := models.StatusPublished
		mockContent.On("UpdateStory", ctx, storyID, models.StoryUpdate{Status: &published}, (*uuid.UUID)(nil)).
			Return(&models.Story{ID: storyID, Status: published}, nil).Once()

		svc := service.NewCommunityService(mockContent, new(repoMocks.RatingRepository), new(repoMocks.ReportRepository), messaging.NopReportPublisher{}, zap.NewNop())
		story, err := svc.PublishStory(ctx, storyID)

		assert.NoError(t, err)
		assert.Equal(t, published, story.Status)
	})
}
