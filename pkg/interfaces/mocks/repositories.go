package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"adventure-server/pkg/models"
)

// Mock StoryRepository
type StoryRepository struct {
	mock.Mock
}

func (m *StoryRepository) Create(ctx context.Context, story *models.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}
func (m *StoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	args := m.Called(ctx, id)
	story, _ := args.Get(0).(*models.Story)
	return story, args.Error(1)
}
func (m *StoryRepository) List(ctx context.Context, filter models.StoryFilter) ([]models.Story, error) {
	args := m.Called(ctx, filter)
	stories, _ := args.Get(0).([]models.Story)
	return stories, args.Error(1)
}
func (m *StoryRepository) UpdateFields(ctx context.Context, id uuid.UUID, update models.StoryUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}
func (m *StoryRepository) SetStartPage(ctx context.Context, storyID, pageID uuid.UUID) error {
	args := m.Called(ctx, storyID, pageID)
	return args.Error(0)
}
func (m *StoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock PageRepository
type PageRepository struct {
	mock.Mock
}

func (m *PageRepository) Create(ctx context.Context, page *models.Page) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}
func (m *PageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	args := m.Called(ctx, id)
	page, _ := args.Get(0).(*models.Page)
	return page, args.Error(1)
}
func (m *PageRepository) ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Page, error) {
	args := m.Called(ctx, storyID)
	pages, _ := args.Get(0).([]models.Page)
	return pages, args.Error(1)
}
func (m *PageRepository) UpdateFields(ctx context.Context, id uuid.UUID, update models.PageUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}
func (m *PageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock ChoiceRepository
type ChoiceRepository struct {
	mock.Mock
}

func (m *ChoiceRepository) Create(ctx context.Context, choice *models.Choice) error {
	args := m.Called(ctx, choice)
	return args.Error(0)
}
func (m *ChoiceRepository) GetByID(ctx context.Context, pageID, choiceID uuid.UUID) (*models.Choice, error) {
	args := m.Called(ctx, pageID, choiceID)
	choice, _ := args.Get(0).(*models.Choice)
	return choice, args.Error(1)
}
func (m *ChoiceRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]models.Choice, error) {
	args := m.Called(ctx, pageID)
	choices, _ := args.Get(0).([]models.Choice)
	return choices, args.Error(1)
}
func (m *ChoiceRepository) ListByPages(ctx context.Context, pageIDs []uuid.UUID) (map[uuid.UUID][]models.Choice, error) {
	args := m.Called(ctx, pageIDs)
	choices, _ := args.Get(0).(map[uuid.UUID][]models.Choice)
	return choices, args.Error(1)
}
func (m *ChoiceRepository) UpdateFields(ctx context.Context, pageID, choiceID uuid.UUID, update models.ChoiceUpdate) error {
	args := m.Called(ctx, pageID, choiceID, update)
	return args.Error(0)
}
func (m *ChoiceRepository) Delete(ctx context.Context, pageID, choiceID uuid.UUID) error {
	args := m.Called(ctx, pageID, choiceID)
	return args.Error(0)
}

// Mock PlayRepository
type PlayRepository struct {
	mock.Mock
}

func (m *PlayRepository) Create(ctx context.Context, play *models.Play) error {
	args := m.Called(ctx, play)
	return args.Error(0)
}
func (m *PlayRepository) CountByStory(ctx context.Context, storyID uuid.UUID) (int, error) {
	args := m.Called(ctx, storyID)
	return args.Int(0), args.Error(1)
}
func (m *PlayRepository) StatsByStory(ctx context.Context) ([]models.StoryPlayStat, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]models.StoryPlayStat)
	return stats, args.Error(1)
}
func (m *PlayRepository) EndingStats(ctx context.Context) ([]models.EndingStat, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]models.EndingStat)
	return stats, args.Error(1)
}

// Mock RatingRepository
type RatingRepository struct {
	mock.Mock
}

func (m *RatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}
func (m *RatingRepository) GetByUserAndStory(ctx context.Context, userID, storyID uuid.UUID) (*models.Rating, error) {
	args := m.Called(ctx, userID, storyID)
	rating, _ := args.Get(0).(*models.Rating)
	return rating, args.Error(1)
}
func (m *RatingRepository) SummaryForStory(ctx context.Context, storyID uuid.UUID) (models.RatingSummary, error) {
	args := m.Called(ctx, storyID)
	summary, _ := args.Get(0).(models.RatingSummary)
	return summary, args.Error(1)
}

// Mock ReportRepository
type ReportRepository struct {
	mock.Mock
}

func (m *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
func (m *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	args := m.Called(ctx, id)
	report, _ := args.Get(0).(*models.Report)
	return report, args.Error(1)
}
func (m *ReportRepository) ListUnresolved(ctx context.Context) ([]models.Report, error) {
	args := m.Called(ctx)
	reports, _ := args.Get(0).([]models.Report)
	return reports, args.Error(1)
}
func (m *ReportRepository) Resolve(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
