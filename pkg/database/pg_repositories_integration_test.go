package database_test

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"testing"
	"time"

	"adventure-server/pkg/database"
	"adventure-server/pkg/interfaces"
	"adventure-server/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"go.uber.org/zap"
)

// Путь относительно pkg/database/pg_repositories_integration_test.go
const migrationDir = "migrations"

// RepositoryIntegrationSuite проверяет репозитории против настоящего PostgreSQL.
type RepositoryIntegrationSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool

	stories interfaces.StoryRepository
	pages   interfaces.PageRepository
	choices interfaces.ChoiceRepository
	plays   interfaces.PlayRepository
	ratings interfaces.RatingRepository
	reports interfaces.ReportRepository
}

// SetupSuite запускается один раз перед всеми тестами в наборе
func (s *RepositoryIntegrationSuite) SetupSuite() {
	ctx := context.Background()

	// --- Запуск Postgres ---
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err)
	s.pgContainer = pgContainer
	pgConnStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	// --- Подключение к БД и миграции ---
	dbPool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(s.T(), err)
	s.dbPool = dbPool

	absoluteMigrationDir, err := filepath.Abs(migrationDir)
	require.NoError(s.T(), err)
	sourceURL := "file://" + filepath.ToSlash(absoluteMigrationDir)
	log.Printf("Applying migrations from: %s", sourceURL)

	m, err := migrate.New(sourceURL, pgConnStr)
	require.NoError(s.T(), err, "Failed to create migrate instance")
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(s.T(), err, "Failed to apply migrations")
	}
	log.Println("Migrations applied successfully.")

	nopLogger := zap.NewNop()
	s.stories = database.NewPgStoryRepository(dbPool, nopLogger)
	s.pages = database.NewPgPageRepository(dbPool, nopLogger)
	s.choices = database.NewPgChoiceRepository(dbPool, nopLogger)
	s.plays = database.NewPgPlayRepository(dbPool, nopLogger)
	s.ratings = database.NewPgRatingRepository(dbPool, nopLogger)
	s.reports = database.NewPgReportRepository(dbPool, nopLogger)
}

// TearDownSuite запускается один раз после всех тестов
func (s *RepositoryIntegrationSuite) TearDownSuite() {
	ctx := context.Background()
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		err := s.pgContainer.Terminate(ctx)
		require.NoError(s.T(), err)
	}
	log.Println("Repository integration suite torn down.")
}

// TestRepositoryIntegrationSuite запускает набор тестов
func TestRepositoryIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode.")
	}
	suite.Run(t, new(RepositoryIntegrationSuite))
}

// --- Вспомогательные функции ---

func (s *RepositoryIntegrationSuite) mustCreateStory(ctx context.Context, title string) *models.Story {
	authorID := uuid.New()
	story := &models.Story{
		Title:    title,
		Status:   models.StatusDraft,
		AuthorID: &authorID,
	}
	require.NoError(s.T(), s.stories.Create(ctx, story))
	return story
}

func (s *RepositoryIntegrationSuite) mustCreatePage(ctx context.Context, storyID uuid.UUID, text string, isEnding bool) *models.Page {
	page := &models.Page{
		StoryID:  storyID,
		Text:     text,
		IsEnding: isEnding,
	}
	require.NoError(s.T(), s.pages.Create(ctx, page))
	return page
}

func (s *RepositoryIntegrationSuite) mustCreateChoice(ctx context.Context, pageID, nextPageID uuid.UUID, text string) *models.Choice {
	choice := &models.Choice{
		PageID:     pageID,
		Text:       text,
		NextPageID: nextPageID,
	}
	require.NoError(s.T(), s.choices.Create(ctx, choice))
	return choice
}

// --- Тесты ---

// TestStoryDeleteCascade проверяет, что удаление истории каскадно
// удаляет её страницы и их варианты выбора.
func (s *RepositoryIntegrationSuite) TestStoryDeleteCascade() {
	ctx := context.Background()

	story := s.mustCreateStory(ctx, "Каскадная история")
	pageA := s.mustCreatePage(ctx, story.ID, "Страница A", false)
	pageB := s.mustCreatePage(ctx, story.ID, "Страница B", true)
	choice := s.mustCreateChoice(ctx, pageA.ID, pageB.ID, "Идти к B")

	require.NoError(s.T(), s.stories.Delete(ctx, story.ID))

	_, err := s.stories.GetByID(ctx, story.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
	_, err = s.pages.GetByID(ctx, pageA.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
	_, err = s.pages.GetByID(ctx, pageB.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)
	_, err = s.choices.GetByID(ctx, pageA.ID, choice.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)

	// Повторное удаление сообщает о ненайденной записи
	assert.ErrorIs(s.T(), s.stories.Delete(ctx, story.ID), models.ErrNotFound)
}

// TestPageDeleteRetractsInboundChoices проверяет, что удаление страницы
// отзывает указывающие на неё варианты выбора с других страниц и
// обнуляет start_page_id истории.
func (s *RepositoryIntegrationSuite) TestPageDeleteRetractsInboundChoices() {
	ctx := context.Background()

	story := s.mustCreateStory(ctx, "История с отзывом выборов")
	pageA := s.mustCreatePage(ctx, story.ID, "Развилка", false)
	pageB := s.mustCreatePage(ctx, story.ID, "Обреченная страница", false)
	pageC := s.mustCreatePage(ctx, story.ID, "Финал", true)

	toB := s.mustCreateChoice(ctx, pageA.ID, pageB.ID, "Идти к B")
	toC := s.mustCreateChoice(ctx, pageA.ID, pageC.ID, "Идти к C")
	s.mustCreateChoice(ctx, pageB.ID, pageC.ID, "Из B в C")

	require.NoError(s.T(), s.stories.SetStartPage(ctx, story.ID, pageB.ID))

	require.NoError(s.T(), s.pages.Delete(ctx, pageB.ID))

	// Вариант A->B отозван, A->C остался
	remaining, err := s.choices.ListByPage(ctx, pageA.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), remaining, 1)
	assert.Equal(s.T(), toC.ID, remaining[0].ID)
	_, err = s.choices.GetByID(ctx, pageA.ID, toB.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)

	// Собственные варианты B удалены каскадом
	orphans, err := s.choices.ListByPage(ctx, pageB.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), orphans)

	// start_page_id обнулился на уровне схемы
	updated, err := s.stories.GetByID(ctx, story.ID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), updated.StartPageID)
}

// TestPartialUpdates проверяет, что UpdateFields меняет только
// переданные поля и не трогает остальные.
func (s *RepositoryIntegrationSuite) TestPartialUpdates() {
	ctx := context.Background()

	story := s.mustCreateStory(ctx, "Исходный заголовок")
	page := s.mustCreatePage(ctx, story.ID, "Исходный текст", false)
	target := s.mustCreatePage(ctx, story.ID, "Цель", true)
	choice := s.mustCreateChoice(ctx, page.ID, target.ID, "Исходный выбор")

	s.Run("story title only", func() {
		newTitle := "Новый заголовок"
		require.NoError(s.T(), s.stories.UpdateFields(ctx, story.ID, models.StoryUpdate{Title: &newTitle}))

		got, err := s.stories.GetByID(ctx, story.ID)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), newTitle, got.Title)
		assert.Equal(s.T(), story.Description, got.Description)
		assert.Equal(s.T(), models.StatusDraft, got.Status)
	})

	s.Run("page ending flag only", func() {
		isEnding := true
		require.NoError(s.T(), s.pages.UpdateFields(ctx, page.ID, models.PageUpdate{IsEnding: &isEnding}))

		got, err := s.pages.GetByID(ctx, page.ID)
		require.NoError(s.T(), err)
		assert.True(s.T(), got.IsEnding)
		assert.Equal(s.T(), "Исходный текст", got.Text)
	})

	s.Run("choice text only", func() {
		newText := "Новый выбор"
		require.NoError(s.T(), s.choices.UpdateFields(ctx, page.ID, choice.ID, models.ChoiceUpdate{Text: &newText}))

		got, err := s.choices.GetByID(ctx, page.ID, choice.ID)
		require.NoError(s.T(), err)
		assert.Equal(s.T(), newText, got.Text)
		assert.Equal(s.T(), target.ID, got.NextPageID)
	})

	s.Run("unknown id reports not found", func() {
		newTitle := "Никому"
		err := s.stories.UpdateFields(ctx, uuid.New(), models.StoryUpdate{Title: &newTitle})
		assert.ErrorIs(s.T(), err, models.ErrNotFound)
	})
}

// TestChoiceScopedLookups проверяет, что точечные операции над вариантом
// выбора видят его только под собственной страницей.
func (s *RepositoryIntegrationSuite) TestChoiceScopedLookups() {
	ctx := context.Background()

	story := s.mustCreateStory(ctx, "Скоупы выборов")
	pageA := s.mustCreatePage(ctx, story.ID, "A", false)
	pageB := s.mustCreatePage(ctx, story.ID, "B", true)
	choice := s.mustCreateChoice(ctx, pageA.ID, pageB.ID, "A -> B")

	// Под чужой страницей вариант не находится
	_, err := s.choices.GetByID(ctx, pageB.ID, choice.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)

	newText := "не должно примениться"
	err = s.choices.UpdateFields(ctx, pageB.ID, choice.ID, models.ChoiceUpdate{Text: &newText})
	assert.ErrorIs(s.T(), err, models.ErrNotFound)

	err = s.choices.Delete(ctx, pageB.ID, choice.ID)
	assert.ErrorIs(s.T(), err, models.ErrNotFound)

	// Под своей страницей всё работает
	got, err := s.choices.GetByID(ctx, pageA.ID, choice.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "A -> B", got.Text)

	require.NoError(s.T(), s.choices.Delete(ctx, pageA.ID, choice.ID))
}

// TestRatingUpsert проверяет, что повторная оценка той же пары
// (user, story) перезаписывает строку, а не добавляет новую.
func (s *RepositoryIntegrationSuite) TestRatingUpsert() {
	ctx := context.Background()

	story := s.mustCreateStory(ctx, "Оцениваемая история")
	userID := uuid.New()

	first := &models.Rating{UserID: userID, StoryID: story.ID, Rating: 2, Comment: "Так себе"}
	require.NoError(s.T(), s.ratings.Upsert(ctx, first))

	second := &models.Rating{UserID: userID, StoryID: story.ID, Rating: 5, Comment: "Перечитал - шедевр"}
	require.NoError(s.T(), s.ratings.Upsert(ctx, second))

	got, err := s.ratings.GetByUserAndStory(ctx, userID, story.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 5, got.Rating)
	assert.Equal(s.T(), "Перечитал - шедевр", got.Comment)

	// В таблице ровно одна строка для пары
	var count int
	err = s.dbPool.QueryRow(ctx,
		"SELECT COUNT(*) FROM ratings WHERE user_id = $1 AND story_id = $2", userID, story.ID).Scan(&count)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, count)

	// Оценка второго пользователя попадает в агрегат
	other := &models.Rating{UserID: uuid.New(), StoryID: story.ID, Rating: 3}
	require.NoError(s.T(), s.ratings.Upsert(ctx, other))

	summary, err := s.ratings.SummaryForStory(ctx, story.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, summary.RatingCount)
	require.NotNil(s.T(), summary.AvgRating)
	assert.InDelta(s.T(), 4.0, *summary.AvgRating, 0.001)
}

// TestRatingSummaryEmpty проверяет агрегат без оценок.
func (s *RepositoryIntegrationSuite) TestRatingSummaryEmpty() {
	ctx := context.Background()

	summary, err := s.ratings.SummaryForStory(ctx, uuid.New())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, summary.RatingCount)
	assert.Nil(s.T(), summary.AvgRating)
}

// TestPlayStats проверяет счетчики прохождений и распределение по концовкам.
func (s *RepositoryIntegrationSuite) TestPlayStats() {
	ctx := context.Background()

	story := s.mustCreateStory(ctx, "Статистика прохождений")
	endingA := s.mustCreatePage(ctx, story.ID, "Концовка A", true)
	endingB := s.mustCreatePage(ctx, story.ID, "Концовка B", true)

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		play := &models.Play{UserID: &userID, StoryID: story.ID, EndingPageID: endingA.ID}
		require.NoError(s.T(), s.plays.Create(ctx, play))
	}
	// Анонимное прохождение до другой концовки
	anon := &models.Play{StoryID: story.ID, EndingPageID: endingB.ID}
	require.NoError(s.T(), s.plays.Create(ctx, anon))

	count, err := s.plays.CountByStory(ctx, story.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 4, count)

	stats, err := s.plays.StatsByStory(ctx)
	require.NoError(s.T(), err)
	var found bool
	for _, st := range stats {
		if st.StoryID == story.ID {
			found = true
			assert.Equal(s.T(), 4, st.TotalPlays)
		}
	}
	assert.True(s.T(), found, "story must appear in play stats")

	endings, err := s.plays.EndingStats(ctx)
	require.NoError(s.T(), err)
	byEnding := make(map[uuid.UUID]int)
	for _, e := range endings {
		if e.StoryID == story.ID {
			byEnding[e.EndingPageID] = e.Count
		}
	}
	assert.Equal(s.T(), 3, byEnding[endingA.ID])
	assert.Equal(s.T(), 1, byEnding[endingB.ID])
}

// TestReportLifecycle проверяет создание жалобы, выборку нерешенных и решение.
func (s *RepositoryIntegrationSuite) TestReportLifecycle() {
	ctx := context.Background()

	story := s.mustCreateStory(ctx, "История с жалобой")
	report := &models.Report{
		UserID:      uuid.New(),
		StoryID:     story.ID,
		Reason:      models.ReasonSpam,
		Description: "Сплошная реклама",
	}
	require.NoError(s.T(), s.reports.Create(ctx, report))

	unresolved, err := s.reports.ListUnresolved(ctx)
	require.NoError(s.T(), err)
	var listed bool
	for _, r := range unresolved {
		if r.ID == report.ID {
			listed = true
			assert.False(s.T(), r.Resolved)
			assert.Equal(s.T(), models.ReasonSpam, r.Reason)
		}
	}
	assert.True(s.T(), listed, "fresh report must be listed as unresolved")

	require.NoError(s.T(), s.reports.Resolve(ctx, report.ID))

	got, err := s.reports.GetByID(ctx, report.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.Resolved)

	unresolved, err = s.reports.ListUnresolved(ctx)
	require.NoError(s.T(), err)
	for _, r := range unresolved {
		assert.NotEqual(s.T(), report.ID, r.ID, "resolved report must disappear from the unresolved list")
	}

	assert.ErrorIs(s.T(), s.reports.Resolve(ctx, uuid.New()), models.ErrNotFound)
}

// TestStoryListFilter проверяет фильтрацию списка историй по статусу и автору.
func (s *RepositoryIntegrationSuite) TestStoryListFilter() {
	ctx := context.Background()

	authorID := uuid.New()
	published := &models.Story{Title: "Опубликованная", Status: models.StatusPublished, AuthorID: &authorID}
	require.NoError(s.T(), s.stories.Create(ctx, published))
	draft := &models.Story{Title: "Черновик", Status: models.StatusDraft, AuthorID: &authorID}
	require.NoError(s.T(), s.stories.Create(ctx, draft))

	statusPublished := models.StatusPublished
	byStatus, err := s.stories.List(ctx, models.StoryFilter{Status: &statusPublished, AuthorID: &authorID})
	require.NoError(s.T(), err)
	require.Len(s.T(), byStatus, 1)
	assert.Equal(s.T(), published.ID, byStatus[0].ID)

	byAuthor, err := s.stories.List(ctx, models.StoryFilter{AuthorID: &authorID})
	require.NoError(s.T(), err)
	assert.Len(s.T(), byAuthor, 2)

	// Очистка, чтобы не влиять на другие выборки без фильтра
	require.NoError(s.T(), s.stories.Delete(ctx, published.ID))
	require.NoError(s.T(), s.stories.Delete(ctx, draft.ID))
}
