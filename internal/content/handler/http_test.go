package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adventure-server/internal/content/handler"
	"adventure-server/internal/content/service"
	"adventure-server/internal/content/service/mocks"
	"adventure-server/pkg/middleware"
	"adventure-server/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIKey = "test-content-api-key"

func newTestServer(t *testing.T) (*echo.Echo, *mocks.ContentService) {
	t.Helper()
	mockService := new(mocks.ContentService)
	h := handler.NewContentHandler(mockService, zap.NewNop(), testAPIKey)

	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	h.RegisterRoutes(e)
	return e, mockService
}

func doRequest(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWriteRoutesRequireAPIKey(t *testing.T) {
	e, mockService := newTestServer(t)

	t.Run("missing key rejected before body validation", func(t *testing.T) {
		// Тело заведомо невалидное: до его разбора дойти не должны
		rec := doRequest(e, http.MethodPost, "/stories", `{"title":""}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/stories", `{"title":"x"}`, map[string]string{
			middleware.APIKeyHeader: "wrong-key",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("read routes stay open", func(t *testing.T) {
		mockService.On("ListStories", mock.Anything, models.StoryFilter{}).
			Return([]models.Story{}, nil).Once()

		rec := doRequest(e, http.MethodGet, "/stories", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	mockService.AssertNotCalled(t, "CreateStory", mock.Anything, mock.Anything)
}

func TestCreateStoryHandler(t *testing.T) {
	authHeaders := map[string]string{middleware.APIKeyHeader: testAPIKey}

	t.Run("created with defaulted status", func(t *testing.T) {
		e, mockService := newTestServer(t)
		created := &models.Story{ID: uuid.New(), Title: "Пещера дракона", Status: models.StatusDraft}
		mockService.On("CreateStory", mock.Anything, service.CreateStoryParams{Title: "Пещера дракона"}).
			Return(created, nil).Once()

		rec := doRequest(e, http.MethodPost, "/stories", `{"title":"Пещера дракона"}`, authHeaders)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp handler.StoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, created.ID, resp.ID)
		assert.Equal(t, string(models.StatusDraft), resp.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("empty title rejected by validator", func(t *testing.T) {
		e, mockService := newTestServer(t)

		rec := doRequest(e, http.MethodPost, "/stories", `{"title":""}`, authHeaders)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateStory", mock.Anything, mock.Anything)
	})

	t.Run("unknown status rejected by validator", func(t *testing.T) {
		e, mockService := newTestServer(t)

		rec := doRequest(e, http.MethodPost, "/stories", `{"title":"x","status":"archived"}`, authHeaders)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "CreateStory", mock.Anything, mock.Anything)
	})
}

func TestUpdateStoryHandler(t *testing.T) {
	storyID := uuid.New()
	authorID := uuid.New()

	t.Run("author header forwarded to service", func(t *testing.T) {
		e, mockService := newTestServer(t)
		newTitle := "Переименование"
		updated := &models.Story{ID: storyID, Title: newTitle, Status: models.StatusDraft}
		mockService.On("UpdateStory", mock.Anything, storyID,
			models.StoryUpdate{Title: &newTitle}, &authorID).
			Return(updated, nil).Once()

		rec := doRequest(e, http.MethodPut, "/stories/"+storyID.String(),
			`{"title":"Переименование"}`, map[string]string{
				middleware.APIKeyHeader: testAPIKey,
				handler.AuthorIDHeader:  authorID.String(),
			})

		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("ownership rejection maps to 403", func(t *testing.T) {
		e, mockService := newTestServer(t)
		mockService.On("UpdateStory", mock.Anything, storyID, mock.Anything, &authorID).
			Return(nil, models.ErrForbidden).Once()

		rec := doRequest(e, http.MethodPut, "/stories/"+storyID.String(),
			`{"title":"Чужое"}`, map[string]string{
				middleware.APIKeyHeader: testAPIKey,
				handler.AuthorIDHeader:  authorID.String(),
			})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed author header rejected", func(t *testing.T) {
		e, mockService := newTestServer(t)

		rec := doRequest(e, http.MethodPut, "/stories/"+storyID.String(),
			`{"title":"x"}`, map[string]string{
				middleware.APIKeyHeader: testAPIKey,
				handler.AuthorIDHeader:  "not-a-uuid",
			})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "UpdateStory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetStoryHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		e, mockService := newTestServer(t)
		story := &models.Story{ID: uuid.New(), Title: "Лесная тропа", Status: models.StatusPublished}
		mockService.On("GetStory", mock.Anything, story.ID).Return(story, nil).Once()

		rec := doRequest(e, http.MethodGet, "/stories/"+story.ID.String(), "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp handler.StoryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Лесная тропа", resp.Title)
	})

	t.Run("unknown id maps to 404", func(t *testing.T) {
		e, mockService := newTestServer(t)
		id := uuid.New()
		mockService.On("GetStory", mock.Anything, id).Return(nil, models.ErrNotFound).Once()

		rec := doRequest(e, http.MethodGet, "/stories/"+id.String(), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id maps to 400", func(t *testing.T) {
		e, _ := newTestServer(t)

		rec := doRequest(e, http.MethodGet, "/stories/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetStartPageHandler(t *testing.T) {
	t.Run("story without start page maps to 404", func(t *testing.T) {
		e, mockService := newTestServer(t)
		id := uuid.New()
		mockService.On("GetStartPage", mock.Anything, id).Return(nil, service.ErrNoStartPage).Once()

		rec := doRequest(e, http.MethodGet, "/stories/"+id.String()+"/start", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("start page rendered with choices", func(t *testing.T) {
		e, mockService := newTestServer(t)
		storyID := uuid.New()
		page := &models.PageWithChoices{
			Page:        models.Page{ID: uuid.New(), StoryID: storyID, Text: "Вы на развилке"},
			Choices:     []models.Choice{{ID: uuid.New(), Text: "Налево"}},
			IsStartPage: true,
		}
		mockService.On("GetStartPage", mock.Anything, storyID).Return(page, nil).Once()

		rec := doRequest(e, http.MethodGet, "/stories/"+storyID.String()+"/start", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp handler.PageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.IsStartPage)
		assert.Len(t, resp.Choices, 1)
	})
}
