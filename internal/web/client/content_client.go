package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/pkg/models"
)

// Заголовки, которые понимает контент-сервис.
const (
	apiKeyHeader   = "X-API-Key"
	authorIDHeader = "X-Author-ID"
)

// contentClient реализует ContentServiceClient поверх HTTP API.
type contentClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ ContentServiceClient = (*contentClient)(nil)

// NewContentServiceClient создает новый клиент контент-сервиса.
func NewContentServiceClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) (ContentServiceClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL for content service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &contentClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("ContentServiceClient"),
	}, nil
}

// doJSON выполняет запрос, проверяет статус и декодирует тело ответа в out
// (out может быть nil, если тело не нужно).
func (c *contentClient) doJSON(ctx context.Context, method, path string, body interface{}, actingAuthorID *uuid.UUID, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("internal error encoding request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("internal error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	if actingAuthorID != nil {
		req.Header.Set(authorIDHeader, actingAuthorID.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("HTTP request to content service failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read content service response: %w", err)
	}

	if err := c.mapStatus(resp.StatusCode, respBody, method, path); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.logger.Error("Failed to unmarshal content service response",
				zap.String("path", path), zap.ByteString("body", respBody), zap.Error(err))
			return fmt.Errorf("invalid response format from content service: %w", err)
		}
	}
	return nil
}

// mapStatus переводит коды ответа контент-сервиса в сентинельные ошибки.
func (c *contentClient) mapStatus(statusCode int, body []byte, method, path string) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	log := c.logger.With(
		zap.Int("status", statusCode),
		zap.String("method", method),
		zap.String("path", path))

	switch statusCode {
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusForbidden:
		return models.ErrForbidden
	case http.StatusUnauthorized:
		log.Error("Content service rejected API key")
		return models.ErrUnauthorized
	case http.StatusBadRequest:
		log.Warn("Content service rejected request", zap.ByteString("body", body))
		return fmt.Errorf("%w: %s", models.ErrInvalidInput, upstreamMessage(body))
	default:
		log.Error("Unexpected status from content service", zap.ByteString("body", body))
		return fmt.Errorf("%w: status %d", models.ErrUpstreamUnavailable, statusCode)
	}
}

// upstreamMessage достает человекочитаемое сообщение из тела ошибки.
func upstreamMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return "upstream rejected request"
}

// --- Чтение --- //

func (c *contentClient) ListStories(ctx context.Context, filter models.StoryFilter) ([]models.Story, error) {
	q := url.Values{}
	if filter.Status != nil {
		q.Set("status", string(*filter.Status))
	}
	if filter.AuthorID != nil {
		q.Set("author_id", filter.AuthorID.String())
	}
	path := "/stories"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var stories []models.Story
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (c *contentClient) GetStory(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	var story models.Story
	if err := c.doJSON(ctx, http.MethodGet, "/stories/"+id.String(), nil, nil, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

func (c *contentClient) GetStartPage(ctx context.Context, storyID uuid.UUID) (*models.PageWithChoices, error) {
	var page models.PageWithChoices
	if err := c.doJSON(ctx, http.MethodGet, "/stories/"+storyID.String()+"/start", nil, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *contentClient) GetPage(ctx context.Context, pageID uuid.UUID) (*models.PageWithChoices, error) {
	var page models.PageWithChoices
	if err := c.doJSON(ctx, http.MethodGet, "/pages/"+pageID.String(), nil, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *contentClient) ListStoryPages(ctx context.Context, storyID uuid.UUID) ([]models.PageWithChoices, error) {
	var pages []models.PageWithChoices
	if err := c.doJSON(ctx, http.MethodGet, "/stories/"+storyID.String()+"/pages", nil, nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// --- Запись --- //

func (c *contentClient) CreateStory(ctx context.Context, input CreateStoryInput) (*models.Story, error) {
	var story models.Story
	if err := c.doJSON(ctx, http.MethodPost, "/stories", input, nil, &story); err != nil {
		return nil, err
	}
	c.logger.Info("story created in content service", zap.String("storyID", story.ID.String()))
	return &story, nil
}

func (c *contentClient) UpdateStory(ctx context.Context, id uuid.UUID, update models.StoryUpdate, actingAuthorID *uuid.UUID) (*models.Story, error) {
	var story models.Story
	if err := c.doJSON(ctx, http.MethodPut, "/stories/"+id.String(), update, actingAuthorID, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

func (c *contentClient) DeleteStory(ctx context.Context, id uuid.UUID, actingAuthorID *uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/stories/"+id.String(), nil, actingAuthorID, nil)
}

func (c *contentClient) CreatePage(ctx context.Context, storyID uuid.UUID, input CreatePageInput) (uuid.UUID, error) {
	var resp models.IDResponse
	if err := c.doJSON(ctx, http.MethodPost, "/stories/"+storyID.String()+"/pages", input, nil, &resp); err != nil {
		return uuid.Nil, err
	}
	pageID, err := uuid.Parse(resp.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid page id in content service response: %w", err)
	}
	return pageID, nil
}

func (c *contentClient) UpdatePage(ctx context.Context, pageID uuid.UUID, update models.PageUpdate) error {
	return c.doJSON(ctx, http.MethodPut, "/pages/"+pageID.String(), update, nil, nil)
}

func (c *contentClient) DeletePage(ctx context.Context, pageID uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/pages/"+pageID.String(), nil, nil, nil)
}

func (c *contentClient) CreateChoice(ctx context.Context, pageID uuid.UUID, input CreateChoiceInput) (*models.Choice, error) {
	var choice models.Choice
	if err := c.doJSON(ctx, http.MethodPost, "/pages/"+pageID.String()+"/choices", input, nil, &choice); err != nil {
		return nil, err
	}
	return &choice, nil
}

func (c *contentClient) UpdateChoice(ctx context.Context, pageID, choiceID uuid.UUID, update models.ChoiceUpdate) error {
	path := fmt.Sprintf("/pages/%s/choices/%s", pageID, choiceID)
	return c.doJSON(ctx, http.MethodPut, path, update, nil, nil)
}

func (c *contentClient) DeleteChoice(ctx context.Context, pageID, choiceID uuid.UUID) error {
	path := fmt.Sprintf("/pages/%s/choices/%s", pageID, choiceID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
