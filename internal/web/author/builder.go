package author

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-server/internal/web/client"
	"adventure-server/pkg/models"
)

// Builder превращает формы автора в упорядоченную последовательность вызовов
// контент-сервиса. Выборы создаются после страниц, потому что ссылаются на
// идентификаторы, которых до создания страниц ещё не существует.
type Builder struct {
	content client.ContentServiceClient
	logger  *zap.Logger
}

// NewBuilder создает новый Builder.
func NewBuilder(content client.ContentServiceClient, logger *zap.Logger) *Builder {
	return &Builder{
		content: content,
		logger:  logger.Named("AuthorBuilder"),
	}
}

// CreateStory выполняет сценарий создания: история, затем страницы в порядке
// отправки, затем выборы с разрешением клиентских индексов через таблицу
// индекс -> id. Отката при сбое нет: результат несет всё уже созданное.
func (b *Builder) CreateStory(ctx context.Context, authorID uuid.UUID, draft StoryDraft) *BuildResult {
	result := &BuildResult{}

	status := models.StatusDraft
	if draft.Publish {
		status = models.StatusPublished
	}

	story, err := b.content.CreateStory(ctx, client.CreateStoryInput{
		Title:       draft.Title,
		Description: draft.Description,
		Status:      string(status),
		AuthorID:    &authorID,
	})
	if err != nil {
		result.FailedStep = "create story"
		result.Err = err
		return result
	}
	result.StoryID = story.ID

	// Страницы: первая непустая становится стартовой. Пустые пропускаются,
	// их индексные позиции сохраняются в таблице как uuid.Nil.
	result.PageIDs = make([]uuid.UUID, len(draft.Pages))
	startAssigned := false
	for i, page := range draft.Pages {
		if page.Text == "" {
			continue
		}
		pageID, err := b.content.CreatePage(ctx, story.ID, client.CreatePageInput{
			Text:        page.Text,
			IsEnding:    page.IsEnding,
			EndingLabel: page.EndingLabel,
			IsStartPage: !startAssigned,
		})
		if err != nil {
			result.FailedStep = fmt.Sprintf("create page %d", i)
			result.Err = err
			return result
		}
		result.PageIDs[i] = pageID
		startAssigned = true
	}

	for i, page := range draft.Pages {
		sourceID := result.PageIDs[i]
		if sourceID == uuid.Nil {
			continue
		}
		if err := b.createChoices(ctx, sourceID, page.Choices, result.PageIDs); err != nil {
			result.FailedStep = fmt.Sprintf("create choices for page %d", i)
			result.Err = err
			return result
		}
	}

	b.logger.Info("story draft committed",
		zap.String("storyID", story.ID.String()),
		zap.Int("pages", len(draft.Pages)))
	return result
}

// EditStory выполняет сценарий редактирования той же последовательностью
// примитивов: метаданные, сохраняемые страницы, удаления, выборы
// сохраняемых страниц, новые страницы, выборы новых страниц. Атомарности
// между шагами нет.
func (b *Builder) EditStory(ctx context.Context, authorID, storyID uuid.UUID, edit StoryEdit) *BuildResult {
	result := &BuildResult{StoryID: storyID}

	// Обновление метаданных идет первым и выполняется всегда, даже когда
	// Title и Description пусты: это единственный шаг, на котором
	// контент-сервис сверяет автора, и без него правка страниц чужой
	// истории прошла бы без проверки.
	update := models.StoryUpdate{Title: edit.Title, Description: edit.Description}
	if _, err := b.content.UpdateStory(ctx, storyID, update, &authorID); err != nil {
		result.FailedStep = "update story metadata"
		result.Err = err
		return result
	}

	for _, page := range edit.Pages {
		update := models.PageUpdate{
			Text:        &page.Text,
			IsEnding:    &page.IsEnding,
			EndingLabel: page.EndingLabel,
		}
		if err := b.content.UpdatePage(ctx, page.ID, update); err != nil {
			result.FailedStep = fmt.Sprintf("update page %s", page.ID)
			result.Err = err
			return result
		}
	}

	// Удаленные страницы: выборы, ведущие на них с других страниц,
	// отзывает контент-сервис.
	for _, pageID := range edit.RemovedPageIDs {
		if err := b.content.DeletePage(ctx, pageID); err != nil {
			result.FailedStep = fmt.Sprintf("delete page %s", pageID)
			result.Err = err
			return result
		}
	}

	// Новые страницы создаются до выборов сохраняемых страниц не по спецификации
	// формы, а потому что выбор сохраняемой страницы может вести на новую.
	result.PageIDs = make([]uuid.UUID, len(edit.NewPages))
	for i, page := range edit.NewPages {
		if page.Text == "" {
			continue
		}
		pageID, err := b.content.CreatePage(ctx, storyID, client.CreatePageInput{
			Text:        page.Text,
			IsEnding:    page.IsEnding,
			EndingLabel: page.EndingLabel,
		})
		if err != nil {
			result.FailedStep = fmt.Sprintf("create page %d", i)
			result.Err = err
			return result
		}
		result.PageIDs[i] = pageID
	}

	for _, page := range edit.Pages {
		for _, choiceID := range page.RemovedChoiceIDs {
			if err := b.content.DeleteChoice(ctx, page.ID, choiceID); err != nil {
				result.FailedStep = fmt.Sprintf("delete choice %s", choiceID)
				result.Err = err
				return result
			}
		}
		for _, choice := range page.Choices {
			if choice.Text == "" {
				continue
			}
			targetID, ok := resolveTarget(choice.TargetPageID, choice.TargetIndex, result.PageIDs)
			if !ok {
				continue
			}
			if choice.ID != nil {
				update := models.ChoiceUpdate{Text: &choice.Text, NextPageID: &targetID}
				if err := b.content.UpdateChoice(ctx, page.ID, *choice.ID, update); err != nil {
					result.FailedStep = fmt.Sprintf("update choice %s", *choice.ID)
					result.Err = err
					return result
				}
				continue
			}
			_, err := b.content.CreateChoice(ctx, page.ID, client.CreateChoiceInput{
				Text:       choice.Text,
				NextPageID: targetID,
			})
			if err != nil {
				result.FailedStep = fmt.Sprintf("create choice on page %s", page.ID)
				result.Err = err
				return result
			}
		}
	}

	for i, page := range edit.NewPages {
		sourceID := result.PageIDs[i]
		if sourceID == uuid.Nil {
			continue
		}
		if err := b.createChoices(ctx, sourceID, page.Choices, result.PageIDs); err != nil {
			result.FailedStep = fmt.Sprintf("create choices for new page %d", i)
			result.Err = err
			return result
		}
	}

	b.logger.Info("story edit committed", zap.String("storyID", storyID.String()))
	return result
}

// createChoices создает выборы страницы, молча пропуская строки без текста
// и с неразрешимой целью.
func (b *Builder) createChoices(ctx context.Context, sourceID uuid.UUID, choices []ChoiceDraft, pageIDs []uuid.UUID) error {
	for _, choice := range choices {
		if choice.Text == "" {
			continue
		}
		targetID, ok := resolveTarget(choice.TargetPageID, choice.TargetIndex, pageIDs)
		if !ok {
			b.logger.Debug("choice target unresolved, skipping",
				zap.String("pageID", sourceID.String()))
			continue
		}
		_, err := b.content.CreateChoice(ctx, sourceID, client.CreateChoiceInput{
			Text:       choice.Text,
			NextPageID: targetID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// resolveTarget разрешает цель выбора: либо прямой идентификатор страницы,
// либо клиентский индекс через таблицу созданных страниц. Индекс вне
// диапазона или указывающий на пропущенную страницу неразрешим.
func resolveTarget(pageID *uuid.UUID, index *int, pageIDs []uuid.UUID) (uuid.UUID, bool) {
	if pageID != nil && *pageID != uuid.Nil {
		return *pageID, true
	}
	if index == nil {
		return uuid.Nil, false
	}
	if *index < 0 || *index >= len(pageIDs) {
		return uuid.Nil, false
	}
	if pageIDs[*index] == uuid.Nil {
		return uuid.Nil, false
	}
	return pageIDs[*index], true
}
