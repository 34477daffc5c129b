package interfaces

import (
	"context"

	"adventure-server/pkg/models"

	"github.com/google/uuid"
)

// StoryRepository определяет операции хранения историй.
//
//go:generate mockery --name StoryRepository --output ./mocks --outpkg mocks --case=underscore
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error)
	// List возвращает истории по предикатам равенства фильтра. Пагинации нет.
	List(ctx context.Context, filter models.StoryFilter) ([]models.Story, error)
	// UpdateFields обновляет только переданные (не-nil) поля.
	UpdateFields(ctx context.Context, id uuid.UUID, update models.StoryUpdate) error
	// SetStartPage устанавливает start_page_id истории.
	SetStartPage(ctx context.Context, storyID, pageID uuid.UUID) error
	// Delete удаляет историю. Страницы и их варианты выбора удаляются
	// каскадно на уровне схемы.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PageRepository определяет операции хранения страниц.
//
//go:generate mockery --name PageRepository --output ./mocks --outpkg mocks --case=underscore
type PageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Page, error)
	// ListByStory возвращает страницы истории в порядке создания.
	ListByStory(ctx context.Context, storyID uuid.UUID) ([]models.Page, error)
	UpdateFields(ctx context.Context, id uuid.UUID, update models.PageUpdate) error
	// Delete удаляет страницу. Варианты выбора самой страницы удаляются
	// каскадно; варианты выбора, указывающие на страницу из других мест,
	// отзываются явно; start_page_id историй, указывающий на страницу,
	// обнуляется на уровне схемы.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChoiceRepository определяет операции хранения вариантов выбора.
// Все точечные операции скоупированы парой (pageID, choiceID):
// существующий choiceID под другой страницей считается не найденным.
//
//go:generate mockery --name ChoiceRepository --output ./mocks --outpkg mocks --case=underscore
type ChoiceRepository interface {
	Create(ctx context.Context, choice *models.Choice) error
	GetByID(ctx context.Context, pageID, choiceID uuid.UUID) (*models.Choice, error)
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]models.Choice, error)
	// ListByPages возвращает варианты выбора сразу для набора страниц
	// (для инлайнинга в список страниц одной выборкой).
	ListByPages(ctx context.Context, pageIDs []uuid.UUID) (map[uuid.UUID][]models.Choice, error)
	UpdateFields(ctx context.Context, pageID, choiceID uuid.UUID, update models.ChoiceUpdate) error
	Delete(ctx context.Context, pageID, choiceID uuid.UUID) error
}
