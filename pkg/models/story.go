package models

import (
	"time"

	"github.com/google/uuid"
)

// StoryStatus определяет статус истории.
type StoryStatus string

const (
	StatusDraft     StoryStatus = "draft"
	StatusPublished StoryStatus = "published"
	StatusSuspended StoryStatus = "suspended"
)

// IsValid проверяет, что статус входит в известный набор.
func (s StoryStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusSuspended:
		return true
	}
	return false
}

// Story представляет историю с ветвящимся сюжетом.
// StartPageID может быть nil, пока автор не выбрал стартовую страницу.
// AuthorID может быть nil для старых историй без записанного автора.
type Story struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      StoryStatus `json:"status"`
	StartPageID *uuid.UUID  `json:"start_page_id,omitempty"`
	AuthorID    *uuid.UUID  `json:"author_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Page представляет одну страницу истории. Страница принадлежит ровно
// одной истории на всё время жизни (reparenting не поддерживается).
type Page struct {
	ID          uuid.UUID  `json:"id"`
	StoryID     uuid.UUID  `json:"story_id"`
	Text        string     `json:"text"`
	IsEnding    bool       `json:"is_ending"`
	EndingLabel *string    `json:"ending_label,omitempty"` // meaningful only when IsEnding
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Choice представляет вариант выбора на странице, ведущий на NextPageID.
type Choice struct {
	ID         uuid.UUID `json:"id"`
	PageID     uuid.UUID `json:"page_id"`
	Text       string    `json:"text"`
	NextPageID uuid.UUID `json:"next_page_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PageWithChoices - страница вместе с её вариантами выбора.
type PageWithChoices struct {
	Page
	Choices     []Choice `json:"choices"`
	IsStartPage bool     `json:"is_start_page"`
}

// StoryFilter задает предикаты равенства для списка историй.
// nil-поле означает "без фильтра".
type StoryFilter struct {
	Status   *StoryStatus
	AuthorID *uuid.UUID
}

// StoryUpdate содержит частичное обновление истории.
// nil-поле означает "оставить без изменений".
type StoryUpdate struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Status      *StoryStatus `json:"status,omitempty"`
	StartPageID *uuid.UUID   `json:"start_page_id,omitempty"`
}

// IsEmpty сообщает, что обновлять нечего.
func (u StoryUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.StartPageID == nil
}

// PageUpdate содержит частичное обновление страницы.
type PageUpdate struct {
	Text        *string `json:"text,omitempty"`
	IsEnding    *bool   `json:"is_ending,omitempty"`
	EndingLabel *string `json:"ending_label,omitempty"`
}

// IsEmpty сообщает, что обновлять нечего.
func (u PageUpdate) IsEmpty() bool {
	return u.Text == nil && u.IsEnding == nil && u.EndingLabel == nil
}

// ChoiceUpdate содержит частичное обновление варианта выбора.
type ChoiceUpdate struct {
	Text       *string    `json:"text,omitempty"`
	NextPageID *uuid.UUID `json:"next_page_id,omitempty"`
}

// IsEmpty сообщает, что обновлять нечего.
func (u ChoiceUpdate) IsEmpty() bool {
	return u.Text == nil && u.NextPageID == nil
}
