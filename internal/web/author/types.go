package author

import "github.com/google/uuid"

// ChoiceDraft описывает один вариант выбора в форме автора.
// Цель задается либо клиентским индексом страницы в отправленном списке
// (TargetIndex), либо идентификатором уже существующей страницы
// (TargetPageID) - второй вариант возможен только при редактировании.
type ChoiceDraft struct {
	Text         string     `json:"text"`
	TargetIndex  *int       `json:"target_index,omitempty"`
	TargetPageID *uuid.UUID `json:"target_page_id,omitempty"`
}

// PageDraft описывает новую страницу в форме автора.
type PageDraft struct {
	Text        string        `json:"text"`
	IsEnding    bool          `json:"is_ending"`
	EndingLabel *string       `json:"ending_label,omitempty"`
	Choices     []ChoiceDraft `json:"choices"`
}

// StoryDraft - полная форма создания истории.
type StoryDraft struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Publish     bool        `json:"publish"`
	Pages       []PageDraft `json:"pages"`
}

// ChoiceEdit описывает вариант выбора при редактировании.
// nil ID означает новый вариант.
type ChoiceEdit struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Text         string     `json:"text"`
	TargetIndex  *int       `json:"target_index,omitempty"`
	TargetPageID *uuid.UUID `json:"target_page_id,omitempty"`
}

// PageEdit описывает сохраняемую существующую страницу при редактировании.
type PageEdit struct {
	ID               uuid.UUID    `json:"id"`
	Text             string       `json:"text"`
	IsEnding         bool         `json:"is_ending"`
	EndingLabel      *string      `json:"ending_label,omitempty"`
	Choices          []ChoiceEdit `json:"choices"`
	RemovedChoiceIDs []uuid.UUID  `json:"removed_choice_ids,omitempty"`
}

// StoryEdit - полная форма редактирования истории.
type StoryEdit struct {
	Title          *string     `json:"title,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Pages          []PageEdit  `json:"pages"`
	RemovedPageIDs []uuid.UUID `json:"removed_page_ids,omitempty"`
	NewPages       []PageDraft `json:"new_pages,omitempty"`
}

// BuildResult - итог прогона последовательности вызовов контент-сервиса.
// Последовательность не транзакционна: при сбое на каком-либо шаге всё
// сделанное до него остается зафиксированным, а FailedStep описывает
// оборвавшийся шаг.
type BuildResult struct {
	StoryID uuid.UUID `json:"story_id"`
	// PageIDs сопоставляет клиентские индексы новых страниц назначенным
	// идентификаторам. uuid.Nil на месте пропущенной (пустой) страницы.
	PageIDs    []uuid.UUID `json:"page_ids"`
	FailedStep string      `json:"failed_step,omitempty"`
	Err        error       `json:"-"`
}

// Failed сообщает, оборвалась ли последовательность.
func (r *BuildResult) Failed() bool {
	return r.Err != nil
}
