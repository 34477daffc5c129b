package models

import (
	"time"

	"github.com/google/uuid"
)

// Play фиксирует факт достижения концовки истории.
// Записи append-only: повторные визиты той же концовки тем же
// пользователем создают новые записи, дедупликации нет.
type Play struct {
	ID           uuid.UUID  `json:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"` // nil для анонимных читателей
	StoryID      uuid.UUID  `json:"story_id"`
	EndingPageID uuid.UUID  `json:"ending_page_id"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Rating - оценка истории пользователем. Уникальна по (user_id, story_id),
// повторная оценка перезаписывает предыдущую (upsert).
type Rating struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	StoryID   uuid.UUID `json:"story_id"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReportReason - причина жалобы.
type ReportReason string

const (
	ReasonSpam          ReportReason = "spam"
	ReasonOffensive     ReportReason = "offensive"
	ReasonInappropriate ReportReason = "inappropriate"
	ReasonCopyright     ReportReason = "copyright"
	ReasonOther         ReportReason = "other"
)

// IsValid проверяет причину жалобы.
func (r ReportReason) IsValid() bool {
	switch r {
	case ReasonSpam, ReasonOffensive, ReasonInappropriate, ReasonCopyright, ReasonOther:
		return true
	}
	return false
}

// Report - жалоба пользователя на историю. Append-only, флаг Resolved
// меняется только модерацией.
type Report struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	StoryID     uuid.UUID    `json:"story_id"`
	Reason      ReportReason `json:"reason"`
	Description string       `json:"description"`
	Resolved    bool         `json:"resolved"`
	CreatedAt   time.Time    `json:"created_at"`
}

// StoryPlayStat - количество прохождений истории.
type StoryPlayStat struct {
	StoryID    uuid.UUID `json:"story_id"`
	TotalPlays int       `json:"total_plays"`
}

// EndingStat - распределение прохождений по концовкам.
type EndingStat struct {
	StoryID      uuid.UUID `json:"story_id"`
	EndingPageID uuid.UUID `json:"ending_page_id"`
	Count        int       `json:"count"`
}

// RatingSummary - агрегат оценок истории.
type RatingSummary struct {
	StoryID     uuid.UUID `json:"story_id"`
	AvgRating   *float64  `json:"avg_rating,omitempty"` // nil, если оценок нет
	RatingCount int       `json:"rating_count"`
}
