package entity

import (
	"time"
)

// Константы источников заявок
const (
	EntrySourceHuman = "human"
	EntrySourceAI    = "ai"
)

// Entry представляет одну заявку (строчку-кандидата) в недельном челлендже.
// Человеческие заявки создаются как черновики и публикуются ровно один раз;
// AI-заявки (затравки) публикуются сразу при создании и не имеют автора.
type Entry struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ChallengeID    uint       `gorm:"not null;index" json:"challenge_id"`
	AuthorUserID   *string    `gorm:"size:64;index" json:"author_user_id,omitempty"` // NULL для AI
	Source         string     `gorm:"size:10;not null;default:'human'" json:"source"`
	Text           string     `gorm:"type:text;not null;default:''" json:"text"`
	DraftText      *string    `gorm:"type:text" json:"draft_text,omitempty"`
	IsPublished    bool       `gorm:"not null;default:false;index" json:"is_published"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	AuthorInitials *string    `gorm:"size:8" json:"author_initials,omitempty"`
	WinnerNotes    *string    `gorm:"type:text" json:"winner_notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Entry) TableName() string {
	return "entries"
}

// IsAI проверяет, является ли заявка AI-затравкой
func (e *Entry) IsAI() bool {
	return e.Source == EntrySourceAI
}

// IsOwnedBy проверяет, принадлежит ли заявка пользователю
func (e *Entry) IsOwnedBy(userID string) bool {
	return e.AuthorUserID != nil && *e.AuthorUserID == userID
}
