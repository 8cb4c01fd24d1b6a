package entity

import (
	"time"
)

// Категории архива "лучшее за неделю".
// AI-затравки попадают в отдельную категорию, чтобы не смешивать их с авторскими строчками.
const (
	BestOfCategoryWeekly   = "weekly"
	BestOfCategoryWeeklyAI = "weekly-ai"
)

// bestOfCategoryBySource — явное отображение источника заявки в категорию архива
var bestOfCategoryBySource = map[string]string{
	EntrySourceHuman: BestOfCategoryWeekly,
	EntrySourceAI:    BestOfCategoryWeeklyAI,
}

// BestOfCategoryFor возвращает категорию архива для источника заявки.
// Неизвестный источник попадает в общую категорию.
func BestOfCategoryFor(source string) string {
	if cat, ok := bestOfCategoryBySource[source]; ok {
		return cat
	}
	return BestOfCategoryWeekly
}

// BestOfEntry представляет постоянную запись исторического архива: одно призовое
// место одной недели. Живет независимо от челленджа и переживает его удаление.
// Никогда не обновляется; удаляется только административным сбросом тестовых данных.
type BestOfEntry struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	WeekKey        string    `gorm:"size:10;not null;uniqueIndex:idx_best_of_week_place,priority:1" json:"week_key"`
	Place          int       `gorm:"not null;uniqueIndex:idx_best_of_week_place,priority:2" json:"place"`
	Category       string    `gorm:"size:20;not null;default:'weekly'" json:"category"`
	EntryText      string    `gorm:"type:text;not null" json:"entry_text"`
	OriginalText   string    `gorm:"type:text;not null;default:''" json:"original_text"`
	ContextText    string    `gorm:"type:text;not null;default:''" json:"context_text"`
	AuthorInitials *string   `gorm:"size:8" json:"author_initials,omitempty"`
	Source         string    `gorm:"size:10;not null;default:'human'" json:"source"`
	Votes          int       `gorm:"not null;default:0" json:"votes"`
	WinnerNotes    *string   `gorm:"type:text" json:"winner_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (BestOfEntry) TableName() string {
	return "best_of_entries"
}
