package dto

import (
	"time"

	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// BestOfResponse представляет запись архива "лучшее за неделю"
type BestOfResponse struct {
	ID             uint      `json:"id"`
	WeekKey        string    `json:"week_key"`
	Place          int       `json:"place"`
	Category       string    `json:"category"`
	EntryText      string    `json:"entry_text"`
	OriginalText   string    `json:"original_text"`
	ContextText    string    `json:"context_text,omitempty"`
	AuthorInitials *string   `json:"author_initials,omitempty"`
	Source         string    `json:"source"`
	Votes          int       `json:"votes"`
	WinnerNotes    *string   `json:"winner_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// PaginatedBestOfResponse представляет пагинированный список архивных записей
type PaginatedBestOfResponse struct {
	Entries []BestOfResponse `json:"entries"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// NewBestOfResponse создает DTO для записи архива
func NewBestOfResponse(e *entity.BestOfEntry) BestOfResponse {
	return BestOfResponse{
		ID:             e.ID,
		WeekKey:        e.WeekKey,
		Place:          e.Place,
		Category:       e.Category,
		EntryText:      e.EntryText,
		OriginalText:   e.OriginalText,
		ContextText:    e.ContextText,
		AuthorInitials: e.AuthorInitials,
		Source:         e.Source,
		Votes:          e.Votes,
		WinnerNotes:    e.WinnerNotes,
		CreatedAt:      e.CreatedAt,
	}
}

// NewPaginatedBestOfResponse создает пагинированный список DTO
func NewPaginatedBestOfResponse(entries []entity.BestOfEntry, total int64, page, perPage int) *PaginatedBestOfResponse {
	items := make([]BestOfResponse, 0, len(entries))
	for i := range entries {
		items = append(items, NewBestOfResponse(&entries[i]))
	}
	return &PaginatedBestOfResponse{
		Entries: items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
