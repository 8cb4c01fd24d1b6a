package dto

import (
	"time"

	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// EntryResponse представляет заявку в формате для ответа клиенту.
// draft_text отдается только владельцу заявки; score — только после reveal.
type EntryResponse struct {
	ID             uint       `json:"id"`
	ChallengeID    uint       `json:"challenge_id"`
	Source         string     `json:"source"`
	Text           string     `json:"text"`
	DraftText      *string    `json:"draft_text,omitempty"`
	IsPublished    bool       `json:"is_published"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	AuthorInitials *string    `json:"author_initials,omitempty"`
	WinnerNotes    *string    `json:"winner_notes,omitempty"`
	IsMine         bool       `json:"is_mine"`
	MyVoteWeight   int        `json:"my_vote_weight"`
	Score          *int       `json:"score,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// WinnerResponse представляет снимок итогов недели
type WinnerResponse struct {
	ChallengeID   uint  `json:"challenge_id"`
	Place1EntryID *uint `json:"place1_entry_id,omitempty"`
	Place2EntryID *uint `json:"place2_entry_id,omitempty"`
	Place3EntryID *uint `json:"place3_entry_id,omitempty"`
	TotalVotes    int   `json:"total_votes"`
}

// ChallengeResponse представляет челлендж в формате для ответа клиенту
type ChallengeResponse struct {
	ID             uint            `json:"id"`
	WeekKey        string          `json:"week_key"`
	Status         string          `json:"status"`
	Title          string          `json:"title"`
	OriginalText   string          `json:"original_text"`
	ContextText    string          `json:"context_text,omitempty"`
	RulesText      string          `json:"rules_text,omitempty"`
	StartsAt       time.Time       `json:"starts_at"`
	EditDeadlineAt time.Time       `json:"edit_deadline_at"`
	VoteDeadlineAt time.Time       `json:"vote_deadline_at"`
	FreezeAt       time.Time       `json:"freeze_at"`
	RevealAt       time.Time       `json:"reveal_at"`
	EndsAt         time.Time       `json:"ends_at"`
	VotingOpen     bool            `json:"voting_open"`
	EditingOpen    bool            `json:"editing_open"`
	TotalVotes     int             `json:"total_votes"`
	Entries        []EntryResponse `json:"entries"`
	Winner         *WinnerResponse `json:"winner,omitempty"`
}

// ChallengeListItem — укороченный челлендж для списков
type ChallengeListItem struct {
	ID       uint      `json:"id"`
	WeekKey  string    `json:"week_key"`
	Status   string    `json:"status"`
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// NewEntryResponse создает DTO для заявки.
// viewerID — кто смотрит (пустая строка для анонима); myWeight — вес голоса
// смотрящего за эту заявку; score != nil только после reveal.
func NewEntryResponse(e *entity.Entry, viewerID string, myWeight int, score *int) EntryResponse {
	resp := EntryResponse{
		ID:             e.ID,
		ChallengeID:    e.ChallengeID,
		Source:         e.Source,
		Text:           e.Text,
		IsPublished:    e.IsPublished,
		PublishedAt:    e.PublishedAt,
		AuthorInitials: e.AuthorInitials,
		WinnerNotes:    e.WinnerNotes,
		IsMine:         viewerID != "" && e.IsOwnedBy(viewerID),
		MyVoteWeight:   myWeight,
		Score:          score,
		CreatedAt:      e.CreatedAt,
	}
	// Черновик видит только автор
	if resp.IsMine {
		resp.DraftText = e.DraftText
	}
	return resp
}

// NewWinnerResponse создает DTO для снимка итогов
func NewWinnerResponse(w *entity.Winner) *WinnerResponse {
	if w == nil {
		return nil
	}
	return &WinnerResponse{
		ChallengeID:   w.ChallengeID,
		Place1EntryID: w.Place1EntryID,
		Place2EntryID: w.Place2EntryID,
		Place3EntryID: w.Place3EntryID,
		TotalVotes:    w.TotalVotes,
	}
}

// NewChallengeResponse создает DTO для челленджа с вложенными заявками
func NewChallengeResponse(c *entity.Challenge, now time.Time, entries []EntryResponse, totalVotes int, winner *WinnerResponse) *ChallengeResponse {
	if entries == nil {
		entries = []EntryResponse{}
	}
	return &ChallengeResponse{
		ID:             c.ID,
		WeekKey:        c.WeekKey,
		Status:         c.Status,
		Title:          c.Title,
		OriginalText:   c.OriginalText,
		ContextText:    c.ContextText,
		RulesText:      c.RulesText,
		StartsAt:       c.StartsAt,
		EditDeadlineAt: c.EditDeadlineAt,
		VoteDeadlineAt: c.VoteDeadlineAt,
		FreezeAt:       c.FreezeAt,
		RevealAt:       c.RevealAt,
		EndsAt:         c.EndsAt,
		VotingOpen:     c.VotingOpen(now),
		EditingOpen:    c.EditingOpen(now),
		TotalVotes:     totalVotes,
		Entries:        entries,
		Winner:         winner,
	}
}

// NewChallengeListResponse создает список укороченных DTO
func NewChallengeListResponse(challenges []entity.Challenge) []ChallengeListItem {
	items := make([]ChallengeListItem, 0, len(challenges))
	for i := range challenges {
		c := &challenges[i]
		items = append(items, ChallengeListItem{
			ID:       c.ID,
			WeekKey:  c.WeekKey,
			Status:   c.Status,
			Title:    c.Title,
			StartsAt: c.StartsAt,
			EndsAt:   c.EndsAt,
		})
	}
	return items
}
