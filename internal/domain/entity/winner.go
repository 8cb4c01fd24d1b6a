package entity

import (
	"time"
)

// Winner представляет замороженный снимок итогов недели — ровно один на челлендж.
// Записывается фазой reveal через upsert по challenge_id, после этого не пересчитывается.
// Места nullable: заявок могло быть меньше трех.
type Winner struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ChallengeID   uint      `gorm:"not null;uniqueIndex" json:"challenge_id"`
	Place1EntryID *uint     `json:"place1_entry_id,omitempty"`
	Place2EntryID *uint     `json:"place2_entry_id,omitempty"`
	Place3EntryID *uint     `json:"place3_entry_id,omitempty"`
	TotalVotes    int       `gorm:"not null;default:0" json:"total_votes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Winner) TableName() string {
	return "winners"
}

// PlacedEntryIDs возвращает ID призовых заявок в порядке мест, пропуская пустые места
func (w *Winner) PlacedEntryIDs() []PlacedEntry {
	placed := make([]PlacedEntry, 0, 3)
	for place, id := range []*uint{w.Place1EntryID, w.Place2EntryID, w.Place3EntryID} {
		if id != nil {
			placed = append(placed, PlacedEntry{Place: place + 1, EntryID: *id})
		}
	}
	return placed
}

// PlacedEntry — пара (место, заявка) из снимка итогов
type PlacedEntry struct {
	Place   int
	EntryID uint
}
