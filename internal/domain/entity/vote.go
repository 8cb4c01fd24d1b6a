package entity

import (
	"time"
)

// Правила голосования: бюджет на участника и потолок на заявку.
// Дублируются check-констрейнтами в миграциях — БД является последним рубежом.
const (
	// VoteBudget — максимальная сумма весов одного участника за один челлендж.
	VoteBudget = 3
	// MaxWeightPerEntry — максимальный вес одного голоса за одну заявку.
	MaxWeightPerEntry = 2
)

// Vote представляет взвешенный голос участника за заявку.
// Отсутствие строки эквивалентно весу 0: при обнулении голос удаляется.
type Vote struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_votes_challenge_entry_voter,priority:1" json:"challenge_id"`
	EntryID     uint      `gorm:"not null;uniqueIndex:idx_votes_challenge_entry_voter,priority:2;index" json:"entry_id"`
	VoterUserID string    `gorm:"size:64;not null;uniqueIndex:idx_votes_challenge_entry_voter,priority:3" json:"voter_user_id"`
	Weight      int       `gorm:"not null" json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Vote) TableName() string {
	return "votes"
}

// IsValidWeight проверяет, что запрошенный вес входит в допустимый диапазон {0, 1, 2}
func IsValidWeight(weight int) bool {
	return weight >= 0 && weight <= MaxWeightPerEntry
}

// VoterTotalAfter считает сумму весов участника, какой она станет после
// установки weight за заявку entryID. Прежний вес за эту же заявку замещается,
// а не суммируется: повторный голос за ту же заявку меняет вес, голоса за
// другие заявки участника входят в сумму как есть.
func VoterTotalAfter(votes []Vote, entryID uint, weight int) int {
	total := weight
	for i := range votes {
		if votes[i].EntryID != entryID {
			total += votes[i].Weight
		}
	}
	return total
}
