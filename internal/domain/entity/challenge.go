package entity

import (
	"time"
)

// Константы статусов недельного челленджа
const (
	ChallengeStatusActive   = "active"
	ChallengeStatusFrozen   = "frozen"
	ChallengeStatusRevealed = "revealed"
	ChallengeStatusArchived = "archived"
)

// challengeStatusRank задает порядок статусов жизненного цикла.
// Статус двигается только вперед: active → frozen → revealed → archived.
var challengeStatusRank = map[string]int{
	ChallengeStatusActive:   1,
	ChallengeStatusFrozen:   2,
	ChallengeStatusRevealed: 3,
	ChallengeStatusArchived: 4,
}

// ChallengeStatusRank возвращает порядковый номер статуса (0 для неизвестного).
func ChallengeStatusRank(status string) int {
	return challengeStatusRank[status]
}

// Challenge представляет недельный челлендж — по одному на ISO-неделю
type Challenge struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	WeekKey        string    `gorm:"size:10;not null;uniqueIndex" json:"week_key"`
	Status         string    `gorm:"size:20;not null;default:'active';index" json:"status"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	OriginalText   string    `gorm:"type:text;not null" json:"original_text"`
	ContextText    string    `gorm:"type:text;not null;default:''" json:"context_text"`
	RulesText      string    `gorm:"type:text;not null;default:''" json:"rules_text"`
	StartsAt       time.Time `gorm:"not null" json:"starts_at"`
	EditDeadlineAt time.Time `gorm:"not null" json:"edit_deadline_at"`
	VoteDeadlineAt time.Time `gorm:"not null" json:"vote_deadline_at"`
	FreezeAt       time.Time `gorm:"not null" json:"freeze_at"`
	RevealAt       time.Time `gorm:"not null" json:"reveal_at"`
	EndsAt         time.Time `gorm:"not null" json:"ends_at"`
	Entries        []Entry   `gorm:"foreignKey:ChallengeID" json:"entries,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Challenge) TableName() string {
	return "challenges"
}

// IsActive проверяет, идет ли прием заявок и голосование
func (c *Challenge) IsActive() bool {
	return c.Status == ChallengeStatusActive
}

// IsRevealed проверяет, объявлены ли итоги недели
func (c *Challenge) IsRevealed() bool {
	return c.Status == ChallengeStatusRevealed
}

// IsArchived проверяет, заархивирован ли челлендж
func (c *Challenge) IsArchived() bool {
	return c.Status == ChallengeStatusArchived
}

// AtOrPast возвращает true, если челлендж уже в статусе target или дальше по жизненному циклу.
// Используется для идемпотентных фазовых переходов: повторный вызов становится no-op.
func (c *Challenge) AtOrPast(target string) bool {
	return ChallengeStatusRank(c.Status) >= ChallengeStatusRank(target)
}

// VotingOpen проверяет, можно ли сейчас менять голоса.
// Статус authoritative: даже если дедлайн еще не прошел, после freeze голоса закрыты.
func (c *Challenge) VotingOpen(now time.Time) bool {
	return c.IsActive() && now.Before(c.VoteDeadlineAt)
}

// EditingOpen проверяет, можно ли сейчас создавать/редактировать/публиковать заявки
func (c *Challenge) EditingOpen(now time.Time) bool {
	return c.IsActive() && now.Before(c.EditDeadlineAt)
}
