package repository

import (
	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// WinnerRepository определяет методы для работы со снимками итогов недели
type WinnerRepository interface {
	// Upsert записывает итоги недели по ключу challenge_id.
	// Повторный вызов (ретрай reveal) безопасен: строка перезаписывается, а не дублируется.
	Upsert(winner *entity.Winner) error
	GetByChallengeID(challengeID uint) (*entity.Winner, error)
}
