package repository

import (
	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// ChallengeRepository определяет методы для работы с недельными челленджами
type ChallengeRepository interface {
	Create(challenge *entity.Challenge) error
	GetByID(id uint) (*entity.Challenge, error)
	GetByWeekKey(weekKey string) (*entity.Challenge, error)
	// AdvanceStatus атомарно переводит челлендж из статуса from в статус to.
	// Возвращает ErrStatusNotAdvanced, если челлендж уже не в статусе from —
	// для идемпотентных фазовых переходов это означает no-op, а не сбой.
	AdvanceStatus(challengeID uint, from, to string) error
	List(limit, offset int) ([]entity.Challenge, error)
	// Delete удаляет челлендж; зависимые заявки/голоса/итоги удаляются каскадно (FK).
	// Используется только административным сбросом тестовых данных.
	Delete(id uint) error
}
