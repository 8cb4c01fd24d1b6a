package repository

import (
	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// VoteResult — результат принятой мутации голоса
type VoteResult struct {
	// Weight — новый вес голоса за заявку (0 означает, что голос удален)
	Weight int
	// VoterTotal — новая сумма весов голосов участника за челлендж
	VoterTotal int
}

// VoteRepository определяет методы для работы с голосами.
//
// SetVote — единственная по-настоящему конкурентная мутация в системе:
// проверка бюджета и запись обязаны происходить в одной транзакции с блокировкой
// строк голосующего, иначе два параллельных запроса могут вдвоем пролезть под бюджет.
type VoteRepository interface {
	// SetVote выставляет вес голоса участника за заявку атомарно с проверкой бюджета:
	// сумма весов участника за челлендж после мутации не может превысить entity.VoteBudget.
	// Вес 0 удаляет голос. При превышении бюджета возвращает apperrors.ErrBudgetExceeded
	// и не пишет ничего.
	SetVote(challengeID, entryID uint, voterUserID string, weight int) (*VoteResult, error)
	GetByChallengeID(challengeID uint) ([]entity.Vote, error)
	GetVoterVotes(challengeID uint, voterUserID string) ([]entity.Vote, error)
	// TotalWeight возвращает сумму весов всех голосов челленджа (живой счетчик)
	TotalWeight(challengeID uint) (int, error)
	// EntryWeight возвращает сумму весов голосов за конкретную заявку
	EntryWeight(entryID uint) (int, error)
}
