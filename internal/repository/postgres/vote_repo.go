package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// VoteRepo реализует repository.VoteRepository
type VoteRepo struct {
	db *gorm.DB
}

// NewVoteRepo создает новый репозиторий голосов
func NewVoteRepo(db *gorm.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// SetVote выставляет вес голоса атомарно с проверкой бюджета.
//
// Проверка "сумма не больше бюджета" и запись обязаны попадать в одну транзакцию,
// иначе два параллельных запроса одного участника оба прочитают старую сумму и
// вместе пролезут под бюджет. FOR UPDATE недостаточно: у участника, голосующего
// впервые, блокировать нечего. Поэтому транзакция сериализуется advisory-локом
// по паре (challenge_id, voter): конкурирующий запрос того же участника ждет,
// пересчитывает сумму уже по закоммиченным строкам и честно получает отказ.
// Check-констрейнт на weight в миграции — последний рубеж на случай обхода репозитория.
func (r *VoteRepo) SetVote(challengeID, entryID uint, voterUserID string, weight int) (*repository.VoteResult, error) {
	if !entity.IsValidWeight(weight) {
		return nil, fmt.Errorf("%w: weight %d is out of range", apperrors.ErrValidation, weight)
	}

	var result *repository.VoteResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtextextended(?, ?))",
			voterUserID, int64(challengeID),
		).Error; err != nil {
			return fmt.Errorf("failed to acquire vote lock: %w", err)
		}

		var votes []entity.Vote
		if err := tx.Where("challenge_id = ? AND voter_user_id = ?", challengeID, voterUserID).
			Find(&votes).Error; err != nil {
			return err
		}

		var existing *entity.Vote
		for i := range votes {
			if votes[i].EntryID == entryID {
				existing = &votes[i]
			}
		}

		newTotal := entity.VoterTotalAfter(votes, entryID, weight)
		if newTotal > entity.VoteBudget {
			return fmt.Errorf("%w: voter total would be %d of %d",
				apperrors.ErrBudgetExceeded, newTotal, entity.VoteBudget)
		}

		switch {
		case weight == 0 && existing != nil:
			if err := tx.Delete(&entity.Vote{}, existing.ID).Error; err != nil {
				return err
			}
		case weight == 0:
			// Голос и так отсутствует — писать нечего
		case existing != nil:
			if err := tx.Model(&entity.Vote{}).
				Where("id = ?", existing.ID).
				Update("weight", weight).Error; err != nil {
				return err
			}
		default:
			vote := entity.Vote{
				ChallengeID: challengeID,
				EntryID:     entryID,
				VoterUserID: voterUserID,
				Weight:      weight,
			}
			if err := tx.Create(&vote).Error; err != nil {
				if isUniqueViolation(err) {
					// Под advisory-локом дубликат невозможен; страховка на всякий случай
					return fmt.Errorf("%w: vote already exists", apperrors.ErrConflict)
				}
				return err
			}
		}

		result = &repository.VoteResult{Weight: weight, VoterTotal: newTotal}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetByChallengeID возвращает все голоса челленджа
func (r *VoteRepo) GetByChallengeID(challengeID uint) ([]entity.Vote, error) {
	var votes []entity.Vote
	err := r.db.Where("challenge_id = ?", challengeID).Find(&votes).Error
	return votes, err
}

// GetVoterVotes возвращает голоса конкретного участника в челлендже
func (r *VoteRepo) GetVoterVotes(challengeID uint, voterUserID string) ([]entity.Vote, error) {
	var votes []entity.Vote
	err := r.db.Where("challenge_id = ? AND voter_user_id = ?", challengeID, voterUserID).
		Find(&votes).Error
	return votes, err
}

// TotalWeight возвращает сумму весов всех голосов челленджа
func (r *VoteRepo) TotalWeight(challengeID uint) (int, error) {
	var total int64
	err := r.db.Model(&entity.Vote{}).
		Where("challenge_id = ?", challengeID).
		Select("COALESCE(SUM(weight), 0)").
		Scan(&total).Error
	return int(total), err
}

// EntryWeight возвращает сумму весов голосов за заявку
func (r *VoteRepo) EntryWeight(entryID uint) (int, error) {
	var total int64
	err := r.db.Model(&entity.Vote{}).
		Where("entry_id = ?", entryID).
		Select("COALESCE(SUM(weight), 0)").
		Scan(&total).Error
	return int(total), err
}

// Проверяем соответствие интерфейсу на этапе компиляции
var _ repository.VoteRepository = (*VoteRepo)(nil)
