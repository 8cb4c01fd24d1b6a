package service

import (
	"errors"
	"log"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// ArchiveService предоставляет доступ к архиву "лучшее за неделю"
// и административный сброс тестовых данных.
type ArchiveService struct {
	challengeRepo repository.ChallengeRepository
	bestOfRepo    repository.BestOfRepository
}

// NewArchiveService создает новый сервис архива
func NewArchiveService(
	challengeRepo repository.ChallengeRepository,
	bestOfRepo repository.BestOfRepository,
) *ArchiveService {
	return &ArchiveService{
		challengeRepo: challengeRepo,
		bestOfRepo:    bestOfRepo,
	}
}

// List возвращает архивные записи с фильтрами и total count
func (s *ArchiveService) List(filters repository.BestOfFilters, limit, offset int) ([]entity.BestOfEntry, int64, error) {
	return s.bestOfRepo.List(filters, limit, offset)
}

// All возвращает весь архив (для экспорта)
func (s *ArchiveService) All() ([]entity.BestOfEntry, error) {
	return s.bestOfRepo.GetAll()
}

// ResetWeekResult — итог административного сброса недели
type ResetWeekResult struct {
	WeekKey          string
	ChallengeDeleted bool
	ArchiveDeleted   int64
}

// ResetWeek удаляет челлендж недели со всеми зависимыми строками (каскад FK)
// и архивные записи этой недели. ТОЛЬКО для сброса тестовых данных:
// в нормальной эксплуатации челленджи не удаляются.
func (s *ArchiveService) ResetWeek(weekKey string) (*ResetWeekResult, error) {
	result := &ResetWeekResult{WeekKey: weekKey}

	challenge, err := s.challengeRepo.GetByWeekKey(weekKey)
	switch {
	case err == nil:
		if err := s.challengeRepo.Delete(challenge.ID); err != nil {
			return nil, err
		}
		result.ChallengeDeleted = true
	case errors.Is(err, apperrors.ErrNotFound):
		// Челленджа нет — чистим только архив
	default:
		return nil, err
	}

	deleted, err := s.bestOfRepo.DeleteByWeekKey(weekKey)
	if err != nil {
		return nil, err
	}
	result.ArchiveDeleted = deleted

	log.Printf("[ArchiveService] Сброс недели %s: challenge=%t, архивных строк %d",
		weekKey, result.ChallengeDeleted, deleted)
	return result, nil
}
