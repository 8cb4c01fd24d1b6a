package service

import (
	"time"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	"github.com/yourusername/challenge-api/internal/service/weekly"
)

// ChallengeService предоставляет читающие операции над челленджами для клиентского UI
type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	entryRepo     repository.EntryRepository
	winnerRepo    repository.WinnerRepository
}

// NewChallengeService создает новый сервис челленджей
func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	entryRepo repository.EntryRepository,
	winnerRepo repository.WinnerRepository,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		entryRepo:     entryRepo,
		winnerRepo:    winnerRepo,
	}
}

// GetCurrent возвращает челлендж текущей недели
func (s *ChallengeService) GetCurrent(now time.Time) (*entity.Challenge, error) {
	return s.challengeRepo.GetByWeekKey(weekly.WeekKey(now))
}

// GetByWeekKey возвращает челлендж по ключу недели
func (s *ChallengeService) GetByWeekKey(weekKey string) (*entity.Challenge, error) {
	return s.challengeRepo.GetByWeekKey(weekKey)
}

// PublishedEntries возвращает видимые заявки челленджа
func (s *ChallengeService) PublishedEntries(challengeID uint) ([]entity.Entry, error) {
	return s.entryRepo.GetPublishedByChallengeID(challengeID)
}

// Winner возвращает снимок итогов челленджа (apperrors.ErrNotFound до reveal)
func (s *ChallengeService) Winner(challengeID uint) (*entity.Winner, error) {
	return s.winnerRepo.GetByChallengeID(challengeID)
}

// List возвращает список челленджей с пагинацией
func (s *ChallengeService) List(limit, offset int) ([]entity.Challenge, error) {
	return s.challengeRepo.List(limit, offset)
}
