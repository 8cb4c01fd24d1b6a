package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// totalVotesCacheTTL — время жизни кешированного счетчика голосов.
// Счетчик перезаписывается при каждом принятом голосе, TTL лишь страхует от
// устаревания после рестартов.
const totalVotesCacheTTL = time.Minute

// VoteBroadcaster рассылает обновленный счетчик голосов подключенным клиентам
type VoteBroadcaster interface {
	BroadcastTotal(weekKey string, total int)
}

// VoteService предоставляет операции голосования с проверкой окон и бюджета
type VoteService struct {
	challengeRepo repository.ChallengeRepository
	entryRepo     repository.EntryRepository
	voteRepo      repository.VoteRepository
	cacheRepo     repository.CacheRepository
	broadcaster   VoteBroadcaster
}

// NewVoteService создает новый сервис голосования.
// cacheRepo и broadcaster опциональны (nil допустим).
func NewVoteService(
	challengeRepo repository.ChallengeRepository,
	entryRepo repository.EntryRepository,
	voteRepo repository.VoteRepository,
	cacheRepo repository.CacheRepository,
	broadcaster VoteBroadcaster,
) *VoteService {
	return &VoteService{
		challengeRepo: challengeRepo,
		entryRepo:     entryRepo,
		voteRepo:      voteRepo,
		cacheRepo:     cacheRepo,
		broadcaster:   broadcaster,
	}
}

// SetVote выставляет вес голоса участника за заявку.
// Окно голосования проверяется по статусу челленджа И дедлайну: статус
// authoritative, заморозка закрывает голоса даже при перекосе планировщика.
// Проверка бюджета атомарна на уровне репозитория (см. VoteRepo.SetVote).
func (s *VoteService) SetVote(challengeID, entryID uint, voterUserID string, weight int, now time.Time) (*repository.VoteResult, error) {
	if !entity.IsValidWeight(weight) {
		return nil, fmt.Errorf("%w: weight must be 0, 1 or 2", apperrors.ErrValidation)
	}

	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.VotingOpen(now) {
		return nil, apperrors.ErrVotingClosed
	}

	entry, err := s.entryRepo.GetByID(entryID)
	if err != nil {
		return nil, err
	}
	if entry.ChallengeID != challengeID {
		return nil, fmt.Errorf("%w: entry #%d", ErrEntryNotInChallenge, entryID)
	}
	if !entry.IsPublished {
		return nil, fmt.Errorf("%w: entry #%d", ErrEntryNotPublished, entryID)
	}

	result, err := s.voteRepo.SetVote(challengeID, entryID, voterUserID, weight)
	if err != nil {
		return nil, err
	}

	// Обновляем живой счетчик (best-effort, на голосование не влияет)
	if total, err := s.voteRepo.TotalWeight(challengeID); err == nil {
		s.publishTotal(challenge.WeekKey, challengeID, total)
	} else {
		log.Printf("[VoteService] Не удалось пересчитать счетчик голосов challenge #%d: %v", challengeID, err)
	}

	return result, nil
}

// TotalVotes возвращает сумму весов всех голосов челленджа.
// Сначала пробует кеш, при промахе читает БД и прогревает кеш.
func (s *VoteService) TotalVotes(challengeID uint) (int, error) {
	key := totalVotesCacheKey(challengeID)

	if s.cacheRepo != nil {
		if cached, err := s.cacheRepo.Get(key); err == nil {
			if total, parseErr := strconv.Atoi(cached); parseErr == nil {
				return total, nil
			}
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[VoteService] Ошибка чтения кеша счетчика: %v", err)
		}
	}

	total, err := s.voteRepo.TotalWeight(challengeID)
	if err != nil {
		return 0, err
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.Set(key, total, totalVotesCacheTTL); err != nil {
			log.Printf("[VoteService] Ошибка прогрева кеша счетчика: %v", err)
		}
	}

	return total, nil
}

// VoterVotes возвращает голоса участника в челлендже (для отрисовки UI)
func (s *VoteService) VoterVotes(challengeID uint, voterUserID string) ([]entity.Vote, error) {
	return s.voteRepo.GetVoterVotes(challengeID, voterUserID)
}

// EntryScores возвращает сумму весов голосов по каждой заявке челленджа.
// Используется только после reveal: до объявления итогов счет по заявкам скрыт.
func (s *VoteService) EntryScores(challengeID uint) (map[uint]int, error) {
	votes, err := s.voteRepo.GetByChallengeID(challengeID)
	if err != nil {
		return nil, err
	}
	scores := make(map[uint]int, len(votes))
	for _, v := range votes {
		scores[v.EntryID] += v.Weight
	}
	return scores, nil
}

// publishTotal обновляет кеш и рассылает счетчик по WebSocket
func (s *VoteService) publishTotal(weekKey string, challengeID uint, total int) {
	if s.cacheRepo != nil {
		if err := s.cacheRepo.Set(totalVotesCacheKey(challengeID), total, totalVotesCacheTTL); err != nil {
			log.Printf("[VoteService] Ошибка записи кеша счетчика: %v", err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTotal(weekKey, total)
	}
}

func totalVotesCacheKey(challengeID uint) string {
	return fmt.Sprintf("challenge:%d:total_votes", challengeID)
}
