package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
	"github.com/yourusername/challenge-api/internal/service/weekly"
)

// LifecycleService реализует четыре фазовых перехода недельного челленджа:
// start → freeze → reveal → archive. Каждый переход идемпотентен и вызывается
// внешним планировщиком независимо от остальных; момент времени передается
// явным параметром now, чтобы тесты могли подставлять произвольные моменты.
type LifecycleService struct {
	challengeRepo repository.ChallengeRepository
	entryRepo     repository.EntryRepository
	voteRepo      repository.VoteRepository
	winnerRepo    repository.WinnerRepository
	bestOfRepo    repository.BestOfRepository
	prompts       PromptProvider
	email         EmailService
	config        *weekly.Config
}

// NewLifecycleService создает сервис фазовых переходов
func NewLifecycleService(
	challengeRepo repository.ChallengeRepository,
	entryRepo repository.EntryRepository,
	voteRepo repository.VoteRepository,
	winnerRepo repository.WinnerRepository,
	bestOfRepo repository.BestOfRepository,
	prompts PromptProvider,
	email EmailService,
	config *weekly.Config,
) *LifecycleService {
	return &LifecycleService{
		challengeRepo: challengeRepo,
		entryRepo:     entryRepo,
		voteRepo:      voteRepo,
		winnerRepo:    winnerRepo,
		bestOfRepo:    bestOfRepo,
		prompts:       prompts,
		email:         email,
		config:        config,
	}
}

// StartResult — итог фазы start
type StartResult struct {
	WeekKey       string
	ChallengeID   uint
	SeedCount     int
	AlreadyExists bool
}

// FreezeResult — итог фазы freeze
type FreezeResult struct {
	WeekKey string
	Frozen  bool
	Message string
}

// RevealResult — итог фазы reveal
type RevealResult struct {
	WeekKey     string
	ChallengeID uint
	Place1      *uint
	Place2      *uint
	Place3      *uint
	TotalVotes  int
	NoOp        bool
	Message     string
}

// ArchiveResult — итог фазы archive-and-rollover
type ArchiveResult struct {
	WeekKey      string
	Archived     bool
	RowsInserted int
	RowsFailed   int
	Message      string
}

// StartWeek создает челлендж текущей недели с затравками.
// Повторный вызов на уже начатой неделе — no-op ("already exists").
func (s *LifecycleService) StartWeek(now time.Time) (*StartResult, error) {
	key := weekly.WeekKey(now)

	if existing, err := s.challengeRepo.GetByWeekKey(key); err == nil {
		return &StartResult{WeekKey: key, ChallengeID: existing.ID, AlreadyExists: true}, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing challenge for %s: %w", key, err)
	}

	windows, err := weekly.WindowsFor(key, s.config.UTCOffsetHours)
	if err != nil {
		return nil, fmt.Errorf("failed to compute windows for %s: %w", key, err)
	}

	prompt, err := s.prompts.NextPrompt(key)
	if err != nil || prompt == nil {
		// Внешний бэклог недоступен — подставляем плейсхолдер и продолжаем
		log.Printf("[Lifecycle] Бэклог промптов недоступен для %s (%v), используем плейсхолдер", key, err)
		prompt = &Prompt{
			Title:        s.config.PlaceholderTitle + " " + key,
			OriginalText: s.config.PlaceholderOriginal,
			RulesText:    s.config.PlaceholderRules,
		}
	}

	challenge := &entity.Challenge{
		WeekKey:        key,
		Status:         entity.ChallengeStatusActive,
		Title:          prompt.Title,
		OriginalText:   prompt.OriginalText,
		ContextText:    prompt.ContextText,
		RulesText:      prompt.RulesText,
		StartsAt:       windows.StartsAt,
		EditDeadlineAt: windows.EditDeadlineAt,
		VoteDeadlineAt: windows.VoteDeadlineAt,
		FreezeAt:       windows.FreezeAt,
		RevealAt:       windows.RevealAt,
		EndsAt:         windows.EndsAt,
	}

	if err := s.challengeRepo.Create(challenge); err != nil {
		if errors.Is(err, repository.ErrDuplicateWeek) {
			// Планировщик вызвал start дважды почти одновременно — вторая попытка no-op
			if existing, lookupErr := s.challengeRepo.GetByWeekKey(key); lookupErr == nil {
				return &StartResult{WeekKey: key, ChallengeID: existing.ID, AlreadyExists: true}, nil
			}
			return &StartResult{WeekKey: key, AlreadyExists: true}, nil
		}
		return nil, fmt.Errorf("failed to create challenge for %s: %w", key, err)
	}

	// AI-затравки публикуются сразу при создании и не имеют автора.
	// Сбой сева НЕ валит старт: челлендж остается active с меньшим числом затравок
	// (деградация допустима, автоматический досев не выполняется).
	seeds := make([]entity.Entry, 0, s.config.SeedCount)
	publishedAt := now
	for i := 0; i < s.config.SeedCount; i++ {
		text := s.config.SeedTextAt(i)
		seeds = append(seeds, entity.Entry{
			ChallengeID: challenge.ID,
			Source:      entity.EntrySourceAI,
			Text:        text,
			IsPublished: true,
			PublishedAt: &publishedAt,
		})
	}

	seeded := len(seeds)
	if err := s.entryRepo.CreateBatch(seeds); err != nil {
		log.Printf("[Lifecycle] Сев затравок для %s не удался: %v (челлендж остается active)", key, err)
		seeded = 0
	}

	log.Printf("[Lifecycle] Неделя %s стартовала: challenge #%d, затравок %d", key, challenge.ID, seeded)
	return &StartResult{WeekKey: key, ChallengeID: challenge.ID, SeedCount: seeded}, nil
}

// FreezeWeek переводит челлендж текущей недели active → frozen.
// После заморозки мутации голосов отклоняются чисто по статусу, даже если
// дедлайн голосования формально еще не наступил (перекос планировщика).
func (s *LifecycleService) FreezeWeek(now time.Time) (*FreezeResult, error) {
	key := weekly.WeekKey(now)

	challenge, err := s.challengeRepo.GetByWeekKey(key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &FreezeResult{WeekKey: key, Message: "no challenge for this week"}, nil
		}
		return nil, err
	}

	if err := s.challengeRepo.AdvanceStatus(challenge.ID, entity.ChallengeStatusActive, entity.ChallengeStatusFrozen); err != nil {
		if errors.Is(err, repository.ErrStatusNotAdvanced) {
			return &FreezeResult{WeekKey: key, Message: "challenge is already past active"}, nil
		}
		return nil, err
	}

	log.Printf("[Lifecycle] Неделя %s заморожена (challenge #%d)", key, challenge.ID)
	return &FreezeResult{WeekKey: key, Frozen: true}, nil
}

// RevealWeek фиксирует итоги недели: считает топ-3, пишет снимок Winner
// (upsert — ретрай безопасен) и переводит статус в revealed.
// Неделя без голосов получает снимок с пустыми местами и totalVotes = 0.
func (s *LifecycleService) RevealWeek(now time.Time) (*RevealResult, error) {
	key := weekly.WeekKey(now)

	challenge, err := s.challengeRepo.GetByWeekKey(key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &RevealResult{WeekKey: key, NoOp: true, Message: "no challenge for this week"}, nil
		}
		return nil, err
	}

	// Ретрай после состоявшегося reveal: снимок заморожен и не пересчитывается,
	// письмо уже ушло — возвращаем сохраненные итоги без единой записи
	if challenge.AtOrPast(entity.ChallengeStatusRevealed) {
		result := &RevealResult{
			WeekKey:     key,
			ChallengeID: challenge.ID,
			NoOp:        true,
			Message:     "results were already revealed",
		}
		stored, err := s.winnerRepo.GetByChallengeID(challenge.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return result, nil
			}
			return nil, err
		}
		result.Place1 = stored.Place1EntryID
		result.Place2 = stored.Place2EntryID
		result.Place3 = stored.Place3EntryID
		result.TotalVotes = stored.TotalVotes
		return result, nil
	}

	entries, err := s.entryRepo.GetPublishedByChallengeID(challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for %s: %w", key, err)
	}
	votes, err := s.voteRepo.GetByChallengeID(challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load votes for %s: %w", key, err)
	}

	top := weekly.Rank(entries, votes)
	winner := &entity.Winner{
		ChallengeID: challenge.ID,
		TotalVotes:  weekly.TotalWeight(votes),
	}
	if len(top) > 0 {
		winner.Place1EntryID = &top[0]
	}
	if len(top) > 1 {
		winner.Place2EntryID = &top[1]
	}
	if len(top) > 2 {
		winner.Place3EntryID = &top[2]
	}

	// Снимок пишется ДО смены статуса: читатель, увидевший revealed,
	// гарантированно найдет строку итогов
	if err := s.winnerRepo.Upsert(winner); err != nil {
		return nil, fmt.Errorf("failed to upsert winner for %s: %w", key, err)
	}

	// Статус здесь еще active или frozen; RowsAffected == 0 означает, что
	// конкурирующий ретрай успел перевести его первым — письмо шлет он
	advanced := true
	if err := s.challengeRepo.AdvanceStatus(challenge.ID, challenge.Status, entity.ChallengeStatusRevealed); err != nil {
		if !errors.Is(err, repository.ErrStatusNotAdvanced) {
			return nil, err
		}
		advanced = false
	}

	result := &RevealResult{
		WeekKey:     key,
		ChallengeID: challenge.ID,
		Place1:      winner.Place1EntryID,
		Place2:      winner.Place2EntryID,
		Place3:      winner.Place3EntryID,
		TotalVotes:  winner.TotalVotes,
	}

	if advanced {
		s.notifyWinners(challenge, entries, votes, winner)
		log.Printf("[Lifecycle] Итоги недели %s объявлены: total=%d", key, winner.TotalVotes)
	} else {
		result.Message = "results were already revealed"
	}

	return result, nil
}

// notifyWinners отправляет письмо с итогами. Только best-effort: сбой логируется.
func (s *LifecycleService) notifyWinners(challenge *entity.Challenge, entries []entity.Entry, votes []entity.Vote, winner *entity.Winner) {
	byID := make(map[uint]*entity.Entry, len(entries))
	for i := range entries {
		byID[entries[i].ID] = &entries[i]
	}

	summary := &WinnerSummary{
		WeekKey:    challenge.WeekKey,
		Title:      challenge.Title,
		TotalVotes: winner.TotalVotes,
	}
	for _, placed := range winner.PlacedEntryIDs() {
		entry, ok := byID[placed.EntryID]
		if !ok {
			continue
		}
		place := WinnerPlace{
			Place: placed.Place,
			Text:  entry.Text,
			Votes: weekly.ScoreFor(entry.ID, votes),
		}
		if entry.AuthorInitials != nil {
			place.AuthorInitials = *entry.AuthorInitials
		}
		summary.Places = append(summary.Places, place)
	}

	if err := s.email.SendWeeklyResults(context.Background(), summary); err != nil {
		log.Printf("[Lifecycle] Не удалось отправить итоги %s: %v", challenge.WeekKey, err)
	}
}

// ArchiveWeek архивирует ПРОШЛУЮ неделю: переносит призовые заявки в постоянный
// архив и переводит статус revealed → archived. Статус меняется строго после
// попытки записи всех архивных строк; частичный сбой логируется, но не
// блокирует переход — застрявшая неделя остановила бы все последующие.
func (s *LifecycleService) ArchiveWeek(now time.Time) (*ArchiveResult, error) {
	key := weekly.PreviousWeekKey(now)

	challenge, err := s.challengeRepo.GetByWeekKey(key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &ArchiveResult{WeekKey: key, Message: "no challenge for previous week"}, nil
		}
		return nil, err
	}

	if challenge.IsArchived() {
		return &ArchiveResult{WeekKey: key, Message: "challenge is already archived"}, nil
	}
	if !challenge.IsRevealed() {
		return &ArchiveResult{WeekKey: key, Message: "challenge is not revealed yet"}, nil
	}

	winner, err := s.winnerRepo.GetByChallengeID(challenge.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Итогов нет — архивировать нечего, просто закрываем неделю
			if err := s.advanceToArchived(challenge.ID); err != nil {
				return nil, err
			}
			return &ArchiveResult{WeekKey: key, Archived: true, Message: "no winner row to archive"}, nil
		}
		return nil, err
	}

	inserted, failed := 0, 0
	for _, placed := range winner.PlacedEntryIDs() {
		if err := s.archivePlace(challenge, placed); err != nil {
			log.Printf("[Lifecycle] Архивация места %d недели %s не удалась: %v", placed.Place, key, err)
			failed++
			continue
		}
		inserted++
	}

	if err := s.advanceToArchived(challenge.ID); err != nil {
		return nil, err
	}

	log.Printf("[Lifecycle] Неделя %s заархивирована: строк %d, сбоев %d", key, inserted, failed)
	return &ArchiveResult{WeekKey: key, Archived: true, RowsInserted: inserted, RowsFailed: failed}, nil
}

// archivePlace переносит одно призовое место в архив.
// Дубликат (week_key, place) означает, что строка уже в архиве после
// предыдущей частично прошедшей попытки — это не сбой.
func (s *LifecycleService) archivePlace(challenge *entity.Challenge, placed entity.PlacedEntry) error {
	entry, err := s.entryRepo.GetByID(placed.EntryID)
	if err != nil {
		return fmt.Errorf("failed to load entry #%d: %w", placed.EntryID, err)
	}

	votes, err := s.voteRepo.EntryWeight(placed.EntryID)
	if err != nil {
		return fmt.Errorf("failed to count votes for entry #%d: %w", placed.EntryID, err)
	}

	row := &entity.BestOfEntry{
		WeekKey:        challenge.WeekKey,
		Place:          placed.Place,
		Category:       entity.BestOfCategoryFor(entry.Source),
		EntryText:      entry.Text,
		OriginalText:   challenge.OriginalText,
		ContextText:    challenge.ContextText,
		AuthorInitials: entry.AuthorInitials,
		Source:         entry.Source,
		Votes:          votes,
		WinnerNotes:    entry.WinnerNotes,
	}

	if err := s.bestOfRepo.Create(row); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			log.Printf("[Lifecycle] Место %d недели %s уже в архиве, пропускаем", placed.Place, challenge.WeekKey)
			return nil
		}
		return err
	}
	return nil
}

func (s *LifecycleService) advanceToArchived(challengeID uint) error {
	err := s.challengeRepo.AdvanceStatus(challengeID, entity.ChallengeStatusRevealed, entity.ChallengeStatusArchived)
	if err != nil && !errors.Is(err, repository.ErrStatusNotAdvanced) {
		return err
	}
	return nil
}
