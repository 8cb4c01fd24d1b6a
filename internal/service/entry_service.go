package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// MaxEntryTextLength — ограничение длины текста заявки
const MaxEntryTextLength = 500

// EntryService предоставляет операции над заявками участников:
// черновик → публикация (односторонний переход) → комментарий победителя.
type EntryService struct {
	challengeRepo repository.ChallengeRepository
	entryRepo     repository.EntryRepository
	winnerRepo    repository.WinnerRepository
}

// NewEntryService создает новый сервис заявок
func NewEntryService(
	challengeRepo repository.ChallengeRepository,
	entryRepo repository.EntryRepository,
	winnerRepo repository.WinnerRepository,
) *EntryService {
	return &EntryService{
		challengeRepo: challengeRepo,
		entryRepo:     entryRepo,
		winnerRepo:    winnerRepo,
	}
}

// CreateDraft создает черновик заявки пользователя в челлендже.
// Одна заявка на участника; до дедлайна редактирования.
func (s *EntryService) CreateDraft(challengeID uint, authorUserID, authorInitials, draftText string, now time.Time) (*entity.Entry, error) {
	draftText = strings.TrimSpace(draftText)
	if draftText == "" || len(draftText) > MaxEntryTextLength {
		return nil, fmt.Errorf("%w: draft text must be 1..%d characters", apperrors.ErrValidation, MaxEntryTextLength)
	}

	challenge, err := s.challengeRepo.GetByID(challengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.EditingOpen(now) {
		return nil, fmt.Errorf("%w: editing window is closed", apperrors.ErrConflict)
	}

	if _, err := s.entryRepo.GetByChallengeAndAuthor(challengeID, authorUserID); err == nil {
		return nil, fmt.Errorf("%w: you already have an entry this week", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	entry := &entity.Entry{
		ChallengeID:  challengeID,
		AuthorUserID: &authorUserID,
		Source:       entity.EntrySourceHuman,
		DraftText:    &draftText,
	}
	if initials := strings.TrimSpace(authorInitials); initials != "" {
		entry.AuthorInitials = &initials
	}

	if err := s.entryRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return entry, nil
}

// UpdateDraft обновляет черновик собственной неопубликованной заявки
func (s *EntryService) UpdateDraft(entryID uint, userID, draftText string, now time.Time) error {
	draftText = strings.TrimSpace(draftText)
	if draftText == "" || len(draftText) > MaxEntryTextLength {
		return fmt.Errorf("%w: draft text must be 1..%d characters", apperrors.ErrValidation, MaxEntryTextLength)
	}

	entry, challenge, err := s.loadOwnedEntry(entryID, userID)
	if err != nil {
		return err
	}
	if entry.IsPublished {
		return fmt.Errorf("%w: entry is already published", repository.ErrAlreadyPublished)
	}
	if !challenge.EditingOpen(now) {
		return fmt.Errorf("%w: editing window is closed", apperrors.ErrConflict)
	}

	return s.entryRepo.UpdateDraft(entryID, draftText)
}

// Publish публикует заявку. Переход односторонний и не зависит от фазы челленджа —
// важен только дедлайн редактирования.
func (s *EntryService) Publish(entryID uint, userID string, now time.Time) (*entity.Entry, error) {
	_, challenge, err := s.loadOwnedEntry(entryID, userID)
	if err != nil {
		return nil, err
	}
	if !now.Before(challenge.EditDeadlineAt) {
		return nil, fmt.Errorf("%w: edit deadline has passed", apperrors.ErrConflict)
	}

	if err := s.entryRepo.Publish(entryID, now); err != nil {
		return nil, err
	}
	return s.entryRepo.GetByID(entryID)
}

// SetWinnerNotes записывает комментарий автора призовой заявки.
// Доступно после объявления итогов и только до конца недели (endsAt).
func (s *EntryService) SetWinnerNotes(entryID uint, userID, notes string, now time.Time) error {
	notes = strings.TrimSpace(notes)
	if notes == "" || len(notes) > MaxEntryTextLength {
		return fmt.Errorf("%w: notes must be 1..%d characters", apperrors.ErrValidation, MaxEntryTextLength)
	}

	entry, challenge, err := s.loadOwnedEntry(entryID, userID)
	if err != nil {
		return err
	}

	if !challenge.AtOrPast(entity.ChallengeStatusRevealed) {
		return fmt.Errorf("%w: results are not revealed yet", apperrors.ErrConflict)
	}
	if !now.Before(challenge.EndsAt) {
		return ErrNotesWindowClosed
	}

	winner, err := s.winnerRepo.GetByChallengeID(challenge.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrNotAWinner
		}
		return err
	}

	isPlaced := false
	for _, placed := range winner.PlacedEntryIDs() {
		if placed.EntryID == entry.ID {
			isPlaced = true
			break
		}
	}
	if !isPlaced {
		return ErrNotAWinner
	}

	return s.entryRepo.UpdateWinnerNotes(entryID, notes)
}

// MyEntry возвращает заявку пользователя в челлендже
func (s *EntryService) MyEntry(challengeID uint, userID string) (*entity.Entry, error) {
	return s.entryRepo.GetByChallengeAndAuthor(challengeID, userID)
}

// loadOwnedEntry загружает заявку и ее челлендж, проверяя владение.
// AI-затравки никому не принадлежат — для них всегда ErrForbidden.
func (s *EntryService) loadOwnedEntry(entryID uint, userID string) (*entity.Entry, *entity.Challenge, error) {
	entry, err := s.entryRepo.GetByID(entryID)
	if err != nil {
		return nil, nil, err
	}
	if !entry.IsOwnedBy(userID) {
		return nil, nil, apperrors.ErrForbidden
	}

	challenge, err := s.challengeRepo.GetByID(entry.ChallengeID)
	if err != nil {
		return nil, nil, err
	}
	return entry, challenge, nil
}
