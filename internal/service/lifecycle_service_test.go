package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
	"github.com/yourusername/challenge-api/internal/service/weekly"
)

// ============================================================================
// Моки репозиториев. Общие для всех тестов пакета service.
// ============================================================================

// MockChallengeRepo реализует repository.ChallengeRepository
type MockChallengeRepo struct {
	mock.Mock
}

func (m *MockChallengeRepo) Create(challenge *entity.Challenge) error {
	args := m.Called(challenge)
	return args.Error(0)
}

func (m *MockChallengeRepo) GetByID(id uint) (*entity.Challenge, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepo) GetByWeekKey(weekKey string) (*entity.Challenge, error) {
	args := m.Called(weekKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepo) AdvanceStatus(challengeID uint, from, to string) error {
	args := m.Called(challengeID, from, to)
	return args.Error(0)
}

func (m *MockChallengeRepo) List(limit, offset int) ([]entity.Challenge, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockEntryRepo реализует repository.EntryRepository
type MockEntryRepo struct {
	mock.Mock
}

func (m *MockEntryRepo) Create(entry *entity.Entry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockEntryRepo) CreateBatch(entries []entity.Entry) error {
	args := m.Called(entries)
	return args.Error(0)
}

func (m *MockEntryRepo) GetByID(id uint) (*entity.Entry, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Entry), args.Error(1)
}

func (m *MockEntryRepo) GetByChallengeID(challengeID uint) ([]entity.Entry, error) {
	args := m.Called(challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Entry), args.Error(1)
}

func (m *MockEntryRepo) GetPublishedByChallengeID(challengeID uint) ([]entity.Entry, error) {
	args := m.Called(challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Entry), args.Error(1)
}

func (m *MockEntryRepo) GetByChallengeAndAuthor(challengeID uint, authorUserID string) (*entity.Entry, error) {
	args := m.Called(challengeID, authorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Entry), args.Error(1)
}

func (m *MockEntryRepo) CountByChallengeID(challengeID uint) (int64, error) {
	args := m.Called(challengeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepo) UpdateDraft(entryID uint, draftText string) error {
	args := m.Called(entryID, draftText)
	return args.Error(0)
}

func (m *MockEntryRepo) Publish(entryID uint, publishedAt time.Time) error {
	args := m.Called(entryID, publishedAt)
	return args.Error(0)
}

func (m *MockEntryRepo) UpdateWinnerNotes(entryID uint, notes string) error {
	args := m.Called(entryID, notes)
	return args.Error(0)
}

// MockVoteRepo реализует repository.VoteRepository
type MockVoteRepo struct {
	mock.Mock
}

func (m *MockVoteRepo) SetVote(challengeID, entryID uint, voterUserID string, weight int) (*repository.VoteResult, error) {
	args := m.Called(challengeID, entryID, voterUserID, weight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.VoteResult), args.Error(1)
}

func (m *MockVoteRepo) GetByChallengeID(challengeID uint) ([]entity.Vote, error) {
	args := m.Called(challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Vote), args.Error(1)
}

func (m *MockVoteRepo) GetVoterVotes(challengeID uint, voterUserID string) ([]entity.Vote, error) {
	args := m.Called(challengeID, voterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Vote), args.Error(1)
}

func (m *MockVoteRepo) TotalWeight(challengeID uint) (int, error) {
	args := m.Called(challengeID)
	return args.Int(0), args.Error(1)
}

func (m *MockVoteRepo) EntryWeight(entryID uint) (int, error) {
	args := m.Called(entryID)
	return args.Int(0), args.Error(1)
}

// MockWinnerRepo реализует repository.WinnerRepository
type MockWinnerRepo struct {
	mock.Mock
}

func (m *MockWinnerRepo) Upsert(winner *entity.Winner) error {
	args := m.Called(winner)
	return args.Error(0)
}

func (m *MockWinnerRepo) GetByChallengeID(challengeID uint) (*entity.Winner, error) {
	args := m.Called(challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Winner), args.Error(1)
}

// MockBestOfRepo реализует repository.BestOfRepository
type MockBestOfRepo struct {
	mock.Mock
}

func (m *MockBestOfRepo) Create(entry *entity.BestOfEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockBestOfRepo) List(filters repository.BestOfFilters, limit, offset int) ([]entity.BestOfEntry, int64, error) {
	args := m.Called(filters, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.BestOfEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockBestOfRepo) GetAll() ([]entity.BestOfEntry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.BestOfEntry), args.Error(1)
}

func (m *MockBestOfRepo) DeleteByWeekKey(weekKey string) (int64, error) {
	args := m.Called(weekKey)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWeeklyResults(ctx context.Context, summary *WinnerSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

// ============================================================================
// Тестовые фикстуры
// ============================================================================

// testNow — понедельник 2026-02-16 12:00 UTC, неделя 2026-W08
var testNow = time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)

const testWeekKey = "2026-W08"

func uintPtr(v uint) *uint           { return &v }
func strPtr(v string) *string        { return &v }
func timePtr(v time.Time) *time.Time { return &v }

// newTestChallenge создает active-челлендж недели testWeekKey с реальными окнами
func newTestChallenge(t *testing.T) *entity.Challenge {
	t.Helper()
	windows, err := weekly.WindowsFor(testWeekKey, weekly.DefaultUTCOffsetHours)
	require.NoError(t, err)
	return &entity.Challenge{
		ID:             7,
		WeekKey:        testWeekKey,
		Status:         entity.ChallengeStatusActive,
		Title:          "Челлендж недели " + testWeekKey,
		OriginalText:   "Слоган недели",
		StartsAt:       windows.StartsAt,
		EditDeadlineAt: windows.EditDeadlineAt,
		VoteDeadlineAt: windows.VoteDeadlineAt,
		FreezeAt:       windows.FreezeAt,
		RevealAt:       windows.RevealAt,
		EndsAt:         windows.EndsAt,
	}
}

func newLifecycleFixture() (*LifecycleService, *MockChallengeRepo, *MockEntryRepo, *MockVoteRepo, *MockWinnerRepo, *MockBestOfRepo, *MockEmailService) {
	challengeRepo := new(MockChallengeRepo)
	entryRepo := new(MockEntryRepo)
	voteRepo := new(MockVoteRepo)
	winnerRepo := new(MockWinnerRepo)
	bestOfRepo := new(MockBestOfRepo)
	email := new(MockEmailService)

	cfg := weekly.DefaultConfig()
	svc := NewLifecycleService(
		challengeRepo, entryRepo, voteRepo, winnerRepo, bestOfRepo,
		NewStaticPromptProvider(cfg), email, cfg,
	)
	return svc, challengeRepo, entryRepo, voteRepo, winnerRepo, bestOfRepo, email
}

// ============================================================================
// StartWeek
// ============================================================================

func TestStartWeek_CreatesChallengeWithSeeds(t *testing.T) {
	svc, challengeRepo, entryRepo, _, _, _, _ := newLifecycleFixture()

	challengeRepo.On("GetByWeekKey", testWeekKey).Return(nil, apperrors.ErrNotFound)
	challengeRepo.On("Create", mock.AnythingOfType("*entity.Challenge")).Run(func(args mock.Arguments) {
		c := args.Get(0).(*entity.Challenge)
		c.ID = 7

		// Окна вычислены из ключа недели, не из момента вызова
		assert.Equal(t, time.Date(2026, 2, 16, 9, 0, 0, 0, time.UTC), c.StartsAt)
		assert.Equal(t, time.Date(2026, 2, 23, 9, 0, 0, 0, time.UTC), c.EndsAt)
		assert.Equal(t, entity.ChallengeStatusActive, c.Status)
	}).Return(nil)
	entryRepo.On("CreateBatch", mock.AnythingOfType("[]entity.Entry")).Run(func(args mock.Arguments) {
		seeds := args.Get(0).([]entity.Entry)
		require.Len(t, seeds, weekly.DefaultSeedCount)
		for _, seed := range seeds {
			assert.Equal(t, entity.EntrySourceAI, seed.Source)
			assert.True(t, seed.IsPublished, "затравки публикуются сразу")
			assert.Nil(t, seed.AuthorUserID, "затравки не имеют автора")
		}
	}).Return(nil)

	result, err := svc.StartWeek(testNow)

	require.NoError(t, err)
	assert.Equal(t, testWeekKey, result.WeekKey)
	assert.Equal(t, uint(7), result.ChallengeID)
	assert.Equal(t, weekly.DefaultSeedCount, result.SeedCount)
	assert.False(t, result.AlreadyExists)
	challengeRepo.AssertExpectations(t)
	entryRepo.AssertExpectations(t)
}

func TestStartWeek_SecondCallIsNoOp(t *testing.T) {
	svc, challengeRepo, entryRepo, _, _, _, _ := newLifecycleFixture()

	existing := newTestChallenge(t)
	challengeRepo.On("GetByWeekKey", testWeekKey).Return(existing, nil)

	result, err := svc.StartWeek(testNow)

	require.NoError(t, err)
	assert.True(t, result.AlreadyExists)
	assert.Equal(t, existing.ID, result.ChallengeID)
	challengeRepo.AssertNotCalled(t, "Create", mock.Anything)
	entryRepo.AssertNotCalled(t, "CreateBatch", mock.Anything)
}

func TestStartWeek_DuplicateRaceResolvesToNoOp(t *testing.T) {
	svc, challengeRepo, _, _, _, _, _ := newLifecycleFixture()

	existing := newTestChallenge(t)
	// Первый lookup не видит челленджа, Create ловит гонку по unique(week_key)
	challengeRepo.On("GetByWeekKey", testWeekKey).Return(nil, apperrors.ErrNotFound).Once()
	challengeRepo.On("Create", mock.AnythingOfType("*entity.Challenge")).Return(repository.ErrDuplicateWeek)
	challengeRepo.On("GetByWeekKey", testWeekKey).Return(existing, nil).Once()

	result, err := svc.StartWeek(testNow)

	require.NoError(t, err)
	assert.True(t, result.AlreadyExists)
	assert.Equal(t, existing.ID, result.ChallengeID)
}

func TestStartWeek_SeedFailureKeepsChallengeActive(t *testing.T) {
	svc, challengeRepo, entryRepo, _, _, _, _ := newLifecycleFixture()

	challengeRepo.On("GetByWeekKey", testWeekKey).Return(nil, apperrors.ErrNotFound)
	challengeRepo.On("Create", mock.AnythingOfType("*entity.Challenge")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.Challenge).ID = 7
	}).Return(nil)
	entryRepo.On("CreateBatch", mock.Anything).Return(errors.New("db down"))

	result, err := svc.StartWeek(testNow)

	require.NoError(t, err, "сбой сева не валит старт недели")
	assert.Equal(t, 0, result.SeedCount)
	assert.Equal(t, uint(7), result.ChallengeID)
}

// ============================================================================
// FreezeWeek
// ============================================================================

func TestFreezeWeek_AdvancesActiveToFrozen(t *testing.T) {
	svc, challengeRepo, _, _, _, _, _ := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)
	challengeRepo.On("AdvanceStatus", challenge.ID, entity.ChallengeStatusActive, entity.ChallengeStatusFrozen).Return(nil)

	result, err := svc.FreezeWeek(testNow)

	require.NoError(t, err)
	assert.True(t, result.Frozen)
	challengeRepo.AssertExpectations(t)
}

func TestFreezeWeek_SecondCallIsNoOp(t *testing.T) {
	svc, challengeRepo, _, _, _, _, _ := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusFrozen
	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)
	challengeRepo.On("AdvanceStatus", challenge.ID, entity.ChallengeStatusActive, entity.ChallengeStatusFrozen).Return(repository.ErrStatusNotAdvanced)

	result, err := svc.FreezeWeek(testNow)

	require.NoError(t, err, "повторный freeze не считается сбоем")
	assert.False(t, result.Frozen)
	assert.NotEmpty(t, result.Message)
}

func TestFreezeWeek_MissingChallengeIsNoOp(t *testing.T) {
	svc, challengeRepo, _, _, _, _, _ := newLifecycleFixture()

	challengeRepo.On("GetByWeekKey", testWeekKey).Return(nil, apperrors.ErrNotFound)

	result, err := svc.FreezeWeek(testNow)

	require.NoError(t, err)
	assert.False(t, result.Frozen)
}

// ============================================================================
// RevealWeek
// ============================================================================

func TestRevealWeek_WritesWinnerSnapshotAndAdvances(t *testing.T) {
	svc, challengeRepo, entryRepo, voteRepo, winnerRepo, _, email := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusFrozen

	published := timePtr(testNow)
	entries := []entity.Entry{
		{ID: 1, ChallengeID: 7, Source: entity.EntrySourceHuman, Text: "первая", IsPublished: true, PublishedAt: published, AuthorInitials: strPtr("АБ")},
		{ID: 2, ChallengeID: 7, Source: entity.EntrySourceHuman, Text: "вторая", IsPublished: true, PublishedAt: published},
		{ID: 3, ChallengeID: 7, Source: entity.EntrySourceAI, Text: "затравка", IsPublished: true, PublishedAt: published},
	}
	votes := []entity.Vote{
		{EntryID: 2, VoterUserID: "u1", Weight: 2},
		{EntryID: 2, VoterUserID: "u2", Weight: 2},
		{EntryID: 1, VoterUserID: "u1", Weight: 1},
		{EntryID: 3, VoterUserID: "u2", Weight: 1},
	}

	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)
	entryRepo.On("GetPublishedByChallengeID", challenge.ID).Return(entries, nil)
	voteRepo.On("GetByChallengeID", challenge.ID).Return(votes, nil)
	winnerRepo.On("Upsert", mock.AnythingOfType("*entity.Winner")).Run(func(args mock.Arguments) {
		w := args.Get(0).(*entity.Winner)
		require.NotNil(t, w.Place1EntryID)
		assert.Equal(t, uint(2), *w.Place1EntryID, "4 балла")
		assert.Equal(t, 6, w.TotalVotes)
	}).Return(nil)
	challengeRepo.On("AdvanceStatus", challenge.ID, entity.ChallengeStatusFrozen, entity.ChallengeStatusRevealed).Return(nil)
	email.On("SendWeeklyResults", mock.Anything, mock.AnythingOfType("*service.WinnerSummary")).Return(nil)

	result, err := svc.RevealWeek(testNow)

	require.NoError(t, err)
	require.NotNil(t, result.Place1)
	assert.Equal(t, uint(2), *result.Place1)
	assert.Equal(t, 6, result.TotalVotes)
	assert.False(t, result.NoOp)
	winnerRepo.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestRevealWeek_ZeroVotesStillWritesSnapshot(t *testing.T) {
	svc, challengeRepo, entryRepo, voteRepo, winnerRepo, _, email := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusFrozen

	earlier := timePtr(testNow.Add(-time.Hour))
	later := timePtr(testNow)
	entries := []entity.Entry{
		{ID: 5, ChallengeID: 7, Text: "поздняя", IsPublished: true, PublishedAt: later},
		{ID: 4, ChallengeID: 7, Text: "ранняя", IsPublished: true, PublishedAt: earlier},
	}

	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)
	entryRepo.On("GetPublishedByChallengeID", challenge.ID).Return(entries, nil)
	voteRepo.On("GetByChallengeID", challenge.ID).Return([]entity.Vote{}, nil)
	winnerRepo.On("Upsert", mock.AnythingOfType("*entity.Winner")).Run(func(args mock.Arguments) {
		w := args.Get(0).(*entity.Winner)
		assert.Equal(t, 0, w.TotalVotes)
		// При нулевых голосах места решает время публикации
		require.NotNil(t, w.Place1EntryID)
		assert.Equal(t, uint(4), *w.Place1EntryID)
		require.NotNil(t, w.Place2EntryID)
		assert.Equal(t, uint(5), *w.Place2EntryID)
		assert.Nil(t, w.Place3EntryID)
	}).Return(nil)
	challengeRepo.On("AdvanceStatus", challenge.ID, entity.ChallengeStatusFrozen, entity.ChallengeStatusRevealed).Return(nil)
	email.On("SendWeeklyResults", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.RevealWeek(testNow)

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalVotes)
	winnerRepo.AssertExpectations(t)
}

func TestRevealWeek_SecondCallDoesNotResendEmail(t *testing.T) {
	svc, challengeRepo, entryRepo, _, winnerRepo, _, email := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusRevealed

	stored := &entity.Winner{ChallengeID: challenge.ID, Place1EntryID: uintPtr(2), TotalVotes: 6}
	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)
	winnerRepo.On("GetByChallengeID", challenge.ID).Return(stored, nil)

	result, err := svc.RevealWeek(testNow)

	require.NoError(t, err, "повторный reveal — no-op, не сбой")
	assert.True(t, result.NoOp)
	assert.Equal(t, "results were already revealed", result.Message)
	require.NotNil(t, result.Place1)
	assert.Equal(t, uint(2), *result.Place1)
	assert.Equal(t, 6, result.TotalVotes)
	// Ретрай ничего не пишет: снимок не перезаписывается, статус не трогается
	entryRepo.AssertNotCalled(t, "GetPublishedByChallengeID", mock.Anything)
	winnerRepo.AssertNotCalled(t, "Upsert", mock.Anything)
	challengeRepo.AssertNotCalled(t, "AdvanceStatus", mock.Anything, mock.Anything, mock.Anything)
	email.AssertNotCalled(t, "SendWeeklyResults", mock.Anything, mock.Anything)
}

func TestRevealWeek_LostStatusRaceDoesNotSendEmail(t *testing.T) {
	svc, challengeRepo, entryRepo, voteRepo, winnerRepo, _, email := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusFrozen

	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)
	entryRepo.On("GetPublishedByChallengeID", challenge.ID).Return([]entity.Entry{}, nil)
	voteRepo.On("GetByChallengeID", challenge.ID).Return([]entity.Vote{}, nil)
	winnerRepo.On("Upsert", mock.Anything).Return(nil)
	// Конкурирующий reveal перевел статус между чтением и UPDATE
	challengeRepo.On("AdvanceStatus", challenge.ID, entity.ChallengeStatusFrozen, entity.ChallengeStatusRevealed).Return(repository.ErrStatusNotAdvanced)

	result, err := svc.RevealWeek(testNow)

	require.NoError(t, err, "проигранная гонка статуса — не сбой")
	assert.NotEmpty(t, result.Message)
	email.AssertNotCalled(t, "SendWeeklyResults", mock.Anything, mock.Anything)
}

// ============================================================================
// ArchiveWeek
// ============================================================================

// archiveNow — момент в следующей неделе: archive работает с ПРОШЛОЙ неделей
var archiveNow = testNow.AddDate(0, 0, 7)

func TestArchiveWeek_MovesWinnersToArchive(t *testing.T) {
	svc, challengeRepo, entryRepo, voteRepo, winnerRepo, bestOfRepo, _ := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusRevealed

	winner := &entity.Winner{
		ChallengeID:   challenge.ID,
		Place1EntryID: uintPtr(2),
		Place2EntryID: uintPtr(3),
		TotalVotes:    6,
	}

	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)
	winnerRepo.On("GetByChallengeID", challenge.ID).Return(winner, nil)
	entryRepo.On("GetByID", uint(2)).Return(&entity.Entry{ID: 2, Source: entity.EntrySourceHuman, Text: "первая", AuthorInitials: strPtr("АБ")}, nil)
	entryRepo.On("GetByID", uint(3)).Return(&entity.Entry{ID: 3, Source: entity.EntrySourceAI, Text: "затравка"}, nil)
	voteRepo.On("EntryWeight", uint(2)).Return(4, nil)
	voteRepo.On("EntryWeight", uint(3)).Return(2, nil)
	bestOfRepo.On("Create", mock.AnythingOfType("*entity.BestOfEntry")).Run(func(args mock.Arguments) {
		row := args.Get(0).(*entity.BestOfEntry)
		assert.Equal(t, testWeekKey, row.WeekKey)
		if row.Source == entity.EntrySourceAI {
			assert.Equal(t, entity.BestOfCategoryWeeklyAI, row.Category)
		} else {
			assert.Equal(t, entity.BestOfCategoryWeekly, row.Category)
		}
	}).Return(nil).Twice()
	challengeRepo.On("AdvanceStatus", challenge.ID, entity.ChallengeStatusRevealed, entity.ChallengeStatusArchived).Return(nil)

	result, err := svc.ArchiveWeek(archiveNow)

	require.NoError(t, err)
	assert.True(t, result.Archived)
	assert.Equal(t, 2, result.RowsInserted)
	assert.Equal(t, 0, result.RowsFailed)
	bestOfRepo.AssertExpectations(t)
	challengeRepo.AssertExpectations(t)
}

func TestArchiveWeek_NotRevealedIsNoOp(t *testing.T) {
	svc, challengeRepo, _, _, _, bestOfRepo, _ := newLifecycleFixture()

	challenge := newTestChallenge(t)
	// Неделя так и не дошла до reveal — архивировать нечего
	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)

	result, err := svc.ArchiveWeek(archiveNow)

	require.NoError(t, err)
	assert.False(t, result.Archived)
	bestOfRepo.AssertNotCalled(t, "Create", mock.Anything)
	challengeRepo.AssertNotCalled(t, "AdvanceStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchiveWeek_SecondCallIsNoOp(t *testing.T) {
	svc, challengeRepo, _, _, _, bestOfRepo, _ := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusArchived
	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)

	result, err := svc.ArchiveWeek(archiveNow)

	require.NoError(t, err)
	assert.False(t, result.Archived)
	bestOfRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestArchiveWeek_DuplicateRowsTolerated(t *testing.T) {
	svc, challengeRepo, entryRepo, voteRepo, winnerRepo, bestOfRepo, _ := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusRevealed

	winner := &entity.Winner{ChallengeID: challenge.ID, Place1EntryID: uintPtr(2), TotalVotes: 4}

	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)
	winnerRepo.On("GetByChallengeID", challenge.ID).Return(winner, nil)
	entryRepo.On("GetByID", uint(2)).Return(&entity.Entry{ID: 2, Source: entity.EntrySourceHuman, Text: "первая"}, nil)
	voteRepo.On("EntryWeight", uint(2)).Return(4, nil)
	// Строка уже в архиве после частично прошедшей предыдущей попытки
	bestOfRepo.On("Create", mock.Anything).Return(apperrors.ErrConflict)
	challengeRepo.On("AdvanceStatus", challenge.ID, entity.ChallengeStatusRevealed, entity.ChallengeStatusArchived).Return(nil)

	result, err := svc.ArchiveWeek(archiveNow)

	require.NoError(t, err)
	assert.True(t, result.Archived)
	assert.Equal(t, 1, result.RowsInserted)
	assert.Equal(t, 0, result.RowsFailed)
}

func TestArchiveWeek_MissingWinnerStillArchives(t *testing.T) {
	svc, challengeRepo, _, _, winnerRepo, bestOfRepo, _ := newLifecycleFixture()

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusRevealed

	challengeRepo.On("GetByWeekKey", testWeekKey).Return(challenge, nil)
	winnerRepo.On("GetByChallengeID", challenge.ID).Return(nil, apperrors.ErrNotFound)
	challengeRepo.On("AdvanceStatus", challenge.ID, entity.ChallengeStatusRevealed, entity.ChallengeStatusArchived).Return(nil)

	result, err := svc.ArchiveWeek(archiveNow)

	require.NoError(t, err)
	assert.True(t, result.Archived)
	assert.Equal(t, 0, result.RowsInserted)
	bestOfRepo.AssertNotCalled(t, "Create", mock.Anything)
}
