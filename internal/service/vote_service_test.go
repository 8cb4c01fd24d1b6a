package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func newVoteFixture(t *testing.T) (*VoteService, *MockChallengeRepo, *MockEntryRepo, *MockVoteRepo) {
	t.Helper()
	challengeRepo := new(MockChallengeRepo)
	entryRepo := new(MockEntryRepo)
	voteRepo := new(MockVoteRepo)
	svc := NewVoteService(challengeRepo, entryRepo, voteRepo, nil, nil)
	return svc, challengeRepo, entryRepo, voteRepo
}

func publishedEntry(id, challengeID uint) *entity.Entry {
	return &entity.Entry{
		ID:          id,
		ChallengeID: challengeID,
		Source:      entity.EntrySourceHuman,
		Text:        "текст",
		IsPublished: true,
	}
}

func TestSetVote_Accepted(t *testing.T) {
	svc, challengeRepo, entryRepo, voteRepo := newVoteFixture(t)

	challenge := newTestChallenge(t)
	challengeRepo.On("GetByID", challenge.ID).Return(challenge, nil)
	entryRepo.On("GetByID", uint(10)).Return(publishedEntry(10, challenge.ID), nil)
	voteRepo.On("SetVote", challenge.ID, uint(10), "user-1", 2).Return(&repository.VoteResult{Weight: 2, VoterTotal: 2}, nil)
	voteRepo.On("TotalWeight", challenge.ID).Return(2, nil)

	result, err := svc.SetVote(challenge.ID, 10, "user-1", 2, testNow)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Weight)
	assert.Equal(t, 2, result.VoterTotal)
	voteRepo.AssertExpectations(t)
}

func TestSetVote_BudgetExceeded(t *testing.T) {
	svc, challengeRepo, entryRepo, voteRepo := newVoteFixture(t)

	challenge := newTestChallenge(t)
	challengeRepo.On("GetByID", challenge.ID).Return(challenge, nil)
	entryRepo.On("GetByID", uint(10)).Return(publishedEntry(10, challenge.ID), nil)
	// У участника уже 2 балла на других заявках, еще 2 не влезают в бюджет 3
	voteRepo.On("SetVote", challenge.ID, uint(10), "user-1", 2).Return(nil, apperrors.ErrBudgetExceeded)

	_, err := svc.SetVote(challenge.ID, 10, "user-1", 2, testNow)

	assert.ErrorIs(t, err, apperrors.ErrBudgetExceeded)
}

func TestSetVote_RejectedWhenFrozen(t *testing.T) {
	svc, challengeRepo, _, voteRepo := newVoteFixture(t)

	challenge := newTestChallenge(t)
	challenge.Status = entity.ChallengeStatusFrozen
	challengeRepo.On("GetByID", challenge.ID).Return(challenge, nil)

	// Статус authoritative: дедлайн формально не прошел, но голоса уже закрыты
	_, err := svc.SetVote(challenge.ID, 10, "user-1", 1, challenge.VoteDeadlineAt.Add(-time.Hour))

	assert.ErrorIs(t, err, apperrors.ErrVotingClosed)
	voteRepo.AssertNotCalled(t, "SetVote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetVote_RejectedAfterDeadline(t *testing.T) {
	svc, challengeRepo, _, voteRepo := newVoteFixture(t)

	challenge := newTestChallenge(t)
	challengeRepo.On("GetByID", challenge.ID).Return(challenge, nil)

	_, err := svc.SetVote(challenge.ID, 10, "user-1", 1, challenge.VoteDeadlineAt)

	assert.ErrorIs(t, err, apperrors.ErrVotingClosed)
	voteRepo.AssertNotCalled(t, "SetVote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetVote_InvalidWeight(t *testing.T) {
	svc, challengeRepo, _, _ := newVoteFixture(t)

	_, err := svc.SetVote(7, 10, "user-1", 3, testNow)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	challengeRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestSetVote_EntryFromAnotherChallenge(t *testing.T) {
	svc, challengeRepo, entryRepo, _ := newVoteFixture(t)

	challenge := newTestChallenge(t)
	challengeRepo.On("GetByID", challenge.ID).Return(challenge, nil)
	entryRepo.On("GetByID", uint(10)).Return(publishedEntry(10, challenge.ID+1), nil)

	_, err := svc.SetVote(challenge.ID, 10, "user-1", 1, testNow)

	assert.ErrorIs(t, err, ErrEntryNotInChallenge)
}

func TestSetVote_UnpublishedEntry(t *testing.T) {
	svc, challengeRepo, entryRepo, _ := newVoteFixture(t)

	challenge := newTestChallenge(t)
	entry := publishedEntry(10, challenge.ID)
	entry.IsPublished = false
	challengeRepo.On("GetByID", challenge.ID).Return(challenge, nil)
	entryRepo.On("GetByID", uint(10)).Return(entry, nil)

	_, err := svc.SetVote(challenge.ID, 10, "user-1", 1, testNow)

	assert.ErrorIs(t, err, ErrEntryNotPublished)
}

func TestSetVote_ZeroWeightRemovesVote(t *testing.T) {
	svc, challengeRepo, entryRepo, voteRepo := newVoteFixture(t)

	challenge := newTestChallenge(t)
	challengeRepo.On("GetByID", challenge.ID).Return(challenge, nil)
	entryRepo.On("GetByID", uint(10)).Return(publishedEntry(10, challenge.ID), nil)
	voteRepo.On("SetVote", challenge.ID, uint(10), "user-1", 0).Return(&repository.VoteResult{Weight: 0, VoterTotal: 1}, nil)
	voteRepo.On("TotalWeight", challenge.ID).Return(1, nil)

	result, err := svc.SetVote(challenge.ID, 10, "user-1", 0, testNow)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Weight)
	assert.Equal(t, 1, result.VoterTotal)
}

func TestTotalVotes_CacheMissFallsBackToDB(t *testing.T) {
	challengeRepo := new(MockChallengeRepo)
	entryRepo := new(MockEntryRepo)
	voteRepo := new(MockVoteRepo)
	cacheRepo := new(MockCacheRepo)
	svc := NewVoteService(challengeRepo, entryRepo, voteRepo, cacheRepo, nil)

	cacheRepo.On("Get", "challenge:7:total_votes").Return("", apperrors.ErrNotFound)
	voteRepo.On("TotalWeight", uint(7)).Return(5, nil)
	cacheRepo.On("Set", "challenge:7:total_votes", 5, totalVotesCacheTTL).Return(nil)

	total, err := svc.TotalVotes(7)

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	cacheRepo.AssertExpectations(t)
}

func TestTotalVotes_CacheHitSkipsDB(t *testing.T) {
	challengeRepo := new(MockChallengeRepo)
	entryRepo := new(MockEntryRepo)
	voteRepo := new(MockVoteRepo)
	cacheRepo := new(MockCacheRepo)
	svc := NewVoteService(challengeRepo, entryRepo, voteRepo, cacheRepo, nil)

	cacheRepo.On("Get", "challenge:7:total_votes").Return("5", nil)

	total, err := svc.TotalVotes(7)

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	voteRepo.AssertNotCalled(t, "TotalWeight", mock.Anything)
}

func TestEntryScores_SumsWeightsPerEntry(t *testing.T) {
	svc, _, _, voteRepo := newVoteFixture(t)

	voteRepo.On("GetByChallengeID", uint(7)).Return([]entity.Vote{
		{EntryID: 1, Weight: 2},
		{EntryID: 1, Weight: 1},
		{EntryID: 2, Weight: 2},
	}, nil)

	scores, err := svc.EntryScores(7)

	require.NoError(t, err)
	assert.Equal(t, 3, scores[1])
	assert.Equal(t, 2, scores[2])
}
