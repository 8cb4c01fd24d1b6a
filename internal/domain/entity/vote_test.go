package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidWeight(t *testing.T) {
	assert.True(t, IsValidWeight(0), "ноль снимает голос")
	assert.True(t, IsValidWeight(1))
	assert.True(t, IsValidWeight(MaxWeightPerEntry))
	assert.False(t, IsValidWeight(MaxWeightPerEntry+1))
	assert.False(t, IsValidWeight(-1))
}

func TestVoterTotalAfter_FirstVote(t *testing.T) {
	total := VoterTotalAfter(nil, 10, 2)

	assert.Equal(t, 2, total)
	assert.LessOrEqual(t, total, VoteBudget)
}

func TestVoterTotalAfter_SecondEntryExceedsBudget(t *testing.T) {
	// Вес 2 за заявку 10 уже стоит; вес 2 за заявку 20 дал бы 4 из 3
	votes := []Vote{{EntryID: 10, VoterUserID: "u1", Weight: 2}}

	total := VoterTotalAfter(votes, 20, 2)

	assert.Equal(t, 4, total)
	assert.Greater(t, total, VoteBudget, "второй вес 2 не влезает в бюджет")

	// Вес 1 за вторую заявку в бюджет проходит
	assert.Equal(t, 3, VoterTotalAfter(votes, 20, 1))
}

func TestVoterTotalAfter_RevoteSameEntryReplacesWeight(t *testing.T) {
	votes := []Vote{
		{EntryID: 10, VoterUserID: "u1", Weight: 2},
		{EntryID: 20, VoterUserID: "u1", Weight: 1},
	}

	// Повторный голос за заявку 10 замещает ее прежний вес, не прибавляется к нему
	assert.Equal(t, 3, VoterTotalAfter(votes, 10, 2))
	assert.Equal(t, 2, VoterTotalAfter(votes, 10, 1))
}

func TestVoterTotalAfter_ZeroWeightFreesBudget(t *testing.T) {
	votes := []Vote{
		{EntryID: 10, VoterUserID: "u1", Weight: 2},
		{EntryID: 20, VoterUserID: "u1", Weight: 1},
	}

	assert.Equal(t, 1, VoterTotalAfter(votes, 10, 0), "снятие голоса освобождает его вес")
}
