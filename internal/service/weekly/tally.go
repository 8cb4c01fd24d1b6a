package weekly

import (
	"sort"

	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// MaxPlaces — сколько призовых мест фиксируется в итогах недели
const MaxPlaces = 3

// Rank вычисляет топ-3 заявок по сумме весов голосов.
//
// Правила сортировки детерминированы:
//  1. больший суммарный вес выше;
//  2. при равенстве — раньше опубликованная заявка выше;
//  3. при равенстве и этого — меньший ID выше.
//
// Заявки без голосов участвуют с нулевым счетом. Функция чистая, не падает
// на пустом входе и не зависит от порядка заявок/голосов.
func Rank(entries []entity.Entry, votes []entity.Vote) []uint {
	if len(entries) == 0 {
		return []uint{}
	}

	scores := make(map[uint]int, len(entries))
	for _, v := range votes {
		scores[v.EntryID] += v.Weight
	}

	ranked := make([]entity.Entry, len(entries))
	copy(ranked, entries)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if scores[a.ID] != scores[b.ID] {
			return scores[a.ID] > scores[b.ID]
		}
		// Ничья по очкам: побеждает опубликованная раньше.
		// nil PublishedAt (не должно случаться для видимых заявок) уходит вниз.
		switch {
		case a.PublishedAt != nil && b.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
			return a.PublishedAt.Before(*b.PublishedAt)
		case a.PublishedAt != nil && b.PublishedAt == nil:
			return true
		case a.PublishedAt == nil && b.PublishedAt != nil:
			return false
		}
		return a.ID < b.ID
	})

	limit := MaxPlaces
	if len(ranked) < limit {
		limit = len(ranked)
	}

	top := make([]uint, 0, limit)
	for _, e := range ranked[:limit] {
		top = append(top, e.ID)
	}
	return top
}

// TotalWeight возвращает сумму весов всех голосов
func TotalWeight(votes []entity.Vote) int {
	total := 0
	for _, v := range votes {
		total += v.Weight
	}
	return total
}

// ScoreFor возвращает суммарный вес голосов за конкретную заявку
func ScoreFor(entryID uint, votes []entity.Vote) int {
	score := 0
	for _, v := range votes {
		if v.EntryID == entryID {
			score += v.Weight
		}
	}
	return score
}
