package repository

import (
	"time"

	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// EntryRepository определяет методы для работы с заявками
type EntryRepository interface {
	Create(entry *entity.Entry) error
	CreateBatch(entries []entity.Entry) error
	GetByID(id uint) (*entity.Entry, error)
	GetByChallengeID(challengeID uint) ([]entity.Entry, error)
	GetPublishedByChallengeID(challengeID uint) ([]entity.Entry, error)
	GetByChallengeAndAuthor(challengeID uint, authorUserID string) (*entity.Entry, error)
	CountByChallengeID(challengeID uint) (int64, error)
	// UpdateDraft точечно обновляет черновик неопубликованной заявки
	UpdateDraft(entryID uint, draftText string) error
	// Publish атомарно публикует заявку: переносит черновик в текст, выставляет
	// is_published и published_at. Срабатывает только если заявка еще не опубликована
	// (публикация — одностороний переход); иначе возвращает ErrAlreadyPublished.
	Publish(entryID uint, publishedAt time.Time) error
	// UpdateWinnerNotes записывает комментарий автора призовой заявки
	UpdateWinnerNotes(entryID uint, notes string) error
}
