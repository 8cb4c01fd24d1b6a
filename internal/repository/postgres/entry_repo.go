package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// EntryRepo реализует repository.EntryRepository
type EntryRepo struct {
	db *gorm.DB
}

// NewEntryRepo создает новый репозиторий заявок
func NewEntryRepo(db *gorm.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// Create создает новую заявку
func (r *EntryRepo) Create(entry *entity.Entry) error {
	return r.db.Create(entry).Error
}

// CreateBatch создает пачку заявок (AI-затравки при старте недели)
func (r *EntryRepo) CreateBatch(entries []entity.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.Create(&entries).Error
}

// GetByID возвращает заявку по ID
func (r *EntryRepo) GetByID(id uint) (*entity.Entry, error) {
	var entry entity.Entry
	err := r.db.First(&entry, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// GetByChallengeID возвращает все заявки челленджа
func (r *EntryRepo) GetByChallengeID(challengeID uint) ([]entity.Entry, error) {
	var entries []entity.Entry
	err := r.db.Where("challenge_id = ?", challengeID).
		Order("id").
		Find(&entries).Error
	return entries, err
}

// GetPublishedByChallengeID возвращает опубликованные (видимые) заявки челленджа
func (r *EntryRepo) GetPublishedByChallengeID(challengeID uint) ([]entity.Entry, error) {
	var entries []entity.Entry
	err := r.db.Where("challenge_id = ? AND is_published = true", challengeID).
		Order("published_at, id").
		Find(&entries).Error
	return entries, err
}

// GetByChallengeAndAuthor возвращает заявку пользователя в челлендже
func (r *EntryRepo) GetByChallengeAndAuthor(challengeID uint, authorUserID string) (*entity.Entry, error) {
	var entry entity.Entry
	err := r.db.Where("challenge_id = ? AND author_user_id = ?", challengeID, authorUserID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// CountByChallengeID возвращает количество заявок челленджа
func (r *EntryRepo) CountByChallengeID(challengeID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Entry{}).Where("challenge_id = ?", challengeID).Count(&count).Error
	return count, err
}

// UpdateDraft точечно обновляет черновик еще не опубликованной заявки
func (r *EntryRepo) UpdateDraft(entryID uint, draftText string) error {
	result := r.db.Model(&entity.Entry{}).
		Where("id = ? AND is_published = false", entryID).
		Update("draft_text", draftText)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: entry #%d", repository.ErrAlreadyPublished, entryID)
	}
	return nil
}

// Publish атомарно публикует заявку одним условным UPDATE:
// текст берется из черновика, is_published выставляется ровно один раз.
// Пустой черновик отсекается условием в WHERE, а не предварительным чтением.
func (r *EntryRepo) Publish(entryID uint, publishedAt time.Time) error {
	result := r.db.Model(&entity.Entry{}).
		Where("id = ? AND is_published = false AND draft_text IS NOT NULL AND draft_text <> ''", entryID).
		Updates(map[string]interface{}{
			"text":         gorm.Expr("draft_text"),
			"is_published": true,
			"published_at": publishedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// Различаем "уже опубликована" и "пустой черновик" для точного сообщения клиенту
		var entry entity.Entry
		if err := r.db.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		if entry.IsPublished {
			return fmt.Errorf("%w: entry #%d", repository.ErrAlreadyPublished, entryID)
		}
		return fmt.Errorf("%w: entry #%d", repository.ErrEmptyDraft, entryID)
	}

	return nil
}

// UpdateWinnerNotes записывает комментарий автора призовой заявки
func (r *EntryRepo) UpdateWinnerNotes(entryID uint, notes string) error {
	return r.db.Model(&entity.Entry{}).
		Where("id = ?", entryID).
		Update("winner_notes", notes).
		Error
}
