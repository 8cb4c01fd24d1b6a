package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// BestOfRepo реализует repository.BestOfRepository
type BestOfRepo struct {
	db *gorm.DB
}

// NewBestOfRepo создает новый репозиторий архива "лучшее за неделю"
func NewBestOfRepo(db *gorm.DB) *BestOfRepo {
	return &BestOfRepo{db: db}
}

// Create добавляет одну архивную запись. Пара (week_key, place) уникальна:
// повторная архивация того же места возвращает ErrConflict, а не дубль.
func (r *BestOfRepo) Create(entry *entity.BestOfEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s place %d is already archived", apperrors.ErrConflict, entry.WeekKey, entry.Place)
		}
		return err
	}
	return nil
}

// List возвращает архивные записи с фильтрами, пагинацией и total count.
// Сортировка: свежие недели первыми, внутри недели — по месту.
func (r *BestOfRepo) List(filters repository.BestOfFilters, limit, offset int) ([]entity.BestOfEntry, int64, error) {
	var entries []entity.BestOfEntry
	var total int64

	query := r.db.Model(&entity.BestOfEntry{})

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.WeekKey != "" {
		query = query.Where("week_key = ?", filters.WeekKey)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).
		Order("week_key DESC, place ASC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// GetAll возвращает весь архив без пагинации (используется экспортом в xlsx)
func (r *BestOfRepo) GetAll() ([]entity.BestOfEntry, error) {
	var entries []entity.BestOfEntry
	err := r.db.Order("week_key DESC, place ASC").Find(&entries).Error
	return entries, err
}

// DeleteByWeekKey удаляет архивные строки недели. Только для сброса тестовых данных.
func (r *BestOfRepo) DeleteByWeekKey(weekKey string) (int64, error) {
	result := r.db.Where("week_key = ?", weekKey).Delete(&entity.BestOfEntry{})
	return result.RowsAffected, result.Error
}
