package repository

import (
	"github.com/yourusername/challenge-api/internal/domain/entity"
)

// BestOfFilters определяет фильтры для выборки архива
type BestOfFilters struct {
	Category string // Фильтр по категории (weekly, weekly-ai)
	WeekKey  string // Фильтр по конкретной неделе
}

// BestOfRepository определяет методы для работы с архивом "лучшее за неделю".
// Архив append-only: записи создаются фазой archive и не обновляются.
type BestOfRepository interface {
	Create(entry *entity.BestOfEntry) error
	List(filters BestOfFilters, limit, offset int) ([]entity.BestOfEntry, int64, error)
	GetAll() ([]entity.BestOfEntry, error)
	// DeleteByWeekKey удаляет архивные строки недели; только для сброса тестовых данных.
	DeleteByWeekKey(weekKey string) (int64, error)
}
