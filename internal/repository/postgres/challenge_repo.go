package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/challenge-api/internal/domain/entity"
	"github.com/yourusername/challenge-api/internal/domain/repository"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// ChallengeRepo реализует repository.ChallengeRepository
type ChallengeRepo struct {
	db *gorm.DB
}

// NewChallengeRepo создает новый репозиторий челленджей
func NewChallengeRepo(db *gorm.DB) *ChallengeRepo {
	return &ChallengeRepo{db: db}
}

// Create создает новый челлендж. Уникальный индекс по week_key гарантирует
// не больше одного челленджа на неделю; нарушение возвращается как ErrDuplicateWeek.
func (r *ChallengeRepo) Create(challenge *entity.Challenge) error {
	if err := r.db.Create(challenge).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", repository.ErrDuplicateWeek, challenge.WeekKey)
		}
		return err
	}
	return nil
}

// GetByID возвращает челлендж по ID
func (r *ChallengeRepo) GetByID(id uint) (*entity.Challenge, error) {
	var challenge entity.Challenge
	err := r.db.First(&challenge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// GetByWeekKey возвращает челлендж недели по ее ключу
func (r *ChallengeRepo) GetByWeekKey(weekKey string) (*entity.Challenge, error) {
	var challenge entity.Challenge
	err := r.db.Where("week_key = ?", weekKey).First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// AdvanceStatus атомарно переводит статус from → to одним условным UPDATE.
// Переход только вперед по жизненному циклу: to не дальше from (в том числе
// from == to) отклоняется как ErrStatusNotAdvanced, иначе UPDATE c from == to
// затронул бы строку и выглядел бы как успешный переход.
// - RowsAffected == 0 → челлендж уже не в статусе from (идемпотентный no-op для вызывающего)
// - Другая DB ошибка → возвращается как есть
func (r *ChallengeRepo) AdvanceStatus(challengeID uint, from, to string) error {
	if entity.ChallengeStatusRank(to) <= entity.ChallengeStatusRank(from) {
		return fmt.Errorf("%w: %s→%s is not a forward transition", repository.ErrStatusNotAdvanced, from, to)
	}

	result := r.db.Model(&entity.Challenge{}).
		Where("id = ? AND status = ?", challengeID, from).
		Update("status", to)

	if result.Error != nil {
		return fmt.Errorf("advance challenge #%d %s→%s failed: %w", challengeID, from, to, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: challenge #%d is not %s", repository.ErrStatusNotAdvanced, challengeID, from)
	}

	return nil
}

// List возвращает список челленджей с пагинацией, свежие первыми
func (r *ChallengeRepo) List(limit, offset int) ([]entity.Challenge, error) {
	var challenges []entity.Challenge
	err := r.db.Limit(limit).Offset(offset).Order("week_key DESC").Find(&challenges).Error
	return challenges, err
}

// Delete удаляет челлендж; заявки, голоса и итоги удаляются каскадом (FK в миграциях)
func (r *ChallengeRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Challenge{}, id).Error
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
