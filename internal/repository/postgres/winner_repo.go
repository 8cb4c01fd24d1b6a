package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/challenge-api/internal/domain/entity"
	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// WinnerRepo реализует repository.WinnerRepository
type WinnerRepo struct {
	db *gorm.DB
}

// NewWinnerRepo создает новый репозиторий итогов недели
func NewWinnerRepo(db *gorm.DB) *WinnerRepo {
	return &WinnerRepo{db: db}
}

// Upsert записывает итоги недели по ключу challenge_id через ON CONFLICT DO UPDATE.
// Ретрай фазы reveal перезаписывает ту же строку — дублей не возникает.
func (r *WinnerRepo) Upsert(winner *entity.Winner) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "challenge_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"place1_entry_id", "place2_entry_id", "place3_entry_id", "total_votes", "updated_at",
		}),
	}).Create(winner).Error
}

// GetByChallengeID возвращает итоги недели для челленджа
func (r *WinnerRepo) GetByChallengeID(challengeID uint) (*entity.Winner, error) {
	var winner entity.Winner
	err := r.db.Where("challenge_id = ?", challengeID).First(&winner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &winner, nil
}
