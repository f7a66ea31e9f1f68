package repository

import (
	"context"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SupportBonusRepository struct {
	db *gorm.DB
}

func NewSupportBonusRepository(db *gorm.DB) *SupportBonusRepository {
	return &SupportBonusRepository{db: db}
}

func (r *SupportBonusRepository) FindAll(ctx context.Context) ([]domain.SupportDepartmentBonus, error) {
	var bonuses []domain.SupportDepartmentBonus
	err := r.db.WithContext(ctx).Order("year, month, team").Find(&bonuses).Error
	if err != nil {
		return nil, err
	}
	return bonuses, nil
}

func (r *SupportBonusRepository) Upsert(ctx context.Context, bonus *domain.SupportDepartmentBonus) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(bonus).Error
}

// ReplacePeriod swaps out every support bonus of a month/year for the
// given set
func (r *SupportBonusRepository) ReplacePeriod(ctx context.Context, month, year int, bonuses []domain.SupportDepartmentBonus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("month = ? AND year = ?", month, year).
			Delete(&domain.SupportDepartmentBonus{}).Error; err != nil {
			return err
		}
		if len(bonuses) == 0 {
			return nil
		}
		return tx.Create(&bonuses).Error
	})
}
