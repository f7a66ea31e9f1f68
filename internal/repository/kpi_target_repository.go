package repository

import (
	"context"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KpiTargetRepository struct {
	db *gorm.DB
}

func NewKpiTargetRepository(db *gorm.DB) *KpiTargetRepository {
	return &KpiTargetRepository{db: db}
}

func (r *KpiTargetRepository) FindAll(ctx context.Context) ([]domain.KpiTarget, error) {
	var targets []domain.KpiTarget
	err := r.db.WithContext(ctx).Order("year, month, target_type, target_id").Find(&targets).Error
	if err != nil {
		return nil, err
	}
	return targets, nil
}

func (r *KpiTargetRepository) Upsert(ctx context.Context, target *domain.KpiTarget) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(target).Error
}

// ReplacePeriod swaps out every target of a month/year for the given
// set. Target maintenance is an all-at-once save from the dashboard, so
// partial updates are never needed.
func (r *KpiTargetRepository) ReplacePeriod(ctx context.Context, month, year int, targets []domain.KpiTarget) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("month = ? AND year = ?", month, year).
			Delete(&domain.KpiTarget{}).Error; err != nil {
			return err
		}
		if len(targets) == 0 {
			return nil
		}
		return tx.Create(&targets).Error
	})
}
