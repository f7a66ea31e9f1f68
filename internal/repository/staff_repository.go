package repository

import (
	"context"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) FindAll(ctx context.Context) ([]domain.Staff, error) {
	var staff []domain.Staff
	err := r.db.WithContext(ctx).Order("name").Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	var member domain.Staff
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *StaffRepository) Upsert(ctx context.Context, member *domain.Staff) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(member).Error
}

func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Staff{}, "id = ?", id).Error
}
