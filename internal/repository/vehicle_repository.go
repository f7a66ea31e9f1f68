package repository

import (
	"context"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// FindAll returns every vehicle ordered by id. The fleet is small
// enough that the sync engine always pulls the whole collection.
func (r *VehicleRepository) FindAll(ctx context.Context) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := r.db.WithContext(ctx).Order("id").Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// Upsert inserts the vehicle or overwrites it when the id exists, so a
// replayed add after a partial sync does not fail on a duplicate key
func (r *VehicleRepository) Upsert(ctx context.Context, vehicle *domain.Vehicle) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(vehicle).Error
}

func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Vehicle{}, "id = ?", id).Error
}
