package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/phuclong-auto/dealer-api/internal/domain"
)

// RemoteStore bundles the postgres repositories behind the surface the
// sync engine drives: connectivity probe, pending-action replay and
// full-collection fetches.
type RemoteStore struct {
	db       *gorm.DB
	vehicles *VehicleRepository
	staff    *StaffRepository
	targets  *KpiTargetRepository
	bonuses  *SupportBonusRepository
}

func NewRemoteStore(db *gorm.DB) *RemoteStore {
	return &RemoteStore{
		db:       db,
		vehicles: NewVehicleRepository(db),
		staff:    NewStaffRepository(db),
		targets:  NewKpiTargetRepository(db),
		bonuses:  NewSupportBonusRepository(db),
	}
}

// Ping probes the remote connection so a sync cycle can bail out early
// when offline
func (s *RemoteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Apply replays one queued mutation. Adds and updates both map to
// upserts, so a replay after a previously interrupted cycle is
// harmless.
func (s *RemoteStore) Apply(ctx context.Context, action domain.PendingSyncAction) error {
	switch action.Type {
	case domain.SyncActionVehicleAdd, domain.SyncActionVehicleUpdate:
		var vehicle domain.Vehicle
		if err := json.Unmarshal([]byte(action.Data), &vehicle); err != nil {
			return fmt.Errorf("decode vehicle payload: %w", err)
		}
		return s.vehicles.Upsert(ctx, &vehicle)

	case domain.SyncActionVehicleDelete:
		var payload domain.DeleteSyncPayload
		if err := json.Unmarshal([]byte(action.Data), &payload); err != nil {
			return fmt.Errorf("decode delete payload: %w", err)
		}
		return s.vehicles.Delete(ctx, payload.ID)

	case domain.SyncActionStaffAdd, domain.SyncActionStaffUpdate:
		var member domain.Staff
		if err := json.Unmarshal([]byte(action.Data), &member); err != nil {
			return fmt.Errorf("decode staff payload: %w", err)
		}
		return s.staff.Upsert(ctx, &member)

	case domain.SyncActionStaffDelete:
		var payload domain.DeleteSyncPayload
		if err := json.Unmarshal([]byte(action.Data), &payload); err != nil {
			return fmt.Errorf("decode delete payload: %w", err)
		}
		return s.staff.Delete(ctx, payload.ID)

	case domain.SyncActionKpiUpdate:
		var payload domain.KpiSyncPayload
		if err := json.Unmarshal([]byte(action.Data), &payload); err != nil {
			return fmt.Errorf("decode kpi payload: %w", err)
		}
		return s.targets.ReplacePeriod(ctx, payload.Month, payload.Year, payload.Targets)

	case domain.SyncActionBonusUpdate:
		var payload domain.BonusSyncPayload
		if err := json.Unmarshal([]byte(action.Data), &payload); err != nil {
			return fmt.Errorf("decode bonus payload: %w", err)
		}
		return s.bonuses.ReplacePeriod(ctx, payload.Month, payload.Year, payload.Bonuses)

	default:
		return fmt.Errorf("unknown sync action type %q", action.Type)
	}
}

func (s *RemoteStore) FetchVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicles.FindAll(ctx)
}

func (s *RemoteStore) FetchStaff(ctx context.Context) ([]domain.Staff, error) {
	return s.staff.FindAll(ctx)
}

func (s *RemoteStore) FetchKpiTargets(ctx context.Context) ([]domain.KpiTarget, error) {
	return s.targets.FindAll(ctx)
}

func (s *RemoteStore) FetchSupportBonuses(ctx context.Context) ([]domain.SupportDepartmentBonus, error) {
	return s.bonuses.FindAll(ctx)
}
