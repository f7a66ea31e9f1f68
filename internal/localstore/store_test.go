package localstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/sync"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "dealer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLoadEmptyStore(t *testing.T) {
	store := newTestStore(t)

	state, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, state.Vehicles)
	assert.Empty(t, state.Staff)
	assert.Empty(t, state.KpiTargets)
	assert.Empty(t, state.SupportBonuses)
}

func TestSaveAllRoundTrip(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	state := sync.State{
		Vehicles: []domain.Vehicle{{
			ID:            "1503_001",
			Model:         "Toyota Vios 2020",
			Status:        domain.VehicleStatusInStock,
			PurchasePrice: 300_000_000,
			SalePrice:     350_000_000,
			ImportDate:    now,
			Costs: domain.CostList{
				{ID: "c1", Description: "Detailing", Amount: 2_000_000, Date: now},
			},
			CreatedAt: now,
			UpdatedAt: now,
		}},
		Staff: []domain.Staff{{
			ID:             "staff-1",
			Name:           "Nguyen Van A",
			Team:           domain.TeamSales1,
			Status:         domain.StaffStatusActive,
			JoinDate:       now,
			CommissionRate: 1.5,
			CreatedAt:      now,
			UpdatedAt:      now,
		}},
		KpiTargets: []domain.KpiTarget{{
			ID:          "kpi-1",
			TargetType:  domain.TargetTypeIndividual,
			TargetID:    "staff-1",
			Month:       3,
			Year:        2026,
			TargetValue: 10,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}},
		SupportBonuses: []domain.SupportDepartmentBonus{{
			ID:          "sb-1",
			Team:        domain.TeamAccounting,
			Month:       3,
			Year:        2026,
			BonusAmount: 5_000_000,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}},
	}

	require.NoError(t, store.SaveAll(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Vehicles, 1)
	assert.Equal(t, "1503_001", loaded.Vehicles[0].ID)
	require.Len(t, loaded.Vehicles[0].Costs, 1)
	assert.Equal(t, 2_000_000.0, loaded.Vehicles[0].Costs[0].Amount)
	require.Len(t, loaded.Staff, 1)
	assert.Equal(t, domain.TeamSales1, loaded.Staff[0].Team)
	require.Len(t, loaded.KpiTargets, 1)
	require.Len(t, loaded.SupportBonuses, 1)
}

func TestSaveVehiclesReplacesCollection(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()

	first := []domain.Vehicle{
		{ID: "1503_001", Model: "Vios", Status: domain.VehicleStatusInStock, ImportDate: now},
		{ID: "1503_002", Model: "City", Status: domain.VehicleStatusInStock, ImportDate: now},
	}
	require.NoError(t, store.SaveVehicles(first))

	second := []domain.Vehicle{
		{ID: "1603_001", Model: "CX-5", Status: domain.VehicleStatusInStock, ImportDate: now},
	}
	require.NoError(t, store.SaveVehicles(second))

	state, err := store.Load()
	require.NoError(t, err)
	require.Len(t, state.Vehicles, 1)
	assert.Equal(t, "1603_001", state.Vehicles[0].ID)
}

func TestPendingQueueOrderAndClear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Enqueue(domain.SyncActionVehicleAdd, map[string]string{"id": "1503_001"}))
	require.NoError(t, store.Enqueue(domain.SyncActionVehicleUpdate, map[string]string{"id": "1503_001"}))
	require.NoError(t, store.Enqueue(domain.SyncActionStaffDelete, map[string]string{"id": "staff-9"}))

	actions, err := store.PendingActions()
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, domain.SyncActionVehicleAdd, actions[0].Type)
	assert.Equal(t, domain.SyncActionVehicleUpdate, actions[1].Type)
	assert.Equal(t, domain.SyncActionStaffDelete, actions[2].Type)
	assert.JSONEq(t, `{"id":"1503_001"}`, actions[0].Data)

	count, err := store.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, store.ClearPendingActions())
	actions, err = store.PendingActions()
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestBackupSlotRoundTrip(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	state := sync.State{
		Vehicles: []domain.Vehicle{{ID: "1503_001", Model: "Vios", Status: domain.VehicleStatusSold, ImportDate: now}},
	}
	require.NoError(t, store.SaveBackup(state))

	// a second backup overwrites the slot
	state.Vehicles[0].Model = "Vios G"
	require.NoError(t, store.SaveBackup(state))

	restored, err := store.RestoreBackup()
	require.NoError(t, err)
	require.Len(t, restored.Vehicles, 1)
	assert.Equal(t, "Vios G", restored.Vehicles[0].Model)
}
