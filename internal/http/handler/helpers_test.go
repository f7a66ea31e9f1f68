package handler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/service"
	offline "github.com/phuclong-auto/dealer-api/internal/sync"
)

// memoryStore is an in-memory stand-in for the sqlite local store
type memoryStore struct {
	state    offline.State
	enqueued []domain.SyncActionType
}

func (m *memoryStore) Load() (offline.State, error) { return m.state, nil }

func (m *memoryStore) SaveVehicles(vehicles []domain.Vehicle) error {
	m.state.Vehicles = vehicles
	return nil
}

func (m *memoryStore) SaveStaff(staff []domain.Staff) error {
	m.state.Staff = staff
	return nil
}

func (m *memoryStore) SaveKpiTargets(targets []domain.KpiTarget) error {
	m.state.KpiTargets = targets
	return nil
}

func (m *memoryStore) SaveSupportBonuses(bonuses []domain.SupportDepartmentBonus) error {
	m.state.SupportBonuses = bonuses
	return nil
}

func (m *memoryStore) SaveAll(state offline.State) error {
	m.state = state
	return nil
}

func (m *memoryStore) Enqueue(actionType domain.SyncActionType, payload any) error {
	m.enqueued = append(m.enqueued, actionType)
	return nil
}

func (m *memoryStore) PendingCount() (int64, error) {
	return int64(len(m.enqueued)), nil
}

type stubSyncer struct {
	result  domain.SyncResult
	err     error
	syncing bool
}

func (s *stubSyncer) Sync(ctx context.Context, current offline.State) (offline.State, domain.SyncResult, error) {
	if s.err != nil {
		return current, s.result, s.err
	}
	return current, s.result, nil
}

func (s *stubSyncer) IsSyncing() bool { return s.syncing }

func newTestCoordinator(t *testing.T) (*service.Coordinator, *memoryStore, *stubSyncer) {
	t.Helper()
	store := &memoryStore{}
	syncer := &stubSyncer{result: domain.SyncResult{OK: true}}
	coordinator, err := service.NewCoordinator(store, syncer, zap.NewNop())
	require.NoError(t, err)
	return coordinator, store, syncer
}

// seedVehicle takes a vehicle into stock through the coordinator
func seedVehicle(t *testing.T, c *service.Coordinator, model string, importDate time.Time) *domain.Vehicle {
	t.Helper()
	vehicle, err := c.CreateVehicle(&domain.CreateVehicleRequest{
		Model:             model,
		Color:             "Black",
		ManufacturingYear: 2020,
		PurchasePrice:     300_000_000,
		SalePrice:         350_000_000,
		ImportDate:        &importDate,
	})
	require.NoError(t, err)
	return vehicle
}

// seedSalesStaff adds an active sales team member
func seedSalesStaff(t *testing.T, c *service.Coordinator, name string) *domain.Staff {
	t.Helper()
	member, err := c.CreateStaff(&domain.CreateStaffRequest{
		Name:           name,
		Team:           domain.TeamSales1,
		Role:           "Sales",
		CommissionRate: 1.5,
	})
	require.NoError(t, err)
	return member
}
