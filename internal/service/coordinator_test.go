package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	offline "github.com/phuclong-auto/dealer-api/internal/sync"
)

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
	merged  offline.State
	result  domain.SyncResult
	err     error
	syncing bool
}

func (s *stubSyncer) Sync(ctx context.Context, current offline.State) (offline.State, domain.SyncResult, error) {
	if s.err != nil {
		return current, s.result, s.err
	}
	return s.merged, s.result, nil
}

func (s *stubSyncer) IsSyncing() bool { return s.syncing }

func newTestCoordinator(t *testing.T, store *memoryStore, syncer Syncer) *Coordinator {
	t.Helper()
	if syncer == nil {
		syncer = &stubSyncer{}
	}
	c, err := NewCoordinator(store, syncer, zap.NewNop())
	require.NoError(t, err)
	c.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return c
}

func TestCreateVehicleAssignsSequentialIDs(t *testing.T) {
	store := &memoryStore{}
	c := newTestCoordinator(t, store, nil)

	first, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Toyota Vios", PurchasePrice: 300_000_000, SalePrice: 350_000_000})
	require.NoError(t, err)
	second, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Honda City", PurchasePrice: 400_000_000, SalePrice: 460_000_000})
	require.NoError(t, err)

	// fixed clock is 15 March, so ids carry the 1503 marker
	assert.Equal(t, "1503_001", first.ID)
	assert.Equal(t, "1503_002", second.ID)
	assert.Equal(t, domain.VehicleStatusInStock, first.Status)
	assert.Len(t, store.state.Vehicles, 2)
	assert.Equal(t, []domain.SyncActionType{domain.SyncActionVehicleAdd, domain.SyncActionVehicleAdd}, store.enqueued)
}

func TestCreateVehicleSeedsStatusHistory(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)

	v, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Kia Seltos", PurchasePrice: 500_000_000, SalePrice: 560_000_000})
	require.NoError(t, err)

	require.Len(t, v.StatusHistory, 1)
	entry := v.StatusHistory[0]
	assert.Equal(t, domain.VehicleStatusInStock, entry.FromStatus)
	assert.Equal(t, domain.VehicleStatusInStock, entry.ToStatus)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), entry.ChangedAt)
	assert.Equal(t, "Vehicle taken into stock", entry.Notes)
}

func TestCreateVehicleRespectsImportDate(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)

	imported := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	v, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Mazda CX-5", ImportDate: &imported})
	require.NoError(t, err)

	assert.Equal(t, "0302_001", v.ID)
	assert.Equal(t, imported, v.ImportDate)
}

func TestUpdateVehicleRecalculatesFinancials(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)
	v, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Vios", PurchasePrice: 300_000_000, SalePrice: 350_000_000})
	require.NoError(t, err)

	updated, err := c.UpdateVehicle(v.ID, &domain.UpdateVehicleRequest{Model: "Vios G", PurchasePrice: 300_000_000, SalePrice: 360_000_000})
	require.NoError(t, err)

	assert.Equal(t, "Vios G", updated.Model)
	assert.Equal(t, 360_000_000.0, updated.Debt)
	assert.Equal(t, 60_000_000.0, updated.Profit)
}

func TestUpdateVehicleNotFound(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)

	_, err := c.UpdateVehicle("9999_001", &domain.UpdateVehicleRequest{Model: "Ghost"})
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestChangeVehicleStatusUpdatesSellerAggregates(t *testing.T) {
	store := &memoryStore{}
	c := newTestCoordinator(t, store, nil)

	seller, err := c.CreateStaff(&domain.CreateStaffRequest{Name: "Nguyen Van A", Team: domain.TeamSales1, CommissionRate: 1.5})
	require.NoError(t, err)
	v, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Vios", PurchasePrice: 300_000_000, SalePrice: 350_000_000})
	require.NoError(t, err)

	sold, err := c.ChangeVehicleStatus(v.ID, &domain.ChangeStatusRequest{
		TargetStatus:  domain.VehicleStatusSold,
		PaymentAmount: 350_000_000,
		StaffID:       seller.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.VehicleStatusSold, sold.Status)
	assert.Equal(t, 0.0, sold.Debt)

	member, err := c.StaffMember(seller.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, member.VehiclesSold)
	assert.Equal(t, 5_250_000.0, member.TotalCommission)
}

func TestChangeVehicleStatusRejectsUnknownStaff(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)
	v, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Vios", SalePrice: 350_000_000})
	require.NoError(t, err)

	_, err = c.ChangeVehicleStatus(v.ID, &domain.ChangeStatusRequest{
		TargetStatus:  domain.VehicleStatusDeposited,
		PaymentAmount: 50_000_000,
		StaffID:       "missing",
	})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestChangeVehicleStatusInvalidTransition(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)
	v, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Vios", SalePrice: 350_000_000})
	require.NoError(t, err)

	_, err = c.ChangeVehicleStatus(v.ID, &domain.ChangeStatusRequest{TargetStatus: domain.VehicleStatusOffset, PaymentAmount: 10_000_000})

	var transitionErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.VehicleStatusInStock, transitionErr.From)

	// the rejected transition left the vehicle untouched
	current, err := c.Vehicle(v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VehicleStatusInStock, current.Status)
	assert.Empty(t, current.Payments)
}

func TestAddCostLowersProfit(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)
	v, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Vios", PurchasePrice: 300_000_000, SalePrice: 350_000_000})
	require.NoError(t, err)

	withCost, err := c.AddCost(v.ID, &domain.AddCostRequest{Amount: 10_000_000, Description: "Paint repair"})
	require.NoError(t, err)

	assert.Equal(t, 10_000_000.0, withCost.Cost)
	assert.Equal(t, 40_000_000.0, withCost.Profit)
	require.Len(t, withCost.Costs, 1)
	assert.NotEmpty(t, withCost.Costs[0].ID)
}

func TestDeleteStaffDetachesVehicles(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)
	seller, err := c.CreateStaff(&domain.CreateStaffRequest{Name: "Tran Thi B", Team: domain.TeamSales2, CommissionRate: 1.0})
	require.NoError(t, err)
	v, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "City", SalePrice: 460_000_000})
	require.NoError(t, err)
	_, err = c.ChangeVehicleStatus(v.ID, &domain.ChangeStatusRequest{
		TargetStatus:  domain.VehicleStatusDeposited,
		PaymentAmount: 50_000_000,
		StaffID:       seller.ID,
	})
	require.NoError(t, err)

	require.NoError(t, c.DeleteStaff(seller.ID))

	current, err := c.Vehicle(v.ID)
	require.NoError(t, err)
	assert.Nil(t, current.SaleStaff.SaleStaffRef)
	// payments and history survive the detach
	assert.Len(t, current.Payments, 1)
	assert.Len(t, current.StatusHistory, 1)

	_, err = c.StaffMember(seller.ID)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestUpdateStaffTerminationDateRules(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)
	member, err := c.CreateStaff(&domain.CreateStaffRequest{Name: "Le Van C", Team: domain.TeamAccounting})
	require.NoError(t, err)

	terminated, err := c.UpdateStaff(member.ID, &domain.UpdateStaffRequest{
		Name:   "Le Van C",
		Team:   domain.TeamAccounting,
		Status: domain.StaffStatusTerminated,
	})
	require.NoError(t, err)
	require.NotNil(t, terminated.TerminationDate)

	rehired, err := c.UpdateStaff(member.ID, &domain.UpdateStaffRequest{
		Name:   "Le Van C",
		Team:   domain.TeamAccounting,
		Status: domain.StaffStatusActive,
	})
	require.NoError(t, err)
	assert.Nil(t, rehired.TerminationDate)
}

func TestSaveKpiTargetsReplacesPeriod(t *testing.T) {
	store := &memoryStore{}
	c := newTestCoordinator(t, store, nil)

	_, err := c.SaveKpiTargets(&domain.SaveKpiTargetsRequest{
		Month: 3, Year: 2026,
		Targets: []domain.KpiTargetInput{
			{TargetType: domain.TargetTypeIndividual, TargetID: "staff-1", TargetValue: 10, IsActive: true},
			{TargetType: domain.TargetTypeDepartment, TargetID: string(domain.TeamSales1), TargetValue: 30, BonusPerUnit: 500_000, IsActive: true},
		},
	})
	require.NoError(t, err)

	saved, err := c.SaveKpiTargets(&domain.SaveKpiTargetsRequest{
		Month: 3, Year: 2026,
		Targets: []domain.KpiTargetInput{
			{TargetType: domain.TargetTypeIndividual, TargetID: "staff-1", TargetValue: 12, IsActive: true},
		},
	})
	require.NoError(t, err)

	require.Len(t, saved, 1)
	assert.Equal(t, "INDIVIDUAL_staff-1_03_2026", saved[0].ID)
	assert.Equal(t, 12.0, saved[0].TargetValue)
	assert.Len(t, store.state.KpiTargets, 1)
	assert.Equal(t, domain.SyncActionKpiUpdate, store.enqueued[len(store.enqueued)-1])
}

func TestSyncNowSwapsMergedState(t *testing.T) {
	now := time.Now()
	store := &memoryStore{}
	syncer := &stubSyncer{
		merged: offline.State{
			Vehicles: []domain.Vehicle{{ID: "1503_009", Model: "Ranger", Status: domain.VehicleStatusInStock, ImportDate: now}},
		},
		result: domain.SyncResult{OK: true, Message: "sync completed"},
	}
	c := newTestCoordinator(t, store, syncer)

	result, err := c.SyncNow(context.Background())
	require.NoError(t, err)
	assert.True(t, result.OK)

	vehicles := c.Vehicles()
	require.Len(t, vehicles, 1)
	assert.Equal(t, "1503_009", vehicles[0].ID)
	assert.Len(t, store.state.Vehicles, 1)
}

func TestSyncNowKeepsStateOnFailedCycle(t *testing.T) {
	store := &memoryStore{}
	syncer := &stubSyncer{result: domain.SyncResult{OK: false, Message: "remote unreachable, working offline"}}
	c := newTestCoordinator(t, store, syncer)
	_, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Vios"})
	require.NoError(t, err)

	result, err := c.SyncNow(context.Background())
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Len(t, c.Vehicles(), 1)
}

func TestDashboardSummary(t *testing.T) {
	c := newTestCoordinator(t, &memoryStore{}, nil)
	seller, err := c.CreateStaff(&domain.CreateStaffRequest{Name: "Nguyen Van A", Team: domain.TeamSales1, CommissionRate: 1.0})
	require.NoError(t, err)

	v1, err := c.CreateVehicle(&domain.CreateVehicleRequest{Model: "Vios", PurchasePrice: 300_000_000, SalePrice: 350_000_000})
	require.NoError(t, err)
	_, err = c.CreateVehicle(&domain.CreateVehicleRequest{Model: "City", PurchasePrice: 400_000_000, SalePrice: 460_000_000})
	require.NoError(t, err)
	_, err = c.ChangeVehicleStatus(v1.ID, &domain.ChangeStatusRequest{
		TargetStatus:  domain.VehicleStatusSold,
		PaymentAmount: 350_000_000,
		StaffID:       seller.ID,
	})
	require.NoError(t, err)

	summary := c.DashboardSummary(3, 2026)

	assert.Equal(t, 1, summary.CountsByStatus[domain.VehicleStatusSold])
	assert.Equal(t, 1, summary.CountsByStatus[domain.VehicleStatusInStock])
	assert.Equal(t, 400_000_000.0, summary.InventoryValue)
	assert.Equal(t, 1, summary.MonthlySold)
	assert.Equal(t, 350_000_000.0, summary.MonthlyRevenue)
	assert.Equal(t, 50_000_000.0, summary.MonthlyProfit)
}
