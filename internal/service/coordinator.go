// Package service hosts the dealership coordinator: the single owner of
// the in-memory working set. Every mutation goes through it, lands in
// the local store immediately and is queued for replay against the
// remote database.
package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/kpi"
	offline "github.com/phuclong-auto/dealer-api/internal/sync"
)

// LocalStore is the on-device persistence surface the coordinator
// writes through on every mutation
type LocalStore interface {
	Load() (offline.State, error)
	SaveVehicles(vehicles []domain.Vehicle) error
	SaveStaff(staff []domain.Staff) error
	SaveKpiTargets(targets []domain.KpiTarget) error
	SaveSupportBonuses(bonuses []domain.SupportDepartmentBonus) error
	SaveAll(state offline.State) error
	Enqueue(actionType domain.SyncActionType, payload any) error
	PendingCount() (int64, error)
}

// Syncer runs a full sync cycle against the remote store
type Syncer interface {
	Sync(ctx context.Context, current offline.State) (offline.State, domain.SyncResult, error)
	IsSyncing() bool
}

type Coordinator struct {
	mu     sync.RWMutex
	state  offline.State
	local  LocalStore
	syncer Syncer
	logger *zap.Logger

	// Injectable clock, fixed in tests
	now func() time.Time
}

// NewCoordinator loads the working set from the local store and returns
// a ready coordinator. A fresh install starts empty and fills up on the
// first sync.
func NewCoordinator(local LocalStore, syncer Syncer, logger *zap.Logger) (*Coordinator, error) {
	state, err := local.Load()
	if err != nil {
		return nil, err
	}
	c := &Coordinator{
		state:  state,
		local:  local,
		syncer: syncer,
		logger: logger,
		now:    time.Now,
	}
	c.recomputeStaffAggregates()
	logger.Info("working set loaded",
		zap.Int("vehicles", len(state.Vehicles)),
		zap.Int("staff", len(state.Staff)),
		zap.Int("kpiTargets", len(state.KpiTargets)),
		zap.Int("supportBonuses", len(state.SupportBonuses)))
	return c, nil
}

// SyncNow runs one sync cycle and swaps the merged working set in. The
// coordinator lock is held for the whole cycle so no mutation can race
// the swap; concurrent callers fail fast with ErrSyncInProgress from
// the engine.
func (c *Coordinator) SyncNow(ctx context.Context) (domain.SyncResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged, result, err := c.syncer.Sync(ctx, c.state)
	if err != nil {
		return result, err
	}
	if result.OK {
		c.state = merged
		c.recomputeStaffAggregates()
		if err := c.local.SaveAll(c.state); err != nil {
			c.logger.Error("failed to persist merged working set", zap.Error(err))
		}
	}
	return result, nil
}

// IsSyncing reports whether a sync cycle is currently running
func (c *Coordinator) IsSyncing() bool {
	return c.syncer.IsSyncing()
}

// PendingCount returns the depth of the pending-action queue
func (c *Coordinator) PendingCount() (int64, error) {
	return c.local.PendingCount()
}

// Vehicles returns a snapshot of the vehicle collection
func (c *Coordinator) Vehicles() []domain.Vehicle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Vehicle, len(c.state.Vehicles))
	for i := range c.state.Vehicles {
		out[i] = *c.state.Vehicles[i].Clone()
	}
	return out
}

// Vehicle returns one vehicle by id
func (c *Coordinator) Vehicle(id string) (*domain.Vehicle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.state.Vehicles {
		if c.state.Vehicles[i].ID == id {
			return c.state.Vehicles[i].Clone(), nil
		}
	}
	return nil, ErrVehicleNotFound
}

// StaffList returns a snapshot of the staff collection
func (c *Coordinator) StaffList() []domain.Staff {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Staff, len(c.state.Staff))
	copy(out, c.state.Staff)
	return out
}

// StaffMember returns one staff member by id
func (c *Coordinator) StaffMember(id string) (*domain.Staff, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.state.Staff {
		if c.state.Staff[i].ID == id {
			member := c.state.Staff[i]
			return &member, nil
		}
	}
	return nil, ErrStaffNotFound
}

// KpiTargets returns the stored targets for a period, evaluated against
// the current vehicle collection
func (c *Coordinator) KpiTargets(month, year int) []domain.KpiTarget {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var period []domain.KpiTarget
	for _, t := range c.state.KpiTargets {
		if t.Month == month && t.Year == year {
			period = append(period, t)
		}
	}
	return kpi.EvaluateTargets(period, c.state.Vehicles, c.state.Staff, month, year)
}

// SupportBonuses returns the stored support bonuses for a period
func (c *Coordinator) SupportBonuses(month, year int) []domain.SupportDepartmentBonus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var period []domain.SupportDepartmentBonus
	for _, b := range c.state.SupportBonuses {
		if b.Month == month && b.Year == year {
			period = append(period, b)
		}
	}
	return period
}

// DashboardSummary aggregates inventory counts and the financial
// figures of a month
func (c *Coordinator) DashboardSummary(month, year int) domain.DashboardSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summary := domain.DashboardSummary{
		CountsByStatus: make(map[domain.VehicleStatus]int),
		Month:          month,
		Year:           year,
	}
	for i := range c.state.Vehicles {
		v := &c.state.Vehicles[i]
		summary.CountsByStatus[v.Status]++
		if v.Status != domain.VehicleStatusSold {
			summary.InventoryValue += v.PurchasePrice + v.Cost
			summary.OutstandingDebt += v.Debt
		}
		if kpi.SoldInPeriod(v, month, year) {
			summary.MonthlySold++
			summary.MonthlyRevenue += v.SalePrice
			summary.MonthlyProfit += v.Profit
		}
	}
	return summary
}

// MonthlyCommissionReport builds the full commission breakdown for a period
func (c *Coordinator) MonthlyCommissionReport(month, year int) domain.CommissionReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return kpi.BuildReport(month, year, c.state.Vehicles, c.state.Staff, c.state.KpiTargets, c.state.SupportBonuses)
}

// recomputeStaffAggregates rebuilds the cached per-staff sale counters
// from the vehicle collection. Callers must hold the write lock.
func (c *Coordinator) recomputeStaffAggregates() {
	type tally struct {
		sold       int
		commission float64
	}
	tallies := make(map[string]tally, len(c.state.Staff))
	for i := range c.state.Vehicles {
		v := &c.state.Vehicles[i]
		if v.Status != domain.VehicleStatusSold || v.SaleStaff.SaleStaffRef == nil {
			continue
		}
		t := tallies[v.SaleStaff.ID]
		t.sold++
		t.commission += v.SaleStaff.ExpectedCommission
		tallies[v.SaleStaff.ID] = t
	}
	for i := range c.state.Staff {
		t := tallies[c.state.Staff[i].ID]
		c.state.Staff[i].VehiclesSold = t.sold
		c.state.Staff[i].TotalCommission = t.commission
	}
}

// persistVehicles writes the vehicle collection through to the local
// store, logging rather than failing the mutation when the disk write
// goes wrong. The in-memory state is already updated; the next
// successful write catches it up.
func (c *Coordinator) persistVehicles() {
	if err := c.local.SaveVehicles(c.state.Vehicles); err != nil {
		c.logger.Error("failed to persist vehicles locally", zap.Error(err))
	}
}

func (c *Coordinator) persistStaff() {
	if err := c.local.SaveStaff(c.state.Staff); err != nil {
		c.logger.Error("failed to persist staff locally", zap.Error(err))
	}
}

func (c *Coordinator) enqueue(actionType domain.SyncActionType, payload any) {
	if err := c.local.Enqueue(actionType, payload); err != nil {
		c.logger.Error("failed to enqueue pending action",
			zap.String("type", string(actionType)), zap.Error(err))
	}
}
