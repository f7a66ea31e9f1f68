package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/finance"
	"github.com/phuclong-auto/dealer-api/internal/lifecycle"
)

// CreateVehicle takes a new vehicle into stock. The id is derived from
// the import date (ddMM) plus a per-day sequence number, so ids sort by
// arrival within a day.
func (c *Coordinator) CreateVehicle(req *domain.CreateVehicleRequest) (*domain.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	importDate := now
	if req.ImportDate != nil {
		importDate = *req.ImportDate
	}

	vehicle := domain.Vehicle{
		ID:                c.nextVehicleID(importDate.Format("0201")),
		Model:             req.Model,
		Color:             req.Color,
		ManufacturingYear: req.ManufacturingYear,
		Odo:               req.Odo,
		PurchasePrice:     req.PurchasePrice,
		SalePrice:         req.SalePrice,
		Status:            domain.VehicleStatusInStock,
		ImportDate:        importDate,
		Costs:             domain.CostList{},
		Payments:          domain.PaymentList{},
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
		// Every vehicle starts with a creation entry so the audit
		// trail is never empty
		StatusHistory: domain.HistoryList{{
			FromStatus: domain.VehicleStatusInStock,
			ToStatus:   domain.VehicleStatusInStock,
			ChangedAt:  now,
			Notes:      "Vehicle taken into stock",
		}},
	}
	finance.Recalculate(&vehicle, now)

	c.state.Vehicles = append(c.state.Vehicles, vehicle)
	c.persistVehicles()
	c.enqueue(domain.SyncActionVehicleAdd, vehicle)

	c.logger.Info("vehicle created",
		zap.String("vehicleID", vehicle.ID),
		zap.String("model", vehicle.Model))
	return vehicle.Clone(), nil
}

// nextVehicleID returns one past the highest sequence number seen for
// the given ddMM prefix, so deleted ids are never reused. Callers must
// hold the write lock.
func (c *Coordinator) nextVehicleID(prefix string) string {
	maxSeq := 0
	marker := prefix + "_"
	for i := range c.state.Vehicles {
		id := c.state.Vehicles[i].ID
		if !strings.HasPrefix(id, marker) {
			continue
		}
		if seq, err := strconv.Atoi(id[len(marker):]); err == nil && seq > maxSeq {
			maxSeq = seq
		}
	}
	return fmt.Sprintf("%s_%03d", prefix, maxSeq+1)
}

// UpdateVehicle edits the commercial facts of a vehicle. Status,
// payments and history never change here; those go through
// ChangeVehicleStatus.
func (c *Coordinator) UpdateVehicle(id string, req *domain.UpdateVehicleRequest) (*domain.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vehicle := c.findVehicle(id)
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	now := c.now()
	vehicle.Model = req.Model
	vehicle.Color = req.Color
	vehicle.ManufacturingYear = req.ManufacturingYear
	vehicle.Odo = req.Odo
	vehicle.PurchasePrice = req.PurchasePrice
	vehicle.SalePrice = req.SalePrice
	vehicle.Notes = req.Notes
	vehicle.UpdatedAt = now
	finance.Recalculate(vehicle, now)

	c.recomputeStaffAggregates()
	c.persistVehicles()
	c.persistStaff()
	c.enqueue(domain.SyncActionVehicleUpdate, *vehicle)

	return vehicle.Clone(), nil
}

// DeleteVehicle removes a vehicle from the working set
func (c *Coordinator) DeleteVehicle(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i := range c.state.Vehicles {
		if c.state.Vehicles[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrVehicleNotFound
	}

	c.state.Vehicles = append(c.state.Vehicles[:idx], c.state.Vehicles[idx+1:]...)
	c.recomputeStaffAggregates()
	c.persistVehicles()
	c.persistStaff()
	c.enqueue(domain.SyncActionVehicleDelete, domain.DeleteSyncPayload{ID: id})

	c.logger.Info("vehicle deleted", zap.String("vehicleID", id))
	return nil
}

// ChangeVehicleStatus runs the status transition protocol on a vehicle
// and refreshes the seller's cached sale counters
func (c *Coordinator) ChangeVehicleStatus(id string, req *domain.ChangeStatusRequest) (*domain.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vehicle := c.findVehicle(id)
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}

	var staff *domain.Staff
	if req.StaffID != "" {
		for i := range c.state.Staff {
			if c.state.Staff[i].ID == req.StaffID {
				staff = &c.state.Staff[i]
				break
			}
		}
		if staff == nil {
			return nil, ErrStaffNotFound
		}
	}

	next, err := lifecycle.Transition(vehicle, lifecycle.TransitionInput{
		Target:        req.TargetStatus,
		PaymentAmount: req.PaymentAmount,
		Staff:         staff,
		ChangedBy:     req.ChangedBy,
		Notes:         req.Notes,
	}, c.now())
	if err != nil {
		return nil, err
	}

	*vehicle = *next
	c.recomputeStaffAggregates()
	c.persistVehicles()
	c.persistStaff()
	c.enqueue(domain.SyncActionVehicleUpdate, *vehicle)

	c.logger.Info("vehicle status changed",
		zap.String("vehicleID", id),
		zap.String("status", string(vehicle.Status)))
	return vehicle.Clone(), nil
}

// AddCost books an expense against a vehicle and refreshes its derived
// financials
func (c *Coordinator) AddCost(id string, req *domain.AddCostRequest) (*domain.Vehicle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vehicle := c.findVehicle(id)
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}
	if req.Amount <= 0 {
		return nil, domain.NewValidationError("cost amount must be positive")
	}

	now := c.now()
	vehicle.Costs = append(vehicle.Costs, domain.CostInfo{
		ID:          uuid.NewString(),
		Amount:      req.Amount,
		Date:        now,
		Description: req.Description,
	})
	vehicle.UpdatedAt = now
	finance.Recalculate(vehicle, now)

	c.persistVehicles()
	c.enqueue(domain.SyncActionVehicleUpdate, *vehicle)

	return vehicle.Clone(), nil
}

// findVehicle returns a pointer into the working set. Callers must hold
// the write lock.
func (c *Coordinator) findVehicle(id string) *domain.Vehicle {
	for i := range c.state.Vehicles {
		if c.state.Vehicles[i].ID == id {
			return &c.state.Vehicles[i]
		}
	}
	return nil
}
