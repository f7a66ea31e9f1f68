package service

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
)

// CreateStaff adds a staff member to the working set
func (c *Coordinator) CreateStaff(req *domain.CreateStaffRequest) (*domain.Staff, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	joinDate := now
	if req.JoinDate != nil {
		joinDate = *req.JoinDate
	}

	member := domain.Staff{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Team:           req.Team,
		Role:           req.Role,
		Status:         domain.StaffStatusActive,
		JoinDate:       joinDate,
		Salary:         req.Salary,
		CommissionRate: req.CommissionRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	c.state.Staff = append(c.state.Staff, member)
	c.persistStaff()
	c.enqueue(domain.SyncActionStaffAdd, member)

	c.logger.Info("staff created",
		zap.String("staffID", member.ID),
		zap.String("team", string(member.Team)))
	return &member, nil
}

// UpdateStaff edits a staff member. A termination date is carried only
// while the status is TERMINATED; moving to TERMINATED without a date
// stamps the current time.
func (c *Coordinator) UpdateStaff(id string, req *domain.UpdateStaffRequest) (*domain.Staff, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var member *domain.Staff
	for i := range c.state.Staff {
		if c.state.Staff[i].ID == id {
			member = &c.state.Staff[i]
			break
		}
	}
	if member == nil {
		return nil, ErrStaffNotFound
	}

	now := c.now()
	member.Name = req.Name
	member.Team = req.Team
	member.Role = req.Role
	member.Status = req.Status
	member.Salary = req.Salary
	member.CommissionRate = req.CommissionRate
	switch {
	case req.Status != domain.StaffStatusTerminated:
		member.TerminationDate = nil
	case req.TerminationDate != nil:
		member.TerminationDate = req.TerminationDate
	case member.TerminationDate == nil:
		member.TerminationDate = &now
	}
	member.UpdatedAt = now

	c.persistStaff()
	c.enqueue(domain.SyncActionStaffUpdate, *member)

	out := *member
	return &out, nil
}

// DeleteStaff removes a staff member and detaches them from any vehicle
// still carrying the reference. Payment and history records stay; only
// the live link is cleared.
func (c *Coordinator) DeleteStaff(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i := range c.state.Staff {
		if c.state.Staff[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrStaffNotFound
	}

	c.state.Staff = append(c.state.Staff[:idx], c.state.Staff[idx+1:]...)

	now := c.now()
	vehiclesTouched := false
	for i := range c.state.Vehicles {
		v := &c.state.Vehicles[i]
		if v.SaleStaff.SaleStaffRef == nil || v.SaleStaff.ID != id {
			continue
		}
		v.SaleStaff = domain.StaffRef{}
		v.UpdatedAt = now
		vehiclesTouched = true
		c.enqueue(domain.SyncActionVehicleUpdate, *v)
	}

	c.recomputeStaffAggregates()
	c.persistStaff()
	if vehiclesTouched {
		c.persistVehicles()
	}
	c.enqueue(domain.SyncActionStaffDelete, domain.DeleteSyncPayload{ID: id})

	c.logger.Info("staff deleted", zap.String("staffID", id))
	return nil
}
