package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
)

// SaveKpiTargets replaces every target of the given month/year with the
// submitted set. Target ids are deterministic per (type, target,
// period) so re-saving the same period merges cleanly across devices.
func (c *Coordinator) SaveKpiTargets(req *domain.SaveKpiTargetsRequest) ([]domain.KpiTarget, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	targets := make([]domain.KpiTarget, 0, len(req.Targets))
	for _, in := range req.Targets {
		targets = append(targets, domain.KpiTarget{
			ID:           fmt.Sprintf("%s_%s_%02d_%d", in.TargetType, in.TargetID, req.Month, req.Year),
			TargetType:   in.TargetType,
			TargetID:     in.TargetID,
			Month:        req.Month,
			Year:         req.Year,
			TargetValue:  in.TargetValue,
			BonusPerUnit: in.BonusPerUnit,
			IsActive:     in.IsActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	kept := c.state.KpiTargets[:0]
	for _, t := range c.state.KpiTargets {
		if t.Month != req.Month || t.Year != req.Year {
			kept = append(kept, t)
		}
	}
	c.state.KpiTargets = append(kept, targets...)

	if err := c.local.SaveKpiTargets(c.state.KpiTargets); err != nil {
		c.logger.Error("failed to persist kpi targets locally", zap.Error(err))
	}
	c.enqueue(domain.SyncActionKpiUpdate, domain.KpiSyncPayload{
		Month:   req.Month,
		Year:    req.Year,
		Targets: targets,
	})

	return targets, nil
}

// SaveSupportBonuses replaces every support-department bonus of the
// given month/year with the submitted set
func (c *Coordinator) SaveSupportBonuses(req *domain.SaveSupportBonusesRequest) ([]domain.SupportDepartmentBonus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	bonuses := make([]domain.SupportDepartmentBonus, 0, len(req.Bonuses))
	for _, in := range req.Bonuses {
		bonuses = append(bonuses, domain.SupportDepartmentBonus{
			ID:               fmt.Sprintf("SB_%s_%02d_%d", in.Team, req.Month, req.Year),
			Team:             in.Team,
			Month:            req.Month,
			Year:             req.Year,
			BonusAmount:      in.BonusAmount,
			ApplyRatio:       in.ApplyRatio,
			LinkedDepartment: in.LinkedDepartment,
			IsActive:         in.IsActive,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	kept := c.state.SupportBonuses[:0]
	for _, b := range c.state.SupportBonuses {
		if b.Month != req.Month || b.Year != req.Year {
			kept = append(kept, b)
		}
	}
	c.state.SupportBonuses = append(kept, bonuses...)

	if err := c.local.SaveSupportBonuses(c.state.SupportBonuses); err != nil {
		c.logger.Error("failed to persist support bonuses locally", zap.Error(err))
	}
	c.enqueue(domain.SyncActionBonusUpdate, domain.BonusSyncPayload{
		Month:   req.Month,
		Year:    req.Year,
		Bonuses: bonuses,
	})

	return bonuses, nil
}
