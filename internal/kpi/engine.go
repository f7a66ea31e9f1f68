// Package kpi computes monthly sales actuals, KPI completion and the
// commission/bonus amounts derived from them.
//
// Two bonus models coexist on purpose: individual sales targets pay
// tiered flat amounts, while department and management targets pay per
// unit with a penalty multiplier below 70% completion. They evolved as
// separate business policies and must not be unified.
package kpi

import (
	"sort"

	"github.com/phuclong-auto/dealer-api/internal/domain"
)

// MaxCompletionPercent caps KPI completion for reporting purposes
const MaxCompletionPercent = 200

// Individual tiered flat bonuses (VND). Nothing is paid below 80%.
const (
	tier150Bonus = 5_000_000
	tier120Bonus = 3_000_000
	tier100Bonus = 2_000_000
	tier80Bonus  = 1_000_000
)

// penaltyThreshold and penaltyFactor drive the department/management
// per-unit model: below the threshold only 70% of the per-unit bonus
// is paid.
const (
	penaltyThreshold = 70.0
	penaltyFactor    = 0.7
)

// Completion returns actual/target as a percentage capped at
// MaxCompletionPercent. A zero or negative target yields 0.
func Completion(actual int, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := float64(actual) / target * 100
	if pct > MaxCompletionPercent {
		return MaxCompletionPercent
	}
	return pct
}

// IndividualBonus returns the tiered flat bonus for an individual sales
// target at the given completion percentage
func IndividualBonus(completion float64) float64 {
	switch {
	case completion >= 150:
		return tier150Bonus
	case completion >= 120:
		return tier120Bonus
	case completion >= 100:
		return tier100Bonus
	case completion >= 80:
		return tier80Bonus
	default:
		return 0
	}
}

// UnitBonus returns the department/management per-unit bonus with the
// under-70% penalty multiplier applied
func UnitBonus(actual int, bonusPerUnit, completion float64) float64 {
	factor := 1.0
	if completion < penaltyThreshold {
		factor = penaltyFactor
	}
	return float64(actual) * bonusPerUnit * factor
}

// SoldInPeriod reports whether the vehicle counts toward (month, year):
// status SOLD with an export date inside the period
func SoldInPeriod(v *domain.Vehicle, month, year int) bool {
	if v.Status != domain.VehicleStatusSold || v.ExportDate == nil {
		return false
	}
	return int(v.ExportDate.Month()) == month && v.ExportDate.Year() == year
}

// ActualsByStaff counts qualifying sold vehicles per sale staff id
func ActualsByStaff(vehicles []domain.Vehicle, month, year int) map[string]int {
	actuals := make(map[string]int)
	for i := range vehicles {
		v := &vehicles[i]
		if !SoldInPeriod(v, month, year) {
			continue
		}
		if id := v.SaleStaffID(); id != "" {
			actuals[id]++
		}
	}
	return actuals
}

// TeamActual aggregates staff actuals across the members of a team
func TeamActual(actuals map[string]int, staff []domain.Staff, team domain.StaffTeam) int {
	total := 0
	for i := range staff {
		if staff[i].Team == team {
			total += actuals[staff[i].ID]
		}
	}
	return total
}

// CompanyActual counts all qualifying sold vehicles in the period,
// regardless of staff linkage. Management targets measure against this.
func CompanyActual(vehicles []domain.Vehicle, month, year int) int {
	total := 0
	for i := range vehicles {
		if SoldInPeriod(&vehicles[i], month, year) {
			total++
		}
	}
	return total
}

// EvaluateTargets fills in the derived fields (actual, completion, bonus)
// of every active target for the period, selecting the bonus strategy by
// target type. Inactive targets and targets outside the period are
// returned untouched.
func EvaluateTargets(targets []domain.KpiTarget, vehicles []domain.Vehicle, staff []domain.Staff, month, year int) []domain.KpiTarget {
	actuals := ActualsByStaff(vehicles, month, year)

	out := make([]domain.KpiTarget, len(targets))
	for i, target := range targets {
		if target.Month != month || target.Year != year || !target.IsActive {
			out[i] = target
			continue
		}

		switch target.TargetType {
		case domain.TargetTypeIndividual:
			target.ActualValue = actuals[target.TargetID]
			target.CompletionPercentage = Completion(target.ActualValue, target.TargetValue)
			target.Bonus = IndividualBonus(target.CompletionPercentage)
		case domain.TargetTypeDepartment:
			target.ActualValue = TeamActual(actuals, staff, domain.StaffTeam(target.TargetID))
			target.CompletionPercentage = Completion(target.ActualValue, target.TargetValue)
			target.Bonus = UnitBonus(target.ActualValue, target.BonusPerUnit, target.CompletionPercentage)
		case domain.TargetTypeManagement:
			target.ActualValue = CompanyActual(vehicles, month, year)
			target.CompletionPercentage = Completion(target.ActualValue, target.TargetValue)
			target.Bonus = UnitBonus(target.ActualValue, target.BonusPerUnit, target.CompletionPercentage)
		}
		out[i] = target
	}
	return out
}

// SupportBonusApplied returns the amount actually paid for a support
// bonus. With applyRatio set, the fixed amount scales with the linked
// department's completion ratio, capped at 100%.
func SupportBonusApplied(b domain.SupportDepartmentBonus, deptCompletion map[domain.StaffTeam]float64) float64 {
	if !b.IsActive {
		return 0
	}
	if !b.ApplyRatio {
		return b.BonusAmount
	}
	completion, ok := deptCompletion[b.LinkedDepartment]
	if !ok {
		return b.BonusAmount
	}
	ratio := completion / 100
	if ratio > 1 {
		ratio = 1
	}
	return b.BonusAmount * ratio
}

// BuildReport assembles the full commission breakdown for a period:
// per-staff rows (salary + tiered bonus), department/management rows
// (per-unit model), support rows and the company-wide total.
func BuildReport(month, year int, vehicles []domain.Vehicle, staff []domain.Staff, targets []domain.KpiTarget, bonuses []domain.SupportDepartmentBonus) domain.CommissionReport {
	evaluated := EvaluateTargets(targets, vehicles, staff, month, year)
	actuals := ActualsByStaff(vehicles, month, year)

	individualByStaff := make(map[string]domain.KpiTarget)
	deptCompletion := make(map[domain.StaffTeam]float64)
	report := domain.CommissionReport{Month: month, Year: year}

	for _, target := range evaluated {
		if target.Month != month || target.Year != year || !target.IsActive {
			continue
		}
		switch target.TargetType {
		case domain.TargetTypeIndividual:
			individualByStaff[target.TargetID] = target
		case domain.TargetTypeDepartment:
			deptCompletion[domain.StaffTeam(target.TargetID)] = target.CompletionPercentage
			report.Departments = append(report.Departments, domain.DepartmentCommissionRow{
				TargetType:   target.TargetType,
				TargetID:     target.TargetID,
				ActualValue:  target.ActualValue,
				TargetValue:  target.TargetValue,
				Completion:   target.CompletionPercentage,
				BonusPerUnit: target.BonusPerUnit,
				Bonus:        target.Bonus,
			})
			report.CompanyTotal += target.Bonus
		case domain.TargetTypeManagement:
			report.Departments = append(report.Departments, domain.DepartmentCommissionRow{
				TargetType:   target.TargetType,
				TargetID:     target.TargetID,
				ActualValue:  target.ActualValue,
				TargetValue:  target.TargetValue,
				Completion:   target.CompletionPercentage,
				BonusPerUnit: target.BonusPerUnit,
				Bonus:        target.Bonus,
			})
			report.CompanyTotal += target.Bonus
		}
	}

	for i := range staff {
		member := &staff[i]
		row := domain.StaffCommissionRow{
			StaffID:      member.ID,
			Name:         member.Name,
			Team:         member.Team,
			VehiclesSold: actuals[member.ID],
			Salary:       member.Salary,
		}
		if target, ok := individualByStaff[member.ID]; ok {
			row.TargetValue = target.TargetValue
			row.Completion = target.CompletionPercentage
			row.Bonus = target.Bonus
		}
		row.TotalCommission = row.Salary + row.Bonus
		report.CompanyTotal += row.Bonus
		report.Staff = append(report.Staff, row)
	}

	for _, bonus := range bonuses {
		if bonus.Month != month || bonus.Year != year {
			continue
		}
		applied := SupportBonusApplied(bonus, deptCompletion)
		report.Support = append(report.Support, domain.SupportBonusRow{
			Team:        bonus.Team,
			BonusAmount: bonus.BonusAmount,
			Applied:     applied,
			IsActive:    bonus.IsActive,
		})
		report.CompanyTotal += applied
	}

	sort.Slice(report.Staff, func(i, j int) bool {
		if report.Staff[i].Team != report.Staff[j].Team {
			return report.Staff[i].Team < report.Staff[j].Team
		}
		return report.Staff[i].Name < report.Staff[j].Name
	})
	sort.Slice(report.Departments, func(i, j int) bool {
		return report.Departments[i].TargetID < report.Departments[j].TargetID
	})
	sort.Slice(report.Support, func(i, j int) bool {
		return report.Support[i].Team < report.Support[j].Team
	})

	return report
}
