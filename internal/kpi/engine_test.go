package kpi_test

import (
	"testing"
	"time"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/kpi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func soldVehicle(id, staffID string, exported time.Time) domain.Vehicle {
	exportDate := exported
	v := domain.Vehicle{
		ID:         id,
		Status:     domain.VehicleStatusSold,
		ExportDate: &exportDate,
	}
	if staffID != "" {
		v.SaleStaff = domain.StaffRef{SaleStaffRef: &domain.SaleStaffRef{ID: staffID, Name: staffID}}
	}
	return v
}

func TestCompletion(t *testing.T) {
	assert.Equal(t, float64(0), kpi.Completion(5, 0))
	assert.Equal(t, float64(50), kpi.Completion(5, 10))
	assert.Equal(t, float64(100), kpi.Completion(10, 10))

	t.Run("capped at 200", func(t *testing.T) {
		assert.Equal(t, float64(200), kpi.Completion(50, 10))
		for actual := 0; actual <= 100; actual += 3 {
			assert.LessOrEqual(t, kpi.Completion(actual, 7), float64(200))
		}
	})
}

func TestIndividualBonusTiers(t *testing.T) {
	cases := []struct {
		completion float64
		bonus      float64
	}{
		{0, 0},
		{79.9, 0},
		{80, 1_000_000},
		{99, 1_000_000},
		{100, 2_000_000},
		{119, 2_000_000},
		{120, 3_000_000},
		{149, 3_000_000},
		{150, 5_000_000},
		{200, 5_000_000},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.bonus, kpi.IndividualBonus(tc.completion), "completion %.1f", tc.completion)
	}
}

func TestUnitBonusPenalty(t *testing.T) {
	// at or above 70% completion the full per-unit amount is paid
	assert.Equal(t, float64(10*500_000), kpi.UnitBonus(10, 500_000, 70))
	assert.Equal(t, float64(10*500_000), kpi.UnitBonus(10, 500_000, 120))
	// below 70% only 70% of it
	assert.Equal(t, float64(10*500_000)*0.7, kpi.UnitBonus(10, 500_000, 69.9))
}

func TestSoldInPeriod(t *testing.T) {
	march := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	v := soldVehicle("0103_001", "staff-1", march)
	assert.True(t, kpi.SoldInPeriod(&v, 3, 2025))
	assert.False(t, kpi.SoldInPeriod(&v, 2, 2025))
	assert.False(t, kpi.SoldInPeriod(&v, 3, 2024))

	t.Run("unsold vehicles never count", func(t *testing.T) {
		stock := domain.Vehicle{Status: domain.VehicleStatusDeposited}
		assert.False(t, kpi.SoldInPeriod(&stock, 3, 2025))
	})
}

func TestEvaluateTargets(t *testing.T) {
	march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	vehicles := []domain.Vehicle{
		soldVehicle("v1", "staff-1", march),
		soldVehicle("v2", "staff-1", march),
		soldVehicle("v3", "staff-1", march),
		soldVehicle("v4", "staff-2", march),
		soldVehicle("v5", "staff-2", march.AddDate(0, -1, 0)), // February, out of period
		soldVehicle("v6", "", march),                          // no staff linkage
	}
	staff := []domain.Staff{
		{ID: "staff-1", Name: "Nguyen Van A", Team: domain.TeamSales1},
		{ID: "staff-2", Name: "Tran Thi B", Team: domain.TeamSales1},
		{ID: "staff-3", Name: "Le Van C", Team: domain.TeamSales2},
	}
	targets := []domain.KpiTarget{
		{ID: "t1", TargetType: domain.TargetTypeIndividual, TargetID: "staff-1", Month: 3, Year: 2025, TargetValue: 2, IsActive: true},
		{ID: "t2", TargetType: domain.TargetTypeIndividual, TargetID: "staff-2", Month: 3, Year: 2025, TargetValue: 4, IsActive: true},
		{ID: "t3", TargetType: domain.TargetTypeDepartment, TargetID: "SALES_1", Month: 3, Year: 2025, TargetValue: 5, BonusPerUnit: 500_000, IsActive: true},
		{ID: "t4", TargetType: domain.TargetTypeManagement, TargetID: "MANAGEMENT", Month: 3, Year: 2025, TargetValue: 10, BonusPerUnit: 200_000, IsActive: true},
		{ID: "t5", TargetType: domain.TargetTypeIndividual, TargetID: "staff-1", Month: 2, Year: 2025, TargetValue: 2, IsActive: true},
	}

	got := kpi.EvaluateTargets(targets, vehicles, staff, 3, 2025)

	// staff-1: 3 of 2 -> 150% -> 5M tier
	assert.Equal(t, 3, got[0].ActualValue)
	assert.Equal(t, float64(150), got[0].CompletionPercentage)
	assert.Equal(t, float64(5_000_000), got[0].Bonus)

	// staff-2: 1 of 4 -> 25% -> below the 80% gate
	assert.Equal(t, 1, got[1].ActualValue)
	assert.Equal(t, float64(0), got[1].Bonus)

	// SALES_1 department: 4 of 5 -> 80% -> full per-unit amount
	assert.Equal(t, 4, got[2].ActualValue)
	assert.Equal(t, float64(80), got[2].CompletionPercentage)
	assert.Equal(t, float64(4*500_000), got[2].Bonus)

	// management counts the whole company including unassigned sales: 5 of 10 -> 50% -> penalty
	assert.Equal(t, 5, got[3].ActualValue)
	assert.Equal(t, float64(50), got[3].CompletionPercentage)
	assert.Equal(t, float64(5*200_000)*0.7, got[3].Bonus)

	// out-of-period target untouched
	assert.Equal(t, 0, got[4].ActualValue)
	assert.Equal(t, float64(0), got[4].Bonus)
}

func TestSupportBonusApplied(t *testing.T) {
	completion := map[domain.StaffTeam]float64{domain.TeamSales1: 80}

	fixed := domain.SupportDepartmentBonus{Team: domain.TeamAccounting, BonusAmount: 2_000_000, IsActive: true}
	assert.Equal(t, float64(2_000_000), kpi.SupportBonusApplied(fixed, completion))

	scaled := domain.SupportDepartmentBonus{
		Team: domain.TeamTechnical, BonusAmount: 2_000_000,
		ApplyRatio: true, LinkedDepartment: domain.TeamSales1, IsActive: true,
	}
	assert.Equal(t, float64(1_600_000), kpi.SupportBonusApplied(scaled, completion))

	t.Run("ratio capped at 100 percent", func(t *testing.T) {
		over := scaled
		assert.Equal(t, float64(2_000_000), kpi.SupportBonusApplied(over, map[domain.StaffTeam]float64{domain.TeamSales1: 180}))
	})

	t.Run("inactive pays nothing", func(t *testing.T) {
		off := fixed
		off.IsActive = false
		assert.Equal(t, float64(0), kpi.SupportBonusApplied(off, completion))
	})
}

func TestBuildReport(t *testing.T) {
	march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	vehicles := []domain.Vehicle{
		soldVehicle("v1", "staff-1", march),
		soldVehicle("v2", "staff-1", march),
	}
	staff := []domain.Staff{
		{ID: "staff-1", Name: "Nguyen Van A", Team: domain.TeamSales1, Salary: 8_000_000},
		{ID: "staff-9", Name: "Pham Thi D", Team: domain.TeamAccounting, Salary: 7_000_000},
	}
	targets := []domain.KpiTarget{
		{ID: "t1", TargetType: domain.TargetTypeIndividual, TargetID: "staff-1", Month: 3, Year: 2025, TargetValue: 2, IsActive: true},
		{ID: "t2", TargetType: domain.TargetTypeDepartment, TargetID: "SALES_1", Month: 3, Year: 2025, TargetValue: 2, BonusPerUnit: 500_000, IsActive: true},
	}
	bonuses := []domain.SupportDepartmentBonus{
		{ID: "b1", Team: domain.TeamAccounting, Month: 3, Year: 2025, BonusAmount: 1_000_000, IsActive: true},
	}

	report := kpi.BuildReport(3, 2025, vehicles, staff, targets, bonuses)

	// rows sorted by team then name: ACCOUNTING before SALES_1
	require.Len(t, report.Staff, 2)
	seller := report.Staff[1]
	assert.Equal(t, "staff-1", seller.StaffID)
	assert.Equal(t, 2, seller.VehiclesSold)
	assert.Equal(t, float64(100), seller.Completion)
	assert.Equal(t, float64(2_000_000), seller.Bonus)
	assert.Equal(t, float64(10_000_000), seller.TotalCommission)

	accountant := report.Staff[0]
	assert.Equal(t, float64(0), accountant.Bonus)
	assert.Equal(t, float64(7_000_000), accountant.TotalCommission)

	require.Len(t, report.Departments, 1)
	assert.Equal(t, float64(2*500_000), report.Departments[0].Bonus)

	require.Len(t, report.Support, 1)
	assert.Equal(t, float64(1_000_000), report.Support[0].Applied)

	// 2M individual + 1M dept + 1M support
	assert.Equal(t, float64(4_000_000), report.CompanyTotal)
}
