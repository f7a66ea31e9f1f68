// Package finance holds the pure financial calculations for a vehicle
// snapshot: storage time, running cost, outstanding debt and profit.
// Nothing in here touches storage or has side effects.
package finance

import (
	"math"
	"time"

	"github.com/phuclong-auto/dealer-api/internal/domain"
)

// StorageDays returns the whole days a vehicle has sat in inventory
// between its import date and export date (or now, when still in
// stock). Partial days round up; the result is never negative and a
// missing import date yields 0.
func StorageDays(importDate time.Time, exportDate *time.Time, now time.Time) int {
	if importDate.IsZero() {
		return 0
	}
	end := now
	if exportDate != nil && !exportDate.IsZero() {
		end = *exportDate
	}
	elapsed := end.Sub(importDate)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Ceil(elapsed.Hours() / 24))
}

// TotalPaid sums all payment amounts regardless of payment type
func TotalPaid(payments []domain.PaymentInfo) float64 {
	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// Debt returns the outstanding buyer balance, floored at zero.
// Overpayment is silently absorbed.
func Debt(salePrice float64, payments []domain.PaymentInfo) float64 {
	debt := salePrice - TotalPaid(payments)
	if debt < 0 {
		return 0
	}
	return debt
}

// TotalCost sums the cost entries booked against a vehicle
func TotalCost(costs []domain.CostInfo) float64 {
	var total float64
	for _, c := range costs {
		total += c.Amount
	}
	return total
}

// Profit returns salePrice - purchasePrice - cost. The vehicle's debt
// field deliberately does not enter the formula.
func Profit(v *domain.Vehicle) float64 {
	return v.SalePrice - v.PurchasePrice - TotalCost(v.Costs)
}

// Recalculate overwrites the vehicle's derived fields from its current
// facts and collections. Called after every mutation: creation, edit,
// cost addition and status change.
func Recalculate(v *domain.Vehicle, now time.Time) {
	v.StorageTime = StorageDays(v.ImportDate, v.ExportDate, now)
	v.Cost = TotalCost(v.Costs)
	v.Debt = Debt(v.SalePrice, v.Payments)
	v.Profit = Profit(v)
}
