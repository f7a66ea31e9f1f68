// Package lifecycle implements the vehicle status machine: which
// transitions are legal, which payment type each transition produces,
// and the atomic transition protocol that rewrites the vehicle's
// payment, staff and history state.
package lifecycle

import (
	"time"

	"github.com/google/uuid"
	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/finance"
)

// Status transition rules: defines valid transitions between vehicle states.
// DEPOSITED and BANK_DEPOSITED are deliberately not adjacent; a deposit
// cannot be converted, it has to go back through IN_STOCK.
var validStatusTransitions = map[domain.VehicleStatus][]domain.VehicleStatus{
	domain.VehicleStatusInStock:       {domain.VehicleStatusDeposited, domain.VehicleStatusBankDeposited, domain.VehicleStatusSold},
	domain.VehicleStatusDeposited:     {domain.VehicleStatusSold, domain.VehicleStatusInStock},
	domain.VehicleStatusBankDeposited: {domain.VehicleStatusOffset, domain.VehicleStatusInStock},
	domain.VehicleStatusOffset:        {domain.VehicleStatusSold},
	domain.VehicleStatusSold:          {}, // Terminal state
}

// statusesRequiringPayment must carry a positive payment amount on entry
var statusesRequiringPayment = map[domain.VehicleStatus]bool{
	domain.VehicleStatusDeposited:     true,
	domain.VehicleStatusBankDeposited: true,
	domain.VehicleStatusOffset:        true,
}

// statusesRequiringStaff must have a sales staff selected on entry
var statusesRequiringStaff = map[domain.VehicleStatus]bool{
	domain.VehicleStatusDeposited:     true,
	domain.VehicleStatusBankDeposited: true,
	domain.VehicleStatusSold:          true,
}

// CanTransition reports whether current -> target is a legal status change
func CanTransition(current, target domain.VehicleStatus) bool {
	for _, allowed := range validStatusTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// PaymentTypeFor maps a status transition to the payment type it records.
// Unmatched pairs fall back to DEPOSIT.
func PaymentTypeFor(from, to domain.VehicleStatus) domain.PaymentType {
	switch {
	case to == domain.VehicleStatusSold:
		return domain.PaymentTypeFullPayment
	case from == domain.VehicleStatusInStock && to == domain.VehicleStatusDeposited:
		return domain.PaymentTypeDeposit
	case from == domain.VehicleStatusInStock && to == domain.VehicleStatusBankDeposited:
		return domain.PaymentTypeBankDeposit
	case from == domain.VehicleStatusBankDeposited && to == domain.VehicleStatusOffset:
		return domain.PaymentTypeOffset
	default:
		return domain.PaymentTypeDeposit
	}
}

// TransitionInput carries everything a status change needs. Staff is the
// resolved staff record when the caller selected one; the coordinator
// resolves ids before calling in so the machine never touches staff state.
type TransitionInput struct {
	Target        domain.VehicleStatus
	PaymentAmount float64
	Staff         *domain.Staff
	ChangedBy     string
	Notes         string
}

// Transition executes the status change protocol against a copy of the
// vehicle and returns the new snapshot. On any rejection the returned
// error is typed and the input vehicle is untouched.
func Transition(v *domain.Vehicle, in TransitionInput, now time.Time) (*domain.Vehicle, error) {
	current := v.Status
	target := in.Target

	if !CanTransition(current, target) {
		return nil, &domain.InvalidTransitionError{From: current, To: target}
	}
	if statusesRequiringPayment[target] && in.PaymentAmount <= 0 {
		return nil, domain.NewValidationError("transition to %s requires a positive payment amount", target)
	}
	if statusesRequiringStaff[target] && in.Staff == nil && v.SaleStaff.SaleStaffRef == nil {
		return nil, domain.NewValidationError("transition to %s requires a sales staff", target)
	}

	next := v.Clone()

	if target == domain.VehicleStatusInStock {
		// Return to inventory discards the sale's financial state.
		// History stays; the audit trail is append-only.
		next.Payments = domain.PaymentList{}
		next.SaleStaff = domain.StaffRef{}
		next.ExportDate = nil
	} else {
		if in.PaymentAmount > 0 {
			next.Payments = append(next.Payments, domain.PaymentInfo{
				ID:     uuid.NewString(),
				Amount: in.PaymentAmount,
				Date:   now,
				Type:   PaymentTypeFor(current, target),
				Notes:  in.Notes,
			})
		}
		if statusesRequiringStaff[target] && in.Staff != nil {
			next.SaleStaff = domain.StaffRef{SaleStaffRef: &domain.SaleStaffRef{
				ID:                 in.Staff.ID,
				Name:               in.Staff.Name,
				ExpectedCommission: next.SalePrice * in.Staff.CommissionRate / 100,
			}}
		}
	}

	next.StatusHistory = append(next.StatusHistory, domain.StatusHistory{
		FromStatus: current,
		ToStatus:   target,
		ChangedAt:  now,
		ChangedBy:  in.ChangedBy,
		Notes:      in.Notes,
	})
	next.Status = target

	if target == domain.VehicleStatusSold || target == domain.VehicleStatusOffset {
		exportDate := now
		next.ExportDate = &exportDate
	}
	if target == domain.VehicleStatusSold {
		if outstanding := finance.Debt(next.SalePrice, next.Payments); outstanding > 0 {
			next.Payments = append(next.Payments, domain.PaymentInfo{
				ID:     uuid.NewString(),
				Amount: outstanding,
				Date:   now,
				Type:   domain.PaymentTypeFullPayment,
				Notes:  "Remaining balance settled on sale",
			})
		}
	}

	next.UpdatedAt = now
	finance.Recalculate(next, now)
	return next, nil
}
