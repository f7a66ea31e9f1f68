package domain

import "time"

// CreateVehicleRequest is the payload for taking a vehicle into stock
type CreateVehicleRequest struct {
	Model             string     `json:"model" validate:"required,max=200"`
	Color             string     `json:"color" validate:"max=50"`
	ManufacturingYear int        `json:"manufacturingYear" validate:"omitempty,gte=1950"`
	Odo               int        `json:"odo" validate:"gte=0"`
	PurchasePrice     float64    `json:"purchasePrice" validate:"gte=0"`
	SalePrice         float64    `json:"salePrice" validate:"gte=0"`
	ImportDate        *time.Time `json:"importDate"`
	Notes             string     `json:"notes"`
}

// UpdateVehicleRequest is the payload for editing a vehicle's commercial facts
type UpdateVehicleRequest struct {
	Model             string  `json:"model" validate:"required,max=200"`
	Color             string  `json:"color" validate:"max=50"`
	ManufacturingYear int     `json:"manufacturingYear" validate:"omitempty,gte=1950"`
	Odo               int     `json:"odo" validate:"gte=0"`
	PurchasePrice     float64 `json:"purchasePrice" validate:"gte=0"`
	SalePrice         float64 `json:"salePrice" validate:"gte=0"`
	Notes             string  `json:"notes"`
}

// ChangeStatusRequest is the payload for a vehicle status transition
type ChangeStatusRequest struct {
	TargetStatus  VehicleStatus `json:"targetStatus" validate:"required,oneof=IN_STOCK DEPOSITED BANK_DEPOSITED OFFSET SOLD"`
	PaymentAmount float64       `json:"paymentAmount" validate:"gte=0"`
	StaffID       string        `json:"staffId"`
	ChangedBy     string        `json:"changedBy"`
	Notes         string        `json:"notes"`
}

// AddCostRequest is the payload for booking a cost against a vehicle
type AddCostRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=500"`
}

// CreateStaffRequest is the payload for adding a staff member
type CreateStaffRequest struct {
	Name           string     `json:"name" validate:"required,max=200"`
	Team           StaffTeam  `json:"team" validate:"required,oneof=SALES_1 SALES_2 SALES_3 MANAGEMENT ACCOUNTING TECHNICAL SUPPORT OTHER"`
	Role           string     `json:"role" validate:"max=100"`
	JoinDate       *time.Time `json:"joinDate"`
	Salary         float64    `json:"salary" validate:"gte=0"`
	CommissionRate float64    `json:"commissionRate" validate:"gte=0,lte=100"`
}

// UpdateStaffRequest is the payload for editing a staff member
type UpdateStaffRequest struct {
	Name            string      `json:"name" validate:"required,max=200"`
	Team            StaffTeam   `json:"team" validate:"required,oneof=SALES_1 SALES_2 SALES_3 MANAGEMENT ACCOUNTING TECHNICAL SUPPORT OTHER"`
	Role            string      `json:"role" validate:"max=100"`
	Status          StaffStatus `json:"status" validate:"required,oneof=ACTIVE ON_LEAVE TERMINATED"`
	TerminationDate *time.Time  `json:"terminationDate"`
	Salary          float64     `json:"salary" validate:"gte=0"`
	CommissionRate  float64     `json:"commissionRate" validate:"gte=0,lte=100"`
}

// KpiTargetInput is one target in a bulk period save
type KpiTargetInput struct {
	TargetType   TargetType `json:"targetType" validate:"required,oneof=INDIVIDUAL DEPARTMENT MANAGEMENT"`
	TargetID     string     `json:"targetId" validate:"required"`
	TargetValue  float64    `json:"targetValue" validate:"gte=0"`
	BonusPerUnit float64    `json:"bonusPerUnit" validate:"gte=0"`
	IsActive     bool       `json:"isActive"`
}

// SaveKpiTargetsRequest replaces all KPI targets for a period
type SaveKpiTargetsRequest struct {
	Month   int              `json:"month" validate:"required,gte=1,lte=12"`
	Year    int              `json:"year" validate:"required,gte=2000"`
	Targets []KpiTargetInput `json:"targets" validate:"dive"`
}

// SupportBonusInput is one support-department bonus in a bulk period save
type SupportBonusInput struct {
	Team             StaffTeam `json:"team" validate:"required,oneof=MANAGEMENT ACCOUNTING TECHNICAL SUPPORT OTHER"`
	BonusAmount      float64   `json:"bonusAmount" validate:"gte=0"`
	ApplyRatio       bool      `json:"applyRatio"`
	LinkedDepartment StaffTeam `json:"linkedDepartment" validate:"omitempty,oneof=SALES_1 SALES_2 SALES_3"`
	IsActive         bool      `json:"isActive"`
}

// SaveSupportBonusesRequest replaces all support bonuses for a period
type SaveSupportBonusesRequest struct {
	Month   int                 `json:"month" validate:"required,gte=1,lte=12"`
	Year    int                 `json:"year" validate:"required,gte=2000"`
	Bonuses []SupportBonusInput `json:"bonuses" validate:"dive"`
}

// SyncResult summarizes one sync cycle for the caller
type SyncResult struct {
	OK          bool      `json:"ok"`
	Message     string    `json:"message"`
	Replayed    int       `json:"replayed"`
	Skipped     int       `json:"skipped"`
	Conflicts   int       `json:"conflicts"`
	CompletedAt time.Time `json:"completedAt"`
}

// DashboardSummary aggregates the inventory and financial figures the
// dashboard renders for a period
type DashboardSummary struct {
	CountsByStatus  map[VehicleStatus]int `json:"countsByStatus"`
	InventoryValue  float64               `json:"inventoryValue"`
	OutstandingDebt float64               `json:"outstandingDebt"`
	Month           int                   `json:"month"`
	Year            int                   `json:"year"`
	MonthlySold     int                   `json:"monthlySold"`
	MonthlyRevenue  float64               `json:"monthlyRevenue"`
	MonthlyProfit   float64               `json:"monthlyProfit"`
}

// StaffCommissionRow is a per-staff line in the monthly commission report
type StaffCommissionRow struct {
	StaffID         string    `json:"staffId"`
	Name            string    `json:"name"`
	Team            StaffTeam `json:"team"`
	VehiclesSold    int       `json:"vehiclesSold"`
	TargetValue     float64   `json:"targetValue"`
	Completion      float64   `json:"completion"`
	Bonus           float64   `json:"bonus"`
	Salary          float64   `json:"salary"`
	TotalCommission float64   `json:"totalCommission"`
}

// DepartmentCommissionRow is a department or management line in the report
type DepartmentCommissionRow struct {
	TargetType   TargetType `json:"targetType"`
	TargetID     string     `json:"targetId"`
	ActualValue  int        `json:"actualValue"`
	TargetValue  float64    `json:"targetValue"`
	Completion   float64    `json:"completion"`
	BonusPerUnit float64    `json:"bonusPerUnit"`
	Bonus        float64    `json:"bonus"`
}

// SupportBonusRow is a support-department line in the report
type SupportBonusRow struct {
	Team        StaffTeam `json:"team"`
	BonusAmount float64   `json:"bonusAmount"`
	Applied     float64   `json:"applied"`
	IsActive    bool      `json:"isActive"`
}

// CommissionReport is the full monthly commission breakdown
type CommissionReport struct {
	Month        int                       `json:"month"`
	Year         int                       `json:"year"`
	Staff        []StaffCommissionRow      `json:"staff"`
	Departments  []DepartmentCommissionRow `json:"departments"`
	Support      []SupportBonusRow         `json:"support"`
	CompanyTotal float64                   `json:"companyTotal"`
}

// DeleteSyncPayload is the queued payload for delete replay actions
type DeleteSyncPayload struct {
	ID string `json:"id"`
}

// KpiSyncPayload carries a full-period target replacement through the
// pending queue
type KpiSyncPayload struct {
	Month   int         `json:"month"`
	Year    int         `json:"year"`
	Targets []KpiTarget `json:"targets"`
}

// BonusSyncPayload carries a full-period support bonus replacement
// through the pending queue
type BonusSyncPayload struct {
	Month   int                      `json:"month"`
	Year    int                      `json:"year"`
	Bonuses []SupportDepartmentBonus `json:"bonuses"`
}
