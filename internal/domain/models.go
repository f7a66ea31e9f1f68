package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// VehicleStatus represents the lifecycle state of a vehicle in inventory
type VehicleStatus string

const (
	VehicleStatusInStock       VehicleStatus = "IN_STOCK"
	VehicleStatusDeposited     VehicleStatus = "DEPOSITED"
	VehicleStatusBankDeposited VehicleStatus = "BANK_DEPOSITED"
	VehicleStatusOffset        VehicleStatus = "OFFSET"
	VehicleStatusSold          VehicleStatus = "SOLD"
)

// IsValid checks if the VehicleStatus is a valid enum value
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusInStock, VehicleStatusDeposited, VehicleStatusBankDeposited, VehicleStatusOffset, VehicleStatusSold:
		return true
	}
	return false
}

// PaymentType classifies a buyer payment against a vehicle
type PaymentType string

const (
	PaymentTypeDeposit     PaymentType = "DEPOSIT"
	PaymentTypeBankDeposit PaymentType = "BANK_DEPOSIT"
	PaymentTypeOffset      PaymentType = "OFFSET"
	PaymentTypeFullPayment PaymentType = "FULL_PAYMENT"
)

// StaffTeam represents the team/department a staff member belongs to
type StaffTeam string

const (
	TeamSales1     StaffTeam = "SALES_1"
	TeamSales2     StaffTeam = "SALES_2"
	TeamSales3     StaffTeam = "SALES_3"
	TeamManagement StaffTeam = "MANAGEMENT"
	TeamAccounting StaffTeam = "ACCOUNTING"
	TeamTechnical  StaffTeam = "TECHNICAL"
	TeamSupport    StaffTeam = "SUPPORT"
	TeamOther      StaffTeam = "OTHER"
)

// IsValid checks if the StaffTeam is a valid enum value
func (t StaffTeam) IsValid() bool {
	switch t {
	case TeamSales1, TeamSales2, TeamSales3, TeamManagement, TeamAccounting, TeamTechnical, TeamSupport, TeamOther:
		return true
	}
	return false
}

// IsSalesTeam reports whether the team carries individual sales targets
func (t StaffTeam) IsSalesTeam() bool {
	return t == TeamSales1 || t == TeamSales2 || t == TeamSales3
}

// StaffStatus represents the employment status of a staff member
type StaffStatus string

const (
	StaffStatusActive     StaffStatus = "ACTIVE"
	StaffStatusOnLeave    StaffStatus = "ON_LEAVE"
	StaffStatusTerminated StaffStatus = "TERMINATED"
)

// IsValid checks if the StaffStatus is a valid enum value
func (s StaffStatus) IsValid() bool {
	switch s {
	case StaffStatusActive, StaffStatusOnLeave, StaffStatusTerminated:
		return true
	}
	return false
}

// TargetType represents the scope of a KPI target
type TargetType string

const (
	TargetTypeIndividual TargetType = "INDIVIDUAL"
	TargetTypeDepartment TargetType = "DEPARTMENT"
	TargetTypeManagement TargetType = "MANAGEMENT"
)

// IsValid checks if the TargetType is a valid enum value
func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypeIndividual, TargetTypeDepartment, TargetTypeManagement:
		return true
	}
	return false
}

// CostInfo is a cost entry booked against a vehicle (transport, repair, paperwork)
type CostInfo struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
}

// PaymentInfo is a buyer payment recorded during a status transition
type PaymentInfo struct {
	ID     string      `json:"id"`
	Amount float64     `json:"amount"`
	Date   time.Time   `json:"date"`
	Type   PaymentType `json:"type"`
	Notes  string      `json:"notes,omitempty"`
}

// StatusHistory is an append-only audit entry for a vehicle status change
type StatusHistory struct {
	FromStatus VehicleStatus `json:"fromStatus"`
	ToStatus   VehicleStatus `json:"toStatus"`
	ChangedAt  time.Time     `json:"changedAt"`
	ChangedBy  string        `json:"changedBy,omitempty"`
	Notes      string        `json:"notes,omitempty"`
}

// SaleStaffRef links a vehicle to the staff member handling its sale.
// Kept as an id reference, never an object graph back into Staff.
type SaleStaffRef struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	ExpectedCommission float64 `json:"expectedCommission"`
}

// CostList is stored as a JSON column on the vehicle row
type CostList []CostInfo

// PaymentList is stored as a JSON column on the vehicle row
type PaymentList []PaymentInfo

// HistoryList is stored as a JSON column on the vehicle row
type HistoryList []StatusHistory

// StaffRef is a nullable JSON column holding the sale staff reference
type StaffRef struct {
	*SaleStaffRef
}

func jsonColumnValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonColumnScan(src, dest interface{}) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(data, dest)
	case string:
		return json.Unmarshal([]byte(data), dest)
	default:
		return fmt.Errorf("unsupported json column type %T", src)
	}
}

// Value implements driver.Valuer
func (c CostList) Value() (driver.Value, error) { return jsonColumnValue([]CostInfo(c)) }

// Scan implements sql.Scanner
func (c *CostList) Scan(src interface{}) error { return jsonColumnScan(src, (*[]CostInfo)(c)) }

// Value implements driver.Valuer
func (p PaymentList) Value() (driver.Value, error) { return jsonColumnValue([]PaymentInfo(p)) }

// Scan implements sql.Scanner
func (p *PaymentList) Scan(src interface{}) error { return jsonColumnScan(src, (*[]PaymentInfo)(p)) }

// Value implements driver.Valuer
func (h HistoryList) Value() (driver.Value, error) { return jsonColumnValue([]StatusHistory(h)) }

// Scan implements sql.Scanner
func (h *HistoryList) Scan(src interface{}) error { return jsonColumnScan(src, (*[]StatusHistory)(h)) }

// Value implements driver.Valuer
func (r StaffRef) Value() (driver.Value, error) {
	if r.SaleStaffRef == nil {
		return nil, nil
	}
	return jsonColumnValue(r.SaleStaffRef)
}

// Scan implements sql.Scanner
func (r *StaffRef) Scan(src interface{}) error {
	if src == nil {
		r.SaleStaffRef = nil
		return nil
	}
	ref := &SaleStaffRef{}
	if err := jsonColumnScan(src, ref); err != nil {
		return err
	}
	if ref.ID == "" {
		r.SaleStaffRef = nil
		return nil
	}
	r.SaleStaffRef = ref
	return nil
}

// MarshalJSON renders a missing reference as null rather than an empty object
func (r StaffRef) MarshalJSON() ([]byte, error) {
	if r.SaleStaffRef == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.SaleStaffRef)
}

// UnmarshalJSON implements json.Unmarshaler
func (r *StaffRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		r.SaleStaffRef = nil
		return nil
	}
	ref := &SaleStaffRef{}
	if err := json.Unmarshal(data, ref); err != nil {
		return err
	}
	if ref.ID == "" {
		r.SaleStaffRef = nil
		return nil
	}
	r.SaleStaffRef = ref
	return nil
}

// Vehicle represents a unit of inventory moving through the
// purchase -> deposit -> sale lifecycle. The id follows the ddMM_NNN
// business scheme derived from the import date and a running sequence.
type Vehicle struct {
	ID                string        `gorm:"type:varchar(20);primaryKey" json:"id"`
	Model             string        `gorm:"type:varchar(200);not null;index" json:"model"`
	Color             string        `gorm:"type:varchar(50)" json:"color"`
	ManufacturingYear int           `gorm:"column:manufacturing_year" json:"manufacturingYear"`
	Odo               int           `json:"odo"`
	PurchasePrice     float64       `gorm:"not null;column:purchase_price" json:"purchasePrice"`
	SalePrice         float64       `gorm:"not null;column:sale_price" json:"salePrice"`
	Status            VehicleStatus `gorm:"type:varchar(20);not null;default:'IN_STOCK';index" json:"status"`
	ImportDate        time.Time     `gorm:"not null;column:import_date" json:"importDate"`
	ExportDate        *time.Time    `gorm:"column:export_date" json:"exportDate,omitempty"`
	SaleStaff         StaffRef      `gorm:"type:text;column:sale_staff" json:"saleStaff"`
	Costs             CostList      `gorm:"type:text" json:"costs"`
	Payments          PaymentList   `gorm:"type:text" json:"payments"`
	StatusHistory     HistoryList   `gorm:"type:text;column:status_history" json:"statusHistory"`

	// Derived fields, overwritten by the financial calculator after
	// every mutation.
	StorageTime int     `gorm:"column:storage_time" json:"storageTime"`
	Cost        float64 `json:"cost"`
	Debt        float64 `json:"debt"`
	Profit      float64 `json:"profit"`

	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// SaleStaffID returns the linked staff id, or "" when unassigned
func (v *Vehicle) SaleStaffID() string {
	if v.SaleStaff.SaleStaffRef == nil {
		return ""
	}
	return v.SaleStaff.ID
}

// Clone returns a deep copy of the vehicle. Status transitions operate
// on a copy so a rejected transition leaves the original untouched.
func (v *Vehicle) Clone() *Vehicle {
	out := *v
	if v.ExportDate != nil {
		d := *v.ExportDate
		out.ExportDate = &d
	}
	if v.SaleStaff.SaleStaffRef != nil {
		ref := *v.SaleStaff.SaleStaffRef
		out.SaleStaff = StaffRef{&ref}
	}
	out.Costs = append(CostList(nil), v.Costs...)
	out.Payments = append(PaymentList(nil), v.Payments...)
	out.StatusHistory = append(HistoryList(nil), v.StatusHistory...)
	return &out
}

// Staff represents a dealership employee
type Staff struct {
	ID              string      `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name            string      `gorm:"type:varchar(200);not null;index" json:"name"`
	Team            StaffTeam   `gorm:"type:varchar(20);not null;index" json:"team"`
	Role            string      `gorm:"type:varchar(100)" json:"role"`
	Status          StaffStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	JoinDate        time.Time   `gorm:"not null;column:join_date" json:"joinDate"`
	TerminationDate *time.Time  `gorm:"column:termination_date" json:"terminationDate,omitempty"`
	Salary          float64     `json:"salary"`
	CommissionRate  float64     `gorm:"column:commission_rate" json:"commissionRate"`

	// Cached aggregates, recomputed from the vehicle collection by the
	// coordinator; never authoritative on their own.
	VehiclesSold    int     `gorm:"column:vehicles_sold" json:"vehiclesSold"`
	TotalCommission float64 `gorm:"column:total_commission" json:"totalCommission"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName pins the table name; gorm's pluralizer mangles "staff"
func (Staff) TableName() string {
	return "staff"
}

// KpiTarget is a commission target for a (targetType, targetId, month, year) period
type KpiTarget struct {
	ID           string     `gorm:"type:varchar(50);primaryKey" json:"id"`
	TargetType   TargetType `gorm:"type:varchar(20);not null;index;column:target_type" json:"targetType"`
	TargetID     string     `gorm:"type:varchar(50);not null;index;column:target_id" json:"targetId"`
	Month        int        `gorm:"not null;index" json:"month"`
	Year         int        `gorm:"not null;index" json:"year"`
	TargetValue  float64    `gorm:"not null;column:target_value" json:"targetValue"`
	BonusPerUnit float64    `gorm:"column:bonus_per_unit" json:"bonusPerUnit"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active" json:"isActive"`

	// Derived per period, filled in by the KPI engine
	ActualValue          int     `gorm:"-" json:"actualValue"`
	CompletionPercentage float64 `gorm:"-" json:"completionPercentage"`
	Bonus                float64 `gorm:"-" json:"bonus"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// SupportDepartmentBonus is a fixed or ratio-scaled bonus paid to
// non-sales departments for a period
type SupportDepartmentBonus struct {
	ID               string    `gorm:"type:varchar(50);primaryKey" json:"id"`
	Team             StaffTeam `gorm:"type:varchar(20);not null;index" json:"team"`
	Month            int       `gorm:"not null;index" json:"month"`
	Year             int       `gorm:"not null;index" json:"year"`
	BonusAmount      float64   `gorm:"not null;column:bonus_amount" json:"bonusAmount"`
	ApplyRatio       bool      `gorm:"not null;default:false;column:apply_ratio" json:"applyRatio"`
	LinkedDepartment StaffTeam `gorm:"type:varchar(20);column:linked_department" json:"linkedDepartment,omitempty"`
	IsActive         bool      `gorm:"not null;default:true;column:is_active" json:"isActive"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// SyncActionType classifies a queued local mutation awaiting replay
type SyncActionType string

const (
	SyncActionVehicleAdd    SyncActionType = "vehicle_add"
	SyncActionVehicleUpdate SyncActionType = "vehicle_update"
	SyncActionVehicleDelete SyncActionType = "vehicle_delete"
	SyncActionStaffAdd      SyncActionType = "staff_add"
	SyncActionStaffUpdate   SyncActionType = "staff_update"
	SyncActionStaffDelete   SyncActionType = "staff_delete"
	SyncActionKpiUpdate     SyncActionType = "kpi_update"
	SyncActionBonusUpdate   SyncActionType = "bonus_update"
)

// IsValid checks if the SyncActionType is a valid enum value
func (t SyncActionType) IsValid() bool {
	switch t {
	case SyncActionVehicleAdd, SyncActionVehicleUpdate, SyncActionVehicleDelete,
		SyncActionStaffAdd, SyncActionStaffUpdate, SyncActionStaffDelete,
		SyncActionKpiUpdate, SyncActionBonusUpdate:
		return true
	}
	return false
}

// PendingSyncAction is a locally queued mutation. Rows live only in the
// local store; the autoincrement id preserves enqueue order for replay.
type PendingSyncAction struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      SyncActionType `gorm:"type:varchar(30);not null" json:"type"`
	Data      string         `gorm:"type:text;not null" json:"data"`
	CreatedAt time.Time      `gorm:"not null" json:"timestamp"`
}

// TableName overrides the default table name in the local store
func (PendingSyncAction) TableName() string {
	return "pending_sync_actions"
}
