package models

import (
	"time"

	"gorm.io/datatypes"
)

// Employee represents a staff member. EmployeeID is the business key
// (e.g. "EMP10042").
type Employee struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	EmployeeID string     `gorm:"size:16;uniqueIndex;not null" json:"employee_id"`
	UserID     *uint      `gorm:"index" json:"user_id,omitempty"`
	User       *User      `json:"user,omitempty"`
	FullName   string     `gorm:"size:255;not null" json:"full_name"`
	Position   string     `gorm:"size:128;not null" json:"position"`
	BranchID   uint       `gorm:"not null;index" json:"branch_id"`
	Branch     Branch     `json:"branch,omitempty"`
	BaseSalary float64    `gorm:"not null" json:"base_salary"`
	HiredAt    time.Time  `gorm:"not null" json:"hired_at"`
	LeftAt     *time.Time `json:"left_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// PayrollStatus represents the processing state of a payroll run entry.
type PayrollStatus string

const (
	PayrollStatusDraft PayrollStatus = "draft"
	PayrollStatusPaid  PayrollStatus = "paid"
)

// PayrollEntry is one employee's pay for one period. Allowances holds the
// itemized breakdown as JSON since its shape varies per branch policy.
type PayrollEntry struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	EmployeeID uint           `gorm:"not null;uniqueIndex:idx_payroll_period" json:"employee_id"`
	Employee   Employee       `json:"employee,omitempty"`
	Period     string         `gorm:"size:7;not null;uniqueIndex:idx_payroll_period" json:"period"`
	BasePay    float64        `gorm:"not null" json:"base_pay"`
	Allowances datatypes.JSON `json:"allowances,omitempty"`
	Deductions float64        `json:"deductions"`
	NetPay     float64        `gorm:"not null" json:"net_pay"`
	Status     PayrollStatus  `gorm:"size:16;not null;default:draft" json:"status"`
	PaidAt     *time.Time     `json:"paid_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
