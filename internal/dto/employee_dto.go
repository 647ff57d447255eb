package dto

import (
	"time"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// EmployeeCreateRequest describes the payload registering a staff member.
type EmployeeCreateRequest struct {
	FullName   string  `json:"full_name" validate:"required,min=2"`
	Position   string  `json:"position" validate:"required"`
	BranchID   uint    `json:"branch_id" validate:"required"`
	BaseSalary float64 `json:"base_salary" validate:"required,gt=0"`
	HiredAt    string  `json:"hired_at" validate:"required,datetime=2006-01-02"`
	UserID     *uint   `json:"user_id"`
}

// EmployeeResponse is the serialized representation of a staff member.
type EmployeeResponse struct {
	ID         uint      `json:"id"`
	EmployeeID string    `json:"employee_id"`
	FullName   string    `json:"full_name"`
	Position   string    `json:"position"`
	BranchID   uint      `json:"branch_id"`
	Branch     string    `json:"branch,omitempty"`
	BaseSalary float64   `json:"base_salary"`
	HiredAt    time.Time `json:"hired_at"`
}

// NewEmployeeResponse converts a model into a DTO.
func NewEmployeeResponse(model models.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         model.ID,
		EmployeeID: model.EmployeeID,
		FullName:   model.FullName,
		Position:   model.Position,
		BranchID:   model.BranchID,
		Branch:     model.Branch.Name,
		BaseSalary: model.BaseSalary,
		HiredAt:    model.HiredAt,
	}
}

// NewEmployeeResponseSlice converts a slice of models into DTOs.
func NewEmployeeResponseSlice(employees []models.Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, 0, len(employees))
	for _, employee := range employees {
		responses = append(responses, NewEmployeeResponse(employee))
	}

	return responses
}

// PayrollRunRequest asks for a payroll run over one period (YYYY-MM).
type PayrollRunRequest struct {
	Period     string             `json:"period" validate:"required,len=7"`
	Allowances map[string]float64 `json:"allowances"`
	Deductions float64            `json:"deductions" validate:"gte=0"`
}

// PayrollEntryResponse is the serialized representation of one payroll entry.
type PayrollEntryResponse struct {
	ID         uint                 `json:"id"`
	EmployeeID uint                 `json:"employee_id"`
	Period     string               `json:"period"`
	BasePay    float64              `json:"base_pay"`
	Allowances map[string]float64   `json:"allowances,omitempty"`
	Deductions float64              `json:"deductions"`
	NetPay     float64              `json:"net_pay"`
	Status     models.PayrollStatus `json:"status"`
	PaidAt     *time.Time           `json:"paid_at,omitempty"`
}
