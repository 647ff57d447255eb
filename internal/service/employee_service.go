package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

var (
	// ErrEmployeeNotFound indicates the requested employee does not exist.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrEmployeeValidation indicates a constraint-violating employee payload.
	ErrEmployeeValidation = errors.New("employee validation failed")
	// ErrPayrollAlreadyRun indicates the employee already has an entry for the period.
	ErrPayrollAlreadyRun = errors.New("payroll already run for this period")
)

// EmployeeService manages staff records and monthly payroll runs. Net pay is
// base salary plus itemized allowances minus deductions; each employee gets
// at most one payroll entry per period.
type EmployeeService interface {
	Create(ctx context.Context, payload dto.EmployeeCreateRequest) (dto.EmployeeResponse, error)
	Get(ctx context.Context, id uint) (dto.EmployeeResponse, error)
	List(ctx context.Context, branchID uint) ([]dto.EmployeeResponse, error)
	Delete(ctx context.Context, id uint) error

	RunPayroll(ctx context.Context, employeeID uint, payload dto.PayrollRunRequest) (dto.PayrollEntryResponse, error)
	ListPayroll(ctx context.Context, period string) ([]dto.PayrollEntryResponse, error)
	MarkPayrollPaid(ctx context.Context, entryID uint) (dto.PayrollEntryResponse, error)
}

type employeeService struct {
	employees repository.EmployeeRepository
	validate  *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEmployeeService builds a new employee service.
func NewEmployeeService(employees repository.EmployeeRepository, validate *validator.Validate, logger zerolog.Logger) EmployeeService {
	return &employeeService{
		employees: employees,
		validate:  validate,
		logger:    logger.With().Str("component", "employee_service").Logger(),
		now:       time.Now,
	}
}

func (s *employeeService) Create(ctx context.Context, payload dto.EmployeeCreateRequest) (dto.EmployeeResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.EmployeeResponse{}, err
	}

	hiredAt, err := time.Parse(dateLayout, payload.HiredAt)
	if err != nil {
		return dto.EmployeeResponse{}, fmt.Errorf("%w: invalid hire date", ErrEmployeeValidation)
	}

	count, err := s.employees.Count(ctx)
	if err != nil {
		return dto.EmployeeResponse{}, err
	}

	employee := models.Employee{
		EmployeeID: fmt.Sprintf("EMP%05d", 10000+count+1),
		UserID:     payload.UserID,
		FullName:   payload.FullName,
		Position:   payload.Position,
		BranchID:   payload.BranchID,
		BaseSalary: payload.BaseSalary,
		HiredAt:    hiredAt,
	}

	if err := s.employees.Create(ctx, &employee); err != nil {
		return dto.EmployeeResponse{}, err
	}

	s.logger.Info().Str("employee_id", employee.EmployeeID).Msg("employee registered")

	return dto.NewEmployeeResponse(employee), nil
}

func (s *employeeService) Get(ctx context.Context, id uint) (dto.EmployeeResponse, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EmployeeResponse{}, ErrEmployeeNotFound
		}
		return dto.EmployeeResponse{}, err
	}

	return dto.NewEmployeeResponse(employee), nil
}

func (s *employeeService) List(ctx context.Context, branchID uint) ([]dto.EmployeeResponse, error) {
	employees, err := s.employees.List(ctx, branchID)
	if err != nil {
		return nil, err
	}

	return dto.NewEmployeeResponseSlice(employees), nil
}

func (s *employeeService) Delete(ctx context.Context, id uint) error {
	if err := s.employees.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	return nil
}

func (s *employeeService) RunPayroll(ctx context.Context, employeeID uint, payload dto.PayrollRunRequest) (dto.PayrollEntryResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.PayrollEntryResponse{}, err
	}

	if _, err := time.Parse("2006-01", payload.Period); err != nil {
		return dto.PayrollEntryResponse{}, fmt.Errorf("%w: period must be YYYY-MM", ErrEmployeeValidation)
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PayrollEntryResponse{}, ErrEmployeeNotFound
		}
		return dto.PayrollEntryResponse{}, err
	}

	existing, err := s.employees.CountPayroll(ctx, employee.ID, payload.Period)
	if err != nil {
		return dto.PayrollEntryResponse{}, err
	}
	if existing > 0 {
		return dto.PayrollEntryResponse{}, ErrPayrollAlreadyRun
	}

	allowanceTotal := 0.0
	for _, amount := range payload.Allowances {
		allowanceTotal += amount
	}

	var allowances datatypes.JSON
	if len(payload.Allowances) > 0 {
		encoded, err := json.Marshal(payload.Allowances)
		if err != nil {
			return dto.PayrollEntryResponse{}, err
		}
		allowances = datatypes.JSON(encoded)
	}

	entry := models.PayrollEntry{
		EmployeeID: employee.ID,
		Period:     payload.Period,
		BasePay:    employee.BaseSalary,
		Allowances: allowances,
		Deductions: payload.Deductions,
		NetPay:     employee.BaseSalary + allowanceTotal - payload.Deductions,
		Status:     models.PayrollStatusDraft,
	}

	if err := s.employees.CreatePayrollEntry(ctx, &entry); err != nil {
		return dto.PayrollEntryResponse{}, err
	}

	s.logger.Info().
		Str("employee_id", employee.EmployeeID).
		Str("period", entry.Period).
		Float64("net_pay", entry.NetPay).
		Msg("payroll entry created")

	return newPayrollEntryResponse(entry), nil
}

func (s *employeeService) ListPayroll(ctx context.Context, period string) ([]dto.PayrollEntryResponse, error) {
	entries, err := s.employees.ListPayroll(ctx, period)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PayrollEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, newPayrollEntryResponse(entry))
	}

	return responses, nil
}

func (s *employeeService) MarkPayrollPaid(ctx context.Context, entryID uint) (dto.PayrollEntryResponse, error) {
	entry, err := s.employees.GetPayrollEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PayrollEntryResponse{}, ErrEmployeeNotFound
		}
		return dto.PayrollEntryResponse{}, err
	}

	paidAt := s.now()
	entry.Status = models.PayrollStatusPaid
	entry.PaidAt = &paidAt

	if err := s.employees.UpdatePayrollEntry(ctx, &entry); err != nil {
		return dto.PayrollEntryResponse{}, err
	}

	return newPayrollEntryResponse(entry), nil
}

func newPayrollEntryResponse(entry models.PayrollEntry) dto.PayrollEntryResponse {
	response := dto.PayrollEntryResponse{
		ID:         entry.ID,
		EmployeeID: entry.EmployeeID,
		Period:     entry.Period,
		BasePay:    entry.BasePay,
		Deductions: entry.Deductions,
		NetPay:     entry.NetPay,
		Status:     entry.Status,
		PaidAt:     entry.PaidAt,
	}

	if len(entry.Allowances) > 0 {
		allowances := map[string]float64{}
		if err := json.Unmarshal(entry.Allowances, &allowances); err == nil {
			response.Allowances = allowances
		}
	}

	return response
}
