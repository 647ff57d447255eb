package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// EmployeeRepository defines persistence operations for employees and payroll.
type EmployeeRepository interface {
	List(ctx context.Context, branchID uint) ([]models.Employee, error)
	GetByID(ctx context.Context, id uint) (models.Employee, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uint) error

	ListPayroll(ctx context.Context, period string) ([]models.PayrollEntry, error)
	GetPayrollEntry(ctx context.Context, id uint) (models.PayrollEntry, error)
	CountPayroll(ctx context.Context, employeeID uint, period string) (int64, error)
	CreatePayrollEntry(ctx context.Context, entry *models.PayrollEntry) error
	UpdatePayrollEntry(ctx context.Context, entry *models.PayrollEntry) error
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository instantiates a GORM-backed repository.
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) List(ctx context.Context, branchID uint) ([]models.Employee, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}

	var employees []models.Employee
	if err := query.Preload("Branch").Order("employee_id ASC").Find(&employees).Error; err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Preload("Branch").First(&employee, id).Error; err != nil {
		return models.Employee{}, err
	}

	return employee, nil
}

func (r *employeeRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Employee{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *employeeRepository) ListPayroll(ctx context.Context, period string) ([]models.PayrollEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.PayrollEntry{})
	if period != "" {
		query = query.Where("period = ?", period)
	}

	var entries []models.PayrollEntry
	if err := query.Preload("Employee").Order("period DESC, employee_id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *employeeRepository) GetPayrollEntry(ctx context.Context, id uint) (models.PayrollEntry, error) {
	var entry models.PayrollEntry
	if err := r.db.WithContext(ctx).Preload("Employee").First(&entry, id).Error; err != nil {
		return models.PayrollEntry{}, err
	}

	return entry, nil
}

func (r *employeeRepository) CountPayroll(ctx context.Context, employeeID uint, period string) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.PayrollEntry{}).
		Where("employee_id = ? AND period = ?", employeeID, period).
		Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

func (r *employeeRepository) CreatePayrollEntry(ctx context.Context, entry *models.PayrollEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *employeeRepository) UpdatePayrollEntry(ctx context.Context, entry *models.PayrollEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}
