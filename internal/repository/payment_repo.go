package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// PaymentFilter scopes payment listings.
type PaymentFilter struct {
	StudentID uint
	BranchID  uint
	Status    models.PaymentStatus
	Page      int
	PageSize  int
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	ListWithFilter(ctx context.Context, filter PaymentFilter) ([]models.Payment, int64, error)
	GetByID(ctx context.Context, id uint) (models.Payment, error)
	GetByInvoiceID(ctx context.Context, invoiceID string) (models.Payment, error)
	SumPaid(ctx context.Context, branchID uint) (float64, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository instantiates a GORM-backed repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) ListWithFilter(ctx context.Context, filter PaymentFilter) ([]models.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Payment{})

	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.BranchID != 0 {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("due_date DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var payments []models.Payment
	if err := query.Preload("Student").Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Preload("Student").First(&payment, id).Error; err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

func (r *paymentRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).First(&payment).Error; err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}

func (r *paymentRepository) SumPaid(ctx context.Context, branchID uint) (float64, error) {
	query := r.db.WithContext(ctx).Model(&models.Payment{}).Where("status = ?", models.PaymentStatusPaid)
	if branchID != 0 {
		query = query.Where("branch_id = ?", branchID)
	}

	var total float64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}
