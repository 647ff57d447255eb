package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// CompensationFilter scopes compensation request listings.
type CompensationFilter struct {
	StudentID uint
	Status    models.CompensationStatus
	Page      int
	PageSize  int
}

// CompensationRepository defines persistence operations for compensation requests.
type CompensationRepository interface {
	ListWithFilter(ctx context.Context, filter CompensationFilter) ([]models.CompensationRequest, int64, error)
	GetByID(ctx context.Context, id uint) (models.CompensationRequest, error)
	Create(ctx context.Context, request *models.CompensationRequest) error
	Update(ctx context.Context, request *models.CompensationRequest) error
}

type compensationRepository struct {
	db *gorm.DB
}

// NewCompensationRepository instantiates a GORM-backed repository.
func NewCompensationRepository(db *gorm.DB) CompensationRepository {
	return &compensationRepository{db: db}
}

func (r *compensationRepository) ListWithFilter(ctx context.Context, filter CompensationFilter) ([]models.CompensationRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CompensationRequest{})

	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var requests []models.CompensationRequest
	if err := query.Preload("Student").Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *compensationRepository) GetByID(ctx context.Context, id uint) (models.CompensationRequest, error) {
	var request models.CompensationRequest
	if err := r.db.WithContext(ctx).
		Preload("Student").Preload("OriginalBatch").Preload("CompensationBatch").
		Preload("CompensationBatch.Branch").
		First(&request, id).Error; err != nil {
		return models.CompensationRequest{}, err
	}

	return request, nil
}

func (r *compensationRepository) Create(ctx context.Context, request *models.CompensationRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *compensationRepository) Update(ctx context.Context, request *models.CompensationRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}
