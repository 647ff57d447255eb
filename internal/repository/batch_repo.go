package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// BatchFilter describes pagination & search options for batch listings.
type BatchFilter struct {
	BranchID  uint
	CourseID  uint
	TeacherID uint
	Status    models.BatchStatus
	Search    string
	Sort      string
	Page      int
	PageSize  int
}

// BatchRepository defines persistence operations for batches.
type BatchRepository interface {
	ListWithFilter(ctx context.Context, filter BatchFilter) ([]models.Batch, int64, error)
	GetByID(ctx context.Context, id uint) (models.Batch, error)
	GetByCode(ctx context.Context, code string) (models.Batch, error)
	Create(ctx context.Context, batch *models.Batch) error
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id uint) error
}

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository instantiates a GORM-backed repository.
func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) ListWithFilter(ctx context.Context, filter BatchFilter) ([]models.Batch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Batch{})

	if filter.BranchID != 0 {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	if filter.CourseID != 0 {
		query = query.Where("course_id = ?", filter.CourseID)
	}
	if filter.TeacherID != 0 {
		query = query.Where("teacher_id = ?", filter.TeacherID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToUpper(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("UPPER(code) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(normalizeBatchSort(filter.Sort))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var batches []models.Batch
	if err := query.Preload("Course").Preload("Branch").Find(&batches).Error; err != nil {
		return nil, 0, err
	}

	return batches, total, nil
}

func (r *batchRepository) GetByID(ctx context.Context, id uint) (models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).Preload("Course").Preload("Branch").First(&batch, id).Error; err != nil {
		return models.Batch{}, err
	}

	return batch, nil
}

func (r *batchRepository) GetByCode(ctx context.Context, code string) (models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).Preload("Course").Preload("Branch").
		Where("code = ?", code).First(&batch).Error; err != nil {
		return models.Batch{}, err
	}

	return batch, nil
}

func (r *batchRepository) Create(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *batchRepository) Update(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

func (r *batchRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Batch{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalizeBatchSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "code", "code:asc":
		return "code ASC"
	case "-code", "code:desc":
		return "code DESC"
	case "start_date", "start_date:asc":
		return "start_date ASC"
	case "-start_date", "start_date:desc":
		return "start_date DESC"
	default:
		return "start_date DESC"
	}
}
