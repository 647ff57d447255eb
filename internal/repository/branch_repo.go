package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// BranchRepository defines persistence operations for branches.
type BranchRepository interface {
	List(ctx context.Context) ([]models.Branch, error)
	GetByID(ctx context.Context, id uint) (models.Branch, error)
	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	Delete(ctx context.Context, id uint) error
}

type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository instantiates a GORM-backed repository.
func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) List(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&branches).Error; err != nil {
		return nil, err
	}

	return branches, nil
}

func (r *branchRepository) GetByID(ctx context.Context, id uint) (models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, id).Error; err != nil {
		return models.Branch{}, err
	}

	return branch, nil
}

func (r *branchRepository) Create(ctx context.Context, branch *models.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

func (r *branchRepository) Update(ctx context.Context, branch *models.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

func (r *branchRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Branch{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
