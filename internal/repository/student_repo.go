package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// StudentFilter describes pagination & search options for student listings.
type StudentFilter struct {
	BranchID uint
	BatchID  uint
	ParentID uint
	Status   models.StudentStatus
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// StudentRepository defines persistence operations for students.
type StudentRepository interface {
	ListWithFilter(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (models.Student, error)
	ListByParent(ctx context.Context, parentID uint) ([]models.Student, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository instantiates a GORM-backed repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) ListWithFilter(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.BranchID != 0 {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	if filter.BatchID != 0 {
		query = query.Where("batch_id = ?", filter.BatchID)
	}
	if filter.ParentID != 0 {
		query = query.Where("parent_id = ?", filter.ParentID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(student_id) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(normalizeStudentSort(filter.Sort))

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var students []models.Student
	if err := query.Preload("Batch").Preload("Branch").Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Preload("Batch").Preload("Branch").Preload("Parent").
		First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByStudentID(ctx context.Context, studentID string) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Preload("Batch").Preload("Branch").
		Where("student_id = ?", studentID).First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ListByParent(ctx context.Context, parentID uint) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).Preload("Batch").Preload("Branch").
		Where("parent_id = ?", parentID).Order("first_name ASC").Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Student{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func normalizeStudentSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "name", "name:asc":
		return "first_name ASC"
	case "-name", "name:desc":
		return "first_name DESC"
	case "student_id", "student_id:asc":
		return "student_id ASC"
	case "-student_id", "student_id:desc":
		return "student_id DESC"
	case "created_at", "created_at:asc":
		return "created_at ASC"
	case "-created_at", "created_at:desc":
		return "created_at DESC"
	default:
		return "student_id ASC"
	}
}
