package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// EnrollmentRepository defines persistence operations for enrollments.
type EnrollmentRepository interface {
	GetByID(ctx context.Context, id uint) (models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error)
	ListByBatch(ctx context.Context, batchID uint) ([]models.Enrollment, error)
	CountActive(ctx context.Context, studentID, batchID uint) (int64, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).Preload("Batch").Preload("Student").
		First(&enrollment, id).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).Preload("Batch").
		Where("student_id = ?", studentID).Order("enrollment_date DESC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) ListByBatch(ctx context.Context, batchID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).Preload("Student").
		Where("batch_id = ?", batchID).Order("enrollment_date ASC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) CountActive(ctx context.Context, studentID, batchID uint) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("student_id = ? AND batch_id = ? AND status = ?", studentID, batchID, models.EnrollmentStatusActive).
		Count(&total).Error; err != nil {
		return 0, err
	}

	return total, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}
