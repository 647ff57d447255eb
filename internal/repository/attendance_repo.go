package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
)

// AttendanceFilter scopes attendance listings.
type AttendanceFilter struct {
	EnrollmentID uint
	BatchID      uint
	Status       models.AttendanceStatus
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}

// AttendanceRepository defines persistence operations for attendance records.
type AttendanceRepository interface {
	ListWithFilter(ctx context.Context, filter AttendanceFilter) ([]models.AttendanceRecord, int64, error)
	ListByEnrollment(ctx context.Context, enrollmentID uint) ([]models.AttendanceRecord, error)
	GetByEnrollmentAndDate(ctx context.Context, enrollmentID uint, date time.Time) (models.AttendanceRecord, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates a GORM-backed repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListWithFilter(ctx context.Context, filter AttendanceFilter) ([]models.AttendanceRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AttendanceRecord{})

	if filter.EnrollmentID != 0 {
		query = query.Where("enrollment_id = ?", filter.EnrollmentID)
	}
	if filter.BatchID != 0 {
		query = query.Where("enrollment_id IN (?)",
			r.db.Model(&models.Enrollment{}).Select("id").Where("batch_id = ?", filter.BatchID))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("date DESC")

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var records []models.AttendanceRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *attendanceRepository) ListByEnrollment(ctx context.Context, enrollmentID uint) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).Order("date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *attendanceRepository) GetByEnrollmentAndDate(ctx context.Context, enrollmentID uint, date time.Time) (models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("enrollment_id = ? AND date = ?", enrollmentID, date).
		First(&record).Error; err != nil {
		return models.AttendanceRecord{}, err
	}

	return record, nil
}

func (r *attendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}
