package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

var (
	// ErrAlreadyEnrolled indicates the student already holds an active
	// enrollment in the batch.
	ErrAlreadyEnrolled = errors.New("student already enrolled in this batch")
	// ErrBatchFull indicates the batch has reached its capacity.
	ErrBatchFull = errors.New("batch capacity reached")
	// ErrEnrollmentValidation indicates a constraint-violating enrollment payload.
	ErrEnrollmentValidation = errors.New("enrollment validation failed")
)

// EnrollmentService binds students to batches and walks the enrollment
// lifecycle. At most one active enrollment may exist per (student, batch)
// pair, and a batch never exceeds its capacity.
type EnrollmentService interface {
	Enroll(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error)
	UpdateStatus(ctx context.Context, id uint, status models.EnrollmentStatus) (dto.EnrollmentResponse, error)
	Get(ctx context.Context, id uint) (dto.EnrollmentResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error)
	ListByBatch(ctx context.Context, batchID uint) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	students    repository.StudentRepository
	batches     repository.BatchRepository
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewEnrollmentService builds a new enrollment service.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, students repository.StudentRepository, batches repository.BatchRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		students:    students,
		batches:     batches,
		validate:    validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrStudentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	batch, err := s.batches.GetByID(ctx, payload.BatchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrBatchNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	active, err := s.enrollments.CountActive(ctx, payload.StudentID, payload.BatchID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if active > 0 {
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	}

	occupants, err := s.enrollments.ListByBatch(ctx, batch.ID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	seated := 0
	for _, occupant := range occupants {
		if occupant.Status == models.EnrollmentStatusActive {
			seated++
		}
	}
	if batch.Capacity > 0 && seated >= batch.Capacity {
		return dto.EnrollmentResponse{}, ErrBatchFull
	}

	enrollmentDate, err := time.Parse(dateLayout, payload.EnrollmentDate)
	if err != nil {
		return dto.EnrollmentResponse{}, fmt.Errorf("%w: invalid enrollment date", ErrEnrollmentValidation)
	}

	enrollment := models.Enrollment{
		StudentID:      payload.StudentID,
		BatchID:        payload.BatchID,
		EnrollmentDate: enrollmentDate,
		Status:         models.EnrollmentStatusActive,
	}

	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}
	enrollment.Batch = batch

	s.logger.Info().
		Uint("student_id", enrollment.StudentID).
		Str("batch_code", batch.Code).
		Msg("student enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) UpdateStatus(ctx context.Context, id uint, status models.EnrollmentStatus) (dto.EnrollmentResponse, error) {
	if !status.Valid() {
		return dto.EnrollmentResponse{}, fmt.Errorf("%w: unknown status %q", ErrEnrollmentValidation, status)
	}

	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	enrollment.Status = status
	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Get(ctx context.Context, id uint) (dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) ListByStudent(ctx context.Context, studentID uint) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) ListByBatch(ctx context.Context, batchID uint) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.enrollments.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}
