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
	// ErrCompensationNotFound indicates the requested compensation request does not exist.
	ErrCompensationNotFound = errors.New("compensation request not found")
	// ErrCompensationValidation indicates a constraint-violating compensation payload.
	ErrCompensationValidation = errors.New("compensation validation failed")
	// ErrInvalidTransition indicates an illegal status change; the request is left unchanged.
	ErrInvalidTransition = errors.New("invalid compensation status transition")
	// ErrBrandMismatch indicates the two batches do not teach the same course.
	ErrBrandMismatch = errors.New("compensation batch must share the original batch's course")
)

// CompensationService owns the compensation request workflow: proposal,
// validation and the pending/approved/rejected/completed state machine.
// Reaching completed publishes an event; the attendance record itself is
// emitted by the orchestrating workflow, not here.
type CompensationService interface {
	Request(ctx context.Context, payload dto.CompensationCreateRequest, requestedBy uint) (dto.CompensationResponse, error)
	Transition(ctx context.Context, id uint, newStatus models.CompensationStatus) (dto.CompensationResponse, error)
	List(ctx context.Context, filter repository.CompensationFilter) (dto.PagedCompensationsResponse, error)
	Get(ctx context.Context, id uint) (dto.CompensationResponse, error)
}

type compensationService struct {
	requests  repository.CompensationRepository
	batches   repository.BatchRepository
	students  repository.StudentRepository
	publisher EventPublisher
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCompensationService builds a new compensation service.
func NewCompensationService(requests repository.CompensationRepository, batches repository.BatchRepository, students repository.StudentRepository, publisher EventPublisher, validate *validator.Validate, logger zerolog.Logger) CompensationService {
	return &compensationService{
		requests:  requests,
		batches:   batches,
		students:  students,
		publisher: publisher,
		validator: validate,
		logger:    logger.With().Str("component", "compensation_service").Logger(),
		now:       time.Now,
	}
}

func (s *compensationService) Request(ctx context.Context, payload dto.CompensationCreateRequest, requestedBy uint) (dto.CompensationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CompensationResponse{}, err
	}

	if payload.CompensationBatchID == payload.OriginalBatchID {
		return dto.CompensationResponse{}, fmt.Errorf("%w: compensation batch must differ from the original batch", ErrCompensationValidation)
	}

	originalDate, err := time.Parse(dateLayout, payload.OriginalClassDate)
	if err != nil {
		return dto.CompensationResponse{}, fmt.Errorf("%w: invalid original class date", ErrCompensationValidation)
	}

	requestedDate, err := time.Parse(dateLayout, payload.RequestedDate)
	if err != nil {
		return dto.CompensationResponse{}, fmt.Errorf("%w: invalid requested date", ErrCompensationValidation)
	}

	if !sameCalendarMonth(originalDate, requestedDate) {
		return dto.CompensationResponse{}, fmt.Errorf("%w: requested date must fall in the same calendar month as the missed class", ErrCompensationValidation)
	}

	if _, err := s.students.GetByID(ctx, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CompensationResponse{}, ErrStudentNotFound
		}
		return dto.CompensationResponse{}, err
	}

	request := models.CompensationRequest{
		StudentID:           payload.StudentID,
		OriginalBatchID:     payload.OriginalBatchID,
		CompensationBatchID: payload.CompensationBatchID,
		OriginalClassDate:   originalDate,
		RequestedDate:       requestedDate,
		Status:              models.CompensationStatusPending,
		Remarks:             payload.Remarks,
		RequestedBy:         requestedBy,
	}

	if err := s.requests.Create(ctx, &request); err != nil {
		return dto.CompensationResponse{}, err
	}

	s.logger.Info().
		Uint("request_id", request.ID).
		Uint("student_id", request.StudentID).
		Msg("compensation requested")

	_ = s.publisher.Publish(SubjectCompensationRequested, s.event(request))

	return dto.NewCompensationResponse(request), nil
}

func (s *compensationService) Transition(ctx context.Context, id uint, newStatus models.CompensationStatus) (dto.CompensationResponse, error) {
	if !newStatus.Valid() {
		return dto.CompensationResponse{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, newStatus)
	}

	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CompensationResponse{}, ErrCompensationNotFound
		}
		return dto.CompensationResponse{}, err
	}

	if !request.Status.CanTransitionTo(newStatus) {
		return dto.CompensationResponse{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, request.Status, newStatus)
	}

	// Approval finalizes the request, so the brand constraint is enforced
	// here: both batches must teach the same course. The student's permanent
	// batch assignment is never touched.
	if newStatus == models.CompensationStatusApproved {
		if err := s.checkSameBrand(ctx, request.OriginalBatchID, request.CompensationBatchID); err != nil {
			return dto.CompensationResponse{}, err
		}
	}

	request.Status = newStatus
	if err := s.requests.Update(ctx, &request); err != nil {
		return dto.CompensationResponse{}, err
	}

	s.logger.Info().
		Uint("request_id", request.ID).
		Str("status", string(newStatus)).
		Msg("compensation transitioned")

	switch newStatus {
	case models.CompensationStatusApproved:
		_ = s.publisher.Publish(SubjectCompensationApproved, s.event(request))
	case models.CompensationStatusRejected:
		_ = s.publisher.Publish(SubjectCompensationRejected, s.event(request))
	case models.CompensationStatusCompleted:
		_ = s.publisher.Publish(SubjectCompensationCompleted, s.event(request))
	}

	return dto.NewCompensationResponse(request), nil
}

func (s *compensationService) List(ctx context.Context, filter repository.CompensationFilter) (dto.PagedCompensationsResponse, error) {
	requests, total, err := s.requests.ListWithFilter(ctx, filter)
	if err != nil {
		return dto.PagedCompensationsResponse{}, err
	}

	return dto.PagedCompensationsResponse{
		Items: dto.NewCompensationResponseSlice(requests),
		Total: total,
	}, nil
}

func (s *compensationService) Get(ctx context.Context, id uint) (dto.CompensationResponse, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CompensationResponse{}, ErrCompensationNotFound
		}
		return dto.CompensationResponse{}, err
	}

	return dto.NewCompensationResponse(request), nil
}

func (s *compensationService) checkSameBrand(ctx context.Context, originalID, compensationID uint) error {
	original, err := s.batches.GetByID(ctx, originalID)
	if err != nil {
		return err
	}

	compensation, err := s.batches.GetByID(ctx, compensationID)
	if err != nil {
		return err
	}

	if original.CourseID != compensation.CourseID {
		return ErrBrandMismatch
	}

	return nil
}

func (s *compensationService) event(request models.CompensationRequest) CompensationEvent {
	branch := ""
	if request.CompensationBatch.Branch.Name != "" {
		branch = request.CompensationBatch.Branch.Name
	}

	return CompensationEvent{
		RequestID:           request.ID,
		StudentID:           request.StudentID,
		OriginalBatchID:     request.OriginalBatchID,
		CompensationBatchID: request.CompensationBatchID,
		OriginalClassDate:   request.OriginalClassDate,
		CompensationDate:    request.RequestedDate,
		Branch:              branch,
		OccurredAt:          s.now(),
	}
}

// sameCalendarMonth reports whether both dates share month and year.
func sameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
