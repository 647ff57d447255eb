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
	// ErrBranchNotFound indicates the requested branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")
	// ErrCourseNotFound indicates the requested course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrBatchNotFound indicates the requested batch does not exist.
	ErrBatchNotFound = errors.New("batch not found")
	// ErrCatalogValidation indicates a constraint-violating catalog payload.
	ErrCatalogValidation = errors.New("catalog validation failed")
	// ErrInvalidBatchCode indicates the code does not follow the CCBBSSYY format.
	ErrInvalidBatchCode = errors.New("batch code must follow the CCBBSSYY format")
)

// CatalogService manages the static teaching catalog: branches, courses and
// the batches scheduled against them.
type CatalogService interface {
	ListBranches(ctx context.Context) ([]models.Branch, error)
	CreateBranch(ctx context.Context, payload dto.BranchRequest) (models.Branch, error)
	UpdateBranch(ctx context.Context, id uint, payload dto.BranchRequest) (models.Branch, error)
	DeleteBranch(ctx context.Context, id uint) error

	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, payload dto.CourseRequest) (models.Course, error)
	UpdateCourse(ctx context.Context, id uint, payload dto.CourseRequest) (models.Course, error)
	DeleteCourse(ctx context.Context, id uint) error

	ListBatches(ctx context.Context, filter repository.BatchFilter) (dto.PagedBatchesResponse, error)
	GetBatch(ctx context.Context, id uint) (dto.BatchResponse, error)
	CreateBatch(ctx context.Context, payload dto.BatchCreateRequest) (dto.BatchResponse, error)
	DeleteBatch(ctx context.Context, id uint) error
}

type catalogService struct {
	branches repository.BranchRepository
	courses  repository.CourseRepository
	batches  repository.BatchRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewCatalogService builds a new catalog service.
func NewCatalogService(branches repository.BranchRepository, courses repository.CourseRepository, batches repository.BatchRepository, validate *validator.Validate, logger zerolog.Logger) CatalogService {
	return &catalogService{
		branches: branches,
		courses:  courses,
		batches:  batches,
		validate: validate,
		logger:   logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) ListBranches(ctx context.Context) ([]models.Branch, error) {
	return s.branches.List(ctx)
}

func (s *catalogService) CreateBranch(ctx context.Context, payload dto.BranchRequest) (models.Branch, error) {
	if err := s.validate.Struct(payload); err != nil {
		return models.Branch{}, err
	}

	branch := models.Branch{
		Code:    payload.Code,
		Name:    payload.Name,
		Address: payload.Address,
		Phone:   payload.Phone,
	}

	if err := s.branches.Create(ctx, &branch); err != nil {
		return models.Branch{}, err
	}

	s.logger.Info().Str("code", branch.Code).Msg("branch created")
	return branch, nil
}

func (s *catalogService) UpdateBranch(ctx context.Context, id uint, payload dto.BranchRequest) (models.Branch, error) {
	if err := s.validate.Struct(payload); err != nil {
		return models.Branch{}, err
	}

	branch, err := s.branches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Branch{}, ErrBranchNotFound
		}
		return models.Branch{}, err
	}

	branch.Code = payload.Code
	branch.Name = payload.Name
	branch.Address = payload.Address
	branch.Phone = payload.Phone

	if err := s.branches.Update(ctx, &branch); err != nil {
		return models.Branch{}, err
	}

	return branch, nil
}

func (s *catalogService) DeleteBranch(ctx context.Context, id uint) error {
	if err := s.branches.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBranchNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}

func (s *catalogService) CreateCourse(ctx context.Context, payload dto.CourseRequest) (models.Course, error) {
	if err := s.validate.Struct(payload); err != nil {
		return models.Course{}, err
	}

	course := models.Course{
		Code:        payload.Code,
		Name:        payload.Name,
		Description: payload.Description,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return models.Course{}, err
	}

	s.logger.Info().Str("code", course.Code).Msg("course created")
	return course, nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, id uint, payload dto.CourseRequest) (models.Course, error) {
	if err := s.validate.Struct(payload); err != nil {
		return models.Course{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}

	course.Code = payload.Code
	course.Name = payload.Name
	course.Description = payload.Description

	if err := s.courses.Update(ctx, &course); err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, id uint) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListBatches(ctx context.Context, filter repository.BatchFilter) (dto.PagedBatchesResponse, error) {
	batches, total, err := s.batches.ListWithFilter(ctx, filter)
	if err != nil {
		return dto.PagedBatchesResponse{}, err
	}

	return dto.PagedBatchesResponse{
		Items: dto.NewBatchResponseSlice(batches),
		Total: total,
	}, nil
}

func (s *catalogService) GetBatch(ctx context.Context, id uint) (dto.BatchResponse, error) {
	batch, err := s.batches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, ErrBatchNotFound
		}
		return dto.BatchResponse{}, err
	}

	return dto.NewBatchResponse(batch), nil
}

func (s *catalogService) CreateBatch(ctx context.Context, payload dto.BatchCreateRequest) (dto.BatchResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.BatchResponse{}, err
	}

	if !models.ValidBatchCode(payload.Code) {
		return dto.BatchResponse{}, ErrInvalidBatchCode
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, ErrCourseNotFound
		}
		return dto.BatchResponse{}, err
	}
	if _, err := s.branches.GetByID(ctx, payload.BranchID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, ErrBranchNotFound
		}
		return dto.BatchResponse{}, err
	}

	startDate, err := time.Parse(dateLayout, payload.StartDate)
	if err != nil {
		return dto.BatchResponse{}, fmt.Errorf("%w: invalid start date", ErrCatalogValidation)
	}
	endDate, err := time.Parse(dateLayout, payload.EndDate)
	if err != nil {
		return dto.BatchResponse{}, fmt.Errorf("%w: invalid end date", ErrCatalogValidation)
	}
	if endDate.Before(startDate) {
		return dto.BatchResponse{}, fmt.Errorf("%w: end date precedes start date", ErrCatalogValidation)
	}

	batch := models.Batch{
		Code:      payload.Code,
		CourseID:  payload.CourseID,
		BranchID:  payload.BranchID,
		TeacherID: payload.TeacherID,
		TimeSlot:  payload.TimeSlot,
		Room:      payload.Room,
		Capacity:  payload.Capacity,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    batchStatusFor(startDate, endDate, time.Now()),
	}

	if err := s.batches.Create(ctx, &batch); err != nil {
		return dto.BatchResponse{}, err
	}

	s.logger.Info().Str("code", batch.Code).Msg("batch created")
	return dto.NewBatchResponse(batch), nil
}

func (s *catalogService) DeleteBatch(ctx context.Context, id uint) error {
	if err := s.batches.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBatchNotFound
		}
		return err
	}
	return nil
}

func batchStatusFor(start, end, now time.Time) models.BatchStatus {
	switch {
	case now.Before(start):
		return models.BatchStatusUpcoming
	case now.After(end):
		return models.BatchStatusFinished
	default:
		return models.BatchStatusActive
	}
}
