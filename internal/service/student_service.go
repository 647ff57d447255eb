package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

var (
	// ErrStudentNotFound indicates the requested student does not exist.
	ErrStudentNotFound = errors.New("student not found")
	// ErrStudentValidation indicates a constraint-violating student payload.
	ErrStudentValidation = errors.New("student validation failed")
	// ErrParentRoleRequired indicates the referenced guardian is not a parent account.
	ErrParentRoleRequired = errors.New("guardian must hold the parent role")
)

// StudentService manages the student registry, including the generated
// business keys and profile photos.
type StudentService interface {
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Get(ctx context.Context, id uint) (dto.StudentResponse, error)
	GetByStudentID(ctx context.Context, studentID string) (dto.StudentResponse, error)
	List(ctx context.Context, filter repository.StudentFilter) (dto.PagedStudentsResponse, error)
	ListByParent(ctx context.Context, parentID uint) ([]dto.StudentResponse, error)
	UploadPhoto(ctx context.Context, id uint, file *multipart.FileHeader) (dto.StudentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type studentService struct {
	students repository.StudentRepository
	users    repository.UserRepository
	batches  repository.BatchRepository
	media    MediaService
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewStudentService builds a new student service.
func NewStudentService(students repository.StudentRepository, users repository.UserRepository, batches repository.BatchRepository, media MediaService, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students: students,
		users:    users,
		batches:  batches,
		media:    media,
		validate: validate,
		logger:   logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	parent, err := s.users.GetByID(ctx, payload.ParentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, fmt.Errorf("%w: guardian account not found", ErrStudentValidation)
		}
		return dto.StudentResponse{}, err
	}
	if parent.Role != models.RoleParent {
		return dto.StudentResponse{}, ErrParentRoleRequired
	}

	if payload.BatchID != nil {
		if _, err := s.batches.GetByID(ctx, *payload.BatchID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, fmt.Errorf("%w: batch not found", ErrStudentValidation)
			}
			return dto.StudentResponse{}, err
		}
	}

	businessID, err := s.nextStudentID(ctx)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		StudentID: businessID,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		ParentID:  payload.ParentID,
		BranchID:  payload.BranchID,
		BatchID:   payload.BatchID,
		Status:    models.StudentStatusActive,
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().
		Str("student_id", student.StudentID).
		Uint("parent_id", student.ParentID).
		Msg("student registered")

	return dto.NewStudentResponse(student), nil
}

// nextStudentID derives the next business key from the registry size. Keys
// start at STU10001 so they are visually uniform at five digits.
func (s *studentService) nextStudentID(ctx context.Context) (string, error) {
	count, err := s.students.Count(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("STU%05d", 10000+count+1), nil
}

func (s *studentService) Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if payload.FirstName != nil {
		student.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		student.LastName = *payload.LastName
	}
	if payload.BatchID != nil {
		if _, err := s.batches.GetByID(ctx, *payload.BatchID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, fmt.Errorf("%w: batch not found", ErrStudentValidation)
			}
			return dto.StudentResponse{}, err
		}
		student.BatchID = payload.BatchID
	}
	if payload.Status != nil {
		if !payload.Status.Valid() {
			return dto.StudentResponse{}, fmt.Errorf("%w: unknown status %q", ErrStudentValidation, *payload.Status)
		}
		student.Status = *payload.Status
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Get(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) GetByStudentID(ctx context.Context, studentID string) (dto.StudentResponse, error) {
	student, err := s.students.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, filter repository.StudentFilter) (dto.PagedStudentsResponse, error) {
	students, total, err := s.students.ListWithFilter(ctx, filter)
	if err != nil {
		return dto.PagedStudentsResponse{}, err
	}

	return dto.PagedStudentsResponse{
		Items: dto.NewStudentResponseSlice(students),
		Total: total,
	}, nil
}

func (s *studentService) ListByParent(ctx context.Context, parentID uint) ([]dto.StudentResponse, error) {
	students, err := s.students.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) UploadPhoto(ctx context.Context, id uint, file *multipart.FileHeader) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	url, err := s.media.Store(ctx, file)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	student.PhotoURL = url
	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", student.StudentID).Msg("student photo updated")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	return nil
}
