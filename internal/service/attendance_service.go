package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/observability"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

var (
	// ErrEnrollmentNotFound indicates the referenced enrollment does not exist.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrAttendanceValidation indicates a constraint-violating attendance payload.
	ErrAttendanceValidation = errors.New("attendance validation failed")
	// ErrDateOutOfRange indicates the date falls outside the batch's active window.
	ErrDateOutOfRange = errors.New("date outside the batch active window")
	// ErrDuplicateAttendance indicates a record already exists for the day.
	ErrDuplicateAttendance = errors.New("attendance already recorded for this date")
)

const dateLayout = "2006-01-02"

// AttendanceService represents, validates and summarizes per-class attendance
// outcomes. It owns no storage beyond its repositories.
type AttendanceService interface {
	Record(ctx context.Context, payload dto.AttendanceRecordRequest, recordedBy uint) (dto.AttendanceRecordResponse, error)
	List(ctx context.Context, filter repository.AttendanceFilter) ([]dto.AttendanceRecordResponse, int64, error)
	Summarize(ctx context.Context, enrollmentID uint, from, to *time.Time) (dto.AttendanceSummaryResponse, error)
}

type attendanceService struct {
	records     repository.AttendanceRepository
	enrollments repository.EnrollmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewAttendanceService builds a new attendance service.
func NewAttendanceService(records repository.AttendanceRepository, enrollments repository.EnrollmentRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		records:     records,
		enrollments: enrollments,
		cache:       cache,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger.With().Str("component", "attendance_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/edudesk-api/internal/service/attendance"),
	}
}

func (s *attendanceService) Record(ctx context.Context, payload dto.AttendanceRecordRequest, recordedBy uint) (dto.AttendanceRecordResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceRecordResponse{}, err
	}

	if !payload.Status.Valid() {
		return dto.AttendanceRecordResponse{}, fmt.Errorf("%w: unknown status %q", ErrAttendanceValidation, payload.Status)
	}

	details, err := s.validateCompensationDetails(payload)
	if err != nil {
		return dto.AttendanceRecordResponse{}, err
	}

	date, err := time.Parse(dateLayout, payload.Date)
	if err != nil {
		return dto.AttendanceRecordResponse{}, fmt.Errorf("%w: invalid date", ErrAttendanceValidation)
	}

	enrollment, err := s.enrollments.GetByID(ctx, payload.EnrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceRecordResponse{}, ErrEnrollmentNotFound
		}
		return dto.AttendanceRecordResponse{}, err
	}

	if !enrollment.Batch.Contains(date) {
		return dto.AttendanceRecordResponse{}, ErrDateOutOfRange
	}

	if _, err := s.records.GetByEnrollmentAndDate(ctx, enrollment.ID, date); err == nil {
		return dto.AttendanceRecordResponse{}, ErrDuplicateAttendance
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AttendanceRecordResponse{}, err
	}

	record := models.AttendanceRecord{
		EnrollmentID: enrollment.ID,
		Date:         date,
		Status:       payload.Status,
		Remarks:      payload.Remarks,
		Compensation: details,
		RecordedBy:   recordedBy,
	}

	if err := s.records.Create(ctx, &record); err != nil {
		return dto.AttendanceRecordResponse{}, err
	}

	observability.AttendanceWrites().WithLabelValues(string(record.Status)).Inc()
	s.invalidateSummary(ctx, enrollment.ID)

	s.logger.Info().
		Uint("enrollment_id", enrollment.ID).
		Str("status", string(record.Status)).
		Str("date", payload.Date).
		Msg("attendance recorded")

	return dto.NewAttendanceRecordResponse(record), nil
}

// validateCompensationDetails enforces that compensation details are present
// exactly when the status is compensation, and complete when present.
func (s *attendanceService) validateCompensationDetails(payload dto.AttendanceRecordRequest) (*models.CompensationDetails, error) {
	if payload.Status != models.AttendanceStatusCompensation {
		if payload.Compensation != nil {
			return nil, fmt.Errorf("%w: compensation details only allowed for compensation status", ErrAttendanceValidation)
		}
		return nil, nil
	}

	if payload.Compensation == nil {
		return nil, fmt.Errorf("%w: compensation details required", ErrAttendanceValidation)
	}

	originalDate, err := time.Parse(dateLayout, payload.Compensation.OriginalClassDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid original class date", ErrAttendanceValidation)
	}

	details := models.CompensationDetails{
		OriginalClassDate:   originalDate,
		OriginalBatchID:     payload.Compensation.OriginalBatchID,
		CompensationBatchID: payload.Compensation.CompensationBatchID,
		Branch:              payload.Compensation.Branch,
	}

	if !details.Complete() {
		return nil, fmt.Errorf("%w: compensation details incomplete", ErrAttendanceValidation)
	}

	return &details, nil
}

func (s *attendanceService) List(ctx context.Context, filter repository.AttendanceFilter) ([]dto.AttendanceRecordResponse, int64, error) {
	records, total, err := s.records.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewAttendanceRecordResponseSlice(records), total, nil
}

func (s *attendanceService) Summarize(ctx context.Context, enrollmentID uint, from, to *time.Time) (dto.AttendanceSummaryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.summarize",
		trace.WithAttributes(attribute.Int("enrollment_id", int(enrollmentID))))
	defer span.End()

	cacheKey := s.summaryCacheKey(enrollmentID, from, to)
	if s.cache != nil && cacheKey != "" {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.AttendanceSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("enrollment_id", enrollmentID).Msg("summary cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
	}

	filter := repository.AttendanceFilter{EnrollmentID: enrollmentID, DateFrom: from, DateTo: to}
	records, _, err := s.records.ListWithFilter(ctx, filter)
	if err != nil {
		return dto.AttendanceSummaryResponse{}, err
	}

	response := SummarizeRecords(records)

	if s.cache != nil && cacheKey != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return response, nil
}

// SummarizeRecords computes the per-status percentage breakdown of a record
// set. Every supported status is present in the result. An empty set yields
// all-zero percentages; there is no implicit denominator substitution.
// Percentages round half-up independently per status, so their sum may differ
// from 100.
func SummarizeRecords(records []models.AttendanceRecord) dto.AttendanceSummaryResponse {
	percentages := make(map[models.AttendanceStatus]int, len(models.AttendanceStatuses))
	for _, status := range models.AttendanceStatuses {
		percentages[status] = 0
	}

	total := len(records)
	if total == 0 {
		return dto.AttendanceSummaryResponse{Total: 0, Percentages: percentages}
	}

	counts := make(map[models.AttendanceStatus]int, len(models.AttendanceStatuses))
	for _, record := range records {
		counts[record.Status]++
	}

	for status, count := range counts {
		percentages[status] = roundHalfUp(float64(count) / float64(total) * 100)
	}

	return dto.AttendanceSummaryResponse{Total: total, Percentages: percentages}
}

func roundHalfUp(value float64) int {
	return int(math.Floor(value + 0.5))
}

func (s *attendanceService) summaryCacheKey(enrollmentID uint, from, to *time.Time) string {
	key := fmt.Sprintf("attendance:summary:%d", enrollmentID)
	if from != nil {
		key += ":" + from.Format(dateLayout)
	}
	if to != nil {
		key += ":" + to.Format(dateLayout)
	}
	return key
}

func (s *attendanceService) invalidateSummary(ctx context.Context, enrollmentID uint) {
	if s.cache == nil {
		return
	}

	// Ranged summaries share the enrollment prefix, drop those too.
	base := fmt.Sprintf("attendance:summary:%d", enrollmentID)
	keys := []string{base}

	iter := s.cache.Scan(ctx, 0, base+":*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to scan summary cache keys")
	}

	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
}
