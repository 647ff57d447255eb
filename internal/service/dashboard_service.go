package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

const adminDashboardCacheKey = "dashboard:admin"

// DashboardService assembles the per-role landing page aggregates.
type DashboardService interface {
	Admin(ctx context.Context) (dto.AdminDashboardResponse, error)
	Parent(ctx context.Context, parentID uint) (dto.ParentDashboardResponse, error)
}

type dashboardService struct {
	students      repository.StudentRepository
	employees     repository.EmployeeRepository
	branches      repository.BranchRepository
	payments      repository.PaymentRepository
	compensations repository.CompensationRepository
	enrollments   repository.EnrollmentRepository
	attendance    AttendanceService
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewDashboardService builds a new dashboard service.
func NewDashboardService(
	students repository.StudentRepository,
	employees repository.EmployeeRepository,
	branches repository.BranchRepository,
	payments repository.PaymentRepository,
	compensations repository.CompensationRepository,
	enrollments repository.EnrollmentRepository,
	attendance AttendanceService,
	cache *redis.Client,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		students:      students,
		employees:     employees,
		branches:      branches,
		payments:      payments,
		compensations: compensations,
		enrollments:   enrollments,
		attendance:    attendance,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger.With().Str("component", "dashboard_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/edudesk-api/internal/service/dashboard"),
	}
}

func (s *dashboardService) Admin(ctx context.Context) (dto.AdminDashboardResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.admin")
	defer span.End()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, adminDashboardCacheKey).Result(); err == nil {
			var response dto.AdminDashboardResponse
			if json.Unmarshal([]byte(cached), &response) == nil {
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	totalStudents, err := s.students.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	totalEmployees, err := s.employees.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	branches, err := s.branches.List(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	collected, err := s.payments.SumPaid(ctx, 0)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	_, pending, err := s.compensations.ListWithFilter(ctx, repository.CompensationFilter{
		Status:   models.CompensationStatusPending,
		PageSize: 1,
	})
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	response := dto.AdminDashboardResponse{
		TotalStudents:        totalStudents,
		TotalEmployees:       totalEmployees,
		TotalBranches:        len(branches),
		CollectedFees:        collected,
		PendingCompensations: pending,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, adminDashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) Parent(ctx context.Context, parentID uint) (dto.ParentDashboardResponse, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.parent")
	defer span.End()

	children, err := s.students.ListByParent(ctx, parentID)
	if err != nil {
		return dto.ParentDashboardResponse{}, err
	}

	summaries := make([]dto.ParentChildSummary, 0, len(children))
	for _, child := range children {
		summary := dto.ParentChildSummary{Student: dto.NewStudentResponse(child)}

		enrollments, err := s.enrollments.ListByStudent(ctx, child.ID)
		if err != nil {
			return dto.ParentDashboardResponse{}, err
		}

		// The summary shown is for the child's current active enrollment.
		for _, enrollment := range enrollments {
			if enrollment.Status != models.EnrollmentStatusActive {
				continue
			}
			breakdown, err := s.attendance.Summarize(ctx, enrollment.ID, nil, nil)
			if err != nil {
				return dto.ParentDashboardResponse{}, err
			}
			summary.Summary = breakdown
			break
		}

		summaries = append(summaries, summary)
	}

	return dto.ParentDashboardResponse{Children: summaries}, nil
}
