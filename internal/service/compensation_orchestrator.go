package service

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

// CompensationOrchestrator couples the compensation workflow to the
// attendance model via message passing: when a request completes, it emits
// the corresponding attendance record on the student's enrollment in the
// original batch. Keeping this out of both models leaves each independently
// testable.
type CompensationOrchestrator struct {
	nats        *nats.Conn
	attendance  AttendanceService
	enrollments repository.EnrollmentRepository
	logger      zerolog.Logger
	sub         *nats.Subscription
}

// NewCompensationOrchestrator builds the orchestrator.
func NewCompensationOrchestrator(natsConn *nats.Conn, attendance AttendanceService, enrollments repository.EnrollmentRepository, logger zerolog.Logger) *CompensationOrchestrator {
	return &CompensationOrchestrator{
		nats:        natsConn,
		attendance:  attendance,
		enrollments: enrollments,
		logger:      logger.With().Str("component", "compensation_orchestrator").Logger(),
	}
}

// Start subscribes to completed-compensation events. A nil NATS connection
// disables the orchestrator.
func (o *CompensationOrchestrator) Start(ctx context.Context) error {
	if o.nats == nil {
		o.logger.Warn().Msg("nats disabled, compensation attendance must be recorded manually")
		return nil
	}

	sub, err := o.nats.Subscribe(SubjectCompensationCompleted, func(msg *nats.Msg) {
		var event CompensationEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			o.logger.Error().Err(err).Msg("discarding undecodable compensation event")
			return
		}

		if err := o.handleCompleted(ctx, event); err != nil {
			o.logger.Error().Err(err).Uint("request_id", event.RequestID).Msg("failed to record compensation attendance")
		}
	})
	if err != nil {
		return err
	}

	o.sub = sub
	return nil
}

// Stop drains the subscription.
func (o *CompensationOrchestrator) Stop() {
	if o.sub != nil {
		_ = o.sub.Drain()
	}
}

func (o *CompensationOrchestrator) handleCompleted(ctx context.Context, event CompensationEvent) error {
	enrollment, err := o.activeEnrollment(ctx, event.StudentID, event.OriginalBatchID)
	if err != nil {
		return err
	}

	payload := dto.AttendanceRecordRequest{
		EnrollmentID: enrollment.ID,
		Date:         event.CompensationDate.Format(dateLayout),
		Status:       models.AttendanceStatusCompensation,
		Remarks:      "compensation class attended",
		Compensation: &dto.CompensationDetailsPayload{
			OriginalClassDate:   event.OriginalClassDate.Format(dateLayout),
			OriginalBatchID:     event.OriginalBatchID,
			CompensationBatchID: event.CompensationBatchID,
			Branch:              event.Branch,
		},
	}

	_, err = o.attendance.Record(ctx, payload, 0)
	return err
}

func (o *CompensationOrchestrator) activeEnrollment(ctx context.Context, studentID, batchID uint) (models.Enrollment, error) {
	enrollments, err := o.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return models.Enrollment{}, err
	}

	for _, enrollment := range enrollments {
		if enrollment.BatchID == batchID && enrollment.Status == models.EnrollmentStatusActive {
			return enrollment, nil
		}
	}

	return models.Enrollment{}, ErrEnrollmentNotFound
}
