package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

func newCompensationService(t *testing.T) (CompensationService, classFixture, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	fx := seedClass(t, db)

	svc := NewCompensationService(
		repository.NewCompensationRepository(db),
		repository.NewBatchRepository(db),
		repository.NewStudentRepository(db),
		NewEventPublisher(nil, testLogger()),
		testValidator(),
		testLogger(),
	)

	return svc, fx, db
}

func compensationPayload(fx classFixture, target models.Batch) dto.CompensationCreateRequest {
	return dto.CompensationCreateRequest{
		StudentID:           fx.Student.ID,
		OriginalBatchID:     fx.Batch.ID,
		CompensationBatchID: target.ID,
		OriginalClassDate:   "2026-03-03",
		RequestedDate:       "2026-03-10",
	}
}

func TestCompensationRequestStartsPending(t *testing.T) {
	svc, fx, db := newCompensationService(t)
	target := seedSecondBatch(t, db, fx, 0)

	created, err := svc.Request(context.Background(), compensationPayload(fx, target), fx.Parent.ID)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, models.CompensationStatusPending, created.Status)
	require.Equal(t, fx.Student.ID, created.StudentID)
}

func TestCompensationRequestRejectsSameBatch(t *testing.T) {
	svc, fx, _ := newCompensationService(t)

	payload := compensationPayload(fx, fx.Batch)
	_, err := svc.Request(context.Background(), payload, fx.Parent.ID)
	require.ErrorIs(t, err, ErrCompensationValidation)
}

func TestCompensationRequestRejectsCrossMonthDate(t *testing.T) {
	svc, fx, db := newCompensationService(t)
	target := seedSecondBatch(t, db, fx, 0)

	payload := compensationPayload(fx, target)
	payload.RequestedDate = "2026-04-02"
	_, err := svc.Request(context.Background(), payload, fx.Parent.ID)
	require.ErrorIs(t, err, ErrCompensationValidation)
}

func TestCompensationRequestUnknownStudent(t *testing.T) {
	svc, fx, db := newCompensationService(t)
	target := seedSecondBatch(t, db, fx, 0)

	payload := compensationPayload(fx, target)
	payload.StudentID = 9999
	_, err := svc.Request(context.Background(), payload, fx.Parent.ID)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestCompensationApproveThenComplete(t *testing.T) {
	svc, fx, db := newCompensationService(t)
	target := seedSecondBatch(t, db, fx, 0)
	ctx := context.Background()

	created, err := svc.Request(ctx, compensationPayload(fx, target), fx.Parent.ID)
	require.NoError(t, err)

	approved, err := svc.Transition(ctx, created.ID, models.CompensationStatusApproved)
	require.NoError(t, err)
	require.Equal(t, models.CompensationStatusApproved, approved.Status)

	completed, err := svc.Transition(ctx, created.ID, models.CompensationStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.CompensationStatusCompleted, completed.Status)
}

func TestCompensationApprovalEnforcesSameCourse(t *testing.T) {
	svc, fx, db := newCompensationService(t)

	other := models.Course{Code: "MA", Name: "Mathematics"}
	require.NoError(t, db.Create(&other).Error)
	target := seedSecondBatch(t, db, fx, other.ID)
	ctx := context.Background()

	created, err := svc.Request(ctx, compensationPayload(fx, target), fx.Parent.ID)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, models.CompensationStatusApproved)
	require.ErrorIs(t, err, ErrBrandMismatch)

	// The failed approval must leave the request untouched.
	current, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.CompensationStatusPending, current.Status)
}

func TestCompensationRejectedIsTerminal(t *testing.T) {
	svc, fx, db := newCompensationService(t)
	target := seedSecondBatch(t, db, fx, 0)
	ctx := context.Background()

	created, err := svc.Request(ctx, compensationPayload(fx, target), fx.Parent.ID)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, models.CompensationStatusRejected)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, models.CompensationStatusApproved)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Transition(ctx, created.ID, models.CompensationStatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompensationPendingCannotSkipToCompleted(t *testing.T) {
	svc, fx, db := newCompensationService(t)
	target := seedSecondBatch(t, db, fx, 0)
	ctx := context.Background()

	created, err := svc.Request(ctx, compensationPayload(fx, target), fx.Parent.ID)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, created.ID, models.CompensationStatusCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompensationTransitionRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newCompensationService(t)

	_, err := svc.Transition(context.Background(), 1, models.CompensationStatus("archived"))
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompensationListFiltersByStatus(t *testing.T) {
	svc, fx, db := newCompensationService(t)
	target := seedSecondBatch(t, db, fx, 0)
	ctx := context.Background()

	first, err := svc.Request(ctx, compensationPayload(fx, target), fx.Parent.ID)
	require.NoError(t, err)

	second := compensationPayload(fx, target)
	second.OriginalClassDate = "2026-03-05"
	second.RequestedDate = "2026-03-12"
	_, err = svc.Request(ctx, second, fx.Parent.ID)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, first.ID, models.CompensationStatusApproved)
	require.NoError(t, err)

	pending, err := svc.List(ctx, repository.CompensationFilter{Status: models.CompensationStatusPending})
	require.NoError(t, err)
	require.Equal(t, int64(1), pending.Total)
	require.Len(t, pending.Items, 1)
	require.Equal(t, models.CompensationStatusPending, pending.Items[0].Status)
}
