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

func newEnrollmentService(t *testing.T) (EnrollmentService, classFixture, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	fx := seedClass(t, db)

	svc := NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewStudentRepository(db),
		repository.NewBatchRepository(db),
		testValidator(),
		testLogger(),
	)

	return svc, fx, db
}

func TestEnrollIntoSecondBatch(t *testing.T) {
	svc, fx, db := newEnrollmentService(t)
	target := seedSecondBatch(t, db, fx, 0)

	created, err := svc.Enroll(context.Background(), dto.EnrollmentCreateRequest{
		StudentID:      fx.Student.ID,
		BatchID:        target.ID,
		EnrollmentDate: "2026-03-01",
	})
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, created.Status)
	require.Equal(t, target.ID, created.BatchID)
}

func TestEnrollRejectsDuplicateActiveEnrollment(t *testing.T) {
	svc, fx, _ := newEnrollmentService(t)

	_, err := svc.Enroll(context.Background(), dto.EnrollmentCreateRequest{
		StudentID:      fx.Student.ID,
		BatchID:        fx.Batch.ID,
		EnrollmentDate: "2026-03-01",
	})
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollRespectsCapacity(t *testing.T) {
	svc, fx, db := newEnrollmentService(t)

	tiny := models.Batch{
		Code:      "ENJK0326",
		CourseID:  fx.Course.ID,
		BranchID:  fx.Branch.ID,
		Capacity:  1,
		StartDate: fx.Batch.StartDate,
		EndDate:   fx.Batch.EndDate,
		Status:    models.BatchStatusActive,
	}
	require.NoError(t, db.Create(&tiny).Error)

	sibling := models.Student{
		StudentID: "STU10002",
		FirstName: "Sari",
		LastName:  "Hassan",
		ParentID:  fx.Parent.ID,
		BranchID:  fx.Branch.ID,
		Status:    models.StudentStatusActive,
	}
	require.NoError(t, db.Create(&sibling).Error)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, dto.EnrollmentCreateRequest{
		StudentID:      fx.Student.ID,
		BatchID:        tiny.ID,
		EnrollmentDate: "2026-03-01",
	})
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, dto.EnrollmentCreateRequest{
		StudentID:      sibling.ID,
		BatchID:        tiny.ID,
		EnrollmentDate: "2026-03-01",
	})
	require.ErrorIs(t, err, ErrBatchFull)
}

func TestEnrollUnknownReferences(t *testing.T) {
	svc, fx, _ := newEnrollmentService(t)
	ctx := context.Background()

	_, err := svc.Enroll(ctx, dto.EnrollmentCreateRequest{
		StudentID:      9999,
		BatchID:        fx.Batch.ID,
		EnrollmentDate: "2026-03-01",
	})
	require.ErrorIs(t, err, ErrStudentNotFound)

	_, err = svc.Enroll(ctx, dto.EnrollmentCreateRequest{
		StudentID:      fx.Student.ID,
		BatchID:        9999,
		EnrollmentDate: "2026-03-01",
	})
	require.ErrorIs(t, err, ErrBatchNotFound)
}

func TestEnrollmentStatusTransitions(t *testing.T) {
	svc, fx, _ := newEnrollmentService(t)
	ctx := context.Background()

	updated, err := svc.UpdateStatus(ctx, fx.Enrollment.ID, models.EnrollmentStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusCompleted, updated.Status)

	_, err = svc.UpdateStatus(ctx, fx.Enrollment.ID, models.EnrollmentStatus("paused"))
	require.ErrorIs(t, err, ErrEnrollmentValidation)

	_, err = svc.UpdateStatus(ctx, 9999, models.EnrollmentStatusDropped)
	require.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestEnrollAgainAfterDrop(t *testing.T) {
	svc, fx, _ := newEnrollmentService(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, fx.Enrollment.ID, models.EnrollmentStatusDropped)
	require.NoError(t, err)

	created, err := svc.Enroll(ctx, dto.EnrollmentCreateRequest{
		StudentID:      fx.Student.ID,
		BatchID:        fx.Batch.ID,
		EnrollmentDate: "2026-03-05",
	})
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, created.Status)
}
