package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

func newPaymentService(t *testing.T) (PaymentService, classFixture) {
	t.Helper()

	db := newTestDB(t)
	fx := seedClass(t, db)

	svc := NewPaymentService(
		repository.NewPaymentRepository(db),
		repository.NewStudentRepository(db),
		NewMediaService(nil, 5, testLogger()),
		testValidator(),
		testLogger(),
	)

	return svc, fx
}

func TestPaymentCreateRaisesPendingInvoice(t *testing.T) {
	svc, fx := newPaymentService(t)

	created, err := svc.Create(context.Background(), dto.PaymentCreateRequest{
		StudentID: fx.Student.ID,
		Amount:    1500000,
		DueDate:   "2026-03-20",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(created.InvoiceID, "INV26"))
	require.Equal(t, models.PaymentStatusPending, created.Status)
	// The branch is inherited from the student, not the payload.
	require.Equal(t, fx.Student.BranchID, created.BranchID)
}

func TestPaymentCreateUnknownStudent(t *testing.T) {
	svc, _ := newPaymentService(t)

	_, err := svc.Create(context.Background(), dto.PaymentCreateRequest{
		StudentID: 9999,
		Amount:    1500000,
		DueDate:   "2026-03-20",
	})
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestPaymentSettleMarksPaidOnce(t *testing.T) {
	svc, fx := newPaymentService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.PaymentCreateRequest{
		StudentID: fx.Student.ID,
		Amount:    1500000,
		DueDate:   "2026-03-20",
	})
	require.NoError(t, err)

	settled, err := svc.Settle(ctx, created.ID, dto.PaymentSettleRequest{Method: "transfer"})
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPaid, settled.Status)
	require.NotNil(t, settled.PaidAt)
	require.Equal(t, "transfer", settled.Method)

	_, err = svc.Settle(ctx, created.ID, dto.PaymentSettleRequest{Method: "cash"})
	require.ErrorIs(t, err, ErrPaymentAlreadySettled)
}

func TestPaymentSettleUnknownInvoice(t *testing.T) {
	svc, _ := newPaymentService(t)

	_, err := svc.Settle(context.Background(), 9999, dto.PaymentSettleRequest{Method: "cash"})
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestPaymentListFiltersByStatus(t *testing.T) {
	svc, fx := newPaymentService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, dto.PaymentCreateRequest{StudentID: fx.Student.ID, Amount: 100000, DueDate: "2026-03-10"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.PaymentCreateRequest{StudentID: fx.Student.ID, Amount: 200000, DueDate: "2026-03-20"})
	require.NoError(t, err)

	_, err = svc.Settle(ctx, first.ID, dto.PaymentSettleRequest{Method: "cash"})
	require.NoError(t, err)

	pending, err := svc.List(ctx, repository.PaymentFilter{Status: models.PaymentStatusPending})
	require.NoError(t, err)
	require.Equal(t, int64(1), pending.Total)

	paid, err := svc.List(ctx, repository.PaymentFilter{Status: models.PaymentStatusPaid})
	require.NoError(t, err)
	require.Equal(t, int64(1), paid.Total)
}
