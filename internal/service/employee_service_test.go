package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

func newEmployeeService(t *testing.T) (EmployeeService, models.Branch) {
	t.Helper()

	db := newTestDB(t)
	branch := models.Branch{Code: "JK", Name: "Jakarta Pusat"}
	require.NoError(t, db.Create(&branch).Error)

	svc := NewEmployeeService(repository.NewEmployeeRepository(db), testValidator(), testLogger())
	return svc, branch
}

func employeePayload(branchID uint) dto.EmployeeCreateRequest {
	return dto.EmployeeCreateRequest{
		FullName:   "Dewi Lestari",
		Position:   "Teacher",
		BranchID:   branchID,
		BaseSalary: 7500000,
		HiredAt:    "2025-01-15",
	}
}

func TestEmployeeCreateAssignsBusinessKey(t *testing.T) {
	svc, branch := newEmployeeService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, employeePayload(branch.ID))
	require.NoError(t, err)
	require.Equal(t, "EMP10001", first.EmployeeID)

	second := employeePayload(branch.ID)
	second.FullName = "Rudi Santoso"
	created, err := svc.Create(ctx, second)
	require.NoError(t, err)
	require.Equal(t, "EMP10002", created.EmployeeID)
}

func TestEmployeeCreateRejectsBadHireDate(t *testing.T) {
	svc, branch := newEmployeeService(t)

	payload := employeePayload(branch.ID)
	payload.HiredAt = "15-01-2025"
	_, err := svc.Create(context.Background(), payload)
	require.Error(t, err)
}

func TestRunPayrollComputesNetPay(t *testing.T) {
	svc, branch := newEmployeeService(t)
	ctx := context.Background()

	employee, err := svc.Create(ctx, employeePayload(branch.ID))
	require.NoError(t, err)

	entry, err := svc.RunPayroll(ctx, employee.ID, dto.PayrollRunRequest{
		Period:     "2026-08",
		Allowances: map[string]float64{"transport": 500000, "meal": 300000},
		Deductions: 200000,
	})
	require.NoError(t, err)
	require.Equal(t, 7500000+500000+300000-200000.0, entry.NetPay)
	require.Equal(t, models.PayrollStatusDraft, entry.Status)
	require.Equal(t, 500000.0, entry.Allowances["transport"])
}

func TestRunPayrollOncePerPeriod(t *testing.T) {
	svc, branch := newEmployeeService(t)
	ctx := context.Background()

	employee, err := svc.Create(ctx, employeePayload(branch.ID))
	require.NoError(t, err)

	_, err = svc.RunPayroll(ctx, employee.ID, dto.PayrollRunRequest{Period: "2026-08"})
	require.NoError(t, err)

	_, err = svc.RunPayroll(ctx, employee.ID, dto.PayrollRunRequest{Period: "2026-08"})
	require.ErrorIs(t, err, ErrPayrollAlreadyRun)

	// A different month is a fresh run.
	_, err = svc.RunPayroll(ctx, employee.ID, dto.PayrollRunRequest{Period: "2026-09"})
	require.NoError(t, err)
}

func TestRunPayrollRejectsBadPeriod(t *testing.T) {
	svc, branch := newEmployeeService(t)
	ctx := context.Background()

	employee, err := svc.Create(ctx, employeePayload(branch.ID))
	require.NoError(t, err)

	_, err = svc.RunPayroll(ctx, employee.ID, dto.PayrollRunRequest{Period: "08-2026"})
	require.ErrorIs(t, err, ErrEmployeeValidation)
}

func TestMarkPayrollPaidStampsTimestamp(t *testing.T) {
	svc, branch := newEmployeeService(t)
	ctx := context.Background()

	employee, err := svc.Create(ctx, employeePayload(branch.ID))
	require.NoError(t, err)

	entry, err := svc.RunPayroll(ctx, employee.ID, dto.PayrollRunRequest{Period: "2026-08"})
	require.NoError(t, err)

	paid, err := svc.MarkPayrollPaid(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, models.PayrollStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
}

func TestListPayrollByPeriod(t *testing.T) {
	svc, branch := newEmployeeService(t)
	ctx := context.Background()

	employee, err := svc.Create(ctx, employeePayload(branch.ID))
	require.NoError(t, err)

	_, err = svc.RunPayroll(ctx, employee.ID, dto.PayrollRunRequest{Period: "2026-08"})
	require.NoError(t, err)

	entries, err := svc.ListPayroll(ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	none, err := svc.ListPayroll(ctx, "2026-07")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestEmployeeGetAndDelete(t *testing.T) {
	svc, branch := newEmployeeService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, employeePayload(branch.ID))
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.EmployeeID, fetched.EmployeeID)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}
