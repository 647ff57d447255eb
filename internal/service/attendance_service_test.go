package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

func newAttendanceService(t *testing.T) (AttendanceService, classFixture) {
	t.Helper()

	db := newTestDB(t)
	fx := seedClass(t, db)

	svc := NewAttendanceService(
		repository.NewAttendanceRepository(db),
		repository.NewEnrollmentRepository(db),
		newTestCache(t),
		time.Minute,
		testValidator(),
		testLogger(),
	)

	return svc, fx
}

func TestSummarizeRecordsRoundsHalfUp(t *testing.T) {
	records := make([]models.AttendanceRecord, 0, 8)
	for i := 0; i < 7; i++ {
		records = append(records, models.AttendanceRecord{Status: models.AttendanceStatusPresent})
	}
	records = append(records, models.AttendanceRecord{Status: models.AttendanceStatusAbsent})

	summary := SummarizeRecords(records)
	require.Equal(t, 8, summary.Total)
	// 7/8 = 87.5 rounds up, 1/8 = 12.5 rounds up as well.
	require.Equal(t, 88, summary.Percentages[models.AttendanceStatusPresent])
	require.Equal(t, 13, summary.Percentages[models.AttendanceStatusAbsent])
	require.Equal(t, 0, summary.Percentages[models.AttendanceStatusLate])
}

func TestSummarizeRecordsEmptySetStaysZero(t *testing.T) {
	summary := SummarizeRecords(nil)

	require.Equal(t, 0, summary.Total)
	require.Len(t, summary.Percentages, len(models.AttendanceStatuses))
	for _, status := range models.AttendanceStatuses {
		require.Equal(t, 0, summary.Percentages[status])
	}
}

func TestSummarizeRecordsFullVocabulary(t *testing.T) {
	summary := SummarizeRecords([]models.AttendanceRecord{
		{Status: models.AttendanceStatusLeave},
	})

	require.Equal(t, 1, summary.Total)
	require.Equal(t, 100, summary.Percentages[models.AttendanceStatusLeave])
	require.Contains(t, summary.Percentages, models.AttendanceStatusClassCancel)
	require.Contains(t, summary.Percentages, models.AttendanceStatusCompensation)
}

func TestAttendanceRecordHappyPath(t *testing.T) {
	svc, fx := newAttendanceService(t)

	created, err := svc.Record(context.Background(), dto.AttendanceRecordRequest{
		EnrollmentID: fx.Enrollment.ID,
		Date:         "2026-03-03",
		Status:       models.AttendanceStatusPresent,
		Remarks:      "on time",
	}, 7)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, models.AttendanceStatusPresent, created.Status)
	require.Equal(t, fx.Enrollment.ID, created.EnrollmentID)
}

func TestAttendanceRecordRejectsDuplicateDay(t *testing.T) {
	svc, fx := newAttendanceService(t)

	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-03", models.AttendanceStatusPresent)

	_, err := svc.Record(context.Background(), dto.AttendanceRecordRequest{
		EnrollmentID: fx.Enrollment.ID,
		Date:         "2026-03-03",
		Status:       models.AttendanceStatusLate,
	}, 7)
	require.ErrorIs(t, err, ErrDuplicateAttendance)
}

func TestAttendanceRecordRejectsDateOutsideBatchWindow(t *testing.T) {
	svc, fx := newAttendanceService(t)

	_, err := svc.Record(context.Background(), dto.AttendanceRecordRequest{
		EnrollmentID: fx.Enrollment.ID,
		Date:         "2026-04-01",
		Status:       models.AttendanceStatusPresent,
	}, 7)
	require.ErrorIs(t, err, ErrDateOutOfRange)
}

func TestAttendanceRecordUnknownEnrollment(t *testing.T) {
	svc, _ := newAttendanceService(t)

	_, err := svc.Record(context.Background(), dto.AttendanceRecordRequest{
		EnrollmentID: 9999,
		Date:         "2026-03-03",
		Status:       models.AttendanceStatusPresent,
	}, 7)
	require.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestAttendanceCompensationStatusRequiresDetails(t *testing.T) {
	svc, fx := newAttendanceService(t)

	_, err := svc.Record(context.Background(), dto.AttendanceRecordRequest{
		EnrollmentID: fx.Enrollment.ID,
		Date:         "2026-03-05",
		Status:       models.AttendanceStatusCompensation,
	}, 7)
	require.ErrorIs(t, err, ErrAttendanceValidation)
}

func TestAttendanceDetailsForbiddenOnOtherStatuses(t *testing.T) {
	svc, fx := newAttendanceService(t)

	_, err := svc.Record(context.Background(), dto.AttendanceRecordRequest{
		EnrollmentID: fx.Enrollment.ID,
		Date:         "2026-03-05",
		Status:       models.AttendanceStatusPresent,
		Compensation: &dto.CompensationDetailsPayload{
			OriginalClassDate:   "2026-03-02",
			OriginalBatchID:     fx.Batch.ID,
			CompensationBatchID: fx.Batch.ID + 1,
			Branch:              fx.Branch.Name,
		},
	}, 7)
	require.ErrorIs(t, err, ErrAttendanceValidation)
}

func TestAttendanceCompensationWithCompleteDetails(t *testing.T) {
	svc, fx := newAttendanceService(t)

	created, err := svc.Record(context.Background(), dto.AttendanceRecordRequest{
		EnrollmentID: fx.Enrollment.ID,
		Date:         "2026-03-10",
		Status:       models.AttendanceStatusCompensation,
		Compensation: &dto.CompensationDetailsPayload{
			OriginalClassDate:   "2026-03-03",
			OriginalBatchID:     fx.Batch.ID,
			CompensationBatchID: fx.Batch.ID + 1,
			Branch:              fx.Branch.Name,
		},
	}, 7)
	require.NoError(t, err)
	require.NotNil(t, created.Compensation)
	require.Equal(t, fx.Batch.ID, created.Compensation.OriginalBatchID)
	require.Equal(t, fx.Batch.ID+1, created.Compensation.CompensationBatchID)
	require.Equal(t, "2026-03-03", created.Compensation.OriginalClassDate.Format(dateLayout))
	require.Equal(t, fx.Branch.Name, created.Compensation.Branch)
}

func TestSummarizeComputesAndCaches(t *testing.T) {
	svc, fx := newAttendanceService(t)
	ctx := context.Background()

	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-02", models.AttendanceStatusPresent)
	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-03", models.AttendanceStatusPresent)
	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-04", models.AttendanceStatusAbsent)

	summary, err := svc.Summarize(ctx, fx.Enrollment.ID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Total)
	require.Equal(t, 67, summary.Percentages[models.AttendanceStatusPresent])
	require.Equal(t, 33, summary.Percentages[models.AttendanceStatusAbsent])

	// A second read must come from the cache and match exactly.
	again, err := svc.Summarize(ctx, fx.Enrollment.ID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, summary, again)
}

func TestSummarizeInvalidatedByNewRecord(t *testing.T) {
	svc, fx := newAttendanceService(t)
	ctx := context.Background()

	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-02", models.AttendanceStatusPresent)

	first, err := svc.Summarize(ctx, fx.Enrollment.ID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, first.Total)

	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-03", models.AttendanceStatusAbsent)

	second, err := svc.Summarize(ctx, fx.Enrollment.ID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, second.Total)
	require.Equal(t, 50, second.Percentages[models.AttendanceStatusAbsent])
}

func TestSummarizeHonorsDateRange(t *testing.T) {
	svc, fx := newAttendanceService(t)
	ctx := context.Background()

	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-02", models.AttendanceStatusPresent)
	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-20", models.AttendanceStatusAbsent)

	from := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Summarize(ctx, fx.Enrollment.ID, &from, nil)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Total)
	require.Equal(t, 100, summary.Percentages[models.AttendanceStatusAbsent])
}

func TestSummarizeRangedCacheInvalidatedByNewRecord(t *testing.T) {
	svc, fx := newAttendanceService(t)
	ctx := context.Background()

	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-16", models.AttendanceStatusPresent)

	from := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	first, err := svc.Summarize(ctx, fx.Enrollment.ID, &from, nil)
	require.NoError(t, err)
	require.Equal(t, 1, first.Total)

	mustRecord(t, svc, fx.Enrollment.ID, "2026-03-17", models.AttendanceStatusAbsent)

	second, err := svc.Summarize(ctx, fx.Enrollment.ID, &from, nil)
	require.NoError(t, err)
	require.Equal(t, 2, second.Total)
	require.Equal(t, 50, second.Percentages[models.AttendanceStatusAbsent])
}
