package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

func newCatalogService(t *testing.T) (CatalogService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewCatalogService(
		repository.NewBranchRepository(db),
		repository.NewCourseRepository(db),
		repository.NewBatchRepository(db),
		testValidator(),
		testLogger(),
	)

	return svc, db
}

func seedCatalogRefs(t *testing.T, svc CatalogService) (models.Branch, models.Course) {
	t.Helper()
	ctx := context.Background()

	branch, err := svc.CreateBranch(ctx, dto.BranchRequest{Code: "JK", Name: "Jakarta Pusat"})
	require.NoError(t, err)

	course, err := svc.CreateCourse(ctx, dto.CourseRequest{Code: "EN", Name: "English Foundation"})
	require.NoError(t, err)

	return branch, course
}

func TestCatalogBranchLifecycle(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	branch, err := svc.CreateBranch(ctx, dto.BranchRequest{Code: "SB", Name: "Surabaya"})
	require.NoError(t, err)
	require.NotZero(t, branch.ID)

	updated, err := svc.UpdateBranch(ctx, branch.ID, dto.BranchRequest{Code: "SB", Name: "Surabaya Timur"})
	require.NoError(t, err)
	require.Equal(t, "Surabaya Timur", updated.Name)

	listed, err := svc.ListBranches(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, svc.DeleteBranch(ctx, branch.ID))
	require.ErrorIs(t, svc.DeleteBranch(ctx, branch.ID), ErrBranchNotFound)
}

func TestCatalogCourseLifecycle(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, dto.CourseRequest{Code: "MA", Name: "Mathematics"})
	require.NoError(t, err)

	updated, err := svc.UpdateCourse(ctx, course.ID, dto.CourseRequest{Code: "MA", Name: "Mathematics Plus"})
	require.NoError(t, err)
	require.Equal(t, "Mathematics Plus", updated.Name)

	_, err = svc.UpdateCourse(ctx, 9999, dto.CourseRequest{Code: "XX", Name: "Ghost"})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCreateBatchValidatesCode(t *testing.T) {
	svc, _ := newCatalogService(t)
	branch, course := seedCatalogRefs(t, svc)

	_, err := svc.CreateBatch(context.Background(), dto.BatchCreateRequest{
		Code:      "bad-code",
		CourseID:  course.ID,
		BranchID:  branch.ID,
		TimeSlot:  "Tue 16:00",
		Capacity:  20,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	require.ErrorIs(t, err, ErrInvalidBatchCode)
}

func TestCreateBatchDerivesStatusFromWindow(t *testing.T) {
	svc, _ := newCatalogService(t)
	branch, course := seedCatalogRefs(t, svc)
	ctx := context.Background()

	past, err := svc.CreateBatch(ctx, dto.BatchCreateRequest{
		Code:      "ENJK0124",
		CourseID:  course.ID,
		BranchID:  branch.ID,
		TimeSlot:  "Tue 16:00",
		Capacity:  20,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-31",
	})
	require.NoError(t, err)
	require.Equal(t, models.BatchStatusFinished, past.Status)

	future := time.Now().AddDate(1, 0, 0)
	upcoming, err := svc.CreateBatch(ctx, dto.BatchCreateRequest{
		Code:      "ENJK0127",
		CourseID:  course.ID,
		BranchID:  branch.ID,
		TimeSlot:  "Tue 16:00",
		Capacity:  20,
		StartDate: future.Format("2006-01-02"),
		EndDate:   future.AddDate(0, 1, 0).Format("2006-01-02"),
	})
	require.NoError(t, err)
	require.Equal(t, models.BatchStatusUpcoming, upcoming.Status)
}

func TestCreateBatchRejectsInvertedWindow(t *testing.T) {
	svc, _ := newCatalogService(t)
	branch, course := seedCatalogRefs(t, svc)

	_, err := svc.CreateBatch(context.Background(), dto.BatchCreateRequest{
		Code:      "ENJK0126",
		CourseID:  course.ID,
		BranchID:  branch.ID,
		TimeSlot:  "Tue 16:00",
		Capacity:  20,
		StartDate: "2026-03-31",
		EndDate:   "2026-03-01",
	})
	require.ErrorIs(t, err, ErrCatalogValidation)
}

func TestCreateBatchRejectsUnknownRefs(t *testing.T) {
	svc, _ := newCatalogService(t)
	branch, course := seedCatalogRefs(t, svc)
	ctx := context.Background()

	payload := dto.BatchCreateRequest{
		Code:      "ENJK0126",
		CourseID:  9999,
		BranchID:  branch.ID,
		TimeSlot:  "Tue 16:00",
		Capacity:  20,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	}
	_, err := svc.CreateBatch(ctx, payload)
	require.ErrorIs(t, err, ErrCourseNotFound)

	payload.CourseID = course.ID
	payload.BranchID = 9999
	_, err = svc.CreateBatch(ctx, payload)
	require.ErrorIs(t, err, ErrBranchNotFound)
}

func TestListBatchesFilters(t *testing.T) {
	svc, _ := newCatalogService(t)
	branch, course := seedCatalogRefs(t, svc)
	ctx := context.Background()

	_, err := svc.CreateBatch(ctx, dto.BatchCreateRequest{
		Code:      "ENJK0126",
		CourseID:  course.ID,
		BranchID:  branch.ID,
		TimeSlot:  "Tue 16:00",
		Capacity:  20,
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	require.NoError(t, err)

	page, err := svc.ListBatches(ctx, repository.BatchFilter{BranchID: branch.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)

	none, err := svc.ListBatches(ctx, repository.BatchFilter{BranchID: branch.ID + 1})
	require.NoError(t, err)
	require.Equal(t, int64(0), none.Total)
}

func TestValidBatchCodeFormat(t *testing.T) {
	require.True(t, models.ValidBatchCode("ENJK0126"))
	require.True(t, models.ValidBatchCode("MA010224"))
	require.False(t, models.ValidBatchCode("enjk0126"))
	require.False(t, models.ValidBatchCode("ENJK126"))
	require.False(t, models.ValidBatchCode("ENJKAB26"))
}
