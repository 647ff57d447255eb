package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// newTestDB opens a dedicated in-memory database per test so unique indexes
// do not collide across tests sharing the process.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Course{},
		&models.Batch{},
		&models.Student{},
		&models.Enrollment{},
		&models.AttendanceRecord{},
		&models.CompensationRequest{},
		&models.Payment{},
		&models.Employee{},
		&models.PayrollEntry{},
		&models.Message{},
	))

	return db
}

func newTestCache(t *testing.T) *redis.Client {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

type classFixture struct {
	Branch     models.Branch
	Course     models.Course
	Batch      models.Batch
	Parent     models.User
	Student    models.Student
	Enrollment models.Enrollment
}

// seedClass populates a branch, course, batch with a March 2026 window, a
// parent account, one student and an active enrollment.
func seedClass(t *testing.T, db *gorm.DB) classFixture {
	t.Helper()

	var fx classFixture

	fx.Branch = models.Branch{Code: "JK", Name: "Jakarta Pusat"}
	require.NoError(t, db.Create(&fx.Branch).Error)

	fx.Course = models.Course{Code: "EN", Name: "English Foundation"}
	require.NoError(t, db.Create(&fx.Course).Error)

	fx.Batch = models.Batch{
		Code:      "ENJK0126",
		CourseID:  fx.Course.ID,
		BranchID:  fx.Branch.ID,
		TimeSlot:  "Tue 16:00",
		Capacity:  20,
		StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		Status:    models.BatchStatusActive,
	}
	require.NoError(t, db.Create(&fx.Batch).Error)

	fx.Parent = models.User{
		Username:     "amira",
		PasswordHash: "x",
		Role:         models.RoleParent,
		FullName:     "Amira Hassan",
		Email:        "amira@example.com",
	}
	require.NoError(t, db.Create(&fx.Parent).Error)

	fx.Student = models.Student{
		StudentID: "STU10001",
		FirstName: "Bima",
		LastName:  "Hassan",
		ParentID:  fx.Parent.ID,
		BranchID:  fx.Branch.ID,
		Status:    models.StudentStatusActive,
	}
	require.NoError(t, db.Create(&fx.Student).Error)

	fx.Enrollment = models.Enrollment{
		StudentID:      fx.Student.ID,
		BatchID:        fx.Batch.ID,
		EnrollmentDate: fx.Batch.StartDate,
		Status:         models.EnrollmentStatusActive,
	}
	require.NoError(t, db.Create(&fx.Enrollment).Error)

	return fx
}

// seedSecondBatch adds another batch at the same branch. The course defaults
// to the fixture's course unless overridden.
func seedSecondBatch(t *testing.T, db *gorm.DB, fx classFixture, courseID uint) models.Batch {
	t.Helper()

	if courseID == 0 {
		courseID = fx.Course.ID
	}

	batch := models.Batch{
		Code:      "ENJK0226",
		CourseID:  courseID,
		BranchID:  fx.Branch.ID,
		TimeSlot:  "Thu 16:00",
		Capacity:  20,
		StartDate: fx.Batch.StartDate,
		EndDate:   fx.Batch.EndDate,
		Status:    models.BatchStatusActive,
	}
	require.NoError(t, db.Create(&batch).Error)

	return batch
}

func mustRecord(t *testing.T, svc AttendanceService, enrollmentID uint, date string, status models.AttendanceStatus) {
	t.Helper()

	_, err := svc.Record(context.Background(), dto.AttendanceRecordRequest{
		EnrollmentID: enrollmentID,
		Date:         date,
		Status:       status,
	}, 1)
	require.NoError(t, err)
}
