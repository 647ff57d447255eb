package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

func newSeedService(t *testing.T, enabled bool, token string) (SeedService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	svc := NewSeedService(
		repository.NewUserRepository(db),
		repository.NewBranchRepository(db),
		repository.NewCourseRepository(db),
		enabled,
		token,
		testLogger(),
	)

	return svc, db
}

func TestSeedAdminDisabled(t *testing.T) {
	svc, _ := newSeedService(t, false, "secret")

	_, err := svc.SeedAdmin(context.Background(), "secret", "root", "password123")
	require.ErrorIs(t, err, ErrSeedDisabled)
}

func TestSeedAdminRejectsBadToken(t *testing.T) {
	svc, _ := newSeedService(t, true, "secret")

	_, err := svc.SeedAdmin(context.Background(), "wrong", "root", "password123")
	require.ErrorIs(t, err, ErrSeedUnauthorized)
}

func TestSeedAdminRejectsBlankToken(t *testing.T) {
	svc, _ := newSeedService(t, true, "")

	_, err := svc.SeedAdmin(context.Background(), "", "root", "password123")
	require.ErrorIs(t, err, ErrSeedUnauthorized)
}

func TestSeedAdminCreatesAndIsIdempotent(t *testing.T) {
	svc, _ := newSeedService(t, true, "secret")
	ctx := context.Background()

	admin, err := svc.SeedAdmin(ctx, "secret", "root", "password123")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, admin.Role)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("password123")))

	again, err := svc.SeedAdmin(ctx, "secret", "root", "another-pass")
	require.NoError(t, err)
	require.Equal(t, admin.ID, again.ID)
	// The existing hash must survive a repeat seed.
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(again.PasswordHash), []byte("password123")))
}

func TestSeedAdminRequiresStrongPassword(t *testing.T) {
	svc, _ := newSeedService(t, true, "secret")

	_, err := svc.SeedAdmin(context.Background(), "secret", "root", "short")
	require.Error(t, err)
}

func TestSeedCatalogCountsAffectedRows(t *testing.T) {
	svc, db := newSeedService(t, true, "secret")

	affected, err := svc.SeedCatalog(context.Background(), "secret",
		[]models.Branch{{Code: "JK", Name: "Jakarta Pusat"}, {Code: "SB", Name: "Surabaya"}},
		[]models.Course{{Code: "EN", Name: "English Foundation"}},
	)
	require.NoError(t, err)
	require.Equal(t, 3, affected)

	var branches int64
	require.NoError(t, db.Model(&models.Branch{}).Count(&branches).Error)
	require.Equal(t, int64(2), branches)
}
