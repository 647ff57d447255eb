package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService bootstraps a fresh installation: the initial admin account and
// the starting catalog of branches and courses. It is token gated and meant
// for provisioning tooling, not end users.
type SeedService interface {
	SeedAdmin(ctx context.Context, token, username, password string) (models.User, error)
	SeedCatalog(ctx context.Context, token string, branches []models.Branch, courses []models.Course) (int, error)
}

type seedService struct {
	users    repository.UserRepository
	branches repository.BranchRepository
	courses  repository.CourseRepository
	enabled  bool
	token    string
	logger   zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(users repository.UserRepository, branches repository.BranchRepository, courses repository.CourseRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		users:    users,
		branches: branches,
		courses:  courses,
		enabled:  enabled,
		token:    token,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedAdmin(ctx context.Context, token, username, password string) (models.User, error) {
	if !s.enabled {
		return models.User{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return models.User{}, ErrSeedUnauthorized
	}

	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return models.User{}, errors.New("username and an 8+ character password are required")
	}

	if existing, err := s.users.GetByUsername(ctx, username); err == nil {
		s.logger.Info().Str("username", username).Msg("admin already present, skipping seed")
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		FullName:     "Administrator",
		Email:        username + "@edudesk.local",
	}

	if err := s.users.Create(ctx, &admin); err != nil {
		return models.User{}, err
	}

	s.logger.Info().Str("username", username).Msg("admin account seeded")
	return admin, nil
}

func (s *seedService) SeedCatalog(ctx context.Context, token string, branches []models.Branch, courses []models.Course) (int, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	affected := 0
	for i := range branches {
		if err := s.branches.Create(ctx, &branches[i]); err != nil {
			return affected, err
		}
		affected++
	}
	for i := range courses {
		if err := s.courses.Create(ctx, &courses[i]); err != nil {
			return affected, err
		}
		affected++
	}

	s.logger.Info().Int("affected", affected).Msg("catalog seeded")
	return affected, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return constantTimeEqual(expected, strings.TrimSpace(token))
}

func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}
