package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/edudesk-api/internal/dto"
	"github.com/noah-isme/edudesk-api/internal/gate"
	"github.com/noah-isme/edudesk-api/internal/models"
	"github.com/noah-isme/edudesk-api/internal/repository"
	"github.com/noah-isme/edudesk-api/internal/session"
)

var (
	// ErrInvalidCredentials indicates the username/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRefreshToken indicates the refresh token is missing, malformed or expired.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// AuthService authenticates users and manages their sessions. Login mints a
// redis-backed session plus a JWT pair; the access token carries the session
// token in its "sid" claim so the gate can resolve identity per request.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.TokenPair, error)
	Logout(ctx context.Context, sessionToken string) error
	Me(ctx context.Context, userID uint) (dto.ProfileResponse, error)
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.ProfileResponse, error)
}

type authService struct {
	users         repository.UserRepository
	sessions      *session.Store
	jwtSecret     string
	refreshSecret string
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewAuthService builds a new auth service.
func NewAuthService(users repository.UserRepository, sessions *session.Store, jwtSecret, refreshSecret string, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:         users,
		sessions:      sessions,
		jwtSecret:     jwtSecret,
		refreshSecret: refreshSecret,
		validate:      validate,
		logger:        logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		s.logger.Warn().Str("username", payload.Username).Msg("rejected login attempt")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	branchID := uint(0)
	if user.BranchID != nil {
		branchID = *user.BranchID
	}

	current, err := s.sessions.Create(ctx, gate.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName,
		Email:    user.Email,
		BranchID: branchID,
	})
	if err != nil {
		return dto.LoginResponse{}, err
	}

	tokens, err := s.issueTokens(user, current.Token)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("user logged in")

	return dto.LoginResponse{
		Tokens:  tokens,
		Profile: profileOf(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, payload dto.RefreshRequest) (dto.TokenPair, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.TokenPair{}, err
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(payload.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return dto.TokenPair{}, ErrInvalidRefreshToken
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return dto.TokenPair{}, ErrInvalidRefreshToken
	}
	userID, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return dto.TokenPair{}, ErrInvalidRefreshToken
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return dto.TokenPair{}, ErrInvalidRefreshToken
	}

	// The refresh token is only honored while its session is still alive.
	result, err := s.sessions.Resolve(ctx, sid)
	if err != nil {
		return dto.TokenPair{}, err
	}
	if result.Session == nil {
		return dto.TokenPair{}, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TokenPair{}, ErrInvalidRefreshToken
		}
		return dto.TokenPair{}, err
	}

	return s.issueTokens(user, sid)
}

func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	if err := s.sessions.Revoke(ctx, sessionToken); err != nil {
		return err
	}

	s.logger.Info().Msg("session revoked")
	return nil
}

func (s *authService) Me(ctx context.Context, userID uint) (dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrUserNotFound
		}
		return dto.ProfileResponse{}, err
	}

	return profileOf(user), nil
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.ProfileResponse, error) {
	if err := s.validate.Struct(payload); err != nil {
		return dto.ProfileResponse{}, err
	}

	role := models.Role(payload.Role)
	if !role.Valid() {
		return dto.ProfileResponse{}, fmt.Errorf("%w: unknown role %q", ErrInvalidCredentials, payload.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	user := models.User{
		Username:     payload.Username,
		PasswordHash: string(hash),
		Role:         role,
		FullName:     payload.FullName,
		Email:        payload.Email,
		Phone:        payload.Phone,
		BranchID:     payload.BranchID,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("user registered")

	return profileOf(user), nil
}

func (s *authService) issueTokens(user models.User, sessionToken string) (dto.TokenPair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"sid":  sessionToken,
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(accessTokenTTL)),
	})
	accessToken, err := access.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return dto.TokenPair{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"sid": sessionToken,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(refreshTokenTTL)),
	})
	refreshToken, err := refresh.SignedString([]byte(s.refreshSecret))
	if err != nil {
		return dto.TokenPair{}, err
	}

	return dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func profileOf(user models.User) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName,
		Email:    user.Email,
		HomePath: user.Role.HomePath(),
	}
}
