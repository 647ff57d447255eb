// Package session implements the redis-backed identity provider the access
// gate borrows sessions from.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edudesk-api/internal/gate"
)

// ErrResolutionTimeout indicates the identity provider did not settle within
// the configured window. Callers should surface a retry affordance rather
// than hang.
var ErrResolutionTimeout = errors.New("session resolution timed out")

const sessionKeyPrefix = "session:"

// Store persists sessions in redis and resolves them for the access gate.
type Store struct {
	redis          *redis.Client
	ttl            time.Duration
	resolveTimeout time.Duration
	logger         zerolog.Logger
}

// NewStore builds a session store.
func NewStore(client *redis.Client, ttl, resolveTimeout time.Duration, logger zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if resolveTimeout <= 0 {
		resolveTimeout = 3 * time.Second
	}

	return &Store{
		redis:          client,
		ttl:            ttl,
		resolveTimeout: resolveTimeout,
		logger:         logger.With().Str("component", "session_store").Logger(),
	}
}

// Create stores a new session and returns it with a fresh token.
func (s *Store) Create(ctx context.Context, session gate.Session) (gate.Session, error) {
	session.Token = uuid.NewString()
	session.ExpiresAt = time.Now().Add(s.ttl)

	payload, err := json.Marshal(session)
	if err != nil {
		return gate.Session{}, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKeyPrefix+session.Token, payload, s.ttl).Err(); err != nil {
		return gate.Session{}, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// Resolve looks up the session for token. The lookup is bounded by the
// configured resolve timeout; on expiry it reports ErrResolutionTimeout so
// the caller never sits in the loading state indefinitely. A missing or
// expired session resolves to a ready result with a nil session.
func (s *Store) Resolve(ctx context.Context, token string) (gate.SessionResult, error) {
	if token == "" {
		return gate.SessionResult{State: gate.SessionStateReady}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	payload, err := s.redis.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return gate.SessionResult{State: gate.SessionStateReady}, nil
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return gate.SessionResult{State: gate.SessionStateResolving}, ErrResolutionTimeout
		}
		return gate.SessionResult{State: gate.SessionStateResolving}, fmt.Errorf("failed to resolve session: %w", err)
	}

	var session gate.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		s.logger.Warn().Err(err).Msg("discarding undecodable session")
		return gate.SessionResult{State: gate.SessionStateReady}, nil
	}

	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return gate.SessionResult{State: gate.SessionStateReady}, nil
	}

	return gate.SessionResult{State: gate.SessionStateReady, Session: &session}, nil
}

// Revoke destroys the session for token. Revoking an unknown token is a no-op.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
