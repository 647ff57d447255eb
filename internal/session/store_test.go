package session

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudesk-api/internal/gate"
	"github.com/noah-isme/edudesk-api/internal/models"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, time.Hour, time.Second, zerolog.Nop()), server
}

func TestCreateAndResolveRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, gate.Session{
		UserID:   42,
		Username: "amira",
		Role:     models.RoleParent,
		FullName: "Amira Hassan",
		Email:    "amira@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)

	result, err := store.Resolve(ctx, created.Token)
	require.NoError(t, err)
	require.Equal(t, gate.SessionStateReady, result.State)
	require.NotNil(t, result.Session)
	require.Equal(t, uint(42), result.Session.UserID)
	require.Equal(t, models.RoleParent, result.Session.Role)
}

func TestResolveUnknownTokenIsReadyWithoutSession(t *testing.T) {
	store, _ := newTestStore(t)

	result, err := store.Resolve(context.Background(), "no-such-token")
	require.NoError(t, err)
	require.Equal(t, gate.SessionStateReady, result.State)
	require.Nil(t, result.Session)
}

func TestResolveEmptyTokenIsReadyWithoutSession(t *testing.T) {
	store, _ := newTestStore(t)

	result, err := store.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.Nil(t, result.Session)
}

func TestRevokeDestroysSession(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, gate.Session{UserID: 9, Role: models.RoleStudent})
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, created.Token))

	result, err := store.Resolve(ctx, created.Token)
	require.NoError(t, err)
	require.Nil(t, result.Session)
}

func TestResolveExpiredSessionIsReadyWithoutSession(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, gate.Session{UserID: 5, Role: models.RoleTeacher})
	require.NoError(t, err)

	server.FastForward(2 * time.Hour)

	result, err := store.Resolve(ctx, created.Token)
	require.NoError(t, err)
	require.Nil(t, result.Session)
}
