package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "client.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestAuthRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.GetAuth(ctx)
	assert.Equal(t, storage.ErrAuthNotFound, err)

	rec := &storage.AuthRecord{
		UserID:       "u1",
		Email:        "dev@example.com",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    1234567890,
		UserJSON:     `{"id":"u1"}`,
	}
	require.NoError(t, s.SaveAuth(ctx, rec))

	got, err := s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// Replacing overwrites wholesale
	rec2 := &storage.AuthRecord{UserID: "u1", AccessToken: "access-2", RefreshToken: "refresh-2"}
	require.NoError(t, s.SaveAuth(ctx, rec2))
	got, err = s.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)

	require.NoError(t, s.DeleteAuth(ctx))
	_, err = s.GetAuth(ctx)
	assert.Equal(t, storage.ErrAuthNotFound, err)

	// Deleting again stays quiet; logout is idempotent
	require.NoError(t, s.DeleteAuth(ctx))
}

func TestHandshakeConsumeOnce(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	hs := &storage.HandshakeRecord{
		State:      "abc",
		CreatedAt:  1700000000,
		RedirectTo: "/x/dashboard",
		Flow:       storage.FlowLogin,
	}
	require.NoError(t, s.SaveHandshake(ctx, hs))

	// Peeking does not consume
	got, err := s.GetHandshake(ctx, storage.FlowLogin)
	require.NoError(t, err)
	assert.Equal(t, hs, got)

	got, err = s.ConsumeHandshake(ctx, storage.FlowLogin)
	require.NoError(t, err)
	assert.Equal(t, hs, got)

	// Consumed exactly once: a replay finds nothing
	_, err = s.ConsumeHandshake(ctx, storage.FlowLogin)
	assert.Equal(t, storage.ErrHandshakeNotFound, err)
	_, err = s.GetHandshake(ctx, storage.FlowLogin)
	assert.Equal(t, storage.ErrHandshakeNotFound, err)
}

func TestHandshakeFlowsAreIndependent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	login := &storage.HandshakeRecord{State: "login-state", Flow: storage.FlowLogin}
	link := &storage.HandshakeRecord{State: "link-state", Flow: storage.FlowLink}
	require.NoError(t, s.SaveHandshake(ctx, login))
	require.NoError(t, s.SaveHandshake(ctx, link))

	got, err := s.ConsumeHandshake(ctx, storage.FlowLink)
	require.NoError(t, err)
	assert.Equal(t, "link-state", got.State)

	// The login handshake is untouched
	got, err = s.GetHandshake(ctx, storage.FlowLogin)
	require.NoError(t, err)
	assert.Equal(t, "login-state", got.State)

	require.NoError(t, s.DeleteHandshake(ctx, storage.FlowLogin))
	_, err = s.GetHandshake(ctx, storage.FlowLogin)
	assert.Equal(t, storage.ErrHandshakeNotFound, err)
}

func TestMetaRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.GetMeta(ctx, storage.MetaCurrentUser)
	assert.Equal(t, storage.ErrMetaNotFound, err)

	require.NoError(t, s.SetMeta(ctx, storage.MetaCurrentUser, "u1"))
	value, err := s.GetMeta(ctx, storage.MetaCurrentUser)
	require.NoError(t, err)
	assert.Equal(t, "u1", value)

	require.NoError(t, s.DeleteMeta(ctx, storage.MetaCurrentUser))
	_, err = s.GetMeta(ctx, storage.MetaCurrentUser)
	assert.Equal(t, storage.ErrMetaNotFound, err)
}
