package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage"
	pkgapi "github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/pkg/api"
)

// memStore implements storage.AuthStorage and storage.MetaStorage in memory
type memStore struct {
	mu        sync.Mutex
	auth      *storage.AuthRecord
	meta      map[string]string
	saveErr   error
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{meta: make(map[string]string)}
}

func (m *memStore) SaveAuth(ctx context.Context, auth *storage.AuthRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *auth
	m.auth = &cp
	return nil
}

func (m *memStore) GetAuth(ctx context.Context) (*storage.AuthRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.auth == nil {
		return nil, storage.ErrAuthNotFound
	}
	cp := *m.auth
	return &cp, nil
}

func (m *memStore) DeleteAuth(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.auth = nil
	return nil
}

func (m *memStore) SetMeta(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta[key] = value
	return nil
}

func (m *memStore) GetMeta(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.meta[key]
	if !ok {
		return "", storage.ErrMetaNotFound
	}
	return value, nil
}

func (m *memStore) DeleteMeta(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.meta, key)
	return nil
}

func TestTokens_LoadEmpty(t *testing.T) {
	store := newMemStore()
	tokens := NewTokens(store, store)

	require.NoError(t, tokens.Load(context.Background()))
	assert.Empty(t, tokens.Access())
	assert.Empty(t, tokens.Refresh())
	assert.Nil(t, tokens.User())
}

func TestTokens_LoadRestoresSession(t *testing.T) {
	store := newMemStore()
	store.auth = &storage.AuthRecord{
		UserID:       "u1",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		UserJSON:     `{"id":"u1","email":"dev@example.com"}`,
	}

	tokens := NewTokens(store, store)
	require.NoError(t, tokens.Load(context.Background()))

	assert.Equal(t, "access-1", tokens.Access())
	assert.Equal(t, "refresh-1", tokens.Refresh())
	require.NotNil(t, tokens.User())
	assert.Equal(t, "dev@example.com", tokens.User().Email)
	assert.Equal(t, "u1", tokens.UserID())
}

func TestTokens_SetSessionPersistsAndMarksUser(t *testing.T) {
	store := newMemStore()
	tokens := NewTokens(store, store)
	ctx := context.Background()

	user := pkgapi.User{ID: "u1", Email: "dev@example.com", FullName: "Dev"}
	require.NoError(t, tokens.SetSession(ctx, "access-1", "refresh-1", user))

	require.NotNil(t, store.auth)
	assert.Equal(t, "access-1", store.auth.AccessToken)
	assert.Equal(t, "refresh-1", store.auth.RefreshToken)
	assert.Equal(t, "u1", store.auth.UserID)
	assert.NotEmpty(t, store.auth.UserJSON)

	// The non-sensitive marker carries only the user id
	marker, err := store.GetMeta(ctx, storage.MetaCurrentUser)
	require.NoError(t, err)
	assert.Equal(t, "u1", marker)
}

func TestTokens_ClearWipesMemoryEvenWhenStorageFails(t *testing.T) {
	store := newMemStore()
	tokens := NewTokens(store, store)
	ctx := context.Background()

	require.NoError(t, tokens.SetSession(ctx, "a", "r", pkgapi.User{ID: "u1"}))
	store.deleteErr = assert.AnError

	err := tokens.Clear(ctx)
	assert.Error(t, err)
	assert.Empty(t, tokens.Access())
	assert.Empty(t, tokens.Refresh())
	assert.Nil(t, tokens.User())
}

// A concurrent reader never observes one token from the old pair and one
// from the new
func TestTokens_PairSwapIsAtomic(t *testing.T) {
	store := newMemStore()
	tokens := NewTokens(store, store)
	ctx := context.Background()

	require.NoError(t, tokens.SetPair(ctx, "a1", "r1"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				_ = tokens.SetPair(ctx, "a2", "r2")
			} else {
				_ = tokens.SetPair(ctx, "a1", "r1")
			}
		}
	}()

	for i := 0; i < 2000; i++ {
		access, refresh := tokens.Pair()
		valid := (access == "a1" && refresh == "r1") || (access == "a2" && refresh == "r2")
		require.True(t, valid, "observed torn pair %q/%q", access, refresh)
	}
	<-done
}

func TestTokens_ExpiryFromJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	store := newMemStore()
	tokens := NewTokens(store, store)
	require.NoError(t, tokens.SetPair(context.Background(), signed, "r1"))

	assert.Equal(t, exp.Unix(), tokens.ExpiresAt().Unix())
}

func TestTokens_OpaqueTokenHasNoExpiry(t *testing.T) {
	store := newMemStore()
	tokens := NewTokens(store, store)
	require.NoError(t, tokens.SetPair(context.Background(), "opaque-token", "r1"))

	assert.True(t, tokens.ExpiresAt().IsZero())
}
