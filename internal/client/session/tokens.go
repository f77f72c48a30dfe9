package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage"
	pkgapi "github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/pkg/api"
)

// Tokens is the single source of truth for the current bearer credentials.
// It is constructed explicitly and injected wherever the HTTP layer needs
// it; there is no package-level singleton. All reads observe a consistent
// pair: both tokens are always swapped under one write lock.
type Tokens struct {
	mu        sync.RWMutex
	access    string
	refresh   string
	expiresAt int64
	user      *pkgapi.User

	auths storage.AuthStorage
	meta  storage.MetaStorage
}

// NewTokens creates a token store backed by the given storage
func NewTokens(auths storage.AuthStorage, meta storage.MetaStorage) *Tokens {
	return &Tokens{auths: auths, meta: meta}
}

// Load populates the in-memory state from persisted storage. A missing
// record leaves the store empty; Load is idempotent and never does network
// I/O.
func (t *Tokens) Load(ctx context.Context) error {
	rec, err := t.auths.GetAuth(ctx)
	if err != nil {
		if err == storage.ErrAuthNotFound {
			return nil
		}
		return fmt.Errorf("failed to load auth record: %w", err)
	}

	var user *pkgapi.User
	if rec.UserJSON != "" {
		user = &pkgapi.User{}
		if err := json.Unmarshal([]byte(rec.UserJSON), user); err != nil {
			user = nil
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.access = rec.AccessToken
	t.refresh = rec.RefreshToken
	t.expiresAt = rec.ExpiresAt
	t.user = user
	return nil
}

// Access returns the current access token, or "" when signed out
func (t *Tokens) Access() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.access
}

// Refresh returns the current refresh token, or "" when signed out
func (t *Tokens) Refresh() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.refresh
}

// Pair returns both tokens as one consistent snapshot
func (t *Tokens) Pair() (access, refresh string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.access, t.refresh
}

// User returns a copy of the cached user profile, or nil. The cache is for
// display only; it is never an authorization decision input.
func (t *Tokens) User() *pkgapi.User {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.user == nil {
		return nil
	}
	u := *t.user
	return &u
}

// UserID returns the cached user's id, or ""
func (t *Tokens) UserID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.user == nil {
		return ""
	}
	return t.user.ID
}

// ExpiresAt returns the access token expiry, or the zero time when unknown
func (t *Tokens) ExpiresAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.expiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(t.expiresAt, 0)
}

// SetPair atomically replaces both tokens and persists them, keeping the
// cached user. Used by the refresh path.
func (t *Tokens) SetPair(ctx context.Context, access, refresh string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.access = access
	t.refresh = refresh
	t.expiresAt = tokenExpiry(access)
	return t.persistLocked(ctx)
}

// SetSession replaces the tokens and the cached user as one atomic swap.
// Called on every successful auth exchange (login, signup, OAuth callback);
// it also writes the non-sensitive current-user marker so tooling can make
// routing decisions without reading the tokens.
func (t *Tokens) SetSession(ctx context.Context, access, refresh string, user pkgapi.User) error {
	t.mu.Lock()
	t.access = access
	t.refresh = refresh
	t.expiresAt = tokenExpiry(access)
	t.user = &user
	err := t.persistLocked(ctx)
	t.mu.Unlock()
	if err != nil {
		return err
	}

	if user.ID != "" {
		if err := t.meta.SetMeta(ctx, storage.MetaCurrentUser, user.ID); err != nil {
			return fmt.Errorf("failed to set current user marker: %w", err)
		}
	}
	return nil
}

// SetUser updates only the cached user profile
func (t *Tokens) SetUser(ctx context.Context, user pkgapi.User) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.user = &user
	return t.persistLocked(ctx)
}

// Clear wipes the in-memory pair, the persisted record and the current-user
// marker. Memory is cleared first so no caller can pick up stale
// credentials even if storage fails.
func (t *Tokens) Clear(ctx context.Context) error {
	t.mu.Lock()
	t.access = ""
	t.refresh = ""
	t.expiresAt = 0
	t.user = nil
	t.mu.Unlock()

	if err := t.auths.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to delete auth record: %w", err)
	}
	if err := t.meta.DeleteMeta(ctx, storage.MetaCurrentUser); err != nil {
		return fmt.Errorf("failed to delete current user marker: %w", err)
	}
	return nil
}

// persistLocked writes the current state to storage; callers hold t.mu
func (t *Tokens) persistLocked(ctx context.Context) error {
	rec := &storage.AuthRecord{
		AccessToken:  t.access,
		RefreshToken: t.refresh,
		ExpiresAt:    t.expiresAt,
	}
	if t.user != nil {
		rec.UserID = t.user.ID
		rec.Email = t.user.Email
		if data, err := json.Marshal(t.user); err == nil {
			rec.UserJSON = string(data)
		}
	}

	if err := t.auths.SaveAuth(ctx, rec); err != nil {
		return fmt.Errorf("failed to persist auth record: %w", err)
	}
	return nil
}

// tokenExpiry extracts the exp claim from the access token without
// verifying the signature; only the backend validates tokens. Opaque
// tokens yield 0.
func tokenExpiry(accessToken string) int64 {
	if accessToken == "" {
		return 0
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return 0
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.Unix()
}
