package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/api"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/session"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage"
	pkgapi "github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/pkg/api"
)

// memStore implements storage.AuthStorage and storage.MetaStorage in memory
type memStore struct {
	auth *storage.AuthRecord
	meta map[string]string
}

func newMemStore() *memStore { return &memStore{meta: make(map[string]string)} }

func (m *memStore) SaveAuth(ctx context.Context, auth *storage.AuthRecord) error {
	cp := *auth
	m.auth = &cp
	return nil
}

func (m *memStore) GetAuth(ctx context.Context) (*storage.AuthRecord, error) {
	if m.auth == nil {
		return nil, storage.ErrAuthNotFound
	}
	cp := *m.auth
	return &cp, nil
}

func (m *memStore) DeleteAuth(ctx context.Context) error {
	m.auth = nil
	return nil
}

func (m *memStore) SetMeta(ctx context.Context, key, value string) error {
	m.meta[key] = value
	return nil
}

func (m *memStore) GetMeta(ctx context.Context, key string) (string, error) {
	value, ok := m.meta[key]
	if !ok {
		return "", storage.ErrMetaNotFound
	}
	return value, nil
}

func (m *memStore) DeleteMeta(ctx context.Context, key string) error {
	delete(m.meta, key)
	return nil
}

func newTestService(t *testing.T, serverURL string) *Service {
	t.Helper()
	store := newMemStore()
	tokens := session.NewTokens(store, store)
	require.NoError(t, tokens.SetPair(context.Background(), "access-1", "refresh-1"))
	return NewService(session.NewService(api.NewClient(serverURL), tokens, nil))
}

func TestRepositories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/github/repositories", r.URL.Path)
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]pkgapi.Repository{
			{ID: 1, Name: "agent", FullName: "acme/agent", DefaultBranch: "main"},
			{ID: 2, Name: "infra", FullName: "acme/infra", DefaultBranch: "main", Private: true},
		})
	}))
	defer server.Close()

	res := newTestService(t, server.URL).Repositories(context.Background())

	require.True(t, res.OK())
	require.Len(t, *res.Data, 2)
	assert.Equal(t, "acme/agent", (*res.Data)[0].FullName)
	assert.True(t, (*res.Data)[1].Private)
}

func TestPullRequests_RepoFilter(t *testing.T) {
	var gotRepo atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRepo.Store(r.URL.Query().Get("repo"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]pkgapi.PullRequest{
			{ID: 10, Number: 42, Title: "fix flaky retry", State: "open", Mergeable: true},
		})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	res := svc.PullRequests(context.Background(), "acme/agent")
	require.True(t, res.OK())
	assert.Equal(t, "acme/agent", gotRepo.Load())
	assert.Equal(t, 42, (*res.Data)[0].Number)

	res = svc.PullRequests(context.Background(), "")
	require.True(t, res.OK())
	assert.Equal(t, "", gotRepo.Load())
}

func TestMerge_ValidatesTargetLocally(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	tests := []struct {
		name   string
		owner  string
		repo   string
		number int
	}{
		{"missing owner", "", "agent", 1},
		{"missing repo", "acme", "", 1},
		{"bad number", "acme", "agent", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Merge(context.Background(), tt.owner, tt.repo, tt.number)

			require.False(t, res.OK())
			assert.Equal(t, http.StatusBadRequest, res.Status)
			assert.Equal(t, int32(0), requests.Load(), "no network call for an invalid target")
		})
	}
}

func TestMerge_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/github/merge", r.URL.Path)

		var req pkgapi.MergeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "acme", req.Owner)
		assert.Equal(t, "agent", req.Repo)
		assert.Equal(t, 42, req.Number)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pkgapi.MergeResponse{Merged: true, SHA: "abc123", Message: "merged"})
	}))
	defer server.Close()

	res := newTestService(t, server.URL).Merge(context.Background(), "acme", "agent", 42)

	require.True(t, res.OK())
	assert.True(t, res.Data.Merged)
	assert.Equal(t, "abc123", res.Data.SHA)
}
