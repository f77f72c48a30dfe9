package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/api"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/session"
	pkgapi "github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/pkg/api"
)

// Service exposes the GitHub data endpoints the agent backend proxies:
// repositories, organizations, pull requests and automated merges. All
// calls ride the authenticated wrapper and inherit its refresh-and-retry
// policy.
type Service struct {
	sessions *session.Service
}

// NewService creates a GitHub data service
func NewService(sessions *session.Service) *Service {
	return &Service{sessions: sessions}
}

// Repositories lists the repositories visible to the signed-in user
func (s *Service) Repositories(ctx context.Context) api.Result[[]pkgapi.Repository] {
	return session.DoAuthed[[]pkgapi.Repository](ctx, s.sessions, http.MethodGet, "/github/repositories", nil)
}

// Organizations lists the organizations the signed-in user belongs to
func (s *Service) Organizations(ctx context.Context) api.Result[[]pkgapi.Organization] {
	return session.DoAuthed[[]pkgapi.Organization](ctx, s.sessions, http.MethodGet, "/github/organizations", nil)
}

// PullRequests lists open pull requests, optionally scoped to one
// repository ("owner/name")
func (s *Service) PullRequests(ctx context.Context, repo string) api.Result[[]pkgapi.PullRequest] {
	path := "/github/pull-requests"
	if repo != "" {
		path += "?repo=" + url.QueryEscape(repo)
	}
	return session.DoAuthed[[]pkgapi.PullRequest](ctx, s.sessions, http.MethodGet, path, nil)
}

// Merge asks the agent to merge a pull request
func (s *Service) Merge(ctx context.Context, owner, repo string, number int) api.Result[pkgapi.MergeResponse] {
	if owner == "" || repo == "" || number <= 0 {
		return api.Failure[pkgapi.MergeResponse](http.StatusBadRequest,
			fmt.Sprintf("invalid merge target %s/%s#%d", owner, repo, number))
	}

	req := pkgapi.MergeRequest{Owner: owner, Repo: repo, Number: number}
	return session.DoAuthed[pkgapi.MergeResponse](ctx, s.sessions, http.MethodPost, "/github/merge", req)
}
