package session

import (
	"context"

	pkgapi "github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/pkg/api"
)

// Snapshot is the consumer-facing session state. IsLoading is true between
// the synchronous token read and the asynchronous profile resolution;
// consumers render a waiting state until it clears.
type Snapshot struct {
	User            *pkgapi.User
	IsAuthenticated bool
	IsLoading       bool
}

// State derives the consumer-facing session snapshot from the token store
// plus a profile fetch, and owns the post-auth redirect decisions.
type State struct {
	svc *Service
}

// NewState creates the session state facade
func NewState(svc *Service) *State {
	return &State{svc: svc}
}

// Bootstrap reads persisted tokens synchronously (no network) and decides
// the initial snapshot. An authenticated snapshot starts loading until
// Resolve completes it.
func (s *State) Bootstrap(ctx context.Context) (Snapshot, error) {
	if err := s.svc.Tokens().Load(ctx); err != nil {
		return Snapshot{}, err
	}

	authenticated := s.svc.Tokens().Access() != ""
	return Snapshot{
		User:            s.svc.Tokens().User(),
		IsAuthenticated: authenticated,
		IsLoading:       authenticated,
	}, nil
}

// Resolve completes the snapshot by fetching the profile. A failed fetch
// that survives the refresh-and-retry policy means the session is gone; the
// snapshot degrades to signed-out.
func (s *State) Resolve(ctx context.Context) Snapshot {
	res := s.svc.Profile(ctx)
	if !res.OK() || res.Data == nil {
		return Snapshot{IsAuthenticated: s.svc.Tokens().Access() != ""}
	}

	return Snapshot{
		User:            res.Data,
		IsAuthenticated: true,
	}
}

// DestinationFor enforces the identity-matches-route invariant: when the
// authenticated user's id differs from the route-scoped identifier, the
// caller must redirect to the same view under the correct identity. This is
// a routing correction, not an auth failure.
func (s *State) DestinationFor(snap Snapshot, routeUserID string) (string, bool) {
	if snap.User == nil || routeUserID == "" || snap.User.ID == routeUserID {
		return "", false
	}
	return UserDashboard(snap.User.ID), true
}

// PostLoginDestination picks where to land after a successful auth
// exchange: the persisted redirect target when present, else the user's
// dashboard, else the root
func PostLoginDestination(redirectTo string, user *pkgapi.User) string {
	if redirectTo != "" {
		return redirectTo
	}
	if user != nil && user.ID != "" {
		return UserDashboard(user.ID)
	}
	return "/"
}

// UserDashboard returns the user-scoped dashboard path
func UserDashboard(userID string) string {
	return "/" + userID + "/dashboard"
}
