package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/api"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/validation"
	pkgapi "github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/pkg/api"
)

// ErrSessionExpired is returned when a refresh attempt fails and the local
// session has been cleared
var ErrSessionExpired = errors.New("session expired, please sign in again")

// Service provides the typed session endpoints: signup, login, logout,
// profile and token refresh, plus the authenticated request wrapper with
// its 401-triggers-one-refresh policy.
type Service struct {
	client  *api.Client
	tokens  *Tokens
	logger  *slog.Logger
	refresh singleflight.Group
}

// NewService creates a new session service
func NewService(client *api.Client, tokens *Tokens, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: client,
		tokens: tokens,
		logger: logger,
	}
}

// Tokens exposes the underlying token store
func (s *Service) Tokens() *Tokens {
	return s.tokens
}

// Client exposes the underlying HTTP client
func (s *Service) Client() *api.Client {
	return s.client
}

// Signup creates a new account. Fields are validated locally before any
// network call; on success the token pair and user are persisted before the
// result is returned.
func (s *Service) Signup(ctx context.Context, req pkgapi.SignupRequest) api.Result[pkgapi.AuthResponse] {
	if err := validation.ValidateEmail(req.Email); err != nil {
		return api.Failure[pkgapi.AuthResponse](http.StatusBadRequest, err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return api.Failure[pkgapi.AuthResponse](http.StatusBadRequest, err.Error())
	}
	if err := validation.ValidateFullName(req.FullName); err != nil {
		return api.Failure[pkgapi.AuthResponse](http.StatusBadRequest, err.Error())
	}

	res := api.Do[pkgapi.AuthResponse](ctx, s.client, http.MethodPost, "/signup", req, "")
	s.persistAuth(ctx, res)
	return res
}

// Login performs a password login. Fields are validated locally before any
// network call; on success the token pair and user are persisted before the
// result is returned.
func (s *Service) Login(ctx context.Context, req pkgapi.LoginRequest) api.Result[pkgapi.AuthResponse] {
	if err := validation.ValidateEmail(req.Email); err != nil {
		return api.Failure[pkgapi.AuthResponse](http.StatusBadRequest, err.Error())
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return api.Failure[pkgapi.AuthResponse](http.StatusBadRequest, err.Error())
	}

	res := api.Do[pkgapi.AuthResponse](ctx, s.client, http.MethodPost, "/login", req, "")
	s.persistAuth(ctx, res)
	return res
}

// ExchangeCode exchanges an OAuth authorization code and state for a token
// pair; on success the pair and user are persisted. Called by the OAuth
// flow after state validation.
func (s *Service) ExchangeCode(ctx context.Context, code, state string) api.Result[pkgapi.AuthResponse] {
	req := pkgapi.CallbackRequest{Code: code, State: state}
	res := api.Do[pkgapi.AuthResponse](ctx, s.client, http.MethodPost, "/oauth/github/callback/api", req, "")
	s.persistAuth(ctx, res)
	return res
}

// Logout invalidates the server-side session best-effort and
// unconditionally clears local tokens. A failed server call never leaves
// stale credentials behind.
func (s *Service) Logout(ctx context.Context) error {
	if token := s.tokens.Access(); token != "" {
		res := api.Do[pkgapi.MessageResponse](ctx, s.client, http.MethodPost, "/logout", nil, token)
		if !res.OK() {
			s.logger.Warn("server logout failed, clearing local session anyway",
				"status", res.Status, "detail", res.Detail())
		}
	}

	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear local session: %w", err)
	}
	return nil
}

// Refresh exchanges the refresh token for a new pair. On success both
// tokens are replaced atomically; on any failure the local session is
// cleared and ErrSessionExpired is returned. This is the single path that
// can force a silent logout.
func (s *Service) Refresh(ctx context.Context) error {
	if ok := s.refreshOnce(ctx); !ok {
		return ErrSessionExpired
	}
	return nil
}

// Profile fetches the current user's profile and updates the display cache
func (s *Service) Profile(ctx context.Context) api.Result[pkgapi.User] {
	res := DoAuthed[pkgapi.User](ctx, s, http.MethodGet, "/profile", nil)
	if res.OK() && res.Data != nil {
		if err := s.tokens.SetUser(ctx, *res.Data); err != nil {
			s.logger.Warn("failed to cache profile", "error", err)
		}
	}
	return res
}

// ProfileByID fetches another user's profile
func (s *Service) ProfileByID(ctx context.Context, id string) api.Result[pkgapi.User] {
	return DoAuthed[pkgapi.User](ctx, s, http.MethodGet, "/profile/"+id, nil)
}

// UpdateProfile updates the current user's profile and refreshes the cache
func (s *Service) UpdateProfile(ctx context.Context, req pkgapi.UpdateProfileRequest) api.Result[pkgapi.User] {
	res := DoAuthed[pkgapi.User](ctx, s, http.MethodPut, "/profile", req)
	if res.OK() && res.Data != nil {
		if err := s.tokens.SetUser(ctx, *res.Data); err != nil {
			s.logger.Warn("failed to cache profile", "error", err)
		}
	}
	return res
}

// DoAuthed issues an authenticated request. On a 401 with a refresh token
// present it performs exactly one refresh attempt, then retries the
// original request once with the new access token. If the refresh fails or
// no refresh token exists, the original 401 result is returned unchanged.
func DoAuthed[T any](ctx context.Context, s *Service, method, path string, body any) api.Result[T] {
	token := s.tokens.Access()
	if guard := api.RequireAuth[T](token); guard != nil {
		return *guard
	}

	res := api.Do[T](ctx, s.client, method, path, body, token)
	if res.Status != http.StatusUnauthorized {
		return res
	}

	if s.tokens.Refresh() == "" {
		return res
	}

	if ok := s.refreshOnce(ctx); !ok {
		return res
	}

	return api.Do[T](ctx, s.client, method, path, body, s.tokens.Access())
}

// refreshOnce runs the refresh exchange, deduplicating concurrent callers
// onto one in-flight attempt so parallel 401s do not rotate the refresh
// token out from under each other
func (s *Service) refreshOnce(ctx context.Context) bool {
	v, _, _ := s.refresh.Do("refresh", func() (interface{}, error) {
		return s.doRefresh(ctx), nil
	})
	ok, _ := v.(bool)
	return ok
}

func (s *Service) doRefresh(ctx context.Context) bool {
	refreshToken := s.tokens.Refresh()
	if refreshToken == "" {
		return false
	}

	req := pkgapi.RefreshRequest{RefreshToken: refreshToken}
	res := api.Do[pkgapi.AuthResponse](ctx, s.client, http.MethodPost, "/refresh", req, "")
	if !res.OK() || res.Data == nil {
		s.logger.Info("token refresh failed, clearing session",
			"status", res.Status, "detail", res.Detail())
		if err := s.tokens.Clear(ctx); err != nil {
			s.logger.Error("failed to clear session after refresh failure", "error", err)
		}
		return false
	}

	if err := s.tokens.SetPair(ctx, res.Data.AccessToken, res.Data.RefreshToken); err != nil {
		s.logger.Error("failed to persist refreshed tokens", "error", err)
		return false
	}
	return true
}

// persistAuth stores the token pair and user from a successful auth
// exchange; persistence errors surface in the log, not the result
func (s *Service) persistAuth(ctx context.Context, res api.Result[pkgapi.AuthResponse]) {
	if !res.OK() || res.Data == nil {
		return
	}
	if err := s.tokens.SetSession(ctx, res.Data.AccessToken, res.Data.RefreshToken, res.Data.User); err != nil {
		s.logger.Error("failed to persist session", "error", err)
	}
}
