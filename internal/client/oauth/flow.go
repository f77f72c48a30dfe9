package oauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/api"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/session"
	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage"
	pkgapi "github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/pkg/api"
)

// StateTTL bounds how long an initiated handshake stays valid. A callback
// arriving later fails closed regardless of state equality.
const StateTTL = 10 * time.Minute

var (
	// ErrStateMismatch rejects a callback whose state does not exactly
	// match a persisted handshake. This is the CSRF defense; it also
	// covers the no-handshake-at-all case.
	ErrStateMismatch = errors.New("invalid authentication state")

	// ErrStateExpired rejects a callback for a handshake older than StateTTL
	ErrStateExpired = errors.New("authentication session expired, please try signing in again")

	// ErrProviderDenied means the user cancelled at the provider's consent
	// screen; distinguished so the UI can say "you cancelled" instead of
	// "something went wrong"
	ErrProviderDenied = errors.New("sign-in was cancelled at GitHub")
)

// Options configures an OAuth initiation
type Options struct {
	// ForceAccountSelection asks the provider to prompt for account choice
	// even when it has a live session
	ForceAccountSelection bool

	// RedirectTo is the post-login destination persisted across the
	// handshake; invalid (non-relative) targets are dropped
	RedirectTo string

	// Replace, on the link flow, replaces an already linked account
	Replace bool
}

// Callback carries the query parameters delivered to the callback route
type Callback struct {
	Code      string
	State     string
	ErrorCode string // provider error code such as "access_denied"
}

// CallbackResult reports a successful exchange. Destination is empty for
// the link flow, which defers navigation to the caller.
type CallbackResult struct {
	Flow        storage.FlowKind
	User        *pkgapi.User
	Destination string
}

// Flow orchestrates the GitHub OAuth authorization-code dance from the
// client's perspective: it asks the backend for an authorization URL and
// CSRF state, persists the handshake, opens the browser, and validates the
// callback before exchanging the code. The provider handshake itself
// (building consent URLs, talking to GitHub's token endpoint) is entirely
// backend-owned.
type Flow struct {
	sessions  *session.Service
	states    storage.HandshakeStorage
	navigator Navigator
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an OAuth flow
func New(sessions *session.Service, states storage.HandshakeStorage, navigator Navigator, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{
		sessions:  sessions,
		states:    states,
		navigator: navigator,
		logger:    logger,
		now:       time.Now,
	}
}

// Initiate starts the login flow: fetches an authorization URL and state
// from the backend, persists the handshake, and navigates the browser. On
// backend error nothing is persisted and the browser stays put.
func (f *Flow) Initiate(ctx context.Context, opts Options) error {
	path := "/oauth/github"
	if opts.ForceAccountSelection {
		path += "?force_reauth=true"
	}

	res := api.Do[pkgapi.AuthorizeURLResponse](ctx, f.sessions.Client(), http.MethodGet, path, nil, "")
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("failed to start GitHub sign-in: %s", res.Detail())
	}

	return f.beginHandshake(ctx, storage.FlowLogin, opts.RedirectTo, res.Data)
}

// InitiateLink starts the account-linking flow for the already
// authenticated user. Shares the callback route with login; the persisted
// flow kind disambiguates on the way back.
func (f *Flow) InitiateLink(ctx context.Context, opts Options) error {
	params := url.Values{}
	if opts.ForceAccountSelection {
		params.Set("force_reauth", "true")
	}
	if opts.Replace {
		params.Set("replace", "true")
	}
	path := "/oauth/github/link"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	res := session.DoAuthed[pkgapi.AuthorizeURLResponse](ctx, f.sessions, http.MethodGet, path, nil)
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("failed to start GitHub account linking: %s", res.Detail())
	}

	return f.beginHandshake(ctx, storage.FlowLink, "", res.Data)
}

// InitiateUpdate starts re-authorization to replace the linked account
func (f *Flow) InitiateUpdate(ctx context.Context) error {
	res := session.DoAuthed[pkgapi.AuthorizeURLResponse](ctx, f.sessions, http.MethodGet, "/oauth/github/update", nil)
	if !res.OK() || res.Data == nil {
		return fmt.Errorf("failed to start GitHub re-authorization: %s", res.Detail())
	}

	return f.beginHandshake(ctx, storage.FlowLink, "", res.Data)
}

// HandleCallback validates and consumes the persisted handshake for the
// returned state, then exchanges the authorization code. The handshake is
// consumed exactly once on every terminal outcome, so a replayed callback
// URL finds nothing to match.
func (f *Flow) HandleCallback(ctx context.Context, cb Callback) (*CallbackResult, error) {
	hs := f.matchAndConsume(ctx, cb.State)
	if hs == nil {
		// An unmatched callback still terminates any pending attempt:
		// the handshake is consulted exactly once
		_ = f.states.DeleteHandshake(ctx, storage.FlowLogin)
		_ = f.states.DeleteHandshake(ctx, storage.FlowLink)
		f.logger.Warn("oauth callback rejected: state mismatch")
		return nil, ErrStateMismatch
	}

	if cb.ErrorCode != "" {
		if cb.ErrorCode == "access_denied" {
			return nil, ErrProviderDenied
		}
		return nil, fmt.Errorf("github sign-in failed: %s", cb.ErrorCode)
	}

	if hs.Age(f.now()) > StateTTL {
		f.logger.Warn("oauth callback rejected: handshake expired", "flow", hs.Flow)
		return nil, ErrStateExpired
	}

	res := f.sessions.ExchangeCode(ctx, cb.Code, cb.State)
	if !res.OK() || res.Data == nil {
		return nil, fmt.Errorf("github sign-in failed: %s", res.Detail())
	}

	result := &CallbackResult{
		Flow: hs.Flow,
		User: &res.Data.User,
	}
	if hs.Flow == storage.FlowLogin {
		result.Destination = session.PostLoginDestination(hs.RedirectTo, result.User)
	}

	f.logger.Info("oauth exchange succeeded", "flow", hs.Flow, "user_id", res.Data.User.ID)
	return result, nil
}

// Info returns metadata about the linked GitHub account
func (f *Flow) Info(ctx context.Context) api.Result[pkgapi.LinkedAccountInfo] {
	return session.DoAuthed[pkgapi.LinkedAccountInfo](ctx, f.sessions, http.MethodGet, "/oauth/github/info", nil)
}

// Disconnect unlinks the GitHub account from the current user
func (f *Flow) Disconnect(ctx context.Context) api.Result[pkgapi.MessageResponse] {
	return session.DoAuthed[pkgapi.MessageResponse](ctx, f.sessions, http.MethodDelete, "/oauth/github/disconnect", nil)
}

// beginHandshake persists the handshake record and opens the browser
func (f *Flow) beginHandshake(ctx context.Context, flow storage.FlowKind, redirectTo string, auth *pkgapi.AuthorizeURLResponse) error {
	if redirectTo != "" && !isValidRedirectPath(redirectTo) {
		f.logger.Warn("dropping invalid redirect target", "redirect_to", redirectTo)
		redirectTo = ""
	}

	hs := &storage.HandshakeRecord{
		State:      auth.State,
		CreatedAt:  f.now().Unix(),
		RedirectTo: redirectTo,
		Flow:       flow,
	}
	if err := f.states.SaveHandshake(ctx, hs); err != nil {
		return fmt.Errorf("failed to persist oauth state: %w", err)
	}

	if err := f.navigator.Navigate(auth.AuthURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	f.logger.Debug("oauth handshake initiated", "flow", flow)
	return nil
}

// matchAndConsume finds which persisted flow the returned state belongs to
// and deletes that handshake. Comparison is constant-time; absence of any
// handshake is just a mismatch.
func (f *Flow) matchAndConsume(ctx context.Context, state string) *storage.HandshakeRecord {
	if state == "" {
		return nil
	}

	for _, flow := range []storage.FlowKind{storage.FlowLogin, storage.FlowLink} {
		hs, err := f.states.GetHandshake(ctx, flow)
		if err != nil {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(hs.State), []byte(state)) == 1 {
			consumed, err := f.states.ConsumeHandshake(ctx, flow)
			if err != nil {
				return nil
			}
			return consumed
		}
	}
	return nil
}

// isValidRedirectPath validates that a post-login target is a safe relative
// path, rejecting absolute URLs and protocol-relative ("//") forms that
// would open-redirect
func isValidRedirectPath(path string) bool {
	if path == "" {
		return false
	}

	decoded, err := url.QueryUnescape(path)
	if err != nil {
		return false
	}

	if len(decoded) == 0 || decoded[0] != '/' {
		return false
	}
	if len(decoded) > 1 && decoded[1] == '/' {
		return false
	}

	parsed, err := url.Parse(decoded)
	if err != nil {
		return false
	}
	return parsed.Scheme == "" && parsed.Host == ""
}
