package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// CallbackPath is the route the provider redirect lands on
const CallbackPath = "/oauth/callback"

// Listener is the loopback callback endpoint for the CLI flow: it receives
// the provider redirect carrying code and state, hands them to the flow,
// and renders a minimal done page telling the user to return to the
// terminal.
type Listener struct {
	flow   *Flow
	addr   string
	logger *slog.Logger
}

// NewListener creates a loopback callback listener bound to addr
// (for example "127.0.0.1:8731")
func NewListener(flow *Flow, addr string, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{flow: flow, addr: addr, logger: logger}
}

type callbackOutcome struct {
	result *CallbackResult
	err    error
}

// WaitForCallback serves the callback route until one callback has been
// processed or ctx is done, then shuts the server down and returns the
// outcome
func (l *Listener) WaitForCallback(ctx context.Context) (*CallbackResult, error) {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind callback listener on %s: %w", l.addr, err)
	}

	outcomes := make(chan callbackOutcome, 1)

	r := chi.NewRouter()
	r.Get(CallbackPath, func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		cb := Callback{
			Code:      q.Get("code"),
			State:     q.Get("state"),
			ErrorCode: q.Get("error"),
		}

		result, err := l.flow.HandleCallback(req.Context(), cb)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, donePage, "Sign-in failed", err.Error())
		} else {
			fmt.Fprintf(w, donePage, "Signed in", "You can close this tab and return to the terminal.")
		}

		// Only the first callback decides the outcome; replays get the
		// page above but change nothing
		select {
		case outcomes <- callbackOutcome{result: result, err: err}:
		default:
		}
	})

	srv := &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			l.logger.Error("callback listener failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	select {
	case out := <-outcomes:
		return out.result, out.err
	case <-ctx.Done():
		return nil, fmt.Errorf("no oauth callback received: %w", ctx.Err())
	}
}

const donePage = `<!DOCTYPE html>
<html>
<head><title>DevOps AI Agent</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4rem;">
<h2>%s</h2>
<p>%s</p>
</body>
</html>
`
