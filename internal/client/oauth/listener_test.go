package oauth

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

// deliverCallback retries until the listener is up, then returns the response
func deliverCallback(t *testing.T, addr, query string) *http.Response {
	t.Helper()
	url := fmt.Sprintf("http://%s%s?%s", addr, CallbackPath, query)

	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			return resp
		}
		if time.Now().After(deadline) {
			t.Fatalf("callback listener never came up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWaitForCallback_Success(t *testing.T) {
	fx := newFlowFixture(t)
	fx.persistLoginHandshake(t, "abc", "/x/dashboard", time.Minute)

	listener := NewListener(fx.flow, freeAddr(t), nil)
	addr := listener.addr

	type outcome struct {
		result *CallbackResult
		err    error
	}
	done := make(chan outcome, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		result, err := listener.WaitForCallback(ctx)
		done <- outcome{result, err}
	}()

	resp := deliverCallback(t, addr, "code=code1&state=abc")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Signed in")

	out := <-done
	require.NoError(t, out.err)
	require.NotNil(t, out.result)
	assert.Equal(t, storage.FlowLogin, out.result.Flow)
	assert.Equal(t, "/x/dashboard", out.result.Destination)
	assert.Equal(t, "t", fx.tokens.Access())
}

func TestWaitForCallback_StateMismatchFailsThePage(t *testing.T) {
	fx := newFlowFixture(t)
	fx.persistLoginHandshake(t, "abc", "", time.Minute)

	listener := NewListener(fx.flow, freeAddr(t), nil)
	addr := listener.addr

	errc := make(chan error, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() {
		_, err := listener.WaitForCallback(ctx)
		errc <- err
	}()

	resp := deliverCallback(t, addr, "code=code1&state=zzz")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Sign-in failed")

	assert.ErrorIs(t, <-errc, ErrStateMismatch)
}

func TestWaitForCallback_ContextCancelled(t *testing.T) {
	fx := newFlowFixture(t)

	listener := NewListener(fx.flow, freeAddr(t), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := listener.WaitForCallback(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForCallback_BindFailure(t *testing.T) {
	fx := newFlowFixture(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	listener := NewListener(fx.flow, ln.Addr().String(), nil)
	_, err = listener.WaitForCallback(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to bind callback listener")
}
