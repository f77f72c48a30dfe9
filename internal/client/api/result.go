package api

import "net/http"

// Synthesized status codes for failures that never reached the wire
const (
	// StatusNetworkError marks a client-side transport failure
	// (DNS, connection refused, TLS)
	StatusNetworkError = 0

	// StatusTimeout marks a client-side request timeout
	StatusTimeout = http.StatusRequestTimeout
)

// Messages for locally synthesized failures
const (
	msgNetworkError = "Network error occurred"
	msgTimeout      = "Request timeout - please try again"
	msgAuthRequired = "Authentication required"
)

// ErrorDetail is the error payload of a failed request, either decoded
// from the response body or synthesized locally
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// Result is the uniform envelope every request resolves to. Exactly one of
// Data or Err is set; expected failures travel here instead of as errors.
type Result[T any] struct {
	Data   *T
	Err    *ErrorDetail
	Status int
}

// OK reports whether the request succeeded
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Detail returns the error detail, or "" on success
func (r Result[T]) Detail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Detail
}

// Success builds a successful result
func Success[T any](status int, data T) Result[T] {
	return Result[T]{Data: &data, Status: status}
}

// Failure builds a failed result
func Failure[T any](status int, detail string) Result[T] {
	return Result[T]{Err: &ErrorDetail{Detail: detail}, Status: status}
}

// RequireAuth returns a pre-built 401 result when no token is present,
// letting callers short-circuit before issuing a request. Returns nil when
// the token is usable.
func RequireAuth[T any](token string) *Result[T] {
	if token == "" {
		r := Failure[T](http.StatusUnauthorized, msgAuthRequired)
		return &r
	}
	return nil
}
