package storage

import (
	"context"
	"time"
)

// FlowKind distinguishes the two OAuth sub-flows that share one callback:
// authenticating a new session vs linking GitHub to the current account.
type FlowKind string

const (
	FlowLogin FlowKind = "login"
	FlowLink  FlowKind = "link"
)

// HandshakeStorage holds the transient per-attempt OAuth bookkeeping.
// A record is written when a provider redirect is initiated and must be
// consumed exactly once when the callback arrives, so a replayed callback
// URL finds nothing to match against.
type HandshakeStorage interface {
	// SaveHandshake stores the handshake record for its flow kind,
	// replacing any previous attempt of the same kind
	SaveHandshake(ctx context.Context, hs *HandshakeRecord) error

	// GetHandshake reads the handshake record for a flow kind without
	// consuming it. Returns ErrHandshakeNotFound if none exists.
	GetHandshake(ctx context.Context, flow FlowKind) (*HandshakeRecord, error)

	// ConsumeHandshake atomically reads and deletes the handshake record
	// for a flow kind. Returns ErrHandshakeNotFound if none exists.
	ConsumeHandshake(ctx context.Context, flow FlowKind) (*HandshakeRecord, error)

	// DeleteHandshake removes the handshake record for a flow kind.
	// Deleting an absent record is not an error.
	DeleteHandshake(ctx context.Context, flow FlowKind) error
}

// HandshakeRecord is the ephemeral CSRF bookkeeping for one OAuth attempt
type HandshakeRecord struct {
	State      string   `json:"state"`
	CreatedAt  int64    `json:"created_at"` // unix seconds
	RedirectTo string   `json:"redirect_to,omitempty"`
	Flow       FlowKind `json:"flow"`
}

// Age returns how long ago the handshake was issued
func (h *HandshakeRecord) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(h.CreatedAt, 0))
}
