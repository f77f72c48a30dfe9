package storage

import (
	"context"
)

// AuthStorage defines the durable store for the current session credentials.
// It survives client restarts the way browser storage survives reloads.
// Implementations store the record as-is and perform no validation.
type AuthStorage interface {
	// SaveAuth stores the authentication record, replacing any previous one
	SaveAuth(ctx context.Context, auth *AuthRecord) error

	// GetAuth retrieves the stored authentication record.
	// Returns ErrAuthNotFound if no record exists.
	GetAuth(ctx context.Context) (*AuthRecord, error)

	// DeleteAuth removes the stored authentication record (logout)
	DeleteAuth(ctx context.Context) error
}

// AuthRecord represents the persisted session: the token pair plus the
// cached user profile used for display between profile fetches.
type AuthRecord struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // unix seconds, 0 when unknown
	UserJSON     string `json:"user_json,omitempty"`
}
