package storage

import "context"

// Well-known metadata keys
const (
	// MetaDeviceID identifies this client installation; sent with every
	// request so the backend can tell sessions apart
	MetaDeviceID = "device_id"

	// MetaCurrentUser carries only the signed-in user's id. It is the
	// non-sensitive marker other tooling may read for routing decisions
	// without ever touching the tokens.
	MetaCurrentUser = "current_user"
)

// MetaStorage stores small non-sensitive key/value metadata
type MetaStorage interface {
	// SetMeta stores a value under key
	SetMeta(ctx context.Context, key, value string) error

	// GetMeta returns the value for key.
	// Returns ErrMetaNotFound if the key has no value.
	GetMeta(ctx context.Context, key string) (string, error)

	// DeleteMeta removes the value for key; absent keys are not an error
	DeleteMeta(ctx context.Context, key string) error
}
