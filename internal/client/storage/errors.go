package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrHandshakeNotFound indicates that no OAuth handshake state exists
	// for the requested flow
	ErrHandshakeNotFound = errors.New("oauth handshake state not found")

	// ErrMetaNotFound indicates that a metadata key has no value
	ErrMetaNotFound = errors.New("metadata not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
