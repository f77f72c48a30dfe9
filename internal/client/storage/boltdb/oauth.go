package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage"
)

// SaveHandshake stores the handshake record for its flow kind
func (s *Storage) SaveHandshake(ctx context.Context, hs *storage.HandshakeRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHandshake)
		if bucket == nil {
			return fmt.Errorf("oauth_state bucket not found")
		}

		data, err := json.Marshal(hs)
		if err != nil {
			return fmt.Errorf("failed to marshal handshake record: %w", err)
		}

		if err := bucket.Put([]byte(hs.Flow), data); err != nil {
			return fmt.Errorf("failed to save handshake record: %w", err)
		}

		return nil
	})
}

// GetHandshake reads the handshake record for a flow kind without consuming it
func (s *Storage) GetHandshake(ctx context.Context, flow storage.FlowKind) (*storage.HandshakeRecord, error) {
	var hs *storage.HandshakeRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHandshake)
		if bucket == nil {
			return fmt.Errorf("oauth_state bucket not found")
		}

		data := bucket.Get([]byte(flow))
		if data == nil {
			return storage.ErrHandshakeNotFound
		}

		hs = &storage.HandshakeRecord{}
		if err := json.Unmarshal(data, hs); err != nil {
			return fmt.Errorf("failed to unmarshal handshake record: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return hs, nil
}

// ConsumeHandshake atomically reads and deletes the handshake record for a
// flow kind. The single bolt update transaction guarantees a replayed
// callback cannot read the same record twice.
func (s *Storage) ConsumeHandshake(ctx context.Context, flow storage.FlowKind) (*storage.HandshakeRecord, error) {
	var hs *storage.HandshakeRecord

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHandshake)
		if bucket == nil {
			return fmt.Errorf("oauth_state bucket not found")
		}

		data := bucket.Get([]byte(flow))
		if data == nil {
			return storage.ErrHandshakeNotFound
		}

		hs = &storage.HandshakeRecord{}
		if err := json.Unmarshal(data, hs); err != nil {
			return fmt.Errorf("failed to unmarshal handshake record: %w", err)
		}

		if err := bucket.Delete([]byte(flow)); err != nil {
			return fmt.Errorf("failed to delete handshake record: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return hs, nil
}

// DeleteHandshake removes the handshake record for a flow kind
func (s *Storage) DeleteHandshake(ctx context.Context, flow storage.FlowKind) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketHandshake)
		if bucket == nil {
			return fmt.Errorf("oauth_state bucket not found")
		}

		if err := bucket.Delete([]byte(flow)); err != nil {
			return fmt.Errorf("failed to delete handshake record: %w", err)
		}

		return nil
	})
}
