package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/dev-personal-projects/devops-ai-agent-client-worker-sub000/internal/client/storage"
)

// SetMeta stores a value under key
func (s *Storage) SetMeta(ctx context.Context, key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMeta)
		if bucket == nil {
			return fmt.Errorf("meta bucket not found")
		}

		if err := bucket.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("failed to save meta %q: %w", key, err)
		}

		return nil
	})
}

// GetMeta returns the value for key
func (s *Storage) GetMeta(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMeta)
		if bucket == nil {
			return fmt.Errorf("meta bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrMetaNotFound
		}

		value = string(data)
		return nil
	})

	if err != nil {
		return "", err
	}

	return value, nil
}

// DeleteMeta removes the value for key
func (s *Storage) DeleteMeta(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMeta)
		if bucket == nil {
			return fmt.Errorf("meta bucket not found")
		}

		if err := bucket.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete meta %q: %w", key, err)
		}

		return nil
	})
}
