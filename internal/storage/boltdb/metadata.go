package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/peernote/internal/storage"
)

const (
	keyNodeID = "node_id"
)

// SaveNodeID saves the identifier of this node
func (s *Storage) SaveNodeID(ctx context.Context, nodeID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if err := bucket.Put([]byte(keyNodeID), []byte(nodeID)); err != nil {
			return fmt.Errorf("failed to save node id: %w", err)
		}

		return nil
	})
}

// GetNodeID retrieves the stored node identifier
// Returns storage.ErrNodeIDNotFound if it was never saved
func (s *Storage) GetNodeID(ctx context.Context) (string, error) {
	var nodeID string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		value := bucket.Get([]byte(keyNodeID))
		if value == nil {
			return storage.ErrNodeIDNotFound
		}

		nodeID = string(value)
		return nil
	})

	if err != nil {
		return "", err
	}

	return nodeID, nil
}
