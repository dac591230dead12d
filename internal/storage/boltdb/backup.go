package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/storage"
)

var keyLatest = []byte("latest")

// SaveBackup перезаписывает последний бэкап
func (s *Storage) SaveBackup(ctx context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketBackup)
		if bucket == nil {
			return fmt.Errorf("backup bucket not found")
		}

		if err := bucket.Put(keyLatest, data); err != nil {
			return fmt.Errorf("failed to save backup: %w", err)
		}

		return nil
	})
}

// LoadBackup retrieves the latest backup
// Returns storage.ErrBackupNotFound if nothing has been saved
func (s *Storage) LoadBackup(ctx context.Context) (*models.Snapshot, error) {
	var snap *models.Snapshot

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketBackup)
		if bucket == nil {
			return fmt.Errorf("backup bucket not found")
		}

		data := bucket.Get(keyLatest)
		if data == nil {
			return storage.ErrBackupNotFound
		}

		// data валиден только внутри транзакции, Unmarshal копирует строки
		var decoded models.Snapshot
		if err := json.Unmarshal(data, &decoded); err != nil {
			return fmt.Errorf("failed to unmarshal backup: %w", err)
		}
		snap = &decoded
		return nil
	})

	if err != nil {
		return nil, err
	}

	return snap, nil
}
