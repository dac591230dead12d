package storage

import (
	"context"

	"github.com/iudanet/peernote/internal/models"
)

//go:generate moq -out backup_mock.go . BackupStorage

// BackupStorage persists the most recent local document snapshot.
// The record is overwritten on every local edit and read back during
// recovery; it is never deleted automatically.
type BackupStorage interface {
	// SaveBackup overwrites the stored backup with snap
	SaveBackup(ctx context.Context, snap models.Snapshot) error

	// LoadBackup returns the stored backup
	// Returns ErrBackupNotFound if nothing has been saved yet
	LoadBackup(ctx context.Context) (*models.Snapshot, error)

	// Close releases the underlying resources
	Close() error
}

// HistoryStorage is implemented by backends that keep every saved backup
// instead of overwriting a single record.
type HistoryStorage interface {
	// History возвращает не более limit последних бэкапов, новые первыми
	History(ctx context.Context, limit int) ([]models.Snapshot, error)
}
