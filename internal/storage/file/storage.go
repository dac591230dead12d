// Package file хранит бэкап документа одним JSON объектом на диске.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/storage"
)

// DefaultPath is the backup file name used when none is configured
const DefaultPath = "temp_backup.txt"

// Storage keeps the latest snapshot in a JSON file
type Storage struct {
	path   string
	mu     sync.Mutex
	closed bool
}

var _ storage.BackupStorage = (*Storage)(nil)

// New создает файловое хранилище по path. Файл создается при первом сохранении.
func New(path string) *Storage {
	if path == "" {
		path = DefaultPath
	}
	return &Storage{path: path}
}

// Path returns the backup file location
func (s *Storage) Path() string {
	return s.path
}

// SaveBackup атомарно заменяет файл бэкапа на snap
func (s *Storage) SaveBackup(ctx context.Context, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}

	// Пишем во временный файл рядом и переименовываем, чтобы не оставить обрезанный JSON
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace backup file: %w", err)
	}

	return nil
}

// LoadBackup reads the backup file
// Returns storage.ErrBackupNotFound if the file does not exist
func (s *Storage) LoadBackup(ctx context.Context) (*models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrBackupNotFound
		}
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse backup file: %w", err)
	}

	return &snap, nil
}

// Close marks storage as closed. The file is left in place.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
