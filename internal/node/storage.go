package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/peernote/internal/config"
	"github.com/iudanet/peernote/internal/crdt"
	"github.com/iudanet/peernote/internal/storage"
	"github.com/iudanet/peernote/internal/storage/boltdb"
	"github.com/iudanet/peernote/internal/storage/file"
	"github.com/iudanet/peernote/internal/storage/sqlite"
)

// Пути по умолчанию для бэкендов, когда задан путь файлового бэкенда
const (
	defaultBoltPath   = "peernote.db"
	defaultSQLitePath = "peernote.sqlite"
)

// OpenStorage открывает бэкенд бэкапа, указанный в cfg
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (storage.BackupStorage, error) {
	path := cfg.Path

	switch cfg.Backend {
	case config.BackendFile, "":
		if path == "" {
			path = file.DefaultPath
		}
		return file.New(path), nil
	case config.BackendBolt:
		if path == "" || path == file.DefaultPath {
			path = defaultBoltPath
		}
		s, err := boltdb.New(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open bolt storage: %w", err)
		}
		return s, nil
	case config.BackendSQLite:
		if path == "" || path == file.DefaultPath {
			path = defaultSQLitePath
		}
		s, err := sqlite.New(ctx, path, cfg.History)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownBackend, cfg.Backend)
	}
}

// newClock возвращает часы, чей node ID переживает перезапуск, если бэкенд
// умеет хранить метаданные
func newClock(ctx context.Context, backups storage.BackupStorage, logger *slog.Logger) *crdt.LamportClock {
	meta, ok := backups.(storage.MetadataStorage)
	if !ok {
		return crdt.NewLamportClock()
	}

	nodeID, err := meta.GetNodeID(ctx)
	if err == nil && nodeID != "" {
		return crdt.NewLamportClockWithNodeID(nodeID)
	}
	if err != nil && !errors.Is(err, storage.ErrNodeIDNotFound) {
		logger.Warn("failed to read node id", "error", err)
	}

	clock := crdt.NewLamportClock()
	if err := meta.SaveNodeID(ctx, clock.NodeID()); err != nil {
		logger.Warn("failed to save node id", "error", err)
	}
	return clock
}
