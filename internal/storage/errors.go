package storage

import "errors"

// Common storage errors
var (
	// ErrBackupNotFound indicates that no backup has been saved yet
	ErrBackupNotFound = errors.New("backup not found")

	// ErrNodeIDNotFound indicates that node metadata has never been stored
	ErrNodeIDNotFound = errors.New("node id not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrUnknownBackend indicates an unsupported storage backend name
	ErrUnknownBackend = errors.New("unknown storage backend")
)
