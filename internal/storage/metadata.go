package storage

import "context"

// MetadataStorage defines optional node metadata persisted next to backups.
// Backends that cannot store metadata simply do not implement it.
type MetadataStorage interface {
	// SaveNodeID stores the identifier of this node
	SaveNodeID(ctx context.Context, nodeID string) error

	// GetNodeID retrieves the stored node identifier
	// Returns ErrNodeIDNotFound if it has never been saved
	GetNodeID(ctx context.Context) (string, error)
}
