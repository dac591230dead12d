package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/storage"
)

// createTestStorage создает временное BoltDB хранилище
func createTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "node.db"))
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	return store
}

func TestBackup_NotFound(t *testing.T) {
	store := createTestStorage(t)

	snap, err := store.LoadBackup(context.Background())
	assert.ErrorIs(t, err, storage.ErrBackupNotFound)
	assert.Nil(t, snap)
}

func TestBackup_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	require.NoError(t, store.SaveBackup(ctx, models.Snapshot{Text: "a", Lamport: 1}))
	require.NoError(t, store.SaveBackup(ctx, models.Snapshot{Text: "b", Lamport: 2}))

	got, err := store.LoadBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Snapshot{Text: "b", Lamport: 2}, *got)
}

func TestBackup_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "node.db")

	store, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.SaveBackup(ctx, models.Snapshot{Text: "persisted", Lamport: 12}))
	require.NoError(t, store.Close())

	store, err = New(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.LoadBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Text)
	assert.Equal(t, int64(12), got.Lamport)
}

func TestBackup_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketBackup)
	})
	require.NoError(t, err)

	_, err = store.LoadBackup(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrBackupNotFound)

	assert.Error(t, store.SaveBackup(ctx, models.Snapshot{Text: "x", Lamport: 1}))
}

func TestNodeID(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	_, err := store.GetNodeID(ctx)
	assert.ErrorIs(t, err, storage.ErrNodeIDNotFound)

	require.NoError(t, store.SaveNodeID(ctx, "5f0c6a8e-6a43-4b8e-9a57-0e0d1c3b9f11"))

	id, err := store.GetNodeID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5f0c6a8e-6a43-4b8e-9a57-0e0d1c3b9f11", id)
}
