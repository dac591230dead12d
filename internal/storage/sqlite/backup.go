package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/peernote/internal/models"
	"github.com/iudanet/peernote/internal/storage"
)

// SaveBackup добавляет snap в историю бэкапов и обрезает ее до заданного размера
func (s *Storage) SaveBackup(ctx context.Context, snap models.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO backups (text, lamport, created_at) VALUES (?, ?, ?)`,
		snap.Text, snap.Lamport, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert backup: %w", err)
	}

	// Оставляем только последние history записей
	_, err = tx.ExecContext(ctx,
		`DELETE FROM backups WHERE id NOT IN (SELECT id FROM backups ORDER BY id DESC LIMIT ?)`,
		s.history,
	)
	if err != nil {
		return fmt.Errorf("failed to trim backup history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit backup: %w", err)
	}

	return nil
}

// LoadBackup returns the stored backup with the greatest lamport
// Among equal lamports the earliest saved row wins
func (s *Storage) LoadBackup(ctx context.Context) (*models.Snapshot, error) {
	var snap models.Snapshot

	err := s.db.QueryRowContext(ctx,
		`SELECT text, lamport FROM backups ORDER BY lamport DESC, id ASC LIMIT 1`,
	).Scan(&snap.Text, &snap.Lamport)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBackupNotFound
		}
		return nil, fmt.Errorf("failed to load backup: %w", err)
	}

	return &snap, nil
}

// History returns up to limit most recent backups, newest first
func (s *Storage) History(ctx context.Context, limit int) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text, lamport FROM backups ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var history []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		if err := rows.Scan(&snap.Text, &snap.Lamport); err != nil {
			return nil, fmt.Errorf("failed to scan backup: %w", err)
		}
		history = append(history, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return history, nil
}
