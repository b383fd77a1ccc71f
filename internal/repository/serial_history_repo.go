package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"field-tech-api/internal/model"
)

type SerialHistoryRepository struct {
	pool *pgxpool.Pool
}

func NewSerialHistoryRepository(pool *pgxpool.Pool) *SerialHistoryRepository {
	return &SerialHistoryRepository{pool: pool}
}

func (r *SerialHistoryRepository) Insert(ctx context.Context, entry model.SerialHistoryEntry) error {
	var oldPhotos []byte
	if len(entry.OldPhotos) > 0 {
		oldPhotos = entry.OldPhotos
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO serial_history
		 (cpf, client_name, old_serial, new_serial, reason, reason_description, old_photos,
		  changed_by, changed_by_name, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.CPF, entry.ClientName, entry.OldSerial, entry.NewSerial, string(entry.Reason),
		entry.ReasonDescription, oldPhotos, entry.ChangedBy, entry.ChangedByName, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert serial history: %w", err)
	}
	return nil
}

// ListByCPF returns at most limit entries, newest first.
func (r *SerialHistoryRepository) ListByCPF(ctx context.Context, cpf string, limit int) ([]model.SerialHistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, cpf, client_name, old_serial, new_serial, reason, reason_description,
		        old_photos, changed_by, changed_by_name, created_at
		 FROM serial_history
		 WHERE cpf = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, cpf, limit)
	if err != nil {
		return nil, fmt.Errorf("list serial history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.SerialHistoryEntry, 0)
	for rows.Next() {
		var e model.SerialHistoryEntry
		var reason string
		var oldPhotos []byte
		if err := rows.Scan(&e.ID, &e.CPF, &e.ClientName, &e.OldSerial, &e.NewSerial, &reason,
			&e.ReasonDescription, &oldPhotos, &e.ChangedBy, &e.ChangedByName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan serial history: %w", err)
		}
		e.Reason = model.SerialReason(reason)
		if len(oldPhotos) > 0 {
			e.OldPhotos = json.RawMessage(oldPhotos)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
