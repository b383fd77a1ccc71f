package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"field-tech-api/internal/model"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, event model.AuditEvent) error {
	var details []byte
	if event.Details != nil {
		encoded, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		details = encoded
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs
		 (user_id, username, action_type, action_description, entity_type, entity_id,
		  entity_name, details, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		event.UserID, nullIfEmpty(event.Username), event.ActionType, event.Description,
		nullIfEmpty(event.EntityType), nullIfEmpty(event.EntityID), nullIfEmpty(event.EntityName),
		details, nullIfEmpty(event.IPAddress), nullIfEmpty(event.UserAgent))
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Query returns one page of audit rows, newest first, together with the
// number of rows matching the same filter.
func (r *AuditRepository) Query(ctx context.Context, filter model.AuditFilter) ([]model.AuditRecord, int, error) {
	b := &whereBuilder{}
	if action := strings.TrimSpace(filter.ActionType); action != "" {
		b.add("a.action_type = $%d", action)
	}
	if username := strings.TrimSpace(filter.Username); username != "" {
		b.add("a.username ILIKE $%d", "%"+escapeLike(username)+"%")
	}
	if filter.StartDate != nil {
		b.add("a.created_at::date >= $%d::date", filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		b.add("a.created_at::date <= $%d::date", filter.EndDate.Format("2006-01-02"))
	}
	where := b.String()

	var total int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM audit_logs a %s`, where), b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit events: %w", err)
	}

	limitIdx := b.next(filter.Limit)
	offsetIdx := b.next(filter.Offset)

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT a.id, a.user_id, COALESCE(a.username, ''), u.full_name, a.action_type,
		        a.action_description, a.entity_type, a.entity_id, a.entity_name, a.details,
		        a.ip_address, a.user_agent, a.created_at
		 FROM audit_logs a
		 LEFT JOIN users u ON u.id = a.user_id
		 %s
		 ORDER BY a.created_at DESC, a.id DESC
		 LIMIT $%d OFFSET $%d`, where, limitIdx, offsetIdx), b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	records := make([]model.AuditRecord, 0)
	for rows.Next() {
		var rec model.AuditRecord
		var fullName *string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Username, &fullName, &rec.ActionType,
			&rec.ActionDescription, &rec.EntityType, &rec.EntityID, &rec.EntityName, &rec.Details,
			&rec.IPAddress, &rec.UserAgent, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit event: %w", err)
		}
		rec.UserFullName = model.AuditDisplayName(rec.UserID, fullName, rec.Username)
		records = append(records, rec)
	}

	return records, total, rows.Err()
}

func nullIfEmpty(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
