package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kasir/internal/domain"
	"kasir/internal/infrastructure/mysql"
)

type MySQLAuditRepository struct {
	db *sql.DB
}

func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}

func (r *MySQLAuditRepository) Insert(ctx context.Context, entry domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, tenant_id, actor_id, action, entity, entity_id, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var metadata any
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("encoding audit metadata: %w", err)
		}
		metadata = string(raw)
	}

	_, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query,
		entry.ID, entry.TenantID, entry.ActorID, entry.Action, entry.Entity, entry.EntityID, metadata, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting audit log: %w", err)
	}
	return nil
}

// FindByEntity lists the trail of one entity, oldest first.
func (r *MySQLAuditRepository) FindByEntity(ctx context.Context, tenantID, entity, entityID string) ([]domain.AuditLog, error) {
	query := `
		SELECT id, tenant_id, actor_id, action, entity, entity_id, metadata, created_at
		FROM audit_logs
		WHERE tenant_id = ? AND entity = ? AND entity_id = ?
		ORDER BY created_at, id
	`

	rows, err := mysql.Executor(ctx, r.db).QueryContext(ctx, query, tenantID, entity, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying audit logs: %w", err)
	}
	defer rows.Close()

	var out []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		var metadata sql.NullString
		if err := rows.Scan(&l.ID, &l.TenantID, &l.ActorID, &l.Action, &l.Entity, &l.EntityID, &metadata, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit log: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &l.Metadata); err != nil {
				return nil, fmt.Errorf("decoding audit metadata: %w", err)
			}
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit logs: %w", err)
	}
	return out, nil
}
