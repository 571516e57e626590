package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"kasir/internal/domain"
	"kasir/internal/errors"
	"kasir/internal/infrastructure/mysql"
)

type MySQLNotificationSettingsRepository struct {
	db *sql.DB
}

func NewMySQLNotificationSettingsRepository(db *sql.DB) *MySQLNotificationSettingsRepository {
	return &MySQLNotificationSettingsRepository{db: db}
}

// FindByTenant returns NotFound when the tenant never configured notifications.
func (r *MySQLNotificationSettingsRepository) FindByTenant(ctx context.Context, tenantID string) (*domain.NotificationSettings, error) {
	var (
		raw []byte
		s   = domain.NotificationSettings{TenantID: tenantID}
	)
	err := mysql.Executor(ctx, r.db).QueryRowContext(ctx,
		`SELECT events, updated_at FROM notification_settings WHERE tenant_id = ?`, tenantID,
	).Scan(&raw, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("notification settings not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying notification settings: %w", err)
	}

	if err := json.Unmarshal(raw, &s.Events); err != nil {
		return nil, fmt.Errorf("decoding notification settings: %w", err)
	}
	return &s, nil
}

func (r *MySQLNotificationSettingsRepository) Upsert(ctx context.Context, s domain.NotificationSettings) error {
	raw, err := json.Marshal(s.Events)
	if err != nil {
		return fmt.Errorf("encoding notification settings: %w", err)
	}

	if _, err := mysql.Executor(ctx, r.db).ExecContext(ctx, `
		INSERT INTO notification_settings (tenant_id, events, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE events = VALUES(events), updated_at = VALUES(updated_at)
	`, s.TenantID, raw, s.UpdatedAt); err != nil {
		return fmt.Errorf("saving notification settings: %w", err)
	}
	return nil
}
