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

const configColumns = `id, tenant_id, provider, config, is_active, created_at, updated_at`

type MySQLConfigRepository struct {
	db *sql.DB
}

func NewMySQLConfigRepository(db *sql.DB) *MySQLConfigRepository {
	return &MySQLConfigRepository{db: db}
}

func scanConfig(row interface{ Scan(...any) error }) (domain.MessagingConfig, error) {
	var c domain.MessagingConfig
	var raw []byte
	if err := row.Scan(&c.ID, &c.TenantID, &c.Provider, &raw, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return c, err
	}
	c.Config = map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c.Config); err != nil {
			return c, fmt.Errorf("decoding messaging config %s: %w", c.ID, err)
		}
	}
	return c, nil
}

func (r *MySQLConfigRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.MessagingConfig, error) {
	query := `SELECT ` + configColumns + ` FROM messaging_configs WHERE id = ? AND tenant_id = ?`

	c, err := scanConfig(mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("messaging config %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying messaging config: %w", err)
	}
	return &c, nil
}

// FindActive returns the tenant's active configuration.
func (r *MySQLConfigRepository) FindActive(ctx context.Context, tenantID string) (*domain.MessagingConfig, error) {
	query := `SELECT ` + configColumns + ` FROM messaging_configs WHERE tenant_id = ? AND is_active = 1 ORDER BY updated_at DESC LIMIT 1`

	c, err := scanConfig(mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, tenantID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("no active messaging config")
	}
	if err != nil {
		return nil, fmt.Errorf("querying active messaging config: %w", err)
	}
	return &c, nil
}

func (r *MySQLConfigRepository) Insert(ctx context.Context, c domain.MessagingConfig) error {
	raw, err := json.Marshal(c.Config)
	if err != nil {
		return fmt.Errorf("encoding messaging config: %w", err)
	}

	query := `
		INSERT INTO messaging_configs (id, tenant_id, provider, config, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query,
		c.ID, c.TenantID, c.Provider, raw, c.IsActive, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return fmt.Errorf("inserting messaging config: %w", err)
	}
	return nil
}

// DeactivateAll clears the active flag on every configuration of the tenant.
func (r *MySQLConfigRepository) DeactivateAll(ctx context.Context, tenantID string) error {
	if _, err := mysql.Executor(ctx, r.db).ExecContext(ctx,
		`UPDATE messaging_configs SET is_active = 0 WHERE tenant_id = ? AND is_active = 1`, tenantID,
	); err != nil {
		return fmt.Errorf("deactivating messaging configs: %w", err)
	}
	return nil
}

func (r *MySQLConfigRepository) SetActive(ctx context.Context, tenantID, id string, active bool) error {
	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx,
		`UPDATE messaging_configs SET is_active = ? WHERE id = ? AND tenant_id = ?`, active, id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("updating messaging config: %w", err)
	}
	return expectRow(result, fmt.Sprintf("messaging config %s not found", id))
}
