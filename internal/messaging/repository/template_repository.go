package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kasir/internal/domain"
	"kasir/internal/errors"
	"kasir/internal/infrastructure/mysql"
)

const templateColumns = `id, tenant_id, name, event, body, is_custom, created_at, updated_at`

type MySQLTemplateRepository struct {
	db *sql.DB
}

func NewMySQLTemplateRepository(db *sql.DB) *MySQLTemplateRepository {
	return &MySQLTemplateRepository{db: db}
}

func scanTemplate(row interface{ Scan(...any) error }) (domain.MessageTemplate, error) {
	var t domain.MessageTemplate
	var event string
	err := row.Scan(&t.ID, &t.TenantID, &t.Name, &event, &t.Body, &t.IsCustom, &t.CreatedAt, &t.UpdatedAt)
	t.Event = domain.MessageEvent(event)
	return t, err
}

func (r *MySQLTemplateRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.MessageTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM message_templates WHERE id = ? AND tenant_id = ?`

	t, err := scanTemplate(mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("message template %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying message template: %w", err)
	}
	return &t, nil
}

// FindDefaultForEvent returns the tenant's oldest system template for event.
func (r *MySQLTemplateRepository) FindDefaultForEvent(ctx context.Context, tenantID string, event domain.MessageEvent) (*domain.MessageTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM message_templates
		WHERE tenant_id = ? AND event = ? AND is_custom = 0
		ORDER BY created_at, id LIMIT 1`

	t, err := scanTemplate(mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, tenantID, string(event)))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no default template for %s", event))
	}
	if err != nil {
		return nil, fmt.Errorf("querying default message template: %w", err)
	}
	return &t, nil
}

func (r *MySQLTemplateRepository) FindAll(ctx context.Context, tenantID string) ([]domain.MessageTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM message_templates WHERE tenant_id = ? ORDER BY event, name`

	rows, err := mysql.Executor(ctx, r.db).QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying message templates: %w", err)
	}
	defer rows.Close()

	templates := []domain.MessageTemplate{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message template row: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating message template rows: %w", err)
	}
	return templates, nil
}

func (r *MySQLTemplateRepository) Insert(ctx context.Context, t domain.MessageTemplate) error {
	query := `
		INSERT INTO message_templates (id, tenant_id, name, event, body, is_custom, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query,
		t.ID, t.TenantID, t.Name, string(t.Event), t.Body, t.IsCustom, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting message template: %w", err)
	}
	return nil
}

func (r *MySQLTemplateRepository) Update(ctx context.Context, t domain.MessageTemplate) error {
	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx,
		`UPDATE message_templates SET name = ?, body = ?, updated_at = ? WHERE id = ? AND tenant_id = ?`,
		t.Name, t.Body, t.UpdatedAt, t.ID, t.TenantID,
	)
	if err != nil {
		return fmt.Errorf("updating message template: %w", err)
	}
	return expectRow(result, fmt.Sprintf("message template %s not found", t.ID))
}

func (r *MySQLTemplateRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM message_templates WHERE id = ? AND tenant_id = ?`, id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("deleting message template: %w", err)
	}
	return expectRow(result, fmt.Sprintf("message template %s not found", id))
}

func expectRow(result sql.Result, notFound string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(notFound)
	}
	return nil
}
