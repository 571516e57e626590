package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kasir/internal/domain"
	"kasir/internal/errors"
	"kasir/internal/infrastructure/mysql"
)

type MySQLMessageLogRepository struct {
	db *sql.DB
}

func NewMySQLMessageLogRepository(db *sql.DB) *MySQLMessageLogRepository {
	return &MySQLMessageLogRepository{db: db}
}

func (r *MySQLMessageLogRepository) Insert(ctx context.Context, l domain.MessageLog) error {
	query := `
		INSERT INTO message_logs (id, tenant_id, template_id, event, provider, recipient, message, status,
			provider_response, error_message, sent_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query,
		l.ID, l.TenantID, l.TemplateID, string(l.Event), l.Provider, l.Recipient, l.Message, string(l.Status),
		l.ProviderResponse, l.ErrorMessage, l.SentAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting message log: %w", err)
	}
	return nil
}

// UpdateOutcome writes the delivery outcome. The row must still be in
// expectedStatus, so a concurrent writer cannot overwrite a terminal row.
func (r *MySQLMessageLogRepository) UpdateOutcome(ctx context.Context, l domain.MessageLog, expectedStatus domain.MessageStatus) error {
	query := `
		UPDATE message_logs
		SET status = ?, provider_response = ?, error_message = ?, sent_at = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ? AND status = ?
	`
	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query,
		string(l.Status), l.ProviderResponse, l.ErrorMessage, l.SentAt, l.UpdatedAt,
		l.ID, l.TenantID, string(expectedStatus),
	)
	if err != nil {
		return fmt.Errorf("updating message log: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewConflictError(fmt.Sprintf("message log %s is no longer %s", l.ID, expectedStatus))
	}
	return nil
}

func (r *MySQLMessageLogRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.MessageLog, error) {
	query := `
		SELECT id, tenant_id, template_id, event, provider, recipient, message, status,
			provider_response, error_message, sent_at, created_at, updated_at
		FROM message_logs WHERE id = ? AND tenant_id = ?
	`

	var (
		l                      domain.MessageLog
		templateID, resp, emsg sql.NullString
		sentAt                 sql.NullTime
		event, status          string
	)
	err := mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, id, tenantID).Scan(
		&l.ID, &l.TenantID, &templateID, &event, &l.Provider, &l.Recipient, &l.Message, &status,
		&resp, &emsg, &sentAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("message log %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying message log: %w", err)
	}

	l.Event = domain.MessageEvent(event)
	l.Status = domain.MessageStatus(status)
	if templateID.Valid {
		l.TemplateID = &templateID.String
	}
	if resp.Valid {
		l.ProviderResponse = &resp.String
	}
	if emsg.Valid {
		l.ErrorMessage = &emsg.String
	}
	if sentAt.Valid {
		l.SentAt = &sentAt.Time
	}
	return &l, nil
}
