package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kasir/internal/domain"
	"kasir/internal/errors"
	"kasir/internal/infrastructure/mysql"
)

type MySQLTenantRepository struct {
	db *sql.DB
}

func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}

func (r *MySQLTenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	query := `
		SELECT id, name, plan, max_monthly_transactions, created_at, updated_at
		FROM tenants
		WHERE id = ?
	`

	var tenant domain.Tenant
	var maxMonthly sql.NullInt64
	err := mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&tenant.ID, &tenant.Name, &tenant.Plan, &maxMonthly,
		&tenant.CreatedAt, &tenant.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("tenant %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant by id: %w", err)
	}

	if maxMonthly.Valid {
		v := int(maxMonthly.Int64)
		tenant.MaxMonthlyTransactions = &v
	}

	return &tenant, nil
}

// LockForUpdate takes a row lock on the tenant for the rest of the ambient
// transaction. It serializes tenant-wide mutations across processes.
func (r *MySQLTenantRepository) LockForUpdate(ctx context.Context, id string) error {
	if !mysql.InTx(ctx) {
		return fmt.Errorf("locking tenant %s: no transaction in context", id)
	}

	var locked string
	err := mysql.Executor(ctx, r.db).QueryRowContext(ctx, `SELECT id FROM tenants WHERE id = ? FOR UPDATE`, id).Scan(&locked)
	if err == sql.ErrNoRows {
		return errors.NewNotFoundError(fmt.Sprintf("tenant %s not found", id))
	}
	if err != nil {
		return fmt.Errorf("locking tenant: %w", err)
	}
	return nil
}
