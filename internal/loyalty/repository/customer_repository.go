package repository

import (
	"context"
	"database/sql"
	"fmt"

	"kasir/internal/domain"
	"kasir/internal/errors"
	"kasir/internal/infrastructure/mysql"
)

type MySQLCustomerRepository struct {
	db *sql.DB
}

func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

func (r *MySQLCustomerRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	query := `
		SELECT id, tenant_id, name, phone, points, last_point_accumulation, created_at, updated_at
		FROM customers
		WHERE id = ? AND tenant_id = ?
	`

	var c domain.Customer
	var phone sql.NullString
	var lastAccumulation sql.NullInt64
	err := mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, id, tenantID).Scan(
		&c.ID, &c.TenantID, &c.Name, &phone, &c.Points, &lastAccumulation,
		&c.CreatedAt, &c.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("customer %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by id: %w", err)
	}

	if phone.Valid {
		c.Phone = &phone.String
	}
	if lastAccumulation.Valid {
		v := int(lastAccumulation.Int64)
		c.LastPointAccumulation = &v
	}

	return &c, nil
}

// AddPoints adds amount to the balance in a single statement and returns the rows affected.
func (r *MySQLCustomerRepository) AddPoints(ctx context.Context, tenantID, id string, amount int) (int64, error) {
	query := `UPDATE customers SET points = points + ? WHERE id = ? AND tenant_id = ?`

	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, amount, id, tenantID)
	if err != nil {
		return 0, fmt.Errorf("incrementing customer points: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected, nil
}

// SubtractPoints subtracts amount only when the balance covers it. Zero rows
// affected means the customer is missing or the balance is too low.
func (r *MySQLCustomerRepository) SubtractPoints(ctx context.Context, tenantID, id string, amount int) (int64, error) {
	query := `UPDATE customers SET points = points - ? WHERE id = ? AND tenant_id = ? AND points >= ?`

	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, amount, id, tenantID, amount)
	if err != nil {
		return 0, fmt.Errorf("decrementing customer points: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return rowsAffected, nil
}

func (r *MySQLCustomerRepository) SetLastPointAccumulation(ctx context.Context, tenantID, id string, points int) error {
	query := `UPDATE customers SET last_point_accumulation = ? WHERE id = ? AND tenant_id = ?`

	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, points, id, tenantID)
	if err != nil {
		return fmt.Errorf("updating last point accumulation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("customer %s not found", id))
	}
	return nil
}
