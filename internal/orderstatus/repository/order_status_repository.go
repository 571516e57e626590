package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"kasir/internal/domain"
	"kasir/internal/errors"
	"kasir/internal/infrastructure/mysql"
)

const statusColumns = `id, tenant_id, code, name, sort_order, is_final, is_active, created_at, updated_at`

// Filter narrows FindAll. Page is 1-based.
type Filter struct {
	IsActive *bool
	Search   string
	Page     int
	PageSize int
}

type MySQLOrderStatusRepository struct {
	db *sql.DB
}

func NewMySQLOrderStatusRepository(db *sql.DB) *MySQLOrderStatusRepository {
	return &MySQLOrderStatusRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStatus(row scanner) (domain.OrderStatus, error) {
	var s domain.OrderStatus
	err := row.Scan(&s.ID, &s.TenantID, &s.Code, &s.Name, &s.Order, &s.IsFinal, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *MySQLOrderStatusRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.OrderStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM order_statuses WHERE id = ? AND tenant_id = ?`

	s, err := scanStatus(mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order status %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order status by id: %w", err)
	}
	return &s, nil
}

func (r *MySQLOrderStatusRepository) FindByCode(ctx context.Context, tenantID, code string) (*domain.OrderStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM order_statuses WHERE tenant_id = ? AND code = ?`

	s, err := scanStatus(mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, tenantID, code))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order status %q not found", code))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order status by code: %w", err)
	}
	return &s, nil
}

// FindFinal returns the tenant's final status other than excludeID, or nil.
func (r *MySQLOrderStatusRepository) FindFinal(ctx context.Context, tenantID, excludeID string) (*domain.OrderStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM order_statuses WHERE tenant_id = ? AND is_final = 1 AND id <> ? LIMIT 1`

	s, err := scanStatus(mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, tenantID, excludeID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying final order status: %w", err)
	}
	return &s, nil
}

// FindConflicts reports whether code or name is already used by another status of the tenant.
func (r *MySQLOrderStatusRepository) FindConflicts(ctx context.Context, tenantID, code, name, excludeID string) (codeTaken, nameTaken bool, err error) {
	query := `
		SELECT COALESCE(SUM(code = ?), 0), COALESCE(SUM(name = ?), 0)
		FROM order_statuses
		WHERE tenant_id = ? AND id <> ? AND (code = ? OR name = ?)
	`

	var codes, names int
	err = mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, code, name, tenantID, excludeID, code, name).Scan(&codes, &names)
	if err != nil {
		return false, false, fmt.Errorf("checking order status conflicts: %w", err)
	}
	return codes > 0, names > 0, nil
}

// ListForTenant returns every status of the tenant in rank order.
func (r *MySQLOrderStatusRepository) ListForTenant(ctx context.Context, tenantID string) ([]domain.OrderStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM order_statuses WHERE tenant_id = ? ORDER BY sort_order, created_at, id`

	rows, err := mysql.Executor(ctx, r.db).QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("querying order statuses: %w", err)
	}
	defer rows.Close()

	var statuses []domain.OrderStatus
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order status row: %w", err)
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order status rows: %w", err)
	}
	return statuses, nil
}

func (r *MySQLOrderStatusRepository) FindAll(ctx context.Context, tenantID string, f Filter) ([]domain.OrderStatus, int, error) {
	where := []string{"tenant_id = ?"}
	args := []any{tenantID}

	if f.IsActive != nil {
		where = append(where, "is_active = ?")
		args = append(args, *f.IsActive)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(code LIKE ? OR name LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like)
	}
	clause := strings.Join(where, " AND ")

	exec := mysql.Executor(ctx, r.db)

	var total int
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM order_statuses WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting order statuses: %w", err)
	}

	query := `SELECT ` + statusColumns + ` FROM order_statuses WHERE ` + clause + ` ORDER BY sort_order, created_at, id LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := exec.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying order statuses: %w", err)
	}
	defer rows.Close()

	statuses := []domain.OrderStatus{}
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning order status row: %w", err)
		}
		statuses = append(statuses, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating order status rows: %w", err)
	}
	return statuses, total, nil
}

func (r *MySQLOrderStatusRepository) Insert(ctx context.Context, s domain.OrderStatus) error {
	query := `
		INSERT INTO order_statuses (id, tenant_id, code, name, sort_order, is_final, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query,
		s.ID, s.TenantID, s.Code, s.Name, s.Order, s.IsFinal, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if mysql.IsDuplicate(err) {
			return errors.NewValidationError("order status code already exists", errors.ValidationDetail{
				Field: "code", Message: "must be unique within the tenant",
			})
		}
		return fmt.Errorf("inserting order status: %w", err)
	}
	return nil
}

func (r *MySQLOrderStatusRepository) Update(ctx context.Context, s domain.OrderStatus) error {
	query := `
		UPDATE order_statuses
		SET code = ?, name = ?, sort_order = ?, is_final = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query,
		s.Code, s.Name, s.Order, s.IsFinal, s.IsActive, s.UpdatedAt, s.ID, s.TenantID,
	)
	if err != nil {
		if mysql.IsDuplicate(err) {
			return errors.NewValidationError("order status code already exists", errors.ValidationDetail{
				Field: "code", Message: "must be unique within the tenant",
			})
		}
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order status %s not found", s.ID))
	}
	return nil
}

// UpdateRanks persists the sort_order of each status. Rows whose rank did not change are skipped by the caller.
func (r *MySQLOrderStatusRepository) UpdateRanks(ctx context.Context, tenantID string, statuses []domain.OrderStatus) error {
	exec := mysql.Executor(ctx, r.db)
	for _, s := range statuses {
		if _, err := exec.ExecContext(ctx,
			`UPDATE order_statuses SET sort_order = ? WHERE id = ? AND tenant_id = ?`,
			s.Order, s.ID, tenantID,
		); err != nil {
			return fmt.Errorf("updating order status rank: %w", err)
		}
	}
	return nil
}

func (r *MySQLOrderStatusRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, `DELETE FROM order_statuses WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("deleting order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order status %s not found", id))
	}
	return nil
}

// CountOrdersWithStatus counts the tenant's orders currently pointing at code.
func (r *MySQLOrderStatusRepository) CountOrdersWithStatus(ctx context.Context, tenantID, code string) (int, error) {
	var count int
	err := mysql.Executor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE tenant_id = ? AND order_status = ?`, tenantID, code,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting orders with status: %w", err)
	}
	return count, nil
}
