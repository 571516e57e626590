package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"kasir/internal/domain"
	"kasir/internal/errors"
	"kasir/internal/infrastructure/mysql"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `
	id, tenant_id, order_number, customer_id,
	discount_id, discount_name, discount_type, discount_reward_type, discount_value, discount_amount,
	subtotal, tax_amount, total_amount, grand_total, paid_amount, remaining_balance, change_amount,
	point_used, payment_method, payment_status, order_status, staff_id, note, points_snapshot,
	created_at, updated_at`

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var o domain.Order
	var (
		customerID, discountID, discountName sql.NullString
		discountType, discountRewardType     sql.NullString
		paymentMethod, note                  sql.NullString
		discountValue                        decimal.NullDecimal
		discountAmount                       decimal.Decimal
		pointsSnapshot                       sql.NullInt64
	)

	err := row.Scan(
		&o.ID, &o.TenantID, &o.OrderNumber, &customerID,
		&discountID, &discountName, &discountType, &discountRewardType, &discountValue, &discountAmount,
		&o.Subtotal, &o.TaxAmount, &o.TotalAmount, &o.GrandTotal, &o.PaidAmount, &o.RemainingBalance, &o.Change,
		&o.PointUsed, &paymentMethod, &o.PaymentStatus, &o.OrderStatus, &o.StaffID, &note, &pointsSnapshot,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.CustomerID = nullString(customerID)
	o.PaymentMethod = nullString(paymentMethod)
	o.Note = nullString(note)
	if pointsSnapshot.Valid {
		v := int(pointsSnapshot.Int64)
		o.PointsSnapshot = &v
	}
	if discountID.Valid || discountType.Valid || discountRewardType.Valid {
		o.Discount = &domain.Discount{
			ID:         discountID.String,
			Name:       discountName.String,
			Type:       domain.DiscountType(discountType.String),
			RewardType: domain.DiscountRewardType(discountRewardType.String),
			Value:      discountValue.Decimal,
			Amount:     discountAmount,
		}
	}

	return &o, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ? AND tenant_id = ?`

	order, err := scanOrder(mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// FindByIDForUpdate locks the order row until the surrounding transaction ends.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ? AND tenant_id = ? FOR UPDATE`

	order, err := scanOrder(mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, id, tenantID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("locking order by id: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, o domain.Order) error {
	query := `
		INSERT INTO orders (
			id, tenant_id, order_number, customer_id,
			discount_id, discount_name, discount_type, discount_reward_type, discount_value, discount_amount,
			subtotal, tax_amount, total_amount, grand_total, paid_amount, remaining_balance, change_amount,
			point_used, payment_method, payment_status, order_status, staff_id, note, points_snapshot,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	args := []any{o.ID, o.TenantID, o.OrderNumber, o.CustomerID}
	args = append(args, discountArgs(o.Discount)...)
	args = append(args,
		o.Subtotal, o.TaxAmount, o.TotalAmount, o.GrandTotal, o.PaidAmount, o.RemainingBalance, o.Change,
		o.PointUsed, o.PaymentMethod, o.PaymentStatus, o.OrderStatus, o.StaffID, o.Note, o.PointsSnapshot,
		o.CreatedAt, o.UpdatedAt,
	)

	if _, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if mysql.IsDuplicate(err) {
			return errors.NewConflictError(fmt.Sprintf("order number %s already exists", o.OrderNumber))
		}
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// Update overwrites every scalar column. Items are replaced separately.
func (r *MySQLOrderRepository) Update(ctx context.Context, o domain.Order) error {
	query := `
		UPDATE orders SET
			customer_id = ?,
			discount_id = ?, discount_name = ?, discount_type = ?, discount_reward_type = ?,
			discount_value = ?, discount_amount = ?,
			subtotal = ?, tax_amount = ?, total_amount = ?, grand_total = ?, paid_amount = ?,
			remaining_balance = ?, change_amount = ?,
			point_used = ?, payment_method = ?, payment_status = ?, order_status = ?,
			staff_id = ?, note = ?, points_snapshot = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	args := []any{o.CustomerID}
	args = append(args, discountArgs(o.Discount)...)
	args = append(args,
		o.Subtotal, o.TaxAmount, o.TotalAmount, o.GrandTotal, o.PaidAmount,
		o.RemainingBalance, o.Change,
		o.PointUsed, o.PaymentMethod, o.PaymentStatus, o.OrderStatus,
		o.StaffID, o.Note, o.PointsSnapshot, o.UpdatedAt,
		o.ID, o.TenantID,
	)

	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}
	return expectRow(result, fmt.Sprintf("order %s not found", o.ID))
}

// UpdateStatus writes only the status column.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, tenantID, id, status string) error {
	query := `UPDATE orders SET order_status = ? WHERE id = ? AND tenant_id = ?`

	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, status, id, tenantID)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return expectRow(result, fmt.Sprintf("order %s not found", id))
}

// Delete removes the order; its items go with it through the foreign key cascade.
func (r *MySQLOrderRepository) Delete(ctx context.Context, tenantID, id string) error {
	query := `DELETE FROM orders WHERE id = ? AND tenant_id = ?`

	result, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, id, tenantID)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}
	return expectRow(result, fmt.Sprintf("order %s not found", id))
}

func discountArgs(d *domain.Discount) []any {
	if d == nil {
		return []any{nil, nil, nil, nil, nil, decimal.Zero}
	}
	return []any{
		emptyToNil(d.ID), emptyToNil(d.Name), emptyToNil(string(d.Type)), emptyToNil(string(d.RewardType)),
		d.Value, d.Amount,
	}
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func expectRow(result sql.Result, notFoundMsg string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(notFoundMsg)
	}
	return nil
}
