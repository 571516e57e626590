package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"kasir/internal/domain"
	"kasir/internal/infrastructure/mysql"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

// InsertBatch writes all items in one statement.
func (r *MySQLOrderItemRepository) InsertBatch(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	placeholders := make([]string, len(items))
	args := make([]any, 0, len(items)*6)
	for i, item := range items {
		placeholders[i] = "(?, ?, ?, ?, ?, ?)"
		args = append(args, item.ID, item.OrderID, item.ProductID, item.ProductName, item.ProductPrice, item.Qty)
	}

	query := `INSERT INTO order_items (id, order_id, product_id, product_name, product_price, qty) VALUES ` +
		strings.Join(placeholders, ", ")

	if _, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting order items: %w", err)
	}
	return nil
}

func (r *MySQLOrderItemRepository) DeleteByOrderID(ctx context.Context, orderID string) error {
	query := `DELETE FROM order_items WHERE order_id = ?`

	if _, err := mysql.Executor(ctx, r.db).ExecContext(ctx, query, orderID); err != nil {
		return fmt.Errorf("deleting order items: %w", err)
	}
	return nil
}

// FindByOrderID returns items in insertion order; item ids are time-ordered UUIDv7.
func (r *MySQLOrderItemRepository) FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, product_price, qty
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`

	rows, err := mysql.Executor(ctx, r.db).QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ProductPrice, &item.Qty); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order items: %w", err)
	}
	return items, nil
}
