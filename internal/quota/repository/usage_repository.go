package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"kasir/internal/infrastructure/mysql"
)

type MySQLUsageRepository struct {
	db *sql.DB
}

func NewMySQLUsageRepository(db *sql.DB) *MySQLUsageRepository {
	return &MySQLUsageRepository{db: db}
}

func (r *MySQLUsageRepository) CountOrdersCreatedSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE tenant_id = ? AND created_at >= ?`

	var count int
	if err := mysql.Executor(ctx, r.db).QueryRowContext(ctx, query, tenantID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return count, nil
}
