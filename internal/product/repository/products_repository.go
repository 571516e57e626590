package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"kasir/internal/domain"
	"kasir/internal/infrastructure/mysql"
)

const productColumns = `id, tenant_id, name, price, is_active, is_deleted, created_at, updated_at`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// FindByIDsAndTenant returns the tenant's products among ids, deleted ones
// excluded. Duplicate ids are queried once.
func (r *MySQLRepository) FindByIDsAndTenant(ctx context.Context, ids []string, tenantID string) ([]domain.Product, error) {
	unique := distinct(ids)
	if len(unique) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(unique)+1)
	args = append(args, tenantID)
	for _, id := range unique {
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE tenant_id = ?
		  AND id IN (%s)
		  AND is_deleted = 0
		ORDER BY id`,
		productColumns,
		strings.TrimSuffix(strings.Repeat("?, ", len(unique)), ", "),
	)

	rows, err := mysql.Executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, len(unique))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Price, &p.IsActive, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
