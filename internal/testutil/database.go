package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"kasir/internal/infrastructure/mysql"
)

// SetupTestDB opens the test database and applies migrations.
// Expects MySQL on localhost:3306 with a database named 'kasir_test'
// unless TEST_DATABASE_DSN is set. Skips the test when it is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/kasir_test?parseTime=true&multiStatements=true&clientFoundRows=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	if err := mysql.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"order_items", "orders", "order_statuses", "products", "customers", "tenants",
		"message_logs", "message_templates", "messaging_configs", "notification_settings", "audit_logs",
	}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SeedTenant inserts a tenant row and returns its id.
func SeedTenant(t *testing.T, db *sql.DB, id string, maxMonthly *int) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO tenants (id, name, plan, max_monthly_transactions) VALUES (?, ?, 'basic', ?)`,
		id, "Toko "+id[:4], maxMonthly)
	if err != nil {
		t.Fatalf("failed to seed tenant: %v", err)
	}
	return id
}

func SeedCustomer(t *testing.T, db *sql.DB, id, tenantID string, points int, phone *string) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO customers (id, tenant_id, name, phone, points) VALUES (?, ?, 'Budi', ?, ?)`,
		id, tenantID, phone, points)
	if err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return id
}

func SeedProduct(t *testing.T, db *sql.DB, id, tenantID, name string, price string, active bool) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO products (id, tenant_id, name, price, is_active) VALUES (?, ?, ?, ?, ?)`,
		id, tenantID, name, price, active)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return id
}

func SeedStatus(t *testing.T, db *sql.DB, id, tenantID, code string, order int, final bool) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO order_statuses (id, tenant_id, code, name, sort_order, is_final) VALUES (?, ?, ?, ?, ?, ?)`,
		id, tenantID, code, code, order, final)
	if err != nil {
		t.Fatalf("failed to seed status: %v", err)
	}
	return id
}
