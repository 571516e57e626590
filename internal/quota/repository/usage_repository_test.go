package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasir/internal/testutil"
)

func TestUsageRepository_CountOrdersCreatedSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	tenantID := testutil.SeedTenant(t, db, uuid.NewString(), nil)
	otherTenant := testutil.SeedTenant(t, db, uuid.NewString(), nil)

	insert := func(tenant string, createdAt time.Time) {
		_, err := db.Exec(`
			INSERT INTO orders (id, tenant_id, order_number, payment_status, order_status, staff_id, created_at)
			VALUES (?, ?, ?, 'unpaid', 'new', ?, ?)`,
			uuid.NewString(), tenant, uuid.NewString(), uuid.NewString(), createdAt)
		require.NoError(t, err)
	}

	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	insert(tenantID, since.Add(-time.Hour))
	insert(tenantID, since)
	insert(tenantID, since.Add(48*time.Hour))
	insert(otherTenant, since.Add(time.Hour))

	repo := NewMySQLUsageRepository(db)
	count, err := repo.CountOrdersCreatedSince(context.Background(), tenantID, since)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
