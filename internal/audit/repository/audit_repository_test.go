package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasir/internal/domain"
	"kasir/internal/testutil"
)

// Unit Tests

func TestNewMySQLAuditRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLAuditRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestAuditRepository_InsertAndFindByEntity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLAuditRepository(db)
	ctx := context.Background()
	tenantID := uuid.NewString()
	orderID := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, repo.Insert(ctx, domain.AuditLog{
		ID: uuid.NewString(), TenantID: tenantID, ActorID: "staff-1", Action: "UPDATE_ORDER_STATUS",
		Entity: "order", EntityID: orderID, CreatedAt: now,
		Metadata: map[string]any{"from": "pending", "to": "done"},
	}))
	require.NoError(t, repo.Insert(ctx, domain.AuditLog{
		ID: uuid.NewString(), TenantID: tenantID, ActorID: "staff-1", Action: "DELETE_ORDER",
		Entity: "order", EntityID: orderID, CreatedAt: now.Add(time.Second),
	}))

	logs, err := repo.FindByEntity(ctx, tenantID, "order", orderID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "UPDATE_ORDER_STATUS", logs[0].Action)
	assert.Equal(t, "done", logs[0].Metadata["to"])
	assert.Nil(t, logs[1].Metadata)

	other, err := repo.FindByEntity(ctx, uuid.NewString(), "order", orderID)
	require.NoError(t, err)
	assert.Empty(t, other)
}
