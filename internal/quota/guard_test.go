package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
)

type mockTenantRepository struct {
	FindByIDFunc func(ctx context.Context, id string) (*domain.Tenant, error)
}

func (m *mockTenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockUsageRepository struct {
	CountOrdersCreatedSinceFunc func(ctx context.Context, tenantID string, since time.Time) (int, error)
}

func (m *mockUsageRepository) CountOrdersCreatedSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	return m.CountOrdersCreatedSinceFunc(ctx, tenantID, since)
}

func limitedTenant(limit int) *mockTenantRepository {
	return &mockTenantRepository{FindByIDFunc: func(ctx context.Context, id string) (*domain.Tenant, error) {
		return &domain.Tenant{ID: id, MaxMonthlyTransactions: &limit}, nil
	}}
}

func fixedUsage(n int, gotSince *time.Time) *mockUsageRepository {
	return &mockUsageRepository{CountOrdersCreatedSinceFunc: func(ctx context.Context, tenantID string, since time.Time) (int, error) {
		if gotSince != nil {
			*gotSince = since
		}
		return n, nil
	}}
}

func TestEnforceLimit_UnderLimit(t *testing.T) {
	var since time.Time
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	g := NewGuard(limitedTenant(100), fixedUsage(99, &since), zap.NewNop()).WithClock(func() time.Time { return now })

	require.NoError(t, g.EnforceLimit(context.Background(), "t-1", LimitTransactions, 1))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), since)
}

func TestEnforceLimit_AtLimit(t *testing.T) {
	g := NewGuard(limitedTenant(100), fixedUsage(100, nil), zap.NewNop())

	err := g.EnforceLimit(context.Background(), "t-1", LimitTransactions, 1)

	qe, ok := apperrors.IsQuotaExceededError(err)
	require.True(t, ok)
	assert.Equal(t, LimitTransactions, qe.LimitType)
	assert.Equal(t, 100, qe.Limit)
	assert.Equal(t, 100, qe.Usage)
}

func TestEnforceLimit_Unlimited(t *testing.T) {
	tenants := &mockTenantRepository{FindByIDFunc: func(ctx context.Context, id string) (*domain.Tenant, error) {
		return &domain.Tenant{ID: id}, nil
	}}
	usage := &mockUsageRepository{CountOrdersCreatedSinceFunc: func(ctx context.Context, tenantID string, since time.Time) (int, error) {
		t.Fatal("usage must not be queried for unlimited tenants")
		return 0, nil
	}}

	assert.NoError(t, NewGuard(tenants, usage, zap.NewNop()).EnforceLimit(context.Background(), "t-1", LimitTransactions, 1))
}

func TestEnforceLimit_UnknownLimitType(t *testing.T) {
	g := NewGuard(limitedTenant(1), fixedUsage(0, nil), zap.NewNop())

	_, ok := apperrors.IsValidationError(g.EnforceLimit(context.Background(), "t-1", "storage", 1))
	assert.True(t, ok)
}

func TestEnforceLimit_InvalidIncrement(t *testing.T) {
	g := NewGuard(limitedTenant(1), fixedUsage(0, nil), zap.NewNop())

	_, ok := apperrors.IsValidationError(g.EnforceLimit(context.Background(), "t-1", LimitTransactions, 0))
	assert.True(t, ok)
}

func TestEnforceLimit_TenantNotFound(t *testing.T) {
	tenants := &mockTenantRepository{FindByIDFunc: func(ctx context.Context, id string) (*domain.Tenant, error) {
		return nil, apperrors.NewNotFoundError("tenant not found")
	}}

	err := NewGuard(tenants, fixedUsage(0, nil), zap.NewNop()).EnforceLimit(context.Background(), "t-1", LimitTransactions, 1)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestEnforceLimit_UsageError(t *testing.T) {
	boom := errors.New("db down")
	usage := &mockUsageRepository{CountOrdersCreatedSinceFunc: func(ctx context.Context, tenantID string, since time.Time) (int, error) {
		return 0, boom
	}}

	err := NewGuard(limitedTenant(5), usage, zap.NewNop()).EnforceLimit(context.Background(), "t-1", LimitTransactions, 1)
	assert.ErrorIs(t, err, boom)
}

func TestMonthStart_ConvertsToUTC(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	local := time.Date(2024, 4, 1, 3, 0, 0, 0, jakarta)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), monthStart(local))
}
