// Package quota enforces subscription limits per tenant.
package quota

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
)

const LimitTransactions = "transactions"

type TenantRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
}

type UsageRepository interface {
	CountOrdersCreatedSince(ctx context.Context, tenantID string, since time.Time) (int, error)
}

type Guard struct {
	tenants TenantRepository
	usage   UsageRepository
	logger  *zap.Logger
	now     func() time.Time
}

func NewGuard(tenants TenantRepository, usage UsageRepository, logger *zap.Logger) *Guard {
	return &Guard{
		tenants: tenants,
		usage:   usage,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// EnforceLimit fails with QuotaExceededError when adding increment units of
// limitType would exceed the tenant's plan.
func (g *Guard) EnforceLimit(ctx context.Context, tenantID, limitType string, increment int) error {
	if increment < 1 {
		return apperrors.NewValidationError("quota increment must be positive", apperrors.ValidationDetail{
			Field: "increment", Message: "must be at least 1",
		})
	}

	switch limitType {
	case LimitTransactions:
		return g.enforceTransactions(ctx, tenantID, increment)
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown limit type %q", limitType))
	}
}

func (g *Guard) enforceTransactions(ctx context.Context, tenantID string, increment int) error {
	tenant, err := g.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant.MaxMonthlyTransactions == nil {
		return nil
	}
	limit := *tenant.MaxMonthlyTransactions

	usage, err := g.usage.CountOrdersCreatedSince(ctx, tenantID, monthStart(g.now()))
	if err != nil {
		return err
	}

	if usage+increment > limit {
		g.logger.Info("quota exceeded", zap.String("tenantId", tenantID), zap.String("limitType", LimitTransactions), zap.Int("usage", usage), zap.Int("limit", limit))
		return apperrors.NewQuotaExceededError(LimitTransactions, limit, usage)
	}
	return nil
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
