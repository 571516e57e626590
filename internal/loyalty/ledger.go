// Package loyalty adjusts customer point balances.
package loyalty

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.Customer, error)
	AddPoints(ctx context.Context, tenantID, id string, amount int) (int64, error)
	SubtractPoints(ctx context.Context, tenantID, id string, amount int) (int64, error)
	SetLastPointAccumulation(ctx context.Context, tenantID, id string, points int) error
}

// Ledger applies point changes with single-statement atomic updates. Every
// call joins the transaction carried by ctx, if any.
type Ledger struct {
	repo   CustomerRepository
	logger *zap.Logger
}

func NewLedger(repo CustomerRepository, logger *zap.Logger) *Ledger {
	return &Ledger{repo: repo, logger: logger}
}

func (l *Ledger) Increment(ctx context.Context, tenantID, customerID string, amount int) error {
	if amount <= 0 {
		return apperrors.NewValidationError("point amount must be positive", apperrors.ValidationDetail{
			Field: "amount", Message: "must be greater than 0",
		})
	}

	rows, err := l.repo.AddPoints(ctx, tenantID, customerID, amount)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("customer %s not found", customerID))
	}

	l.logger.Debug("points incremented", zap.String("tenantId", tenantID), zap.String("customerId", customerID), zap.Int("amount", amount))
	return nil
}

// Decrement never lets a balance go negative.
func (l *Ledger) Decrement(ctx context.Context, tenantID, customerID string, amount int) error {
	if amount <= 0 {
		return apperrors.NewValidationError("point amount must be positive", apperrors.ValidationDetail{
			Field: "amount", Message: "must be greater than 0",
		})
	}

	rows, err := l.repo.SubtractPoints(ctx, tenantID, customerID, amount)
	if err != nil {
		return err
	}
	if rows == 0 {
		customer, err := l.repo.FindByID(ctx, tenantID, customerID)
		if err != nil {
			return err
		}
		return apperrors.NewValidationError("insufficient points", apperrors.ValidationDetail{
			Field:   "pointUsed",
			Message: fmt.Sprintf("customer has %d points, %d required", customer.Points, amount),
		})
	}

	l.logger.Debug("points decremented", zap.String("tenantId", tenantID), zap.String("customerId", customerID), zap.Int("amount", amount))
	return nil
}

// Apply runs the adjustments in order. The first failure stops the run; the
// caller's transaction is expected to roll back what was already applied.
func (l *Ledger) Apply(ctx context.Context, tenantID string, adjustments []domain.PointAdjustment) error {
	for _, adj := range adjustments {
		var err error
		switch {
		case adj.Delta > 0:
			err = l.Increment(ctx, tenantID, adj.CustomerID, adj.Delta)
		case adj.Delta < 0:
			err = l.Decrement(ctx, tenantID, adj.CustomerID, -adj.Delta)
		}
		if err != nil {
			return fmt.Errorf("adjusting points for customer %s: %w", adj.CustomerID, err)
		}
	}
	return nil
}

func (l *Ledger) Balance(ctx context.Context, tenantID, customerID string) (int, error) {
	customer, err := l.repo.FindByID(ctx, tenantID, customerID)
	if err != nil {
		return 0, err
	}
	return customer.Points, nil
}

// RecordAccumulation stores the balance snapshot taken when an order became paid.
func (l *Ledger) RecordAccumulation(ctx context.Context, tenantID, customerID string, points int) error {
	return l.repo.SetLastPointAccumulation(ctx, tenantID, customerID, points)
}
