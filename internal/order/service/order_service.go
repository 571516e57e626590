package service

import (
	"context"

	"go.uber.org/zap"

	"kasir/internal/domain"
)

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type OrderRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id string) (*domain.Order, error)
	Insert(ctx context.Context, o domain.Order) error
	Update(ctx context.Context, o domain.Order) error
	UpdateStatus(ctx context.Context, tenantID, id, status string) error
	Delete(ctx context.Context, tenantID, id string) error
}

type OrderItemRepository interface {
	InsertBatch(ctx context.Context, items []domain.OrderItem) error
	DeleteByOrderID(ctx context.Context, orderID string) error
	FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)
}

type PointLedger interface {
	Apply(ctx context.Context, tenantID string, adjustments []domain.PointAdjustment) error
	Balance(ctx context.Context, tenantID, customerID string) (int, error)
	RecordAccumulation(ctx context.Context, tenantID, customerID string, points int) error
}

// Change is an order before and after a mutation.
type Change struct {
	Previous domain.Order
	Current  domain.Order
}

// OrderService owns the transactional step of every order mutation: the
// order row, its items and the loyalty ledger commit or roll back together.
type OrderService struct {
	tx     TransactionManager
	orders OrderRepository
	items  OrderItemRepository
	ledger PointLedger
	logger *zap.Logger
}

func NewOrderService(
	tx TransactionManager,
	orders OrderRepository,
	items OrderItemRepository,
	ledger PointLedger,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		tx:     tx,
		orders: orders,
		items:  items,
		ledger: ledger,
		logger: logger,
	}
}

func (s *OrderService) Create(ctx context.Context, order domain.Order) (*domain.Order, error) {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.applyPoints(ctx, order.TenantID, nil, &order); err != nil {
			return err
		}
		if err := s.snapshotPoints(ctx, nil, &order); err != nil {
			return err
		}
		if err := s.orders.Insert(ctx, order); err != nil {
			return err
		}
		return s.items.InsertBatch(ctx, order.Items)
	})
	if err != nil {
		s.logger.Warn("order create rolled back", zap.String("tenantId", order.TenantID), zap.String("orderId", order.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created", zap.String("tenantId", order.TenantID), zap.String("orderId", order.ID), zap.String("orderNumber", order.OrderNumber))
	return &order, nil
}

// Update locks the order, builds the replacement from the locked row and
// writes it with its items. build receives the transaction's context. The ledger receives only the difference between
// the old and the new point effects.
func (s *OrderService) Update(ctx context.Context, tenantID, id string, build func(ctx context.Context, current domain.Order) (domain.Order, error)) (*Change, error) {
	var change Change
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, tenantID, id, true)
		if err != nil {
			return err
		}
		change.Previous = current.Clone()

		next, err := build(ctx, *current)
		if err != nil {
			return err
		}
		next.ID, next.TenantID = current.ID, current.TenantID

		if err := s.applyPoints(ctx, tenantID, &change.Previous, &next); err != nil {
			return err
		}
		if err := s.snapshotPoints(ctx, &change.Previous, &next); err != nil {
			return err
		}
		if err := s.orders.Update(ctx, next); err != nil {
			return err
		}
		if err := s.items.DeleteByOrderID(ctx, next.ID); err != nil {
			return err
		}
		if err := s.items.InsertBatch(ctx, next.Items); err != nil {
			return err
		}

		change.Current = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order updated", zap.String("tenantId", tenantID), zap.String("orderId", id))
	return &change, nil
}

// UpdateStatus writes only the status column of the locked order.
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, id, code string) (*Change, error) {
	var change Change
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, tenantID, id, true)
		if err != nil {
			return err
		}
		if err := s.orders.UpdateStatus(ctx, tenantID, id, code); err != nil {
			return err
		}

		change.Previous = current.Clone()
		change.Current = *current
		change.Current.OrderStatus = code
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated", zap.String("tenantId", tenantID), zap.String("orderId", id),
		zap.String("from", change.Previous.OrderStatus), zap.String("to", code))
	return &change, nil
}

// Delete locks the order, lets guard veto the deletion inside the
// transaction, reverses its point effects and removes it with its items.
func (s *OrderService) Delete(ctx context.Context, tenantID, id string, guard func(ctx context.Context, current domain.Order) error) (*domain.Order, error) {
	var deleted *domain.Order
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.load(ctx, tenantID, id, true)
		if err != nil {
			return err
		}
		if err := guard(ctx, *current); err != nil {
			return err
		}
		if err := s.applyPoints(ctx, tenantID, current, nil); err != nil {
			return err
		}
		if err := s.orders.Delete(ctx, tenantID, id); err != nil {
			return err
		}
		deleted = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order deleted", zap.String("tenantId", tenantID), zap.String("orderId", id))
	return deleted, nil
}

func (s *OrderService) Get(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	return s.load(ctx, tenantID, id, false)
}

func (s *OrderService) load(ctx context.Context, tenantID, id string, lock bool) (*domain.Order, error) {
	find := s.orders.FindByID
	if lock {
		find = s.orders.FindByIDForUpdate
	}

	order, err := find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	items, err := s.items.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *OrderService) applyPoints(ctx context.Context, tenantID string, prev, next *domain.Order) error {
	plan := domain.PointPlan(prev, next)
	if len(plan) == 0 {
		return nil
	}

	if err := s.ledger.Apply(ctx, tenantID, plan); err != nil {
		return err
	}
	s.logger.Debug("points applied", zap.String("tenantId", tenantID), zap.Int("adjustments", len(plan)))
	return nil
}

// snapshotPoints records the customer's balance on the order and the customer
// when the order becomes paid. It runs after the ledger so the snapshot
// includes this order's own effect.
func (s *OrderService) snapshotPoints(ctx context.Context, prev, next *domain.Order) error {
	if !next.IsPaid() || !next.HasCustomer() || (prev != nil && prev.IsPaid()) {
		return nil
	}

	balance, err := s.ledger.Balance(ctx, next.TenantID, *next.CustomerID)
	if err != nil {
		return err
	}
	if err := s.ledger.RecordAccumulation(ctx, next.TenantID, *next.CustomerID, balance); err != nil {
		return err
	}
	next.PointsSnapshot = &balance
	return nil
}
