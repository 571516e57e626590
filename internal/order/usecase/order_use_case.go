package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"kasir/internal/audit"
	"kasir/internal/domain"
	"kasir/internal/dto"
	apperrors "kasir/internal/errors"
	"kasir/internal/identity"
	"kasir/internal/infrastructure/mysql"
	"kasir/internal/infrastructure/worker"
	"kasir/internal/notification"
	"kasir/internal/order/service"
	"kasir/internal/quota"
)

type OrderService interface {
	Create(ctx context.Context, order domain.Order) (*domain.Order, error)
	Update(ctx context.Context, tenantID, id string, build func(ctx context.Context, current domain.Order) (domain.Order, error)) (*service.Change, error)
	UpdateStatus(ctx context.Context, tenantID, id, code string) (*service.Change, error)
	Delete(ctx context.Context, tenantID, id string, guard func(ctx context.Context, current domain.Order) error) (*domain.Order, error)
	Get(ctx context.Context, tenantID, id string) (*domain.Order, error)
}

type QuotaGuard interface {
	EnforceLimit(ctx context.Context, tenantID, limitType string, increment int) error
}

type StatusCatalog interface {
	FindByCode(ctx context.Context, tenantID, code string) (*domain.OrderStatus, error)
}

type ProductValidator interface {
	RequireSellable(ctx context.Context, tenantID string, ids []string, fieldFor func(i int) string) error
}

type Notifier interface {
	HandleOrderChange(ctx context.Context, tenantID string, prev *domain.Order, curr domain.Order) notification.Result
	HandleStatusChange(ctx context.Context, tenantID string, order domain.Order, status domain.OrderStatus) notification.Result
}

type TaskRunner interface {
	Submit(ctx context.Context, name string, fn worker.Task) bool
}

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry)
}

// Dependencies groups the collaborators of OrderUseCase.
type Dependencies struct {
	Orders   OrderService
	Quota    QuotaGuard
	Statuses StatusCatalog
	Products ProductValidator
	Notifier Notifier
	Tasks    TaskRunner
	Audit    AuditRecorder
}

type OrderUseCase struct {
	deps             Dependencies
	logger           *zap.Logger
	maxRetryAttempts int
	now              func() time.Time
	sleep            func(ctx context.Context, d time.Duration) error
}

func NewOrderUseCase(deps Dependencies, logger *zap.Logger, maxRetryAttempts int) *OrderUseCase {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &OrderUseCase{
		deps:             deps,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		now:              time.Now,
		sleep:            sleepCtx,
	}
}

func (uc *OrderUseCase) Create(ctx context.Context, tenantID string, in dto.OrderInput) (*domain.Order, error) {
	uc.logger.Info("order create started", zap.String("tenantId", tenantID), zap.Int("itemCount", len(in.Items)))

	if err := requireTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := uc.resolveStatus(ctx, tenantID, in.OrderStatus, ""); err != nil {
		return nil, err
	}
	if err := uc.deps.Products.RequireSellable(ctx, tenantID, productIDs(in.Items), itemField); err != nil {
		return nil, err
	}

	// Quota is settled before anything is written.
	if err := uc.deps.Quota.EnforceLimit(ctx, tenantID, quota.LimitTransactions, 1); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	order := buildOrder(in)
	order.ID = uuid.NewString()
	order.TenantID = tenantID
	order.OrderNumber = newOrderNumber(now)
	order.CreatedAt, order.UpdatedAt = now, now
	assignItemIDs(&order)

	var created *domain.Order
	err := uc.withRetry(ctx, "create", func() error {
		var err error
		created, err = uc.deps.Orders.Create(ctx, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.notifyChange(ctx, tenantID, nil, *created)
	return created, nil
}

func (uc *OrderUseCase) Update(ctx context.Context, tenantID, id string, in dto.OrderInput) (*domain.Order, error) {
	uc.logger.Info("order update started", zap.String("tenantId", tenantID), zap.String("orderId", id))

	if err := requireTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := uc.deps.Products.RequireSellable(ctx, tenantID, productIDs(in.Items), itemField); err != nil {
		return nil, err
	}

	var change *service.Change
	err := uc.withRetry(ctx, "update", func() error {
		var err error
		change, err = uc.deps.Orders.Update(ctx, tenantID, id, func(ctx context.Context, current domain.Order) (domain.Order, error) {
			if _, err := uc.resolveStatus(ctx, tenantID, in.OrderStatus, current.OrderStatus); err != nil {
				return domain.Order{}, err
			}

			next := buildOrder(in)
			next.ID = current.ID
			next.TenantID = current.TenantID
			next.OrderNumber = current.OrderNumber
			next.PointsSnapshot = current.PointsSnapshot
			next.CreatedAt = current.CreatedAt
			next.UpdatedAt = uc.now().UTC()
			assignItemIDs(&next)
			return next, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.notifyChange(ctx, tenantID, &change.Previous, change.Current)
	return &change.Current, nil
}

func (uc *OrderUseCase) Delete(ctx context.Context, tenantID, id string) error {
	uc.logger.Info("order delete started", zap.String("tenantId", tenantID), zap.String("orderId", id))

	if err := requireTenant(ctx, tenantID); err != nil {
		return err
	}

	var deleted *domain.Order
	err := uc.withRetry(ctx, "delete", func() error {
		var err error
		deleted, err = uc.deps.Orders.Delete(ctx, tenantID, id, func(ctx context.Context, current domain.Order) error {
			return uc.ensureDeletable(ctx, tenantID, current)
		})
		return err
	})
	if err != nil {
		return err
	}

	uc.deps.Audit.Record(ctx, audit.Entry{
		TenantID: tenantID,
		ActorID:  actorID(ctx, deleted.StaffID),
		Action:   audit.ActionDeleteOrder,
		Entity:   audit.EntityOrder,
		EntityID: id,
		Metadata: map[string]any{"orderNumber": deleted.OrderNumber, "orderStatus": deleted.OrderStatus},
	})
	return nil
}

// UpdateStatusByCode moves the order to another catalog status. Only the
// status column is written.
func (uc *OrderUseCase) UpdateStatusByCode(ctx context.Context, tenantID, id, statusCode string) (*domain.Order, error) {
	statusCode = strings.TrimSpace(statusCode)
	uc.logger.Info("order status change started", zap.String("tenantId", tenantID), zap.String("orderId", id), zap.String("statusCode", statusCode))

	if err := requireTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if statusCode == "" {
		return nil, apperrors.NewValidationError("statusCode is required", apperrors.ValidationDetail{
			Field: "statusCode", Message: "must not be empty",
		})
	}

	status, err := uc.resolveStatus(ctx, tenantID, statusCode, "")
	if err != nil {
		return nil, err
	}

	var change *service.Change
	err = uc.withRetry(ctx, "update-status", func() error {
		var err error
		change, err = uc.deps.Orders.UpdateStatus(ctx, tenantID, id, status.Code)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.deps.Audit.Record(ctx, audit.Entry{
		TenantID: tenantID,
		ActorID:  actorID(ctx, change.Current.StaffID),
		Action:   audit.ActionUpdateOrderStatus,
		Entity:   audit.EntityOrder,
		EntityID: id,
		Metadata: map[string]any{"from": change.Previous.OrderStatus, "to": status.Code},
	})

	current, resolved := change.Current, *status
	uc.submit(ctx, "notify-order-status", func(ctx context.Context) error {
		uc.deps.Notifier.HandleStatusChange(ctx, tenantID, current, resolved)
		return nil
	})
	return &change.Current, nil
}

func (uc *OrderUseCase) Get(ctx context.Context, tenantID, id string) (*domain.Order, error) {
	if err := requireTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	return uc.deps.Orders.Get(ctx, tenantID, id)
}

// ensureDeletable rejects orders sitting in a final status. A code missing
// from the catalog counts as final only when it is the built-in completed code.
func (uc *OrderUseCase) ensureDeletable(ctx context.Context, tenantID string, order domain.Order) error {
	final := strings.EqualFold(order.OrderStatus, domain.OrderStatusCompleted)

	status, err := uc.deps.Statuses.FindByCode(ctx, tenantID, order.OrderStatus)
	switch {
	case err == nil:
		final = status.IsFinal || final
	case isNotFound(err):
	default:
		return err
	}

	if final {
		return apperrors.NewOrderStatusError(order.OrderStatus, "orders in a final status cannot be deleted")
	}
	return nil
}

// resolveStatus looks code up in the live catalog. An inactive status is
// accepted only when the order already carries it.
func (uc *OrderUseCase) resolveStatus(ctx context.Context, tenantID, code, currentCode string) (*domain.OrderStatus, error) {
	status, err := uc.deps.Statuses.FindByCode(ctx, tenantID, code)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewValidationError("unknown order status", apperrors.ValidationDetail{
				Field: "orderStatus", Message: fmt.Sprintf("status %q does not exist", code),
			})
		}
		return nil, err
	}
	if !status.IsActive && status.Code != currentCode {
		return nil, apperrors.NewValidationError("inactive order status", apperrors.ValidationDetail{
			Field: "orderStatus", Message: fmt.Sprintf("status %q is not active", code),
		})
	}
	return status, nil
}

func (uc *OrderUseCase) notifyChange(ctx context.Context, tenantID string, prev *domain.Order, curr domain.Order) {
	var before *domain.Order
	if prev != nil {
		p := prev.Clone()
		before = &p
	}
	after := curr.Clone()

	uc.submit(ctx, "notify-order-change", func(ctx context.Context) error {
		uc.deps.Notifier.HandleOrderChange(ctx, tenantID, before, after)
		return nil
	})
}

func (uc *OrderUseCase) submit(ctx context.Context, name string, fn worker.Task) {
	if !uc.deps.Tasks.Submit(ctx, name, fn) {
		uc.logger.Warn("notification not scheduled", zap.String("task", name))
	}
}

// withRetry reruns fn on MySQL deadlocks and lock wait timeouts with a short
// jittered backoff. Other errors return at once.
func (uc *OrderUseCase) withRetry(ctx context.Context, op string, fn func() error) error {
	backoffs := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !mysql.IsDeadlock(err) {
			return err
		}
		if attempt == uc.maxRetryAttempts {
			break
		}

		base := backoffs[min(attempt-1, len(backoffs)-1)]
		jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
		uc.logger.Warn("deadlock detected, retrying", zap.String("op", op), zap.Int("attempt", attempt), zap.Int("maxAttempts", uc.maxRetryAttempts))
		if err := uc.sleep(ctx, base+jitter); err != nil {
			return err
		}
	}

	return apperrors.NewDeadlockError("max retries exceeded")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func requireTenant(ctx context.Context, tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return apperrors.NewValidationError("tenantId is required", apperrors.ValidationDetail{
			Field: "tenantId", Message: "must not be empty",
		})
	}
	if !identity.AllowsTenant(ctx, tenantID) {
		return apperrors.NewUnauthorizedError("caller may not act on tenant " + tenantID)
	}
	return nil
}

func actorID(ctx context.Context, fallback string) string {
	if id, ok := identity.FromContext(ctx); ok && id.StaffID != "" {
		return id.StaffID
	}
	return fallback
}

func isNotFound(err error) bool {
	_, ok := apperrors.IsNotFoundError(err)
	return ok
}

func newOrderNumber(now time.Time) string {
	id := ulid.Make().String()
	return "ORD-" + now.Format("20060102") + "-" + id[len(id)-6:]
}

func assignItemIDs(o *domain.Order) {
	for i := range o.Items {
		o.Items[i].ID = uuid.Must(uuid.NewV7()).String()
		o.Items[i].OrderID = o.ID
	}
}

func productIDs(items []dto.OrderItemInput) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return ids
}

func itemField(i int) string {
	return fmt.Sprintf("items[%d].productId", i)
}
