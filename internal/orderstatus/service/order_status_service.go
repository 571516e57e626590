package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
	"kasir/internal/orderstatus/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Repository interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.OrderStatus, error)
	FindByCode(ctx context.Context, tenantID, code string) (*domain.OrderStatus, error)
	FindFinal(ctx context.Context, tenantID, excludeID string) (*domain.OrderStatus, error)
	FindConflicts(ctx context.Context, tenantID, code, name, excludeID string) (codeTaken, nameTaken bool, err error)
	ListForTenant(ctx context.Context, tenantID string) ([]domain.OrderStatus, error)
	FindAll(ctx context.Context, tenantID string, f repository.Filter) ([]domain.OrderStatus, int, error)
	Insert(ctx context.Context, s domain.OrderStatus) error
	Update(ctx context.Context, s domain.OrderStatus) error
	UpdateRanks(ctx context.Context, tenantID string, statuses []domain.OrderStatus) error
	Delete(ctx context.Context, tenantID, id string) error
	CountOrdersWithStatus(ctx context.Context, tenantID, code string) (int, error)
}

type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TenantLocker interface {
	LockForUpdate(ctx context.Context, tenantID string) error
}

type CreateInput struct {
	Code     string
	Name     string
	Order    *int
	IsFinal  bool
	IsActive *bool
}

// UpdateInput changes only the fields that are set.
type UpdateInput struct {
	Code     *string
	Name     *string
	Order    *int
	IsFinal  *bool
	IsActive *bool
}

type ReorderItem struct {
	ID    string
	Order int
}

type Page struct {
	Items    []domain.OrderStatus
	Total    int
	Page     int
	PageSize int
}

// OrderStatusService owns the tenant status catalog. Every mutation runs under
// a per-tenant lock and re-sequences the whole catalog to ranks 1..N.
type OrderStatusService struct {
	repo    Repository
	tx      TransactionManager
	tenants TenantLocker
	locks   *tenantLocker
	logger  *zap.Logger
	now     func() time.Time
}

func NewOrderStatusService(repo Repository, tx TransactionManager, tenants TenantLocker, logger *zap.Logger) *OrderStatusService {
	return &OrderStatusService{
		repo:    repo,
		tx:      tx,
		tenants: tenants,
		locks:   newTenantLocker(),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// withTenantLock serializes catalog mutations of one tenant: in process with a
// mutex and across processes with a row lock on the tenant.
func (s *OrderStatusService) withTenantLock(ctx context.Context, tenantID string, fn func(ctx context.Context) error) error {
	unlock := s.locks.Lock(tenantID)
	defer unlock()

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.tenants.LockForUpdate(ctx, tenantID); err != nil {
			return err
		}
		return fn(ctx)
	})
}

func (s *OrderStatusService) Create(ctx context.Context, tenantID string, in CreateInput) (*domain.OrderStatus, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateFields(in.Code, in.Name, in.Order); err != nil {
		return nil, err
	}

	now := s.now()
	status := domain.OrderStatus{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Code:      in.Code,
		Name:      in.Name,
		IsFinal:   in.IsFinal,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.IsActive != nil {
		status.IsActive = *in.IsActive
	}

	err := s.withTenantLock(ctx, tenantID, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, status, ""); err != nil {
			return err
		}

		existing, err := s.repo.ListForTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		status.Order = len(existing) + 1
		if in.Order != nil {
			status.Order = *in.Order
		}

		if err := s.repo.Insert(ctx, status); err != nil {
			return err
		}

		ranked, err := s.resequenceRows(ctx, tenantID, append(existing, status), status.ID)
		if err != nil {
			return err
		}
		status = find(ranked, status.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status created", zap.String("tenantId", tenantID), zap.String("statusCode", status.Code), zap.Int("order", status.Order))
	return &status, nil
}

func (s *OrderStatusService) Update(ctx context.Context, tenantID, id string, in UpdateInput) (*domain.OrderStatus, error) {
	var updated domain.OrderStatus

	err := s.withTenantLock(ctx, tenantID, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}

		next := *current
		if in.Code != nil {
			next.Code = strings.TrimSpace(*in.Code)
		}
		if in.Name != nil {
			next.Name = strings.TrimSpace(*in.Name)
		}
		if in.IsFinal != nil {
			next.IsFinal = *in.IsFinal
		}
		if in.IsActive != nil {
			next.IsActive = *in.IsActive
		}
		if in.Order != nil {
			next.Order = *in.Order
		}
		if err := validateFields(next.Code, next.Name, in.Order); err != nil {
			return err
		}
		if err := s.checkUnique(ctx, next, id); err != nil {
			return err
		}

		if next.Code != current.Code {
			inUse, err := s.repo.CountOrdersWithStatus(ctx, tenantID, current.Code)
			if err != nil {
				return err
			}
			if inUse > 0 {
				return apperrors.NewValidationError("order status is in use", apperrors.ValidationDetail{
					Field:   "code",
					Message: fmt.Sprintf("%d orders reference code %q", inUse, current.Code),
				})
			}
		}

		next.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, next); err != nil {
			return err
		}
		updated = next

		if in.Order == nil || *in.Order == current.Order {
			return nil
		}

		all, err := s.repo.ListForTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		for i := range all {
			if all[i].ID == id {
				all[i].Order = next.Order
			}
		}
		ranked, err := s.resequenceRows(ctx, tenantID, all, id)
		if err != nil {
			return err
		}
		updated = find(ranked, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *OrderStatusService) Delete(ctx context.Context, tenantID, id string) error {
	err := s.withTenantLock(ctx, tenantID, func(ctx context.Context) error {
		status, err := s.repo.FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !s.CanDelete(*status) {
			return apperrors.NewValidationError("final order status cannot be deleted", apperrors.ValidationDetail{
				Field: "isFinal", Message: "unset isFinal before deleting",
			})
		}

		inUse, err := s.repo.CountOrdersWithStatus(ctx, tenantID, status.Code)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return apperrors.NewValidationError("order status is in use", apperrors.ValidationDetail{
				Field:   "id",
				Message: fmt.Sprintf("%d orders reference code %q", inUse, status.Code),
			})
		}

		if err := s.repo.Delete(ctx, tenantID, id); err != nil {
			return err
		}

		remaining, err := s.repo.ListForTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		_, err = s.resequenceRows(ctx, tenantID, remaining)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("order status deleted", zap.String("tenantId", tenantID), zap.String("statusId", id))
	return nil
}

// Reorder assigns the requested ranks and then closes any gaps. Listed
// statuses take precedence at their rank; the rest keep their relative order.
func (s *OrderStatusService) Reorder(ctx context.Context, tenantID string, items []ReorderItem) ([]domain.OrderStatus, error) {
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("items must not be empty", apperrors.ValidationDetail{
			Field: "items", Message: "at least one status is required",
		})
	}
	requested := make(map[string]int, len(items))
	var details []apperrors.ValidationDetail
	for i, item := range items {
		if item.Order < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field: fmt.Sprintf("items[%d].order", i), Message: "order must be at least 1",
			})
		}
		if _, dup := requested[item.ID]; dup {
			details = append(details, apperrors.ValidationDetail{
				Field: fmt.Sprintf("items[%d].id", i), Message: "id must not be duplicated",
			})
		}
		requested[item.ID] = item.Order
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	var ranked []domain.OrderStatus
	err := s.withTenantLock(ctx, tenantID, func(ctx context.Context) error {
		all, err := s.repo.ListForTenant(ctx, tenantID)
		if err != nil {
			return err
		}

		moved := make([]string, 0, len(requested))
		for i := range all {
			if order, ok := requested[all[i].ID]; ok {
				all[i].Order = order
				moved = append(moved, all[i].ID)
			}
		}
		if len(moved) != len(requested) {
			return apperrors.NewNotFoundError("one or more order statuses not found")
		}

		ranked, err = s.resequenceRows(ctx, tenantID, all, moved...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

func (s *OrderStatusService) FindByID(ctx context.Context, tenantID, id string) (*domain.OrderStatus, error) {
	return s.repo.FindByID(ctx, tenantID, id)
}

func (s *OrderStatusService) FindByCode(ctx context.Context, tenantID, code string) (*domain.OrderStatus, error) {
	return s.repo.FindByCode(ctx, tenantID, code)
}

func (s *OrderStatusService) FindAll(ctx context.Context, tenantID string, f repository.Filter) (*Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}

	items, total, err := s.repo.FindAll(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// CanDelete reports whether the status may be removed from the catalog.
func (s *OrderStatusService) CanDelete(status domain.OrderStatus) bool {
	return status.CanDelete()
}

func (s *OrderStatusService) checkUnique(ctx context.Context, status domain.OrderStatus, excludeID string) error {
	codeTaken, nameTaken, err := s.repo.FindConflicts(ctx, status.TenantID, status.Code, status.Name, excludeID)
	if err != nil {
		return err
	}

	var details []apperrors.ValidationDetail
	if codeTaken {
		details = append(details, apperrors.ValidationDetail{Field: "code", Message: "code already exists"})
	}
	if nameTaken {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name already exists"})
	}
	if status.IsFinal {
		final, err := s.repo.FindFinal(ctx, status.TenantID, excludeID)
		if err != nil {
			return err
		}
		if final != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   "isFinal",
				Message: fmt.Sprintf("status %q is already final", final.Code),
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("order status conflicts with the catalog", details...)
	}
	return nil
}

func (s *OrderStatusService) resequenceRows(ctx context.Context, tenantID string, rows []domain.OrderStatus, pinnedIDs ...string) ([]domain.OrderStatus, error) {
	previous := make(map[string]int, len(rows))
	for _, r := range rows {
		previous[r.ID] = r.Order
	}
	pinned := make(map[string]bool, len(pinnedIDs))
	for _, id := range pinnedIDs {
		pinned[id] = true
	}

	ranked := domain.ResequenceStatuses(rows, pinnedIDs...)

	// Pinned rows carry a requested rank rather than the stored one, so they are always rewritten.
	var changed []domain.OrderStatus
	for _, r := range ranked {
		if pinned[r.ID] || previous[r.ID] != r.Order {
			changed = append(changed, r)
		}
	}
	if err := s.repo.UpdateRanks(ctx, tenantID, changed); err != nil {
		return nil, err
	}

	s.logger.Debug("order statuses resequenced", zap.String("tenantId", tenantID), zap.Int("count", len(ranked)), zap.Int("changed", len(changed)))
	return ranked, nil
}

func validateFields(code, name string, order *int) error {
	var details []apperrors.ValidationDetail
	if code == "" {
		details = append(details, apperrors.ValidationDetail{Field: "code", Message: "code is required"})
	} else if len(code) > 50 {
		details = append(details, apperrors.ValidationDetail{Field: "code", Message: "code must be at most 50 characters"})
	}
	if name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	} else if len(name) > 100 {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name must be at most 100 characters"})
	}
	if order != nil && *order < 1 {
		details = append(details, apperrors.ValidationDetail{Field: "order", Message: "order must be at least 1"})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func find(statuses []domain.OrderStatus, id string) domain.OrderStatus {
	for _, s := range statuses {
		if s.ID == id {
			return s
		}
	}
	return domain.OrderStatus{}
}
