// Package audit keeps an append-only trail of staff actions.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kasir/internal/domain"
)

const (
	ActionUpdateOrderStatus = "UPDATE_ORDER_STATUS"
	ActionDeleteOrder       = "DELETE_ORDER"

	EntityOrder = "order"
)

type Repository interface {
	Insert(ctx context.Context, entry domain.AuditLog) error
}

// Entry describes an action to record. ID and CreatedAt are assigned by the Recorder.
type Entry struct {
	TenantID string
	ActorID  string
	Action   string
	Entity   string
	EntityID string
	Metadata map[string]any
}

// Recorder writes audit entries on a best-effort basis: a failed write is
// logged and never interrupts the action being audited.
type Recorder struct {
	repo   Repository
	clock  func() time.Time
	logger *zap.Logger
}

func NewRecorder(repo Repository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, clock: time.Now, logger: logger}
}

func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.clock = now
	return r
}

func (r *Recorder) Record(ctx context.Context, e Entry) {
	entry := domain.AuditLog{
		ID:        uuid.NewString(),
		TenantID:  e.TenantID,
		ActorID:   e.ActorID,
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Metadata:  e.Metadata,
		CreatedAt: r.clock().UTC(),
	}

	if err := r.repo.Insert(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Warn("audit log append failed",
			zap.String("tenantId", e.TenantID),
			zap.String("action", e.Action),
			zap.String("entityId", e.EntityID),
			zap.Error(err),
		)
	}
}
