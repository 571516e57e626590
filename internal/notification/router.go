// Package notification turns order changes into tenant notifications.
package notification

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"kasir/internal/config"
	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
	"kasir/internal/messaging/service"
)

const tracerName = "kasir/internal/notification"

type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

type Result struct {
	Event        domain.MessageEvent
	Outcome      Outcome
	Reason       string
	MessageLogID string
}

type SettingsRepository interface {
	FindByTenant(ctx context.Context, tenantID string) (*domain.NotificationSettings, error)
}

type TemplateRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.MessageTemplate, error)
	FindDefaultForEvent(ctx context.Context, tenantID string, event domain.MessageEvent) (*domain.MessageTemplate, error)
}

type ConfigRepository interface {
	FindActive(ctx context.Context, tenantID string) (*domain.MessagingConfig, error)
}

type CustomerRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.Customer, error)
}

type TenantRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
}

type StatusResolver interface {
	FindByCode(ctx context.Context, tenantID, code string) (*domain.OrderStatus, error)
}

type Dispatcher interface {
	SendTemplate(ctx context.Context, req service.SendTemplateRequest) (*domain.MessageLog, error)
}

// Sources groups the lookups the router needs to resolve a notification.
type Sources struct {
	Settings  SettingsRepository
	Templates TemplateRepository
	Configs   ConfigRepository
	Customers CustomerRepository
	Tenants   TenantRepository
	Statuses  StatusResolver
}

type Router struct {
	src        Sources
	dispatcher Dispatcher
	cfg        config.NotificationConfig
	money      *MoneyFormatter
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewRouter(src Sources, dispatcher Dispatcher, cfg config.NotificationConfig, logger *zap.Logger) *Router {
	return &Router{
		src:        src,
		dispatcher: dispatcher,
		cfg:        cfg,
		money:      NewMoneyFormatter(cfg.Locale, cfg.CurrencySymbol),
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// HandleOrderChange notifies about a create (prev == nil) or an update.
// It never returns an error; failures are reported in the Result.
func (r *Router) HandleOrderChange(ctx context.Context, tenantID string, prev *domain.Order, curr domain.Order) (res Result) {
	defer r.recoverInto(tenantID, &res)

	currStatus := r.resolveStatus(ctx, tenantID, curr.OrderStatus)
	var prevStatus domain.OrderStatus
	if prev != nil {
		prevStatus = r.resolveStatus(ctx, tenantID, prev.OrderStatus)
	}

	event := SelectEvent(prev, prevStatus, curr, currStatus)
	return r.route(ctx, tenantID, event, curr, &currStatus)
}

// HandleStatusChange notifies about an explicit status transition.
func (r *Router) HandleStatusChange(ctx context.Context, tenantID string, order domain.Order, status domain.OrderStatus) (res Result) {
	defer r.recoverInto(tenantID, &res)

	return r.route(ctx, tenantID, StatusEvent(status), order, &status)
}

func (r *Router) recoverInto(tenantID string, res *Result) {
	if v := recover(); v != nil {
		r.logger.Error("notification routing panicked", zap.String("tenantId", tenantID), zap.Any("panic", v), zap.Stack("stack"))
		*res = Result{Event: res.Event, Outcome: OutcomeFailed, Reason: fmt.Sprintf("panic: %v", v)}
	}
}

// resolveStatus falls back to a bare code when the catalog row is gone, so
// "completed" and "cancelled" codes still carry their meaning.
func (r *Router) resolveStatus(ctx context.Context, tenantID, code string) domain.OrderStatus {
	status, err := r.src.Statuses.FindByCode(ctx, tenantID, code)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			r.logger.Warn("resolving order status for notification", zap.String("tenantId", tenantID), zap.String("statusCode", code), zap.Error(err))
		}
		return domain.OrderStatus{TenantID: tenantID, Code: code, Name: code}
	}
	return *status
}

func (r *Router) route(ctx context.Context, tenantID string, event domain.MessageEvent, order domain.Order, status *domain.OrderStatus) Result {
	ctx, span := r.tracer.Start(ctx, "NotificationRouter.Route",
		trace.WithAttributes(
			attribute.String("tenant.id", tenantID),
			attribute.String("notification.event", string(event)),
			attribute.String("order.id", order.ID),
		),
	)
	defer span.End()

	res := r.resolveAndSend(ctx, tenantID, event, order, status)

	span.SetAttributes(attribute.String("notification.outcome", string(res.Outcome)))
	if res.Outcome == OutcomeFailed {
		span.SetStatus(codes.Error, res.Reason)
	}

	fields := []zap.Field{
		zap.String("tenantId", tenantID),
		zap.String("orderId", order.ID),
		zap.String("event", string(event)),
		zap.String("outcome", string(res.Outcome)),
		zap.String("reason", res.Reason),
	}
	if res.MessageLogID != "" {
		fields = append(fields, zap.String("messageLogId", res.MessageLogID))
	}
	switch res.Outcome {
	case OutcomeFailed:
		r.logger.Warn("order notification failed", fields...)
	case OutcomeSkipped:
		r.logger.Debug("order notification skipped", fields...)
	default:
		r.logger.Info("order notification sent", fields...)
	}
	return res
}

func (r *Router) resolveAndSend(ctx context.Context, tenantID string, event domain.MessageEvent, order domain.Order, status *domain.OrderStatus) Result {
	skip := func(reason string) Result { return Result{Event: event, Outcome: OutcomeSkipped, Reason: reason} }
	fail := func(err error) Result { return Result{Event: event, Outcome: OutcomeFailed, Reason: err.Error()} }

	settings, err := r.src.Settings.FindByTenant(ctx, tenantID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return skip("notifications not configured")
		}
		return fail(err)
	}
	if !settings.IsEnabled(event) {
		return skip("event disabled")
	}

	tpl, err := r.resolveTemplate(ctx, tenantID, event, settings)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return skip("no template for event")
		}
		return fail(err)
	}

	cfg, err := r.src.Configs.FindActive(ctx, tenantID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return skip("no active messaging config")
		}
		return fail(err)
	}
	if !cfg.IsActive {
		return skip("no active messaging config")
	}

	if !order.HasCustomer() {
		return skip("order has no customer")
	}
	customer, err := r.src.Customers.FindByID(ctx, tenantID, *order.CustomerID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return skip("customer not found")
		}
		return fail(err)
	}
	if customer.Phone == nil {
		return skip("customer has no phone")
	}
	recipient, ok := NormalizePhone(*customer.Phone, r.cfg.CountryCode, r.cfg.MinPhoneLength)
	if !ok {
		return skip("invalid phone")
	}

	entry, err := r.dispatcher.SendTemplate(ctx, service.SendTemplateRequest{
		TenantID:  tenantID,
		Config:    *cfg,
		Template:  *tpl,
		Event:     event,
		Recipient: recipient,
		Variables: r.variables(ctx, tenantID, order, customer, status),
	})
	if err != nil {
		res := fail(err)
		if entry != nil {
			res.MessageLogID = entry.ID
		}
		return res
	}
	return Result{Event: event, Outcome: OutcomeSent, MessageLogID: entry.ID}
}

// resolveTemplate prefers the template chosen in settings and falls back to
// the tenant's system template for the event.
func (r *Router) resolveTemplate(ctx context.Context, tenantID string, event domain.MessageEvent, settings *domain.NotificationSettings) (*domain.MessageTemplate, error) {
	if id, ok := settings.TemplateFor(event); ok {
		tpl, err := r.src.Templates.FindByID(ctx, tenantID, id)
		if err == nil {
			return tpl, nil
		}
		if _, notFound := apperrors.IsNotFoundError(err); !notFound {
			return nil, err
		}
		r.logger.Warn("configured template missing, using default", zap.String("tenantId", tenantID), zap.String("templateId", id))
	}
	return r.src.Templates.FindDefaultForEvent(ctx, tenantID, event)
}

func (r *Router) variables(ctx context.Context, tenantID string, order domain.Order, customer *domain.Customer, status *domain.OrderStatus) map[string]any {
	vars := map[string]any{
		"customer_name":     customer.Name,
		"order_number":      order.OrderNumber,
		"grand_total":       r.money.Format(order.GrandTotal),
		"paid_amount":       r.money.Format(order.PaidAmount),
		"remaining_balance": r.money.Format(order.RemainingBalance),
		"payment_status":    string(order.PaymentStatus),
	}
	if status != nil {
		vars["status_name"] = status.Name
	}
	tenant, err := r.src.Tenants.FindByID(ctx, tenantID)
	if err != nil {
		r.logger.Warn("resolving store name for notification", zap.String("tenantId", tenantID), zap.Error(err))
		return vars
	}
	vars["store_name"] = tenant.Name
	return vars
}
