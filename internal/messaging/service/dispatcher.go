package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
	"kasir/internal/messaging/provider"
	"kasir/internal/messaging/template"
)

const tracerName = "kasir/internal/messaging/service"

type LogRepository interface {
	Insert(ctx context.Context, l domain.MessageLog) error
	UpdateOutcome(ctx context.Context, l domain.MessageLog, expectedStatus domain.MessageStatus) error
	FindByID(ctx context.Context, tenantID, id string) (*domain.MessageLog, error)
}

type ConfigFinder interface {
	FindByID(ctx context.Context, tenantID, id string) (*domain.MessagingConfig, error)
}

type ProviderFactory interface {
	Build(providerType string, config map[string]string) (provider.Provider, error)
}

type SendRequest struct {
	TenantID   string
	Config     domain.MessagingConfig
	TemplateID *string
	Event      domain.MessageEvent
	Recipient  string
	Message    string
}

type SendTemplateRequest struct {
	TenantID string
	Config   domain.MessagingConfig
	Template domain.MessageTemplate
	// Event defaults to the template's event.
	Event     domain.MessageEvent
	Recipient string
	Variables map[string]any
}

type ConnectionResult struct {
	Success  bool   `json:"success"`
	Provider string `json:"provider"`
	Message  string `json:"message"`
}

// Dispatcher delivers rendered messages through the tenant's provider and
// keeps one MessageLog row per attempt.
type Dispatcher struct {
	logs      LogRepository
	configs   ConfigFinder
	providers ProviderFactory
	timeout   time.Duration
	logger    *zap.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewDispatcher(logs LogRepository, configs ConfigFinder, providers ProviderFactory, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		logs:      logs,
		configs:   configs,
		providers: providers,
		timeout:   timeout,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Send records a pending log, calls the provider and stores the outcome.
// A provider failure returns the failed log together with a ProviderFailureError.
func (d *Dispatcher) Send(ctx context.Context, req SendRequest) (*domain.MessageLog, error) {
	return d.deliver(ctx, req, nil)
}

// deliver runs one logged attempt. A non-nil rejected error skips the
// provider call, fails the row with its text and is returned as is.
func (d *Dispatcher) deliver(ctx context.Context, req SendRequest, rejected error) (*domain.MessageLog, error) {
	req.Recipient = strings.TrimSpace(req.Recipient)
	if err := validateSend(req); err != nil {
		return nil, err
	}

	ctx, span := d.tracer.Start(ctx, "Dispatcher.Send",
		trace.WithAttributes(
			attribute.String("tenant.id", req.TenantID),
			attribute.String("messaging.provider", req.Config.Provider),
			attribute.String("messaging.event", string(req.Event)),
		),
	)
	defer span.End()

	now := d.now()
	entry := domain.MessageLog{
		ID:         uuid.NewString(),
		TenantID:   req.TenantID,
		TemplateID: req.TemplateID,
		Event:      req.Event,
		Provider:   req.Config.Provider,
		Recipient:  req.Recipient,
		Message:    req.Message,
		Status:     domain.MessageStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := d.logs.Insert(ctx, entry); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var response string
	sendErr := rejected
	if rejected == nil {
		response, sendErr = d.call(ctx, req)
	}

	// The outcome is written even if the caller's context was cancelled meanwhile.
	entry, err := d.finish(context.WithoutCancel(ctx), entry, response, sendErr)
	span.SetAttributes(attribute.String("messaging.status", string(entry.Status)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return &entry, err
	}

	if sendErr != nil {
		span.SetStatus(codes.Error, sendErr.Error())
		d.logger.Warn("message send failed",
			zap.String("tenantId", req.TenantID),
			zap.String("messageLogId", entry.ID),
			zap.String("provider", req.Config.Provider),
			zap.Error(sendErr),
		)
		if rejected != nil {
			return &entry, rejected
		}
		return &entry, apperrors.NewProviderFailureError(req.Config.Provider, sendErr)
	}

	d.logger.Info("message sent",
		zap.String("tenantId", req.TenantID),
		zap.String("messageLogId", entry.ID),
		zap.String("event", string(req.Event)),
	)
	return &entry, nil
}

func (d *Dispatcher) call(ctx context.Context, req SendRequest) (string, error) {
	p, err := d.providers.Build(req.Config.Provider, req.Config.Config)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	response, err := p.Send(callCtx, req.Recipient, req.Message)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return response, fmt.Errorf("provider timed out after %s: %w", d.timeout, err)
	}
	return response, err
}

func (d *Dispatcher) finish(ctx context.Context, entry domain.MessageLog, response string, sendErr error) (domain.MessageLog, error) {
	event := eventSucceed
	if sendErr != nil {
		event = eventFail
	}
	next, err := transition(ctx, entry.Status, event)
	if err != nil {
		return entry, err
	}

	updated := entry
	updated.Status = next
	updated.UpdatedAt = d.now()
	if response != "" {
		updated.ProviderResponse = &response
	}
	if sendErr != nil {
		msg := sendErr.Error()
		updated.ErrorMessage = &msg
	} else {
		sentAt := updated.UpdatedAt
		updated.SentAt = &sentAt
	}

	if err := d.logs.UpdateOutcome(ctx, updated, entry.Status); err != nil {
		return entry, err
	}
	return updated, nil
}

// SendTemplate renders tpl with the given variables and sends the result.
// Missing variables leave a failed log row naming them and return a
// Validation error without calling the provider.
func (d *Dispatcher) SendTemplate(ctx context.Context, req SendTemplateRequest) (*domain.MessageLog, error) {
	event := req.Event
	if event == "" {
		event = req.Template.Event
	}
	templateID := req.Template.ID
	send := SendRequest{
		TenantID:   req.TenantID,
		Config:     req.Config,
		TemplateID: &templateID,
		Event:      event,
		Recipient:  req.Recipient,
		Message:    template.Render(req.Template.Body, req.Variables),
	}

	check := template.Validate(req.Template.Body, req.Variables)
	if check.Valid {
		return d.Send(ctx, send)
	}

	details := make([]apperrors.ValidationDetail, len(check.MissingVariables))
	for i, name := range check.MissingVariables {
		details[i] = apperrors.ValidationDetail{Field: "variables." + name, Message: "variable is required by the template"}
	}
	reason := fmt.Errorf("template variables missing: %s", strings.Join(check.MissingVariables, ", "))
	entry, err := d.deliver(ctx, send, reason)
	if errors.Is(err, reason) {
		return entry, apperrors.NewValidationError("template variables missing", details...)
	}
	return entry, err
}

// MarkDelivered records a delivery receipt for a sent message.
func (d *Dispatcher) MarkDelivered(ctx context.Context, tenantID, logID, response string) (*domain.MessageLog, error) {
	entry, err := d.logs.FindByID(ctx, tenantID, logID)
	if err != nil {
		return nil, err
	}

	next, err := transition(ctx, entry.Status, eventDeliver)
	if err != nil {
		return nil, err
	}

	updated := *entry
	updated.Status = next
	updated.UpdatedAt = d.now()
	if response != "" {
		updated.ProviderResponse = &response
	}
	if err := d.logs.UpdateOutcome(ctx, updated, entry.Status); err != nil {
		return nil, err
	}
	return &updated, nil
}

// TestConnection probes the provider behind a stored configuration. Provider
// errors are reported in the result rather than returned.
func (d *Dispatcher) TestConnection(ctx context.Context, tenantID, configID string) (*ConnectionResult, error) {
	cfg, err := d.configs.FindByID(ctx, tenantID, configID)
	if err != nil {
		return nil, err
	}

	p, err := d.providers.Build(cfg.Provider, cfg.Config)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := p.TestConnection(callCtx); err != nil {
		d.logger.Info("messaging connection test failed", zap.String("tenantId", tenantID), zap.String("provider", cfg.Provider), zap.Error(err))
		return &ConnectionResult{Success: false, Provider: cfg.Provider, Message: err.Error()}, nil
	}
	return &ConnectionResult{Success: true, Provider: cfg.Provider, Message: "connection ok"}, nil
}

func validateSend(req SendRequest) error {
	var details []apperrors.ValidationDetail
	if req.TenantID == "" {
		details = append(details, apperrors.ValidationDetail{Field: "tenantId", Message: "tenantId is required"})
	}
	if req.Recipient == "" {
		details = append(details, apperrors.ValidationDetail{Field: "recipient", Message: "recipient is required"})
	}
	if strings.TrimSpace(req.Message) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "message", Message: "message must not be empty"})
	}
	if !req.Config.IsActive {
		details = append(details, apperrors.ValidationDetail{Field: "config", Message: "messaging config is not active"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid send request", details...)
	}
	return nil
}
