package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kasir/internal/config"
	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
	"kasir/internal/messaging/service"
)

type stubSettings struct {
	settings *domain.NotificationSettings
	err      error
}

func (s stubSettings) FindByTenant(ctx context.Context, tenantID string) (*domain.NotificationSettings, error) {
	return s.settings, s.err
}

type stubTemplates struct {
	byID      map[string]domain.MessageTemplate
	defaults  map[domain.MessageEvent]domain.MessageTemplate
	findPanic bool
}

func (s stubTemplates) FindByID(ctx context.Context, tenantID, id string) (*domain.MessageTemplate, error) {
	if s.findPanic {
		panic("boom")
	}
	if tpl, ok := s.byID[id]; ok {
		return &tpl, nil
	}
	return nil, apperrors.NewNotFoundError("template not found")
}

func (s stubTemplates) FindDefaultForEvent(ctx context.Context, tenantID string, event domain.MessageEvent) (*domain.MessageTemplate, error) {
	if tpl, ok := s.defaults[event]; ok {
		return &tpl, nil
	}
	return nil, apperrors.NewNotFoundError("template not found")
}

type stubConfigs struct {
	cfg *domain.MessagingConfig
}

func (s stubConfigs) FindActive(ctx context.Context, tenantID string) (*domain.MessagingConfig, error) {
	if s.cfg == nil {
		return nil, apperrors.NewNotFoundError("no active messaging config")
	}
	return s.cfg, nil
}

type stubCustomers map[string]domain.Customer

func (s stubCustomers) FindByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	if c, ok := s[id]; ok {
		return &c, nil
	}
	return nil, apperrors.NewNotFoundError("customer not found")
}

type stubTenants struct {
	err error
}

func (s stubTenants) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Tenant{ID: id, Name: "Toko Maju"}, nil
}

type stubStatuses map[string]domain.OrderStatus

func (s stubStatuses) FindByCode(ctx context.Context, tenantID, code string) (*domain.OrderStatus, error) {
	if st, ok := s[code]; ok {
		return &st, nil
	}
	return nil, apperrors.NewNotFoundError("status not found")
}

type recordingDispatcher struct {
	requests []service.SendTemplateRequest
	err      error
}

func (d *recordingDispatcher) SendTemplate(ctx context.Context, req service.SendTemplateRequest) (*domain.MessageLog, error) {
	d.requests = append(d.requests, req)
	entry := &domain.MessageLog{ID: "log-1", Event: req.Event, Recipient: req.Recipient}
	if d.err != nil {
		entry.Status = domain.MessageStatusFailed
		return entry, d.err
	}
	entry.Status = domain.MessageStatusSent
	return entry, nil
}

func strPtr(s string) *string { return &s }

type fixture struct {
	src        Sources
	dispatcher *recordingDispatcher
}

func newFixture() *fixture {
	all := map[domain.MessageEvent]domain.EventSetting{}
	for _, ev := range []domain.MessageEvent{
		domain.EventOrderCreated, domain.EventOrderUpdated, domain.EventOrderPaid,
		domain.EventOrderCompleted, domain.EventOrderCancelled,
	} {
		all[ev] = domain.EventSetting{Enabled: true}
	}

	defaults := map[domain.MessageEvent]domain.MessageTemplate{}
	for ev := range all {
		defaults[ev] = domain.MessageTemplate{ID: "sys-" + string(ev), Event: ev, Body: "Hi {{customer_name}}, order {{order_number}} total {{grand_total}} at {{store_name}}"}
	}

	return &fixture{
		src: Sources{
			Settings:  stubSettings{settings: &domain.NotificationSettings{TenantID: "t-1", Events: all}},
			Templates: stubTemplates{defaults: defaults, byID: map[string]domain.MessageTemplate{}},
			Configs:   stubConfigs{cfg: &domain.MessagingConfig{ID: "cfg-1", Provider: "log", IsActive: true}},
			Customers: stubCustomers{"c-1": {ID: "c-1", Name: "Budi", Phone: strPtr("0812-3456-7890")}},
			Tenants:   stubTenants{},
			Statuses: stubStatuses{
				"pending":   {Code: "pending", Name: "Pending"},
				"done":      {Code: "done", Name: "Done", IsFinal: true},
				"cancelled": {Code: "cancelled", Name: "Cancelled"},
			},
		},
		dispatcher: &recordingDispatcher{},
	}
}

func (f *fixture) router() *Router {
	cfg := config.NotificationConfig{CountryCode: "62", MinPhoneLength: 10, CurrencySymbol: "Rp", Locale: "id"}
	return NewRouter(f.src, f.dispatcher, cfg, zap.NewNop())
}

func customerOrder(status string, payment domain.PaymentStatus) domain.Order {
	return domain.Order{
		ID:            "o-1",
		TenantID:      "t-1",
		OrderNumber:   "ORD-20240101-ABC123",
		CustomerID:    strPtr("c-1"),
		OrderStatus:   status,
		PaymentStatus: payment,
		GrandTotal:    decimal.NewFromInt(150000),
	}
}

func TestRouter_SendsPaidNotification(t *testing.T) {
	f := newFixture()
	prev := customerOrder("pending", domain.PaymentStatusUnpaid)
	curr := customerOrder("pending", domain.PaymentStatusPaid)

	res := f.router().HandleOrderChange(context.Background(), "t-1", &prev, curr)

	assert.Equal(t, OutcomeSent, res.Outcome)
	assert.Equal(t, domain.EventOrderPaid, res.Event)
	assert.Equal(t, "log-1", res.MessageLogID)

	require.Len(t, f.dispatcher.requests, 1)
	req := f.dispatcher.requests[0]
	assert.Equal(t, "6281234567890", req.Recipient)
	assert.Equal(t, "sys-ORDER_PAID", req.Template.ID)
	assert.Equal(t, domain.EventOrderPaid, req.Event)
	assert.Equal(t, "Budi", req.Variables["customer_name"])
	assert.Equal(t, "Rp 150.000", req.Variables["grand_total"])
	assert.Equal(t, "Toko Maju", req.Variables["store_name"])
	assert.Equal(t, "Pending", req.Variables["status_name"])
}

func TestRouter_PrefersConfiguredTemplate(t *testing.T) {
	f := newFixture()
	f.src.Settings = stubSettings{settings: &domain.NotificationSettings{Events: map[domain.MessageEvent]domain.EventSetting{
		domain.EventOrderCreated: {Enabled: true, TemplateID: strPtr("custom-1")},
	}}}
	f.src.Templates = stubTemplates{byID: map[string]domain.MessageTemplate{
		"custom-1": {ID: "custom-1", Event: domain.EventOrderCreated, Body: "Halo {{customer_name}}", IsCustom: true},
	}}

	res := f.router().HandleOrderChange(context.Background(), "t-1", nil, customerOrder("pending", domain.PaymentStatusUnpaid))

	assert.Equal(t, OutcomeSent, res.Outcome)
	require.Len(t, f.dispatcher.requests, 1)
	assert.Equal(t, "custom-1", f.dispatcher.requests[0].Template.ID)
}

func TestRouter_Skips(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture, o *domain.Order)
		reason string
	}{
		{"no settings", func(f *fixture, o *domain.Order) {
			f.src.Settings = stubSettings{err: apperrors.NewNotFoundError("settings not found")}
		}, "notifications not configured"},
		{"event disabled", func(f *fixture, o *domain.Order) {
			f.src.Settings = stubSettings{settings: &domain.NotificationSettings{Events: map[domain.MessageEvent]domain.EventSetting{}}}
		}, "event disabled"},
		{"no template", func(f *fixture, o *domain.Order) {
			f.src.Templates = stubTemplates{}
		}, "no template for event"},
		{"no active config", func(f *fixture, o *domain.Order) {
			f.src.Configs = stubConfigs{}
		}, "no active messaging config"},
		{"no customer", func(f *fixture, o *domain.Order) {
			o.CustomerID = nil
		}, "order has no customer"},
		{"customer missing", func(f *fixture, o *domain.Order) {
			o.CustomerID = strPtr("c-404")
		}, "customer not found"},
		{"no phone", func(f *fixture, o *domain.Order) {
			f.src.Customers = stubCustomers{"c-1": {ID: "c-1", Name: "Budi"}}
		}, "customer has no phone"},
		{"invalid phone", func(f *fixture, o *domain.Order) {
			f.src.Customers = stubCustomers{"c-1": {ID: "c-1", Name: "Budi", Phone: strPtr("12-34")}}
		}, "invalid phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			o := customerOrder("pending", domain.PaymentStatusUnpaid)
			tt.mutate(f, &o)

			res := f.router().HandleOrderChange(context.Background(), "t-1", nil, o)

			assert.Equal(t, OutcomeSkipped, res.Outcome)
			assert.Equal(t, tt.reason, res.Reason)
			assert.Empty(t, f.dispatcher.requests)
		})
	}
}

func TestRouter_SettingsErrorFails(t *testing.T) {
	f := newFixture()
	f.src.Settings = stubSettings{err: errors.New("connection refused")}

	res := f.router().HandleOrderChange(context.Background(), "t-1", nil, customerOrder("pending", domain.PaymentStatusUnpaid))

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Contains(t, res.Reason, "connection refused")
}

func TestRouter_SendFailureKeepsLogID(t *testing.T) {
	f := newFixture()
	f.dispatcher.err = apperrors.NewProviderFailureError("log", errors.New("gateway down"))

	res := f.router().HandleOrderChange(context.Background(), "t-1", nil, customerOrder("pending", domain.PaymentStatusUnpaid))

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, "log-1", res.MessageLogID)
	assert.Contains(t, res.Reason, "gateway down")
}

func TestRouter_RecoversPanics(t *testing.T) {
	f := newFixture()
	f.src.Settings = stubSettings{settings: &domain.NotificationSettings{Events: map[domain.MessageEvent]domain.EventSetting{
		domain.EventOrderCreated: {Enabled: true, TemplateID: strPtr("custom-1")},
	}}}
	f.src.Templates = stubTemplates{findPanic: true}

	var res Result
	assert.NotPanics(t, func() {
		res = f.router().HandleOrderChange(context.Background(), "t-1", nil, customerOrder("pending", domain.PaymentStatusUnpaid))
	})
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Contains(t, res.Reason, "panic")
}

func TestRouter_HandleStatusChange(t *testing.T) {
	f := newFixture()
	o := customerOrder("done", domain.PaymentStatusPaid)

	res := f.router().HandleStatusChange(context.Background(), "t-1", o, domain.OrderStatus{Code: "done", Name: "Done", IsFinal: true})

	assert.Equal(t, OutcomeSent, res.Outcome)
	assert.Equal(t, domain.EventOrderCompleted, res.Event)
	require.Len(t, f.dispatcher.requests, 1)
	assert.Equal(t, "Done", f.dispatcher.requests[0].Variables["status_name"])
}

func TestRouter_MissingStatusFallsBackToCode(t *testing.T) {
	f := newFixture()
	prev := customerOrder("pending", domain.PaymentStatusPaid)
	curr := customerOrder("completed", domain.PaymentStatusPaid)

	res := f.router().HandleOrderChange(context.Background(), "t-1", &prev, curr)

	assert.Equal(t, domain.EventOrderCompleted, res.Event)
	require.Len(t, f.dispatcher.requests, 1)
	assert.Equal(t, "completed", f.dispatcher.requests[0].Variables["status_name"])
}
