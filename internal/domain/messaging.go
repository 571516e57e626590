package domain

import "time"

type MessageEvent string

const (
	EventOrderCreated    MessageEvent = "ORDER_CREATED"
	EventOrderUpdated    MessageEvent = "ORDER_UPDATED"
	EventOrderPaid       MessageEvent = "ORDER_PAID"
	EventOrderCompleted  MessageEvent = "ORDER_COMPLETED"
	EventOrderCancelled  MessageEvent = "ORDER_CANCELLED"
	EventPaymentReminder MessageEvent = "PAYMENT_REMINDER"
	EventCustom          MessageEvent = "CUSTOM"
)

func (e MessageEvent) Valid() bool {
	switch e {
	case EventOrderCreated, EventOrderUpdated, EventOrderPaid, EventOrderCompleted,
		EventOrderCancelled, EventPaymentReminder, EventCustom:
		return true
	}
	return false
}

type MessageTemplate struct {
	ID        string
	TenantID  string
	Name      string
	Event     MessageEvent
	Body      string
	IsCustom  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Editable reports whether tenants may change the template. System templates are fixed.
func (t MessageTemplate) Editable() bool {
	return t.IsCustom || t.Event == EventCustom
}

// MessagingConfig holds a tenant's provider selection and its opaque settings.
type MessagingConfig struct {
	ID        string
	TenantID  string
	Provider  string
	Config    map[string]string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusFailed    MessageStatus = "failed"
	MessageStatusDelivered MessageStatus = "delivered"
)

// MessageLog records one delivery attempt.
type MessageLog struct {
	ID               string
	TenantID         string
	TemplateID       *string
	Event            MessageEvent
	Provider         string
	Recipient        string
	Message          string
	Status           MessageStatus
	ProviderResponse *string
	ErrorMessage     *string
	SentAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EventSetting struct {
	Enabled    bool    `json:"enabled"`
	TemplateID *string `json:"templateId,omitempty"`
}

// NotificationSettings is the per-tenant switchboard for event notifications.
type NotificationSettings struct {
	TenantID  string
	Events    map[MessageEvent]EventSetting
	UpdatedAt time.Time
}

func (s NotificationSettings) IsEnabled(event MessageEvent) bool {
	setting, ok := s.Events[event]
	return ok && setting.Enabled
}

// TemplateFor returns the template explicitly chosen for the event, if any.
func (s NotificationSettings) TemplateFor(event MessageEvent) (string, bool) {
	setting, ok := s.Events[event]
	if !ok || setting.TemplateID == nil || *setting.TemplateID == "" {
		return "", false
	}
	return *setting.TemplateID, true
}
