package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kasir/internal/domain"
	"kasir/internal/httpx"
	"kasir/internal/messaging/service"
	"kasir/internal/messaging/template"
)

type TemplateService interface {
	Create(ctx context.Context, tenantID string, in service.CreateTemplateInput) (*domain.MessageTemplate, error)
	Update(ctx context.Context, tenantID, id string, in service.UpdateTemplateInput) (*domain.MessageTemplate, error)
	Delete(ctx context.Context, tenantID, id string) error
	FindAll(ctx context.Context, tenantID string) ([]domain.MessageTemplate, error)
	Preview(ctx context.Context, tenantID string, in service.PreviewInput) (*template.PreviewResult, error)
}

type ConfigService interface {
	Create(ctx context.Context, tenantID string, in service.CreateConfigInput) (*domain.MessagingConfig, error)
	Activate(ctx context.Context, tenantID, configID string) (*domain.MessagingConfig, error)
}

type Dispatcher interface {
	TestConnection(ctx context.Context, tenantID, configID string) (*service.ConnectionResult, error)
	MarkDelivered(ctx context.Context, tenantID, logID, response string) (*domain.MessageLog, error)
}

type MessagingController struct {
	templates  TemplateService
	configs    ConfigService
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewMessagingController(templates TemplateService, configs ConfigService, dispatcher Dispatcher, logger *zap.Logger) *MessagingController {
	return &MessagingController{
		templates:  templates,
		configs:    configs,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

type PreviewRequest struct {
	TemplateID string         `json:"templateId"`
	Body       string         `json:"body"`
	Variables  map[string]any `json:"variables"`
}

type TemplateRequest struct {
	Name     *string `json:"name"`
	Event    string  `json:"event"`
	Body     *string `json:"body"`
	IsCustom bool    `json:"isCustom"`
}

type TemplateResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Event             string    `json:"event"`
	Body              string    `json:"body"`
	IsCustom          bool      `json:"isCustom"`
	Editable          bool      `json:"editable"`
	RequiredVariables []string  `json:"requiredVariables"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type ConfigRequest struct {
	Provider string            `json:"provider"`
	Config   map[string]string `json:"config"`
	Activate bool              `json:"activate"`
}

// ConfigResponse omits the provider settings, which may hold credentials.
type ConfigResponse struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	IsActive  bool      `json:"isActive"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DeliveryReceiptRequest struct {
	Response string `json:"response"`
}

type MessageLogResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Recipient string    `json:"recipient"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toTemplateResponse(t domain.MessageTemplate) TemplateResponse {
	return TemplateResponse{
		ID:                t.ID,
		Name:              t.Name,
		Event:             string(t.Event),
		Body:              t.Body,
		IsCustom:          t.IsCustom,
		Editable:          t.Editable(),
		RequiredVariables: template.RequiredVariables(t.Body),
		UpdatedAt:         t.UpdatedAt,
	}
}

func toConfigResponse(c domain.MessagingConfig) ConfigResponse {
	return ConfigResponse{ID: c.ID, Provider: c.Provider, IsActive: c.IsActive, UpdatedAt: c.UpdatedAt}
}

func (c *MessagingController) Preview(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req PreviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	res, err := c.templates.Preview(r.Context(), tenantID, service.PreviewInput{
		TemplateID: req.TemplateID,
		Body:       req.Body,
		Variables:  req.Variables,
	})
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, res, c.logger)
}

func (c *MessagingController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	templates, err := c.templates.FindAll(r.Context(), tenantID)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	out := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		out[i] = toTemplateResponse(t)
	}
	httpx.WriteJSON(w, http.StatusOK, out, c.logger)
}

func (c *MessagingController) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req TemplateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	in := service.CreateTemplateInput{Event: domain.MessageEvent(req.Event), IsCustom: req.IsCustom}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Body != nil {
		in.Body = *req.Body
	}

	t, err := c.templates.Create(r.Context(), tenantID, in)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toTemplateResponse(*t), c.logger)
}

func (c *MessagingController) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req TemplateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	t, err := c.templates.Update(r.Context(), tenantID, chi.URLParam(r, "templateId"), service.UpdateTemplateInput{
		Name: req.Name,
		Body: req.Body,
	})
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toTemplateResponse(*t), c.logger)
}

func (c *MessagingController) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.templates.Delete(r.Context(), tenantID, chi.URLParam(r, "templateId")); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *MessagingController) CreateConfig(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req ConfigRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	cfg, err := c.configs.Create(r.Context(), tenantID, service.CreateConfigInput{
		Provider: req.Provider,
		Config:   req.Config,
		Activate: req.Activate,
	})
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toConfigResponse(*cfg), c.logger)
}

func (c *MessagingController) ActivateConfig(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	cfg, err := c.configs.Activate(r.Context(), tenantID, chi.URLParam(r, "configId"))
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toConfigResponse(*cfg), c.logger)
}

func (c *MessagingController) TestConnection(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	res, err := c.dispatcher.TestConnection(r.Context(), tenantID, chi.URLParam(r, "configId"))
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, res, c.logger)
}

func (c *MessagingController) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req DeliveryReceiptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	entry, err := c.dispatcher.MarkDelivered(r.Context(), tenantID, chi.URLParam(r, "logId"), req.Response)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MessageLogResponse{
		ID:        entry.ID,
		Status:    string(entry.Status),
		Recipient: entry.Recipient,
		UpdatedAt: entry.UpdatedAt,
	}, c.logger)
}
