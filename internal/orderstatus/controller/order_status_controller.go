package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
	"kasir/internal/httpx"
	"kasir/internal/orderstatus/repository"
	"kasir/internal/orderstatus/service"
)

type OrderStatusService interface {
	Create(ctx context.Context, tenantID string, in service.CreateInput) (*domain.OrderStatus, error)
	Update(ctx context.Context, tenantID, id string, in service.UpdateInput) (*domain.OrderStatus, error)
	Delete(ctx context.Context, tenantID, id string) error
	Reorder(ctx context.Context, tenantID string, items []service.ReorderItem) ([]domain.OrderStatus, error)
	FindByID(ctx context.Context, tenantID, id string) (*domain.OrderStatus, error)
	FindAll(ctx context.Context, tenantID string, f repository.Filter) (*service.Page, error)
}

type OrderStatusController struct {
	service OrderStatusService
	logger  *zap.Logger
}

func NewOrderStatusController(service OrderStatusService, logger *zap.Logger) *OrderStatusController {
	return &OrderStatusController{
		service: service,
		logger:  logger,
	}
}

type StatusRequest struct {
	Code     *string `json:"code"`
	Name     *string `json:"name"`
	Order    *int    `json:"order"`
	IsFinal  *bool   `json:"isFinal"`
	IsActive *bool   `json:"isActive"`
}

type ReorderRequest struct {
	Items []struct {
		ID    string `json:"id"`
		Order int    `json:"order"`
	} `json:"items"`
}

type StatusResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	IsFinal   bool      `json:"isFinal"`
	IsActive  bool      `json:"isActive"`
	CanDelete bool      `json:"canDelete"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListResponse struct {
	TraceID  string           `json:"traceId"`
	Items    []StatusResponse `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

func toResponse(s domain.OrderStatus) StatusResponse {
	return StatusResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Order:     s.Order,
		IsFinal:   s.IsFinal,
		IsActive:  s.IsActive,
		CanDelete: s.CanDelete(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toResponses(statuses []domain.OrderStatus) []StatusResponse {
	out := make([]StatusResponse, len(statuses))
	for i, s := range statuses {
		out[i] = toResponse(s)
	}
	return out
}

func (c *OrderStatusController) List(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	page, err := c.service.FindAll(r.Context(), tenantID, filter)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ListResponse{
		TraceID:  traceID,
		Items:    toResponses(page.Items),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, c.logger)
}

func (c *OrderStatusController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	status, err := c.service.FindByID(r.Context(), tenantID, chi.URLParam(r, "statusId"))
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(*status), c.logger)
}

func (c *OrderStatusController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req StatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	in := service.CreateInput{Order: req.Order, IsActive: req.IsActive}
	if req.Code != nil {
		in.Code = *req.Code
	}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.IsFinal != nil {
		in.IsFinal = *req.IsFinal
	}

	status, err := c.service.Create(r.Context(), tenantID, in)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toResponse(*status), c.logger)
}

func (c *OrderStatusController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req StatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	status, err := c.service.Update(r.Context(), tenantID, chi.URLParam(r, "statusId"), service.UpdateInput{
		Code:     req.Code,
		Name:     req.Name,
		Order:    req.Order,
		IsFinal:  req.IsFinal,
		IsActive: req.IsActive,
	})
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(*status), c.logger)
}

func (c *OrderStatusController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.service.Delete(r.Context(), tenantID, chi.URLParam(r, "statusId")); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *OrderStatusController) Reorder(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req ReorderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	items := make([]service.ReorderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.ReorderItem{ID: item.ID, Order: item.Order}
	}

	ranked, err := c.service.Reorder(r.Context(), tenantID, items)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponses(ranked), c.logger)
}

func parseFilter(r *http.Request) (repository.Filter, error) {
	q := r.URL.Query()
	f := repository.Filter{Search: q.Get("search")}
	var details []apperrors.ValidationDetail

	if v := q.Get("isActive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{Field: "isActive", Message: "isActive must be true or false"})
		} else {
			f.IsActive = &b
		}
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &f.Page}, {"pageSize", &f.PageSize}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			details = append(details, apperrors.ValidationDetail{Field: p.name, Message: p.name + " must be a positive integer"})
			continue
		}
		*p.dst = n
	}

	if len(details) > 0 {
		return f, apperrors.NewValidationError("validation failed", details...)
	}
	return f, nil
}
