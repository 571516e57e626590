package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kasir/internal/domain"
	"kasir/internal/dto"
	apperrors "kasir/internal/errors"
	"kasir/internal/httpx"
)

type OrderUseCase interface {
	Create(ctx context.Context, tenantID string, in dto.OrderInput) (*domain.Order, error)
	Update(ctx context.Context, tenantID, id string, in dto.OrderInput) (*domain.Order, error)
	Delete(ctx context.Context, tenantID, id string) error
	UpdateStatusByCode(ctx context.Context, tenantID, id, statusCode string) (*domain.Order, error)
	Get(ctx context.Context, tenantID, id string) (*domain.Order, error)
}

type Controller struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewController(useCase OrderUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req dto.OrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	order, err := c.useCase.Create(r.Context(), tenantID, toOrderInput(req))
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toOrderResponse(traceID, order), c.logger)
}

func (c *Controller) HandleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	tenantID, orderID, err := routeIDs(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req dto.OrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	order, err := c.useCase.Update(r.Context(), tenantID, orderID, toOrderInput(req))
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(traceID, order), c.logger)
}

func (c *Controller) HandleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	tenantID, orderID, err := routeIDs(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.useCase.Delete(r.Context(), tenantID, orderID); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	tenantID, orderID, err := routeIDs(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	order, err := c.useCase.Get(r.Context(), tenantID, orderID)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(traceID, order), c.logger)
}

func (c *Controller) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	tenantID, orderID, err := routeIDs(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	order, err := c.useCase.UpdateStatusByCode(r.Context(), tenantID, orderID, req.StatusCode)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(traceID, order), c.logger)
}

func routeIDs(r *http.Request) (string, string, error) {
	tenantID, err := httpx.TenantID(r)
	if err != nil {
		return "", "", err
	}
	orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
	if orderID == "" {
		return "", "", apperrors.NewValidationError("orderId is required", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must not be empty",
		})
	}
	return tenantID, orderID, nil
}
