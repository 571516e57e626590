package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"kasir/internal/dto"
	apperrors "kasir/internal/errors"
	"kasir/internal/httpx"
)

const maxSearchIDs = 100

type SearchUseCase interface {
	SearchProducts(ctx context.Context, tenantID string, req dto.SearchProductsRequest) (*dto.SearchProductsResponse, error)
}

type Controller struct {
	useCase SearchUseCase
	logger  *zap.Logger
}

func NewController(useCase SearchUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) HandleSearchProducts(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	tenantID, err := httpx.TenantID(r)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	var req dto.SearchProductsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	if err := c.validateSearchRequest(req); err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	resp, err := c.useCase.SearchProducts(r.Context(), tenantID, req)
	if err != nil {
		httpx.WriteError(w, traceID, err, c.logger)
		return
	}

	resp.TraceID = traceID
	httpx.WriteJSON(w, http.StatusOK, resp, c.logger)
}

func (c *Controller) validateSearchRequest(req dto.SearchProductsRequest) error {
	if len(req.ProductIDs) == 0 {
		return apperrors.NewValidationError("productIds is required", apperrors.ValidationDetail{
			Field:   "productIds",
			Message: "productIds must not be empty",
		})
	}

	if len(req.ProductIDs) > maxSearchIDs {
		msg := "productIds exceeds maximum of 100"
		return apperrors.NewValidationError(msg, apperrors.ValidationDetail{
			Field:   "productIds",
			Message: msg,
		})
	}

	for _, id := range req.ProductIDs {
		if id == "" {
			msg := "each productId must be non-empty"
			return apperrors.NewValidationError(msg, apperrors.ValidationDetail{
				Field:   "productIds",
				Message: msg,
			})
		}
	}

	return nil
}
