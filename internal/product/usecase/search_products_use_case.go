package usecase

import (
	"context"
	"slices"

	"kasir/internal/domain"
	"kasir/internal/dto"
)

type Service interface {
	GetProductsByIDsAndTenant(ctx context.Context, ids []string, tenantID string) (found []domain.Product, notFoundIDs []string, err error)
}

type SearchUseCase struct {
	service Service
}

func NewSearchUseCase(service Service) *SearchUseCase {
	return &SearchUseCase{service: service}
}

// SearchProducts resolves the ids a cashier is about to put on an order.
// Products come back in request order so the client can zip them with its lines.
func (uc *SearchUseCase) SearchProducts(ctx context.Context, tenantID string, req dto.SearchProductsRequest) (*dto.SearchProductsResponse, error) {
	found, notFoundIDs, err := uc.service.GetProductsByIDsAndTenant(ctx, req.ProductIDs, tenantID)
	if err != nil {
		return nil, err
	}

	position := make(map[string]int, len(req.ProductIDs))
	for i, id := range req.ProductIDs {
		if _, ok := position[id]; !ok {
			position[id] = i
		}
	}
	slices.SortStableFunc(found, func(a, b domain.Product) int {
		return position[a.ID] - position[b.ID]
	})

	resp := &dto.SearchProductsResponse{
		Products: make([]dto.ProductDTO, len(found)),
		NotFound: []string{},
	}
	for i, p := range found {
		resp.Products[i] = dto.ProductDTO{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			IsActive: p.IsActive,
			Sellable: p.Sellable(),
		}
	}
	if len(notFoundIDs) > 0 {
		resp.NotFound = notFoundIDs
	}

	return resp, nil
}
