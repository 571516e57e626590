package service

import (
	"context"
	"fmt"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
)

type Repository interface {
	FindByIDsAndTenant(ctx context.Context, ids []string, tenantID string) ([]domain.Product, error)
}

type ProductService struct {
	repo Repository
}

func NewService(repo Repository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) GetProductsByIDsAndTenant(ctx context.Context, ids []string, tenantID string) ([]domain.Product, []string, error) {
	found, err := s.repo.FindByIDsAndTenant(ctx, ids, tenantID)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[string]struct{}, len(found))
	for _, p := range found {
		foundSet[p.ID] = struct{}{}
	}

	var notFoundIDs []string
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}

// RequireSellable checks that every id is an active product of the tenant.
// fieldFor names the request field reported for the id at index i.
func (s *ProductService) RequireSellable(ctx context.Context, tenantID string, ids []string, fieldFor func(i int) string) error {
	found, err := s.repo.FindByIDsAndTenant(ctx, unique(ids), tenantID)
	if err != nil {
		return err
	}

	byID := make(map[string]domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var details []apperrors.ValidationDetail
	for i, id := range ids {
		p, ok := byID[id]
		switch {
		case !ok:
			details = append(details, apperrors.ValidationDetail{Field: fieldFor(i), Message: fmt.Sprintf("product %s not found", id)})
		case !p.Sellable():
			details = append(details, apperrors.ValidationDetail{Field: fieldFor(i), Message: fmt.Sprintf("product %s is not active", id)})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid order items", details...)
	}
	return nil
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
