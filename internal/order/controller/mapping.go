package controller

import (
	"github.com/shopspring/decimal"

	"kasir/internal/domain"
	"kasir/internal/dto"
)

// toOrderInput drops the client's change figure; balances are recomputed
// server side.
func toOrderInput(req dto.OrderRequest) dto.OrderInput {
	in := dto.OrderInput{
		CustomerID:    req.CustomerID,
		Subtotal:      req.Subtotal,
		TaxAmount:     valueOrZero(req.TaxAmount),
		TotalAmount:   req.TotalAmount,
		GrandTotal:    req.GrandTotal,
		PaidAmount:    req.PaidAmount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: req.PaymentStatus,
		OrderStatus:   req.OrderStatus,
		StaffID:       req.StaffID,
		Note:          req.Note,
		Items:         make([]dto.OrderItemInput, len(req.Items)),
	}
	if req.PointUsed != nil {
		in.PointUsed = *req.PointUsed
	}
	if hasDiscount(req) {
		in.Discount = &dto.DiscountInput{
			ID:         deref(req.DiscountID),
			Name:       deref(req.DiscountName),
			Type:       deref(req.DiscountType),
			RewardType: deref(req.DiscountRewardType),
			Value:      valueOrZero(req.DiscountValue),
			Amount:     valueOrZero(req.DiscountAmount),
		}
	}
	for i, item := range req.Items {
		in.Items[i] = dto.OrderItemInput{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Qty:          item.Qty,
		}
	}
	return in
}

func hasDiscount(req dto.OrderRequest) bool {
	return deref(req.DiscountID) != "" || deref(req.DiscountType) != "" ||
		deref(req.DiscountRewardType) != "" || req.DiscountAmount != nil || req.DiscountValue != nil
}

func toOrderResponse(traceID string, o *domain.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		TraceID:          traceID,
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		CustomerID:       o.CustomerID,
		Subtotal:         o.Subtotal,
		TaxAmount:        o.TaxAmount,
		TotalAmount:      o.TotalAmount,
		GrandTotal:       o.GrandTotal,
		PaidAmount:       o.PaidAmount,
		RemainingBalance: o.RemainingBalance,
		Change:           o.Change,
		PointUsed:        o.PointUsed,
		PointsSnapshot:   o.PointsSnapshot,
		PaymentMethod:    o.PaymentMethod,
		PaymentStatus:    string(o.PaymentStatus),
		OrderStatus:      o.OrderStatus,
		StaffID:          o.StaffID,
		Note:             o.Note,
		Items:            make([]dto.OrderItemResponse, len(o.Items)),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	if d := o.Discount; d != nil {
		resp.Discount = &dto.DiscountResponse{
			ID:         d.ID,
			Name:       d.Name,
			Type:       string(d.Type),
			RewardType: string(d.RewardType),
			Value:      d.Value,
			Amount:     d.Amount,
		}
	}
	for i, item := range o.Items {
		resp.Items[i] = dto.OrderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Qty:          item.Qty,
		}
	}
	return resp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
