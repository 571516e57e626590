package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"kasir/internal/domain"
	"kasir/internal/dto"
	apperrors "kasir/internal/errors"
)

var hundred = decimal.NewFromInt(100)

// validateInput collects every problem with in before anything is looked up.
func validateInput(in dto.OrderInput) error {
	var details []apperrors.ValidationDetail
	add := func(field, msg string) {
		details = append(details, apperrors.ValidationDetail{Field: field, Message: msg})
	}

	if len(in.Items) == 0 {
		add("items", "at least one item is required")
	}
	for i, item := range in.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.ProductID) == "" {
			add(prefix+".productId", "must not be empty")
		}
		if strings.TrimSpace(item.ProductName) == "" {
			add(prefix+".productName", "must not be empty")
		}
		if item.ProductPrice.IsNegative() {
			add(prefix+".productPrice", "must not be negative")
		}
		if item.Qty < 1 {
			add(prefix+".qty", "must be at least 1")
		}
	}

	money := []struct {
		field string
		value decimal.Decimal
	}{
		{"subtotal", in.Subtotal},
		{"taxAmount", in.TaxAmount},
		{"totalAmount", in.TotalAmount},
		{"grandTotal", in.GrandTotal},
		{"paidAmount", in.PaidAmount},
	}
	for _, m := range money {
		if m.value.IsNegative() {
			add(m.field, "must not be negative")
		}
	}
	if in.PointUsed < 0 {
		add("pointUsed", "must not be negative")
	}

	if !domain.PaymentStatus(in.PaymentStatus).Valid() {
		add("paymentStatus", "must be one of unpaid, paid, partial")
	}
	if strings.TrimSpace(in.OrderStatus) == "" {
		add("orderStatus", "must not be empty")
	}
	if strings.TrimSpace(in.StaffID) == "" {
		add("staffId", "must not be empty")
	}

	if d := in.Discount; d != nil {
		switch domain.DiscountType(d.Type) {
		case domain.DiscountTypePercentage:
			if d.Value.GreaterThan(hundred) {
				add("discountValue", "percentage must not exceed 100")
			}
		case domain.DiscountTypeFixed, "":
		default:
			add("discountType", "must be percentage or fixed")
		}
		switch domain.DiscountRewardType(d.RewardType) {
		case domain.DiscountRewardDiscount, domain.DiscountRewardPoint, "":
		default:
			add("discountRewardType", "must be discount or point")
		}
		if d.Value.IsNegative() {
			add("discountValue", "must not be negative")
		}
		if d.Amount.IsNegative() {
			add("discountAmount", "must not be negative")
		} else if domain.DiscountRewardType(d.RewardType) == domain.DiscountRewardPoint && !d.Amount.Equal(d.Amount.Truncate(0)) {
			add("discountAmount", "point rewards must be whole numbers")
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid order", details...)
	}
	return nil
}

// buildOrder maps validated input onto a fresh order. Balances are derived
// from grand total and paid amount.
func buildOrder(in dto.OrderInput) domain.Order {
	o := domain.Order{
		CustomerID:    emptyToNil(in.CustomerID),
		Subtotal:      in.Subtotal,
		TaxAmount:     in.TaxAmount,
		TotalAmount:   in.TotalAmount,
		GrandTotal:    in.GrandTotal,
		PaidAmount:    in.PaidAmount,
		PointUsed:     in.PointUsed,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: domain.PaymentStatus(in.PaymentStatus),
		OrderStatus:   strings.TrimSpace(in.OrderStatus),
		StaffID:       strings.TrimSpace(in.StaffID),
		Note:          in.Note,
	}
	if d := in.Discount; d != nil {
		o.Discount = &domain.Discount{
			ID:         d.ID,
			Name:       d.Name,
			Type:       domain.DiscountType(d.Type),
			RewardType: domain.DiscountRewardType(d.RewardType),
			Value:      d.Value,
			Amount:     d.Amount,
		}
	}
	o.Items = make([]domain.OrderItem, len(in.Items))
	for i, item := range in.Items {
		o.Items[i] = domain.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Qty:          item.Qty,
		}
	}
	o.RecomputeBalances()
	return o
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
