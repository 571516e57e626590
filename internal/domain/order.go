package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusPartial:
		return true
	}
	return false
}

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

type DiscountRewardType string

const (
	DiscountRewardDiscount DiscountRewardType = "discount"
	DiscountRewardPoint    DiscountRewardType = "point"
)

// Discount is the snapshot of a discount as it was applied to an order.
type Discount struct {
	ID         string
	Name       string
	Type       DiscountType
	RewardType DiscountRewardType
	Value      decimal.Decimal
	Amount     decimal.Decimal
}

type Order struct {
	ID               string
	TenantID         string
	OrderNumber      string
	CustomerID       *string
	Discount         *Discount
	Subtotal         decimal.Decimal
	TaxAmount        decimal.Decimal
	TotalAmount      decimal.Decimal
	GrandTotal       decimal.Decimal
	PaidAmount       decimal.Decimal
	RemainingBalance decimal.Decimal
	Change           decimal.Decimal
	PointUsed        int
	PaymentMethod    *string
	PaymentStatus    PaymentStatus
	OrderStatus      string
	StaffID          string
	Note             *string
	PointsSnapshot   *int
	Items            []OrderItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type OrderItem struct {
	ID           string
	OrderID      string
	ProductID    string
	ProductName  string
	ProductPrice decimal.Decimal
	Qty          int
}

// RecomputeBalances derives RemainingBalance and Change from GrandTotal and PaidAmount.
func (o *Order) RecomputeBalances() {
	o.RemainingBalance = decimal.Max(o.GrandTotal.Sub(o.PaidAmount), decimal.Zero)
	o.Change = decimal.Max(o.PaidAmount.Sub(o.GrandTotal), decimal.Zero)
}

func (o Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

func (o Order) HasCustomer() bool {
	return o.CustomerID != nil && *o.CustomerID != ""
}

// RewardPoints is the number of loyalty points granted by a point-type discount.
func (o Order) RewardPoints() int {
	if o.Discount == nil || o.Discount.RewardType != DiscountRewardPoint {
		return 0
	}
	if !o.Discount.Amount.IsPositive() {
		return 0
	}
	return int(o.Discount.Amount.IntPart())
}

// Clone returns a deep copy so a pre-mutation snapshot cannot be changed through shared pointers.
func (o Order) Clone() Order {
	out := o
	out.CustomerID = clonePtr(o.CustomerID)
	out.PaymentMethod = clonePtr(o.PaymentMethod)
	out.Note = clonePtr(o.Note)
	out.PointsSnapshot = clonePtr(o.PointsSnapshot)
	if o.Discount != nil {
		d := *o.Discount
		out.Discount = &d
	}
	if o.Items != nil {
		out.Items = make([]OrderItem, len(o.Items))
		copy(out.Items, o.Items)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
