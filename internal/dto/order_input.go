package dto

import "github.com/shopspring/decimal"

// DiscountInput is the discount snapshot supplied with an order.
type DiscountInput struct {
	ID         string
	Name       string
	Type       string
	RewardType string
	Value      decimal.Decimal
	Amount     decimal.Decimal
}

// OrderInput carries the writable fields of an order into the use case.
// Derived balances are computed there, never taken from the caller.
type OrderInput struct {
	CustomerID    *string
	Discount      *DiscountInput
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	GrandTotal    decimal.Decimal
	PaidAmount    decimal.Decimal
	PointUsed     int
	PaymentMethod *string
	PaymentStatus string
	OrderStatus   string
	StaffID       string
	Note          *string
	Items         []OrderItemInput
}

type OrderItemInput struct {
	ProductID    string
	ProductName  string
	ProductPrice decimal.Decimal
	Qty          int
}
