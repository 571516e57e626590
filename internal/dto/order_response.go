package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderResponse struct {
	TraceID          string              `json:"traceId,omitempty"`
	ID               string              `json:"id"`
	OrderNumber      string              `json:"orderNumber"`
	CustomerID       *string             `json:"customerId"`
	Discount         *DiscountResponse   `json:"discount"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	TaxAmount        decimal.Decimal     `json:"taxAmount"`
	TotalAmount      decimal.Decimal     `json:"totalAmount"`
	GrandTotal       decimal.Decimal     `json:"grandTotal"`
	PaidAmount       decimal.Decimal     `json:"paidAmount"`
	RemainingBalance decimal.Decimal     `json:"remainingBalance"`
	Change           decimal.Decimal     `json:"change"`
	PointUsed        int                 `json:"pointUsed"`
	PointsSnapshot   *int                `json:"pointsSnapshot,omitempty"`
	PaymentMethod    *string             `json:"paymentMethod"`
	PaymentStatus    string              `json:"paymentStatus"`
	OrderStatus      string              `json:"orderStatus"`
	StaffID          string              `json:"staffId"`
	Note             *string             `json:"note"`
	Items            []OrderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type DiscountResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	RewardType string          `json:"rewardType"`
	Value      decimal.Decimal `json:"value"`
	Amount     decimal.Decimal `json:"amount"`
}

type OrderItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Qty          int             `json:"qty"`
}

type SearchProductsResponse struct {
	TraceID  string       `json:"traceId"`
	Products []ProductDTO `json:"products"`
	NotFound []string     `json:"notFound"`
}

type ProductDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"isActive"`
	Sellable bool            `json:"sellable"`
}
