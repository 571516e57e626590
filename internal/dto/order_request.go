package dto

import "github.com/shopspring/decimal"

// OrderRequest is the body of order create and update calls.
type OrderRequest struct {
	CustomerID         *string            `json:"customerId"`
	DiscountID         *string            `json:"discountId"`
	DiscountName       *string            `json:"discountName"`
	DiscountType       *string            `json:"discountType"`
	DiscountRewardType *string            `json:"discountRewardType"`
	DiscountValue      *decimal.Decimal   `json:"discountValue"`
	DiscountAmount     *decimal.Decimal   `json:"discountAmount"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	TaxAmount          *decimal.Decimal   `json:"taxAmount"`
	TotalAmount        decimal.Decimal    `json:"totalAmount"`
	GrandTotal         decimal.Decimal    `json:"grandTotal"`
	PointUsed          *int               `json:"pointUsed"`
	PaidAmount         decimal.Decimal    `json:"paidAmount"`
	Change             *decimal.Decimal   `json:"change"`
	PaymentMethod      *string            `json:"paymentMethod"`
	PaymentStatus      string             `json:"paymentStatus"`
	OrderStatus        string             `json:"orderStatus"`
	StaffID            string             `json:"staffId"`
	Note               *string            `json:"note"`
	Items              []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Qty          int             `json:"qty"`
}

type UpdateOrderStatusRequest struct {
	StatusCode string `json:"statusCode"`
}

type SearchProductsRequest struct {
	ProductIDs []string `json:"productIds"`
}
