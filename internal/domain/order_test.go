package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestOrder_RecomputeBalances_Underpaid(t *testing.T) {
	o := Order{GrandTotal: decimal.NewFromInt(150000), PaidAmount: decimal.NewFromInt(100000)}

	o.RecomputeBalances()

	assert.True(t, o.RemainingBalance.Equal(decimal.NewFromInt(50000)))
	assert.True(t, o.Change.IsZero())
}

func TestOrder_RecomputeBalances_Overpaid(t *testing.T) {
	o := Order{GrandTotal: decimal.NewFromInt(150000), PaidAmount: decimal.NewFromInt(200000)}

	o.RecomputeBalances()

	assert.True(t, o.RemainingBalance.IsZero())
	assert.True(t, o.Change.Equal(decimal.NewFromInt(50000)))
}

func TestOrder_RecomputeBalances_Exact(t *testing.T) {
	o := Order{GrandTotal: decimal.RequireFromString("99.50"), PaidAmount: decimal.RequireFromString("99.50")}

	o.RecomputeBalances()

	assert.True(t, o.RemainingBalance.IsZero())
	assert.True(t, o.Change.IsZero())
}

func TestOrder_RewardPoints(t *testing.T) {
	tests := []struct {
		name     string
		discount *Discount
		want     int
	}{
		{"no discount", nil, 0},
		{"discount reward", &Discount{RewardType: DiscountRewardDiscount, Amount: decimal.NewFromInt(10)}, 0},
		{"point reward", &Discount{RewardType: DiscountRewardPoint, Amount: decimal.NewFromInt(25)}, 25},
		{"point reward truncated", &Discount{RewardType: DiscountRewardPoint, Amount: decimal.RequireFromString("12.9")}, 12},
		{"negative amount", &Discount{RewardType: DiscountRewardPoint, Amount: decimal.NewFromInt(-3)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Order{Discount: tt.discount}
			assert.Equal(t, tt.want, o.RewardPoints())
		})
	}
}

func TestOrder_HasCustomer(t *testing.T) {
	assert.False(t, Order{}.HasCustomer())
	assert.False(t, Order{CustomerID: strPtr("")}.HasCustomer())
	assert.True(t, Order{CustomerID: strPtr("c-1")}.HasCustomer())
}

func TestOrder_Clone_IsIndependent(t *testing.T) {
	o := Order{
		CustomerID: strPtr("c-1"),
		Discount:   &Discount{Name: "promo"},
		Items:      []OrderItem{{ProductID: "p-1", Qty: 1}},
	}

	c := o.Clone()
	*c.CustomerID = "c-2"
	c.Discount.Name = "other"
	c.Items[0].Qty = 9

	assert.Equal(t, "c-1", *o.CustomerID)
	assert.Equal(t, "promo", o.Discount.Name)
	assert.Equal(t, 1, o.Items[0].Qty)
}

func TestPaymentStatus_Valid(t *testing.T) {
	assert.True(t, PaymentStatusPaid.Valid())
	assert.True(t, PaymentStatusUnpaid.Valid())
	assert.True(t, PaymentStatusPartial.Valid())
	assert.False(t, PaymentStatus("refunded").Valid())
}
