package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kasir/internal/domain"
)

func order(status string, payment domain.PaymentStatus) domain.Order {
	return domain.Order{ID: "o-1", OrderStatus: status, PaymentStatus: payment}
}

func TestSelectEvent(t *testing.T) {
	pending := domain.OrderStatus{Code: "pending", Name: "Pending"}
	done := domain.OrderStatus{Code: "done", Name: "Done", IsFinal: true}
	cancelled := domain.OrderStatus{Code: "cancelled", Name: "Cancelled"}

	unpaid := order("pending", domain.PaymentStatusUnpaid)
	paid := order("pending", domain.PaymentStatusPaid)
	paidDone := order("done", domain.PaymentStatusPaid)

	tests := []struct {
		name       string
		prev       *domain.Order
		prevStatus domain.OrderStatus
		curr       domain.Order
		currStatus domain.OrderStatus
		want       domain.MessageEvent
	}{
		{"new unpaid order", nil, domain.OrderStatus{}, unpaid, pending, domain.EventOrderCreated},
		{"new paid order", nil, domain.OrderStatus{}, paid, pending, domain.EventOrderPaid},
		{"new completed order", nil, domain.OrderStatus{}, paidDone, done, domain.EventOrderCompleted},
		{"unpaid to paid", &unpaid, pending, paid, pending, domain.EventOrderPaid},
		{"completion wins over payment", &unpaid, pending, paidDone, done, domain.EventOrderCompleted},
		{"cancelled", &unpaid, pending, order("cancelled", domain.PaymentStatusUnpaid), cancelled, domain.EventOrderCancelled},
		{"already paid edit", &paid, pending, paid, pending, domain.EventOrderUpdated},
		{"already completed edit", &paidDone, done, paidDone, done, domain.EventOrderUpdated},
		{"plain edit", &unpaid, pending, unpaid, pending, domain.EventOrderUpdated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectEvent(tt.prev, tt.prevStatus, tt.curr, tt.currStatus))
		})
	}
}

func TestStatusEvent(t *testing.T) {
	assert.Equal(t, domain.EventOrderCompleted, StatusEvent(domain.OrderStatus{Code: "completed"}))
	assert.Equal(t, domain.EventOrderCompleted, StatusEvent(domain.OrderStatus{Code: "closed", IsFinal: true}))
	assert.Equal(t, domain.EventOrderCancelled, StatusEvent(domain.OrderStatus{Code: "canceled"}))
	assert.Equal(t, domain.EventOrderUpdated, StatusEvent(domain.OrderStatus{Code: "processing"}))
}
