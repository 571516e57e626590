package notification

import "kasir/internal/domain"

// SelectEvent picks the event an order change announces. Rules are checked in
// priority order: completion, cancellation, payment, creation, then a plain update.
// prev is nil for a newly created order.
func SelectEvent(prev *domain.Order, prevStatus domain.OrderStatus, curr domain.Order, currStatus domain.OrderStatus) domain.MessageEvent {
	switch {
	case currStatus.IsCompleted() && (prev == nil || !prevStatus.IsCompleted()):
		return domain.EventOrderCompleted
	case currStatus.IsCancelled() && (prev == nil || !prevStatus.IsCancelled()):
		return domain.EventOrderCancelled
	case curr.IsPaid() && (prev == nil || !prev.IsPaid()):
		return domain.EventOrderPaid
	case prev == nil:
		return domain.EventOrderCreated
	default:
		return domain.EventOrderUpdated
	}
}

// StatusEvent maps an explicit status change onto its event.
func StatusEvent(status domain.OrderStatus) domain.MessageEvent {
	switch {
	case status.IsCompleted():
		return domain.EventOrderCompleted
	case status.IsCancelled():
		return domain.EventOrderCancelled
	default:
		return domain.EventOrderUpdated
	}
}
