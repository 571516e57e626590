package domain

import (
	"sort"
	"strings"
	"time"
)

// OrderStatusCompleted is the status code treated as terminal when the catalog has no row for it.
const OrderStatusCompleted = "completed"

// OrderStatus is one entry of a tenant's order status catalog.
type OrderStatus struct {
	ID        string
	TenantID  string
	Code      string
	Name      string
	Order     int
	IsFinal   bool
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCompleted reports whether the status closes an order.
func (s OrderStatus) IsCompleted() bool {
	return s.IsFinal || strings.EqualFold(s.Code, OrderStatusCompleted) || strings.EqualFold(s.Name, OrderStatusCompleted)
}

func (s OrderStatus) IsCancelled() bool {
	for _, v := range []string{s.Code, s.Name} {
		if strings.EqualFold(v, "cancelled") || strings.EqualFold(v, "canceled") {
			return true
		}
	}
	return false
}

// CanDelete reports whether the status may be removed from the catalog.
func (s OrderStatus) CanDelete() bool {
	return !s.IsFinal
}

// ResequenceStatuses returns the statuses ranked 1..N with no gaps. Pinned
// statuses (the ones just created or moved) land at their requested ranks,
// clamped to the valid range, and win ties against the rest; the others keep
// their relative order, breaking ties by creation time and then id.
func ResequenceStatuses(statuses []OrderStatus, pinnedIDs ...string) []OrderStatus {
	pin := make(map[string]bool, len(pinnedIDs))
	for _, id := range pinnedIDs {
		if id != "" {
			pin[id] = true
		}
	}

	var pinned, others []OrderStatus
	for _, s := range statuses {
		if pin[s.ID] {
			pinned = append(pinned, s)
			delete(pin, s.ID)
			continue
		}
		others = append(others, s)
	}
	sortByRank(pinned)
	sortByRank(others)

	out := make([]OrderStatus, 0, len(statuses))
	for len(pinned) > 0 || len(others) > 0 {
		rank := len(out) + 1
		if len(pinned) > 0 && (pinned[0].Order <= rank || len(others) == 0) {
			out = append(out, pinned[0])
			pinned = pinned[1:]
			continue
		}
		out = append(out, others[0])
		others = others[1:]
	}

	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

func sortByRank(statuses []OrderStatus) {
	sort.SliceStable(statuses, func(i, j int) bool {
		a, b := statuses[i], statuses[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
