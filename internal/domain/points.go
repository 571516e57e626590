package domain

// PointAdjustment is a signed change to one customer's loyalty balance.
type PointAdjustment struct {
	CustomerID string
	Delta      int
}

// PointEffects returns the ledger effect of a paid order with a customer:
// spent points are taken first, then point rewards are granted.
func PointEffects(o *Order) []PointAdjustment {
	if o == nil || !o.IsPaid() || !o.HasCustomer() {
		return nil
	}

	var out []PointAdjustment
	if o.PointUsed > 0 {
		out = append(out, PointAdjustment{CustomerID: *o.CustomerID, Delta: -o.PointUsed})
	}
	if reward := o.RewardPoints(); reward > 0 {
		out = append(out, PointAdjustment{CustomerID: *o.CustomerID, Delta: reward})
	}
	return out
}

// ReversePointEffects undoes PointEffects: spent points come back first, then rewards are taken away.
func ReversePointEffects(o *Order) []PointAdjustment {
	effects := PointEffects(o)
	out := make([]PointAdjustment, 0, len(effects))
	for _, adj := range effects {
		out = append(out, PointAdjustment{CustomerID: adj.CustomerID, Delta: -adj.Delta})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// PointPlan computes the ledger adjustments needed to move from prev to next.
// A nil prev is a creation and a nil next is a deletion. For updates the
// previous effect is reversed and the new one applied, netted per customer,
// so re-saving an already paid order is a no-op for the ledger.
func PointPlan(prev, next *Order) []PointAdjustment {
	switch {
	case prev == nil && next == nil:
		return nil
	case prev == nil:
		return PointEffects(next)
	case next == nil:
		return ReversePointEffects(prev)
	}
	return NetPointAdjustments(ReversePointEffects(prev), PointEffects(next))
}

// NetPointAdjustments sums deltas per customer in first-appearance order and drops zeros.
func NetPointAdjustments(groups ...[]PointAdjustment) []PointAdjustment {
	totals := make(map[string]int)
	var order []string
	for _, group := range groups {
		for _, adj := range group {
			if _, seen := totals[adj.CustomerID]; !seen {
				order = append(order, adj.CustomerID)
			}
			totals[adj.CustomerID] += adj.Delta
		}
	}

	var out []PointAdjustment
	for _, id := range order {
		if totals[id] != 0 {
			out = append(out, PointAdjustment{CustomerID: id, Delta: totals[id]})
		}
	}
	return out
}
