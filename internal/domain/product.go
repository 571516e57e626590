package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string
	TenantID  string
	Name      string
	Price     decimal.Decimal
	IsActive  bool
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sellable reports whether the product may appear on a new or edited order.
func (p Product) Sellable() bool {
	return p.IsActive && !p.IsDeleted
}

type Tenant struct {
	ID                     string
	Name                   string
	Plan                   string
	MaxMonthlyTransactions *int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type Customer struct {
	ID                    string
	TenantID              string
	Name                  string
	Phone                 *string
	Points                int
	LastPointAccumulation *int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// AuditLog is an append-only record of a staff action.
type AuditLog struct {
	ID        string
	TenantID  string
	ActorID   string
	Action    string
	Entity    string
	EntityID  string
	Metadata  map[string]any
	CreatedAt time.Time
}
