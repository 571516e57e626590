// Package identity carries the caller's tenant and staff ids through a request.
package identity

import (
	"context"
	"net/http"
	"strings"
)

const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderStaffID  = "X-Staff-ID"
)

type Identity struct {
	TenantID string
	StaffID  string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Middleware reads the identity headers set by the upstream gateway.
// Requests without them pass through anonymously.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := strings.TrimSpace(r.Header.Get(HeaderTenantID))
		staffID := strings.TrimSpace(r.Header.Get(HeaderStaffID))
		if tenantID != "" || staffID != "" {
			r = r.WithContext(WithIdentity(r.Context(), Identity{TenantID: tenantID, StaffID: staffID}))
		}
		next.ServeHTTP(w, r)
	})
}

// AllowsTenant reports whether the caller in ctx may act on tenantID.
// Anonymous callers and callers without a tenant claim are not restricted.
func AllowsTenant(ctx context.Context, tenantID string) bool {
	id, ok := FromContext(ctx)
	if !ok || id.TenantID == "" {
		return true
	}
	return id.TenantID == tenantID
}

