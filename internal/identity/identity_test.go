package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiddleware_SetsIdentity(t *testing.T) {
	var got Identity
	var ok bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderTenantID, "t-1")
	req.Header.Set(HeaderStaffID, "s-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, ok)
	assert.Equal(t, Identity{TenantID: "t-1", StaffID: "s-1"}, got)
}

func TestMiddleware_Anonymous(t *testing.T) {
	var ok bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = FromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, ok)
}

func TestAllowsTenant(t *testing.T) {
	assert.True(t, AllowsTenant(context.Background(), "t-1"))

	ctx := WithIdentity(context.Background(), Identity{TenantID: "t-1"})
	assert.True(t, AllowsTenant(ctx, "t-1"))
	assert.False(t, AllowsTenant(ctx, "t-2"))

	staffOnly := WithIdentity(context.Background(), Identity{StaffID: "s-1"})
	assert.True(t, AllowsTenant(staffOnly, "t-2"))
}

