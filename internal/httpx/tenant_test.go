package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	apperrors "kasir/internal/errors"
	"kasir/internal/identity"
)

func resolveTenant(t *testing.T, headerTenant string) (string, error) {
	t.Helper()
	var (
		got string
		err error
	)
	r := chi.NewRouter()
	r.Use(identity.Middleware)
	r.Get("/tenants/{tenantId}", func(w http.ResponseWriter, req *http.Request) {
		got, err = TenantID(req)
	})

	req := httptest.NewRequest(http.MethodGet, "/tenants/t-1", nil)
	if headerTenant != "" {
		req.Header.Set(identity.HeaderTenantID, headerTenant)
	}
	r.ServeHTTP(httptest.NewRecorder(), req)
	return got, err
}

func TestTenantID_Matches(t *testing.T) {
	got, err := resolveTenant(t, "t-1")

	assert.NoError(t, err)
	assert.Equal(t, "t-1", got)
}

func TestTenantID_Anonymous(t *testing.T) {
	got, err := resolveTenant(t, "")

	assert.NoError(t, err)
	assert.Equal(t, "t-1", got)
}

func TestTenantID_Mismatch(t *testing.T) {
	_, err := resolveTenant(t, "t-2")

	_, ok := apperrors.IsUnauthorizedError(err)
	assert.True(t, ok)
}

func TestTenantID_Missing(t *testing.T) {
	_, err := TenantID(httptest.NewRequest(http.MethodGet, "/", nil))

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}
