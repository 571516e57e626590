package httpx

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "kasir/internal/errors"
	"kasir/internal/identity"
)

// TenantID returns the {tenantId} path parameter after checking that the
// caller may act on that tenant.
func TenantID(r *http.Request) (string, error) {
	tenantID := strings.TrimSpace(chi.URLParam(r, "tenantId"))
	if tenantID == "" {
		return "", apperrors.NewValidationError("invalid tenantId", apperrors.ValidationDetail{
			Field:   "tenantId",
			Message: "tenantId is required",
		})
	}
	if !identity.AllowsTenant(r.Context(), tenantID) {
		return "", apperrors.NewUnauthorizedError(fmt.Sprintf("caller may not act on tenant %s", tenantID))
	}
	return tenantID, nil
}
