package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
	"kasir/internal/httpx"
	"kasir/internal/identity"
	"kasir/internal/orderstatus/repository"
	"kasir/internal/orderstatus/service"
)

type mockService struct {
	CreateFunc   func(ctx context.Context, tenantID string, in service.CreateInput) (*domain.OrderStatus, error)
	UpdateFunc   func(ctx context.Context, tenantID, id string, in service.UpdateInput) (*domain.OrderStatus, error)
	DeleteFunc   func(ctx context.Context, tenantID, id string) error
	ReorderFunc  func(ctx context.Context, tenantID string, items []service.ReorderItem) ([]domain.OrderStatus, error)
	FindByIDFunc func(ctx context.Context, tenantID, id string) (*domain.OrderStatus, error)
	FindAllFunc  func(ctx context.Context, tenantID string, f repository.Filter) (*service.Page, error)
}

func (m *mockService) Create(ctx context.Context, tenantID string, in service.CreateInput) (*domain.OrderStatus, error) {
	return m.CreateFunc(ctx, tenantID, in)
}

func (m *mockService) Update(ctx context.Context, tenantID, id string, in service.UpdateInput) (*domain.OrderStatus, error) {
	return m.UpdateFunc(ctx, tenantID, id, in)
}

func (m *mockService) Delete(ctx context.Context, tenantID, id string) error {
	return m.DeleteFunc(ctx, tenantID, id)
}

func (m *mockService) Reorder(ctx context.Context, tenantID string, items []service.ReorderItem) ([]domain.OrderStatus, error) {
	return m.ReorderFunc(ctx, tenantID, items)
}

func (m *mockService) FindByID(ctx context.Context, tenantID, id string) (*domain.OrderStatus, error) {
	return m.FindByIDFunc(ctx, tenantID, id)
}

func (m *mockService) FindAll(ctx context.Context, tenantID string, f repository.Filter) (*service.Page, error) {
	return m.FindAllFunc(ctx, tenantID, f)
}

func newRouter(svc OrderStatusService) http.Handler {
	c := NewOrderStatusController(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Use(identity.Middleware)
	r.Route("/tenants/{tenantId}/order-statuses", func(r chi.Router) {
		r.Get("/", c.List)
		r.Post("/", c.Create)
		r.Put("/reorder", c.Reorder)
		r.Get("/{statusId}", c.Get)
		r.Put("/{statusId}", c.Update)
		r.Delete("/{statusId}", c.Delete)
	})
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(identity.HeaderTenantID, "t-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreate_Success(t *testing.T) {
	var got service.CreateInput
	h := newRouter(&mockService{CreateFunc: func(ctx context.Context, tenantID string, in service.CreateInput) (*domain.OrderStatus, error) {
		assert.Equal(t, "t-1", tenantID)
		got = in
		return &domain.OrderStatus{ID: "s-1", Code: in.Code, Name: in.Name, Order: 2}, nil
	}})

	rec := do(h, http.MethodPost, "/tenants/t-1/order-statuses", `{"code":"packed","name":"Packed","order":2}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "packed", got.Code)
	require.NotNil(t, got.Order)
	assert.Equal(t, 2, *got.Order)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Order)
	assert.True(t, resp.CanDelete)
}

func TestCreate_ValidationError(t *testing.T) {
	h := newRouter(&mockService{CreateFunc: func(ctx context.Context, tenantID string, in service.CreateInput) (*domain.OrderStatus, error) {
		return nil, apperrors.NewValidationError("order status conflicts with the catalog",
			apperrors.ValidationDetail{Field: "isFinal", Message: "status \"completed\" is already final"})
	}})

	rec := do(h, http.MethodPost, "/tenants/t-1/order-statuses", `{"code":"closed","name":"Closed","isFinal":true}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "isFinal", resp.Details[0].Field)
}

func TestCreate_OtherTenant(t *testing.T) {
	h := newRouter(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/tenants/t-2/order-statuses", strings.NewReader(`{}`))
	req.Header.Set(identity.HeaderTenantID, "t-1")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestList_ParsesFilter(t *testing.T) {
	var got repository.Filter
	h := newRouter(&mockService{FindAllFunc: func(ctx context.Context, tenantID string, f repository.Filter) (*service.Page, error) {
		got = f
		return &service.Page{Items: []domain.OrderStatus{{ID: "s-1", Code: "new"}}, Total: 1, Page: 2, PageSize: 5}, nil
	}})

	rec := do(h, http.MethodGet, "/tenants/t-1/order-statuses?isActive=true&search=ne&page=2&pageSize=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.IsActive)
	assert.True(t, *got.IsActive)
	assert.Equal(t, "ne", got.Search)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.PageSize)
}

func TestList_InvalidQuery(t *testing.T) {
	h := newRouter(&mockService{})

	rec := do(h, http.MethodGet, "/tenants/t-1/order-statuses?isActive=maybe&page=0", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Details, 2)
}

func TestDelete_NotFound(t *testing.T) {
	h := newRouter(&mockService{DeleteFunc: func(ctx context.Context, tenantID, id string) error {
		assert.Equal(t, "s-9", id)
		return apperrors.NewNotFoundError("order status s-9 not found")
	}})

	rec := do(h, http.MethodDelete, "/tenants/t-1/order-statuses/s-9", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReorder_MapsItems(t *testing.T) {
	var got []service.ReorderItem
	h := newRouter(&mockService{ReorderFunc: func(ctx context.Context, tenantID string, items []service.ReorderItem) ([]domain.OrderStatus, error) {
		got = items
		return []domain.OrderStatus{{ID: "b", Order: 1}, {ID: "a", Order: 2}}, nil
	}})

	rec := do(h, http.MethodPut, "/tenants/t-1/order-statuses/reorder", `{"items":[{"id":"b","order":1}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []service.ReorderItem{{ID: "b", Order: 1}}, got)
}
