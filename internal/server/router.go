package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"go.uber.org/zap"

	"kasir/internal/identity"
	messagingctrl "kasir/internal/messaging/controller"
	orderctrl "kasir/internal/order/controller"
	orderstatusctrl "kasir/internal/orderstatus/controller"
	productctrl "kasir/internal/product/controller"
)

const serviceName = "kasir"

// Controllers are the HTTP handlers mounted under /api/v1.
type Controllers struct {
	Orders        *orderctrl.Controller
	OrderStatuses *orderstatusctrl.OrderStatusController
	Messaging     *messagingctrl.MessagingController
	Products      *productctrl.Controller
}

func NewRouter(c Controllers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(identity.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1/tenants/{tenantId}", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", c.Orders.HandleCreateOrder)
			r.Get("/{orderId}", c.Orders.HandleGetOrder)
			r.Put("/{orderId}", c.Orders.HandleUpdateOrder)
			r.Delete("/{orderId}", c.Orders.HandleDeleteOrder)
			r.Patch("/{orderId}/status", c.Orders.HandleUpdateOrderStatus)
		})

		r.Route("/order-statuses", func(r chi.Router) {
			r.Get("/", c.OrderStatuses.List)
			r.Post("/", c.OrderStatuses.Create)
			r.Put("/reorder", c.OrderStatuses.Reorder)
			r.Get("/{statusId}", c.OrderStatuses.Get)
			r.Put("/{statusId}", c.OrderStatuses.Update)
			r.Delete("/{statusId}", c.OrderStatuses.Delete)
		})

		r.Route("/messaging", func(r chi.Router) {
			r.Post("/preview", c.Messaging.Preview)
			r.Get("/templates", c.Messaging.ListTemplates)
			r.Post("/templates", c.Messaging.CreateTemplate)
			r.Put("/templates/{templateId}", c.Messaging.UpdateTemplate)
			r.Delete("/templates/{templateId}", c.Messaging.DeleteTemplate)
			r.Post("/configs", c.Messaging.CreateConfig)
			r.Post("/configs/{configId}/activate", c.Messaging.ActivateConfig)
			r.Post("/configs/{configId}/test", c.Messaging.TestConnection)
			r.Post("/logs/{logId}/delivered", c.Messaging.MarkDelivered)
		})

		r.Post("/products/search", c.Products.HandleSearchProducts)
	})

	logger.Info("routes registered", zap.String("prefix", "/api/v1/tenants/{tenantId}"))
	return r
}
