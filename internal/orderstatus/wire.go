package orderstatus

import (
	"database/sql"

	"go.uber.org/zap"

	"kasir/internal/infrastructure/mysql"
	"kasir/internal/orderstatus/controller"
	"kasir/internal/orderstatus/repository"
	"kasir/internal/orderstatus/service"
	tenantrepo "kasir/internal/tenant/repository"
)

type Module struct {
	Service    *service.OrderStatusService
	Controller *controller.OrderStatusController
}

func NewModule(db *sql.DB, txManager *mysql.TxManager, logger *zap.Logger) *Module {
	repo := repository.NewMySQLOrderStatusRepository(db)
	tenants := tenantrepo.NewMySQLTenantRepository(db)

	svc := service.NewOrderStatusService(repo, txManager, tenants, logger)
	return &Module{
		Service:    svc,
		Controller: controller.NewOrderStatusController(svc, logger),
	}
}
