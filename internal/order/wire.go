package order

import (
	"database/sql"

	"go.uber.org/zap"

	"kasir/internal/audit"
	auditrepo "kasir/internal/audit/repository"
	"kasir/internal/config"
	"kasir/internal/infrastructure/mysql"
	"kasir/internal/loyalty"
	loyaltyrepo "kasir/internal/loyalty/repository"
	"kasir/internal/order/controller"
	"kasir/internal/order/repository"
	"kasir/internal/order/service"
	"kasir/internal/order/usecase"
	"kasir/internal/quota"
	quotarepo "kasir/internal/quota/repository"
	tenantrepo "kasir/internal/tenant/repository"
)

// Collaborators owned by other modules.
type Deps struct {
	Statuses usecase.StatusCatalog
	Products usecase.ProductValidator
	Notifier usecase.Notifier
	Tasks    usecase.TaskRunner
}

type Module struct {
	UseCase    *usecase.OrderUseCase
	Controller *controller.Controller
}

func NewModule(db *sql.DB, txManager *mysql.TxManager, cfg config.OrderConfig, deps Deps, logger *zap.Logger) *Module {
	orderRepo := repository.NewMySQLOrderRepository(db)
	orderItemRepo := repository.NewMySQLOrderItemRepository(db)
	customerRepo := loyaltyrepo.NewMySQLCustomerRepository(db)

	ledger := loyalty.NewLedger(customerRepo, logger)
	orderSvc := service.NewOrderService(txManager, orderRepo, orderItemRepo, ledger, logger)

	guard := quota.NewGuard(
		tenantrepo.NewMySQLTenantRepository(db),
		quotarepo.NewMySQLUsageRepository(db),
		logger,
	)

	uc := usecase.NewOrderUseCase(usecase.Dependencies{
		Orders:   orderSvc,
		Quota:    guard,
		Statuses: deps.Statuses,
		Products: deps.Products,
		Notifier: deps.Notifier,
		Tasks:    deps.Tasks,
		Audit:    audit.NewRecorder(auditrepo.NewMySQLAuditRepository(db), logger),
	}, logger, cfg.MaxRetryAttempts)

	return &Module{
		UseCase:    uc,
		Controller: controller.NewController(uc, logger),
	}
}
