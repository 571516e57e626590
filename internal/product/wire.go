package product

import (
	"database/sql"

	"go.uber.org/zap"

	"kasir/internal/product/controller"
	"kasir/internal/product/repository"
	"kasir/internal/product/service"
	"kasir/internal/product/usecase"
)

type Module struct {
	Service    *service.ProductService
	Controller *controller.Controller
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	svc := service.NewService(repo)
	uc := usecase.NewSearchUseCase(svc)
	return &Module{
		Service:    svc,
		Controller: controller.NewController(uc, logger),
	}
}
