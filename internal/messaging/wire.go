package messaging

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"kasir/internal/config"
	"kasir/internal/infrastructure/mysql"
	"kasir/internal/messaging/controller"
	"kasir/internal/messaging/provider"
	"kasir/internal/messaging/repository"
	"kasir/internal/messaging/service"
)

type Module struct {
	Dispatcher *service.Dispatcher
	Templates  *repository.MySQLTemplateRepository
	Configs    *repository.MySQLConfigRepository
	Settings   *repository.MySQLNotificationSettingsRepository
	Controller *controller.MessagingController
}

func NewModule(db *sql.DB, txManager *mysql.TxManager, cfg config.NotificationConfig, logger *zap.Logger) *Module {
	templateRepo := repository.NewMySQLTemplateRepository(db)
	configRepo := repository.NewMySQLConfigRepository(db)
	logRepo := repository.NewMySQLMessageLogRepository(db)
	settingsRepo := repository.NewMySQLNotificationSettingsRepository(db)

	// The per-call deadline comes from the dispatcher's context timeout.
	registry := provider.NewDefaultRegistry(&http.Client{}, logger)

	dispatcher := service.NewDispatcher(logRepo, configRepo, registry, cfg.ProviderTimeout, logger)
	configSvc := service.NewConfigService(configRepo, txManager, registry, logger)
	templateSvc := service.NewTemplateService(templateRepo)

	return &Module{
		Dispatcher: dispatcher,
		Templates:  templateRepo,
		Configs:    configRepo,
		Settings:   settingsRepo,
		Controller: controller.NewMessagingController(templateSvc, configSvc, dispatcher, logger),
	}
}
