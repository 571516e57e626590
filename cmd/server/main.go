package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kasir/internal/commons"
	"kasir/internal/infrastructure/logger"
	"kasir/internal/infrastructure/mysql"
	"kasir/internal/infrastructure/telemetry"
	"kasir/internal/infrastructure/worker"
	loyaltyrepo "kasir/internal/loyalty/repository"
	"kasir/internal/messaging"
	"kasir/internal/notification"
	"kasir/internal/order"
	"kasir/internal/orderstatus"
	"kasir/internal/product"
	"kasir/internal/server"
	tenantrepo "kasir/internal/tenant/repository"
)

const notificationQueuePerWorker = 64

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "internal/config/config.yaml"
	}

	cfg, err := commons.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Telemetry.ServiceName)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		zapLogger.Fatal("setting up telemetry", zap.Error(err))
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if err := mysql.Migrate(db); err != nil {
		zapLogger.Fatal("migrating database", zap.Error(err))
	}

	txManager := mysql.NewTxManager(db, cfg.Order.TxTimeout)
	pool := worker.NewPool(cfg.Notification.Workers, cfg.Notification.Workers*notificationQueuePerWorker, zapLogger)

	statusModule := orderstatus.NewModule(db, txManager, zapLogger)
	productModule := product.NewModule(db, zapLogger)
	messagingModule := messaging.NewModule(db, txManager, cfg.Notification, zapLogger)

	notifier := notification.NewRouter(notification.Sources{
		Settings:  messagingModule.Settings,
		Templates: messagingModule.Templates,
		Configs:   messagingModule.Configs,
		Customers: loyaltyrepo.NewMySQLCustomerRepository(db),
		Tenants:   tenantrepo.NewMySQLTenantRepository(db),
		Statuses:  statusModule.Service,
	}, messagingModule.Dispatcher, cfg.Notification, zapLogger)

	orderModule := order.NewModule(db, txManager, cfg.Order, order.Deps{
		Statuses: statusModule.Service,
		Products: productModule.Service,
		Notifier: notifier,
		Tasks:    pool,
	}, zapLogger)

	router := server.NewRouter(server.Controllers{
		Orders:        orderModule.Controller,
		OrderStatuses: statusModule.Controller,
		Messaging:     messagingModule.Controller,
		Products:      productModule.Controller,
	}, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}
	if err := pool.Shutdown(ctx); err != nil {
		zapLogger.Error("notification pool did not drain", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		zapLogger.Error("telemetry shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
