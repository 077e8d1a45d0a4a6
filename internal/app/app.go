// Package app собирает зависимости сервиса точки продаж и управляет
// его жизненным циклом.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/jcoffer921/jay-donuts-od/internal/domain"
	healthcheck "github.com/jcoffer921/jay-donuts-od/internal/health"
	"github.com/jcoffer921/jay-donuts-od/internal/metrics"
	"github.com/jcoffer921/jay-donuts-od/internal/service/pos"
	"github.com/jcoffer921/jay-donuts-od/internal/service/rest"
	"github.com/jcoffer921/jay-donuts-od/internal/storage/memory"
	"github.com/jcoffer921/jay-donuts-od/internal/storage/postgres"
	"github.com/jcoffer921/jay-donuts-od/internal/storage/seed"
	"github.com/jcoffer921/jay-donuts-od/internal/storage/sqlite"
	"github.com/jcoffer921/jay-donuts-od/internal/txncode"
	"github.com/jcoffer921/jay-donuts-od/internal/version"
)

// Поддерживаемые драйверы хранилища.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес JSON API.
	HTTPAddr string
	// MetricsAddr — адрес служебного сервера: /metrics, /healthz, /livez.
	MetricsAddr string
	// StorageDriver — sqlite, postgres или memory.
	StorageDriver string
	// SQLitePath — путь к файлу базы для драйвера sqlite.
	SQLitePath string
	// PostgresDSN — строка подключения для драйвера postgres.
	PostgresDSN string
	// SeedMenu включает засев каталога стартовым меню при запуске.
	SeedMenu bool
}

// DefaultConfig возвращает конфигурацию для локального запуска:
// встроенный sqlite-файл рядом с бинарём и засеянное меню.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":8080",
		MetricsAddr:   ":9090",
		StorageDriver: DriverSQLite,
		SQLitePath:    "jaydonuts.db",
		SeedMenu:      true,
	}
}

// storageBundle — выбранный бэкенд хранилища вместе с его репозиториями.
type storageBundle struct {
	menu   domain.MenuItemRepository
	orders domain.OrderRepository
	pinger healthcheck.Pinger
	close  func() error
}

// openStorage открывает хранилище по драйверу из конфигурации и готовит
// схему.
func openStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageBundle, error) {
	switch cfg.StorageDriver {
	case DriverSQLite, "":
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure sqlite schema: %w", err)
		}
		logger.WithField("path", cfg.SQLitePath).Info("sqlite storage ready")

		menu := sqlite.NewMenuItemRepository(store)
		return &storageBundle{
			menu:   menu,
			orders: sqlite.NewOrderRepository(store, menu),
			pinger: store,
			close:  store.Close,
		}, nil

	case DriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		logger.Info("postgres storage ready")

		menu := postgres.NewMenuItemRepository(store)
		return &storageBundle{
			menu:   menu,
			orders: postgres.NewOrderRepository(store, menu),
			pinger: store,
			close:  store.Close,
		}, nil

	case DriverMemory:
		db := memory.NewDatabase()
		logger.Info("in-memory storage ready")
		return &storageBundle{
			menu:   db.MenuItems(),
			orders: db.Orders(),
			close:  func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// Run запускает приложение и блокируется до отмены контекста либо
// фатальной ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	storage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	posMetrics := metrics.NewPOSMetrics()

	if cfg.SeedMenu {
		if err := seed.Apply(ctx, storage.menu); err != nil {
			return fmt.Errorf("seed menu: %w", err)
		}
		items, err := storage.menu.FindAll(ctx)
		if err != nil {
			return fmt.Errorf("count seeded menu: %w", err)
		}
		posMetrics.RecordMenuItemsSeeded(len(items))
		logger.WithField("items", len(items)).Info("menu catalog seeded")
	}

	svc := pos.NewService(
		storage.menu,
		storage.orders,
		txncode.New(),
		posMetrics,
		logger.WithField("layer", "service"),
	)

	mux := http.NewServeMux()
	rest.NewHandler(svc, logger.WithField("layer", "rest")).Register(mux)
	apiHandler := rest.WithRequestID(rest.WithAccessLog(logger.WithField("layer", "rest"), mux))

	healthHandler := healthcheck.NewHandler(version.String())
	if storage.pinger != nil {
		healthHandler.RegisterChecker("storage", healthcheck.NewStorePingChecker("storage", storage.pinger))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: apiHandler}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP API")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает служебный HTTP-сервер с метриками и
// health-check'ами.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("server shutdown with error")
	}
}
