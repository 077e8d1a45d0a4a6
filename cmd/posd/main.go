package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/jcoffer921/jay-donuts-od/internal/app"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	level := log.InfoLevel
	if v := os.Getenv("POS_LOG_LEVEL"); v != "" {
		if parsed, err := log.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	log.SetLevel(level)
}

// readConfig формирует конфигурацию приложения, позволяя переопределить
// настройки через переменные окружения.
func readConfig() app.Config {
	cfg := app.DefaultConfig()
	if v := os.Getenv("POS_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("POS_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("POS_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("POS_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("POS_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("POS_SEED_MENU"); v != "" {
		cfg.SeedMenu = v == "1" || v == "true"
	}
	return cfg
}

func main() {
	setupLogger()
	cfg := readConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      cfg.StorageDriver,
	}).Info("запускаем сервис точки продаж")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("сервис остановлен")
}
