// Package main запускает локальный HTTP сервер.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"streamstats/internal/app"
	"streamstats/internal/config"
	"streamstats/pkg/logger"
)

func main() {
	// Инициализация логгера
	log := logger.New()
	defer func() { _ = log.Sync() }()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Создание контекста
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Обработка сигналов
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to create application", zap.Error(err))
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("Failed to close application", zap.Error(err))
		}
	}()

	if err := application.Serve(ctx); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Server stopped successfully")
}
