// Package main запускает обработчик как AWS Lambda Function URL.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
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

	// Компоненты создаются один раз на контейнер и переживают вызовы
	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to create application", zap.Error(err))
	}

	lambda.Start(application.Handler.HandleFunctionURL)
}
