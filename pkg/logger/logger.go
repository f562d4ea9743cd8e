// Package logger содержит настройку логгера.
package logger

import (
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New создает новый логгер. Вывод в stdout всегда включен,
// файл с ротацией добавляется при LOG_FILE_ENABLED=true.
func New() *zap.Logger {
	return NewWithSyncer(zapcore.AddSync(os.Stdout), fileLoggingEnabled())
}

// NewStderr как New, но пишет в stderr: stdout занят результатом CLI
func NewStderr() *zap.Logger {
	return NewWithSyncer(zapcore.Lock(os.Stderr), fileLoggingEnabled())
}

// NewWithSyncer создает логгер с указанным консольным выводом
func NewWithSyncer(console zapcore.WriteSyncer, withFile bool) *zap.Logger {
	level := getLogLevel()
	encoderConfig := newEncoderConfig()

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), console, level),
	}

	if withFile {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   getLogPath(),
				MaxSize:    100, // MB
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

func newEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return encoderConfig
}

// getLogLevel получает уровень логирования из переменной окружения
func getLogLevel() zapcore.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// fileLoggingEnabled в Lambda файловая система только для чтения, поэтому по умолчанию выключено
func fileLoggingEnabled() bool {
	enabled, err := strconv.ParseBool(os.Getenv("LOG_FILE_ENABLED"))
	return err == nil && enabled
}

// getLogPath получает путь к файлу логов из переменной окружения или использует значение по умолчанию
func getLogPath() string {
	if logPath := os.Getenv("LOG_PATH"); logPath != "" {
		return logPath
	}

	if err := os.MkdirAll("logs", 0755); err == nil {
		return "logs/app.log"
	}

	return "app.log"
}
