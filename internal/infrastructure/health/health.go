// Package health собирает состояние компонентов сервиса.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Статусы компонентов
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc проверяет один компонент
type CheckFunc func(ctx context.Context) error

// Status представляет статус здоровья системы
type Status struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

// Healthy сообщает, что все компоненты здоровы
func (s Status) Healthy() bool {
	return s.Status == StatusHealthy
}

// Checker проверяет зарегистрированные компоненты
type Checker struct {
	mu        sync.RWMutex
	checks    map[string]CheckFunc
	version   string
	timeout   time.Duration
	startTime time.Time
	logger    *zap.Logger
}

var _ Reporter = (*Checker)(nil)

// NewChecker создает Checker
func NewChecker(version string, logger *zap.Logger) *Checker {
	return &Checker{
		checks:    make(map[string]CheckFunc),
		version:   version,
		timeout:   5 * time.Second,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Register добавляет проверку компонента
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Status выполняет все проверки параллельно
func (c *Checker) Status(ctx context.Context) Status {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	status := Status{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Uptime:    formatDuration(time.Since(c.startTime)),
		Version:   c.version,
	}
	if len(checks) == 0 {
		return status
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	status.Components = make(map[string]string, len(checks))

	for name, check := range checks {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			result := StatusHealthy
			if err := check(checkCtx); err != nil {
				result = StatusUnhealthy
				c.logger.Warn("Health check failed", zap.String("component", name), zap.Error(err))
			}

			mu.Lock()
			status.Components[name] = result
			if result == StatusUnhealthy {
				status.Status = StatusUnhealthy
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return status
}

// formatDuration форматирует время в читаемый формат (например: 8s)
func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%ds", seconds)
}
