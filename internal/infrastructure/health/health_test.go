package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker_Status(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantComps  map[string]string
	}{
		{
			name:       "без проверок",
			checks:     nil,
			wantStatus: StatusHealthy,
			wantComps:  nil,
		},
		{
			name: "все компоненты здоровы",
			checks: map[string]CheckFunc{
				"database": func(context.Context) error { return nil },
			},
			wantStatus: StatusHealthy,
			wantComps:  map[string]string{"database": StatusHealthy},
		},
		{
			name: "один компонент недоступен",
			checks: map[string]CheckFunc{
				"database": func(context.Context) error { return errors.New("connection refused") },
				"spotify":  func(context.Context) error { return nil },
			},
			wantStatus: StatusUnhealthy,
			wantComps:  map[string]string{"database": StatusUnhealthy, "spotify": StatusHealthy},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker("1.0.0", zap.NewNop())
			for name, check := range tt.checks {
				c.Register(name, check)
			}

			status := c.Status(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantComps, status.Components)
			assert.Equal(t, "1.0.0", status.Version)
			assert.Equal(t, tt.wantStatus == StatusHealthy, status.Healthy())
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "8s", formatDuration(8*time.Second+300*time.Millisecond))
	assert.Equal(t, "0s", formatDuration(0))
}
