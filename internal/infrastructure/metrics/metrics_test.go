package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(zap.NewNop())

	m.RecordScrape("mystreamcount", true, 120*time.Millisecond)
	m.RecordScrape("mystreamcount", false, time.Second)
	m.RecordScrape("kworb", true, time.Second)
	m.RecordChartAttempt("processing")
	m.RecordChartAttempt("ready")

	if got := testutil.ToFloat64(m.scrapesTotal.WithLabelValues("mystreamcount", "success")); got != 1 {
		t.Errorf("Expected 1 successful mystreamcount scrape, got %v", got)
	}
	if got := testutil.ToFloat64(m.chartAttempts.WithLabelValues("processing")); got != 1 {
		t.Errorf("Expected 1 processing attempt, got %v", got)
	}

	stats := m.GetStats()
	counters := stats["counters"].(map[string]float64)
	if counters["scrapes_total"] != 3 {
		t.Errorf("Expected scrapes_total 3, got %v", counters["scrapes_total"])
	}
	if counters["chart_attempts_total"] != 2 {
		t.Errorf("Expected chart_attempts_total 2, got %v", counters["chart_attempts_total"])
	}
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := NewMetrics(zap.NewNop())
	b := NewMetrics(zap.NewNop())
	a.RecordVideoSearch("invidious", true)

	if got := testutil.ToFloat64(b.videoSearches.WithLabelValues("invidious", "success")); got != 0 {
		t.Errorf("Expected registries to be independent, got %v", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(zap.NewNop())
	m.RecordRequest("", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `streamstats_requests_total{action="health",code="200"} 1`) {
		t.Errorf("Expected requests_total series in output, got:\n%s", body)
	}
}

func TestMetrics_FormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{115556550 * time.Nanosecond, "0.12s"},
		{2*time.Minute + 6*time.Second, "2m6s"},
		{3*time.Hour + 5*time.Minute, "3h5m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
