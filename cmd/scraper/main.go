// Package main собирает статистику трека из командной строки и печатает JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"streamstats/internal/app"
	"streamstats/internal/config"
	"streamstats/internal/domain/track"
	"streamstats/internal/gateway/scraper"
	"streamstats/internal/model"
	"streamstats/pkg/logger"
)

// Источники флага --source
const (
	sourceMyStreamCount = "mystreamcount"
	sourceChart         = "chart"
	sourceKworb         = "kworb"
)

type options struct {
	trackIDs   []string
	trackURL   string
	source     string
	outputFile string
	delay      float64
	archive    bool
}

// exitError ошибка, которая печатается в stderr как JSON
type exitError struct {
	message string
}

func (e *exitError) Error() string { return e.message }

func main() {
	log := logger.NewStderr()
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, log))
}

// run возвращает код выхода: 0 если все треки обработаны успешно
func run(ctx context.Context, args []string, stdout, stderr io.Writer, log *zap.Logger) int {
	opts, flags, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return printError(stderr, err)
	}

	results, allOK, err := scrape(ctx, opts, flags, log)
	if err != nil {
		return printError(stderr, err)
	}

	var output interface{} = results[0]
	if len(results) > 1 {
		output = results
	}

	if opts.outputFile != "" {
		if err := saveJSON(opts.outputFile, output); err != nil {
			return printError(stderr, err)
		}
		output = withSavedTo(output, opts.outputFile)
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return printError(stderr, err)
	}
	fmt.Fprintln(stdout, string(data))

	if !allOK {
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, *pflag.FlagSet, error) {
	var opts options
	flags := pflag.NewFlagSet("scraper", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringSliceVar(&opts.trackIDs, "track-id", nil, "Spotify track ID to scrape (comma separated for a batch)")
	flags.StringVar(&opts.trackURL, "track-url", "", "MyStreamCount URL to scrape")
	flags.StringVar(&opts.source, "source", sourceMyStreamCount, "data source: mystreamcount, chart or kworb")
	flags.StringVar(&opts.outputFile, "output-file", "", "output file to save results (optional)")
	flags.Float64Var(&opts.delay, "delay", 1.5, "delay between tracks in seconds")
	flags.BoolVar(&opts.archive, "archive", false, "store results in the database archive (requires DB_DSN)")

	if err := flags.Parse(args); err != nil {
		return opts, flags, err
	}

	if len(opts.trackIDs) == 0 && opts.trackURL == "" {
		return opts, flags, &exitError{message: "Either --track-id or --track-url must be provided"}
	}
	if len(opts.trackIDs) == 0 {
		trackID, err := track.ExtractID(opts.trackURL)
		if err != nil {
			return opts, flags, &exitError{message: fmt.Sprintf("Could not extract track ID from URL: %s", opts.trackURL)}
		}
		opts.trackIDs = []string{trackID}
	}

	switch opts.source {
	case sourceMyStreamCount, sourceChart, sourceKworb:
	default:
		return opts, flags, &exitError{message: fmt.Sprintf("Unknown source: %s", opts.source)}
	}
	if opts.delay < 0 {
		return opts, flags, &exitError{message: "--delay must not be negative"}
	}

	return opts, flags, nil
}

func scrape(ctx context.Context, opts options, flags *pflag.FlagSet, log *zap.Logger) ([]interface{}, bool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, false, err
	}
	if flags.Changed("delay") {
		cfg.ScraperConfig.RequestDelay = time.Duration(opts.delay * float64(time.Second))
	}
	if opts.archive {
		cfg.ArchiveEnabled = true
		if err := cfg.Validate(); err != nil {
			return nil, false, err
		}
	}

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Warn("Failed to close application", zap.Error(err))
		}
	}()

	archive := func(source, trackID string, success bool, result interface{}) {
		if application.Archive == nil {
			return
		}
		if err := application.Archive.Archive(ctx, source, trackID, success, result); err != nil {
			log.Warn("Failed to archive result", zap.String("track_id", trackID), zap.Error(err))
		}
	}

	results := make([]interface{}, 0, len(opts.trackIDs))
	allOK := true

	if opts.source == sourceMyStreamCount {
		var records []track.Record
		if len(opts.trackIDs) == 1 {
			records = []track.Record{application.StreamCount.ScrapeTrack(ctx, opts.trackIDs[0])}
		} else {
			records = application.StreamCount.ScrapeMany(ctx, opts.trackIDs)
		}
		for _, rec := range records {
			archive(model.SourceMyStreamCount, rec.TrackID, rec.Success, rec)
			allOK = allOK && rec.Success
			results = append(results, rec)
		}
		return results, allOK, nil
	}

	pacer := scraper.NewPacer(cfg.ScraperConfig.RequestDelay)
	for _, trackID := range opts.trackIDs {
		if len(opts.trackIDs) > 1 {
			if err := pacer.Wait(ctx); err != nil {
				return nil, false, err
			}
		}

		switch opts.source {
		case sourceChart:
			result := application.StreamCount.ChartOnly(ctx, trackID, cfg.ChartConfig.MaxAttempts)
			archive(model.SourceChart, trackID, result.Ready(), result)
			allOK = allOK && result.Ready()
			results = append(results, result)
		case sourceKworb:
			result := application.Kworb.TopCountry(ctx, trackID)
			archive(model.SourceKworb, trackID, result.Success, result)
			allOK = allOK && result.Success
			results = append(results, result)
		}
	}

	return results, allOK, nil
}

func saveJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// withSavedTo добавляет saved_to к объекту результата, не меняя остальные поля
func withSavedTo(v interface{}, path string) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// пакетный результат остается массивом
		return v
	}
	savedTo, _ := json.Marshal(path)
	fields["saved_to"] = savedTo
	return fields
}

func printError(stderr io.Writer, err error) int {
	body := map[string]interface{}{
		"error":   err.Error(),
		"success": false,
	}
	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		body["timestamp"] = track.Timestamp(time.Now())
	}
	data, _ := json.Marshal(body)
	fmt.Fprintln(stderr, string(data))
	return 1
}
