package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/history"
	"payrollguard/preflight/pkg/payroll"
	"payrollguard/preflight/pkg/report"
	"payrollguard/preflight/pkg/rules/engine"
	"payrollguard/preflight/pkg/telemetry/metrics"
)

// Processor runs the preflight check for one inbox file and handles the
// surrounding bookkeeping: output files, file moves, history, metrics.
type Processor struct {
	cfg     *config.Config
	engine  *engine.Engine
	store   history.Storage
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewProcessor creates a processor. store and collector may be nil when
// history or metrics are not wanted.
func NewProcessor(cfg *config.Config, eng *engine.Engine, store history.Storage, collector *metrics.Collector, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:     cfg,
		engine:  eng,
		store:   store,
		metrics: collector,
		logger:  logger.With("component", "watcher.processor"),
	}
}

// ProcessFile checks one payroll file to completion. Processing errors move
// the file to the failed directory and are returned after the bookkeeping
// is done; a RED run result is not an error.
func (p *Processor) ProcessFile(ctx context.Context, path string) error {
	started := time.Now()
	logger := p.logger.With("file", path)
	logger.Info("processing payroll file")

	result, records, err := p.run(path)
	completed := time.Now()

	if err != nil {
		logger.Error("processing failed", "error", err)
		if p.metrics != nil {
			p.metrics.RecordFailure(completed.Sub(started))
		}
		p.recordHistory(ctx, history.NewFailedRunRecord(path, started, completed, err))
		if moveErr := p.moveTo(path, p.cfg.Watch.FailedDir); moveErr != nil {
			logger.Error("moving to failed dir", "error", moveErr)
		}
		return err
	}

	outputDir, err := p.writeOutputs(path, result)
	if err != nil {
		logger.Error("writing outputs", "error", err)
	}

	if p.metrics != nil {
		p.metrics.RecordRun(result, completed.Sub(started), records)
	}
	p.recordHistory(ctx, history.NewRunRecord(path, started, completed, records, result))

	if err := p.moveTo(path, p.cfg.Watch.ProcessedDir); err != nil {
		logger.Error("moving to processed dir", "error", err)
		return err
	}

	logger.Info("payroll file processed",
		"status", result.Status,
		"red", result.RedCount(),
		"yellow", result.YellowCount(),
		"output_dir", outputDir,
	)
	return nil
}

// run loads the inputs and evaluates the engine.
func (p *Processor) run(path string) (*engine.RunResult, int, error) {
	records, columns, err := payroll.LoadPayroll(path)
	if err != nil {
		return nil, 0, fmt.Errorf("loading payroll file: %w", err)
	}

	input := &engine.Input{Records: records, Columns: columns}
	if p.cfg.Watch.HoursFile != "" {
		hours, err := payroll.LoadHours(p.cfg.Watch.HoursFile)
		if err != nil {
			return nil, 0, fmt.Errorf("loading hours file: %w", err)
		}
		input.Hours = hours
	}

	return p.engine.Run(input), len(records), nil
}

// writeOutputs writes the exception CSV and summary into a timestamped
// directory and returns its path.
func (p *Processor) writeOutputs(inputPath string, result *engine.RunResult) (string, error) {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := filepath.Join(p.cfg.Watch.OutputDir,
		fmt.Sprintf("%s_%s", time.Now().Format("20060102T150405"), base))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", dir, err)
	}

	exceptionsPath := filepath.Join(dir, "exceptions.csv")
	if err := report.WriteExceptionsFile(exceptionsPath, result.Findings); err != nil {
		return dir, err
	}

	summaryPath := filepath.Join(dir, "summary.txt")
	f, err := os.Create(summaryPath)
	if err != nil {
		return dir, fmt.Errorf("creating summary %s: %w", summaryPath, err)
	}
	defer f.Close()
	if err := report.WriteSummary(f, result, exceptionsPath); err != nil {
		return dir, err
	}

	return dir, nil
}

// moveTo moves a file into dir, creating it if needed. An existing file
// with the same name gets a timestamp suffix rather than being clobbered.
func (p *Processor) moveTo(path, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	dest := filepath.Join(dir, filepath.Base(path))
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(dest)
		dest = strings.TrimSuffix(dest, ext) + "_" + time.Now().Format("20060102T150405") + ext
	}
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("moving %s to %s: %w", path, dest, err)
	}
	return nil
}

func (p *Processor) recordHistory(ctx context.Context, rec *history.RunRecord) {
	if p.store == nil {
		return
	}
	if err := p.store.Record(ctx, rec); err != nil {
		p.logger.Error("recording run history", "error", err)
	}
}
