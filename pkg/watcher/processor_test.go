package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"payrollguard/preflight/pkg/config"
	"payrollguard/preflight/pkg/history"
	"payrollguard/preflight/pkg/rules/engine"
)

const payrollHeader = "employee_id,employee_name,gross_pay,ytd_gross_pay,pay_period_start,pay_period_end,catch_up_contribution,catch_up_type\n"

const cleanRow = "E2,Lee Modest,3000,60000,2024-09-01,2024-09-15,,\n"
const violationRow = "E1,Pat Example,8000,152000,2024-09-01,2024-09-15,5000,Traditional\n"

func testProcessor(t *testing.T, store history.Storage) (*Processor, *config.Config) {
	t.Helper()

	root := t.TempDir()
	cfg := &config.Config{}
	cfg.HCEThreshold.CurrentYear = 2024
	cfg.HCEThreshold.CompensationLimit = decimal.NewFromInt(150000)
	cfg.CatchUp.RothOnlyRiskYear = 2024
	cfg.Rules.RothCatchup.Enabled = true
	cfg.Rules.PotentialHCE.Enabled = true
	config.ApplyDefaults(cfg)
	cfg.Watch.InboxDir = filepath.Join(root, "inbox")
	cfg.Watch.ProcessedDir = filepath.Join(root, "processed")
	cfg.Watch.FailedDir = filepath.Join(root, "failed")
	cfg.Watch.OutputDir = filepath.Join(root, "outputs")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := engine.New(cfg, logger)
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	return NewProcessor(cfg, eng, store, nil, logger), cfg
}

func dropFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestProcessor_ProcessFile(t *testing.T) {
	store := history.NewMemoryStorage()
	p, cfg := testProcessor(t, store)
	path := dropFile(t, cfg.Watch.InboxDir, "payroll.csv", payrollHeader+violationRow+cleanRow)

	if err := p.ProcessFile(context.Background(), path); err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}

	// Input moved to processed.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("input still in inbox (stat err = %v)", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Watch.ProcessedDir, "payroll.csv")); err != nil {
		t.Errorf("input not in processed dir: %v", err)
	}

	// Outputs written into a timestamped directory.
	outDirs, err := os.ReadDir(cfg.Watch.OutputDir)
	if err != nil || len(outDirs) != 1 {
		t.Fatalf("output dirs = %v, err = %v", outDirs, err)
	}
	outDir := filepath.Join(cfg.Watch.OutputDir, outDirs[0].Name())
	exceptions, err := os.ReadFile(filepath.Join(outDir, "exceptions.csv"))
	if err != nil {
		t.Fatalf("reading exceptions.csv: %v", err)
	}
	if !strings.Contains(string(exceptions), "ROTH_ONLY_CATCHUP_HCE") {
		t.Errorf("exceptions.csv missing the violation:\n%s", exceptions)
	}
	summary, err := os.ReadFile(filepath.Join(outDir, "summary.txt"))
	if err != nil {
		t.Fatalf("reading summary.txt: %v", err)
	}
	if !strings.Contains(string(summary), "STATUS: RED") {
		t.Errorf("summary.txt missing status:\n%s", summary)
	}

	// Run recorded in history.
	runs, err := store.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("history.List() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d history records, want 1", len(runs))
	}
	if runs[0].Status != engine.StatusRed || runs[0].Records != 2 {
		t.Errorf("history record = %+v", runs[0])
	}
}

func TestProcessor_ProcessFile_Malformed(t *testing.T) {
	store := history.NewMemoryStorage()
	p, cfg := testProcessor(t, store)
	path := dropFile(t, cfg.Watch.InboxDir, "broken.csv", "employee_id,gross_pay\nE1,100\n")

	if err := p.ProcessFile(context.Background(), path); err == nil {
		t.Fatal("ProcessFile() error = nil for a file missing required columns")
	}

	if _, err := os.Stat(filepath.Join(cfg.Watch.FailedDir, "broken.csv")); err != nil {
		t.Errorf("input not in failed dir: %v", err)
	}

	runs, err := store.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("history.List() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Error == "" {
		t.Errorf("failed run not recorded: %+v", runs)
	}
}

func TestProcessor_MoveTo_AvoidsClobbering(t *testing.T) {
	p, cfg := testProcessor(t, nil)

	first := dropFile(t, cfg.Watch.InboxDir, "payroll.csv", payrollHeader+cleanRow)
	if err := p.moveTo(first, cfg.Watch.ProcessedDir); err != nil {
		t.Fatalf("moveTo() error = %v", err)
	}
	second := dropFile(t, cfg.Watch.InboxDir, "payroll.csv", payrollHeader+cleanRow)
	if err := p.moveTo(second, cfg.Watch.ProcessedDir); err != nil {
		t.Fatalf("moveTo() second error = %v", err)
	}

	entries, err := os.ReadDir(cfg.Watch.ProcessedDir)
	if err != nil {
		t.Fatalf("reading processed dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d files in processed dir, want 2 (no clobbering)", len(entries))
	}
}
