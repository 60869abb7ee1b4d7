package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func testExporter(dir string, rates RateProvider) (*Exporter, *bytes.Buffer) {
	var logs bytes.Buffer
	return &Exporter{
		Rates:  rates,
		Dir:    dir,
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
		Now:    func() time.Time { return testNow },
	}, &logs
}

func TestExporter_ExportProject(t *testing.T) {
	dir := t.TempDir()
	exp, logs := testExporter(dir, StaticRateProvider{Table: Rates{CurrencyINR: 80}})

	path, err := exp.ExportProject(context.Background(), testProject(CurrencyINR))
	if err != nil {
		t.Fatalf("ExportProject() error = %v", err)
	}

	if want := filepath.Join(dir, "HQ Fit-out_2026-03-14.xlsx"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("written file is not a workbook: %v", err)
	}
	defer f.Close()
	if got := len(f.GetSheetList()); got != 5 {
		t.Errorf("expected 5 sheets, got %d", got)
	}

	if !strings.Contains(logs.String(), "proposal exported") {
		t.Errorf("expected export log line, got %q", logs.String())
	}
}

func TestExporter_WriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "nested")
	exp, _ := testExporter(dir, nil)

	_, err := exp.ExportProject(context.Background(), testProject(CurrencyUSD))
	if !errors.Is(err, ErrWriteFile) {
		t.Fatalf("error = %v, want ErrWriteFile", err)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Error("exporter should not create the directory")
	}
}

func TestExporter_InvalidProjectWritesNothing(t *testing.T) {
	dir := t.TempDir()
	exp, _ := testExporter(dir, nil)

	p := testProject(CurrencyUSD)
	p.GlobalMargin = -1

	if _, err := exp.ExportProject(context.Background(), p); !errors.Is(err, ErrInvalidProject) {
		t.Fatalf("error = %v, want ErrInvalidProject", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files, found %d", len(entries))
	}
}

func TestExporter_RateFetchFailureUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	exp, logs := testExporter(t.TempDir(), nil)
	exp.Rates = NewHTTPRateProvider(srv.URL, time.Second, exp.Logger)

	data, err := exp.Prepare(context.Background(), testProject(CurrencyINR))
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if data.Rate != 83.5 {
		t.Errorf("rate = %v, want fallback 83.5", data.Rate)
	}
	if !strings.Contains(logs.String(), "using fallback rates") {
		t.Errorf("expected fallback warning, got %q", logs.String())
	}
}

func TestExporter_RenderPDF(t *testing.T) {
	exp, _ := testExporter(t.TempDir(), nil)

	buf, name, err := exp.RenderPDF(context.Background(), testProject(CurrencyUSD))
	if err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
	if name != "HQ Fit-out_2026-03-14.pdf" {
		t.Errorf("name = %q", name)
	}
	if !bytes.HasPrefix(buf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestExporter_NilLoggerAndClock(t *testing.T) {
	exp := &Exporter{Dir: t.TempDir()}

	if _, _, err := exp.Render(context.Background(), testProject(CurrencyUSD)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if _, err := exp.ExportProject(context.Background(), testProject(CurrencyUSD)); err != nil {
		t.Fatalf("ExportProject() error = %v", err)
	}
}
