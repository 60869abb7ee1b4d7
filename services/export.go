package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Exporter turns a Project into a proposal workbook on disk.
type Exporter struct {
	Rates  RateProvider
	Dir    string
	Logger *slog.Logger
	Now    func() time.Time
}

// NewExporter returns an Exporter writing into dir with the wall clock.
func NewExporter(rates RateProvider, dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{Rates: rates, Dir: dir, Logger: logger, Now: time.Now}
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Prepare fetches rates and prices the project. Rate fetch failures never
// surface here; the provider falls back to its built-in table.
func (e *Exporter) Prepare(ctx context.Context, p Project) (ProposalData, error) {
	var rates Rates
	if e.Rates != nil {
		rates = e.Rates.Rates(ctx)
	} else {
		rates = FallbackRates()
	}
	return BuildProposal(p, rates, e.now())
}

// Render builds the workbook in memory and returns its bytes with the
// suggested file name.
func (e *Exporter) Render(ctx context.Context, p Project) ([]byte, string, error) {
	data, err := e.Prepare(ctx, p)
	if err != nil {
		return nil, "", err
	}
	buf, err := GenerateWorkbook(data)
	if err != nil {
		return nil, "", err
	}
	return buf, ProposalFilename(data.ClientDetails.ProjectName, data.GeneratedOn), nil
}

// RenderPDF builds the one-page proposal summary.
func (e *Exporter) RenderPDF(ctx context.Context, p Project) ([]byte, string, error) {
	data, err := e.Prepare(ctx, p)
	if err != nil {
		return nil, "", err
	}
	buf, err := GenerateSummaryPDF(data)
	if err != nil {
		return nil, "", err
	}
	return buf, SummaryPDFFilename(data), nil
}

// ExportProject writes the workbook into the exporter's directory and returns
// the full path.
func (e *Exporter) ExportProject(ctx context.Context, p Project) (string, error) {
	buf, name, err := e.Render(ctx, p)
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.Dir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWriteFile, path, err)
	}

	e.logger().Info("proposal exported",
		"path", path,
		"currency", string(p.Currency),
		"rooms", countPricedRooms(p.Rooms),
		"bytes", len(buf),
	)
	return path, nil
}

func countPricedRooms(rooms []Room) int {
	n := 0
	for _, r := range rooms {
		if r.HasBOQ() {
			n++
		}
	}
	return n
}
