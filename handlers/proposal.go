package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqproposal/collections"
	"boqproposal/services"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// readProject decodes the request body as a project document.
func readProject(e *core.RequestEvent) (services.Project, error) {
	body, err := io.ReadAll(http.MaxBytesReader(e.Response, e.Request.Body, collections.SnapshotMaxSize))
	if err != nil {
		return services.Project{}, fmt.Errorf("read body: %w", err)
	}
	return services.DecodeSnapshot(body)
}

// proposalError maps pipeline errors to a JSON response.
func proposalError(e *core.RequestEvent, area string, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidSnapshot):
		return e.JSON(http.StatusBadRequest, map[string]any{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidProject):
		return e.JSON(http.StatusUnprocessableEntity, map[string]any{
			"message": "Project failed validation",
			"errors":  services.ValidationMessages(err),
		})
	case errors.Is(err, services.ErrUnsupportedCurrency), errors.Is(err, services.ErrNonFiniteAmount):
		return e.JSON(http.StatusUnprocessableEntity, map[string]any{"message": err.Error()})
	default:
		log.Printf("%s: %v", area, err)
		return e.JSON(http.StatusInternalServerError, map[string]any{"message": "Failed to build proposal"})
	}
}

// recordExport appends to the export history. Failures are logged only; the
// download has already been produced.
func recordExport(app *pocketbase.PocketBase, data services.ProposalData, filename, format string) {
	err := collections.RecordExport(app, collections.ExportEntry{
		Filename:     filename,
		ProjectName:  data.ClientDetails.ProjectName,
		Format:       format,
		Currency:     string(data.Currency),
		ExchangeRate: data.Rate,
		GrandTotal:   data.Totals.Rounded().GrandTotal,
		RoomCount:    len(data.Totals.Rooms),
	})
	if err != nil {
		log.Printf("export_history: %v", err)
	}
}

func writeAttachment(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(body)
	return err
}

// HandleProposalExportExcel returns a handler that prices the posted project
// and downloads the proposal workbook.
func HandleProposalExportExcel(app *pocketbase.PocketBase, exp *services.Exporter) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := readProject(e)
		if err != nil {
			return proposalError(e, "export_excel", err)
		}

		data, err := exp.Prepare(e.Request.Context(), p)
		if err != nil {
			return proposalError(e, "export_excel", err)
		}

		xlsxBytes, err := services.GenerateWorkbook(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := services.ProposalFilename(data.ClientDetails.ProjectName, data.GeneratedOn)
		recordExport(app, data, filename, "xlsx")
		return writeAttachment(e, contentTypeXLSX, filename, xlsxBytes)
	}
}

// HandleProposalExportPDF returns a handler that downloads the one-page
// proposal summary for the posted project.
func HandleProposalExportPDF(app *pocketbase.PocketBase, exp *services.Exporter) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := readProject(e)
		if err != nil {
			return proposalError(e, "export_pdf", err)
		}

		data, err := exp.Prepare(e.Request.Context(), p)
		if err != nil {
			return proposalError(e, "export_pdf", err)
		}

		pdfBytes, err := services.GenerateSummaryPDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := services.SummaryPDFFilename(data)
		recordExport(app, data, filename, "pdf")
		return writeAttachment(e, contentTypePDF, filename, pdfBytes)
	}
}

// HandleProposalTotals returns a handler that prices the posted project and
// responds with the on-screen totals.
func HandleProposalTotals(exp *services.Exporter) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := readProject(e)
		if err != nil {
			return proposalError(e, "totals", err)
		}

		data, err := exp.Prepare(e.Request.Context(), p)
		if err != nil {
			return proposalError(e, "totals", err)
		}
		return e.JSON(http.StatusOK, newTotalsResponse(data))
	}
}

// HandleExportHistory returns a handler listing the most recent exports.
func HandleExportHistory(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		entries, err := collections.RecentExports(app, 50)
		if err != nil {
			log.Printf("export_history: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{"message": "Failed to load export history"})
		}

		items := make([]exportEntryJSON, 0, len(entries))
		for _, en := range entries {
			items = append(items, exportEntryJSON{
				Filename:     en.Filename,
				ProjectName:  en.ProjectName,
				Format:       en.Format,
				Currency:     en.Currency,
				ExchangeRate: en.ExchangeRate,
				GrandTotal:   en.GrandTotal,
				RoomCount:    en.RoomCount,
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}

type exportEntryJSON struct {
	Filename     string  `json:"filename"`
	ProjectName  string  `json:"projectName"`
	Format       string  `json:"format"`
	Currency     string  `json:"currency"`
	ExchangeRate float64 `json:"exchangeRate"`
	GrandTotal   float64 `json:"grandTotal"`
	RoomCount    int     `json:"roomCount"`
}
