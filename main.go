package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"boqproposal/collections"
	"boqproposal/config"
	"boqproposal/handlers"
	"boqproposal/services"
)

func main() {
	app := pocketbase.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.BindFlags(app.RootCmd.PersistentFlags())

	newExporter := func(dir string) *services.Exporter {
		rates := services.NewHTTPRateProvider(cfg.RatesURL, cfg.RatesTimeout, app.Logger())
		return services.NewExporter(rates, dir, app.Logger())
	}

	app.RootCmd.AddCommand(newExportCommand(app, &cfg, newExporter))

	// Create collections and seed the demo project on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		exp := newExporter(cfg.ExportDir)

		// ── Saved project ────────────────────────────────────────
		se.Router.GET("/api/project/snapshot", handlers.HandleSnapshotLoad(app))
		se.Router.PUT("/api/project/snapshot", handlers.HandleSnapshotSave(app))
		se.Router.DELETE("/api/project/snapshot", handlers.HandleSnapshotDelete(app))

		// ── Proposal pricing & export ────────────────────────────
		se.Router.POST("/api/proposal/totals", handlers.HandleProposalTotals(exp))
		se.Router.POST("/api/proposal/export/excel", handlers.HandleProposalExportExcel(app, exp))
		se.Router.POST("/api/proposal/export/pdf", handlers.HandleProposalExportPDF(app, exp))
		se.Router.GET("/api/proposal/exports", handlers.HandleExportHistory(app))

		// ── BOQ spreadsheet import ───────────────────────────────
		se.Router.GET("/api/boq/template", handlers.HandleBOQTemplate())
		se.Router.POST("/api/boq/import", handlers.HandleBOQImport(app))
		se.Router.POST("/api/boq/import/errors", handlers.HandleBOQErrorReport())

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.String(http.StatusOK, "BOQ proposal service")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// newExportCommand writes the proposal workbook for a project file, or for
// the saved project when no file is given.
func newExportCommand(app *pocketbase.PocketBase, cfg *config.Config, newExporter func(string) *services.Exporter) *cobra.Command {
	var snapshotPath, outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project as a proposal workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if snapshotPath != "" {
				raw, err = os.ReadFile(snapshotPath)
				if err != nil {
					return fmt.Errorf("read snapshot: %w", err)
				}
			} else {
				collections.Setup(app)
				raw, err = collections.LoadSnapshot(app, services.SnapshotKey)
				if err != nil {
					return fmt.Errorf("load saved project: %w", err)
				}
			}

			p, err := services.DecodeSnapshot(raw)
			if err != nil {
				return err
			}

			dir := outDir
			if dir == "" {
				dir = cfg.ExportDir
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("%w: %w", services.ErrWriteFile, err)
			}

			path, err := newExporter(dir).ExportProject(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "project JSON file (defaults to the saved project)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to --exportDir)")
	return cmd
}
