package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqproposal/collections"
	"boqproposal/services"
)

// HandleBOQTemplate downloads the blank BOQ import workbook.
// Route: GET /api/boq/template
func HandleBOQTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateBOQTemplate()
		if err != nil {
			log.Printf("boq_template: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}
		return writeAttachment(e, contentTypeXLSX, "BOQ_Import_Template.xlsx", xlsxBytes)
	}
}

// HandleBOQImport parses an uploaded BOQ spreadsheet. When a roomId form
// value is given and every row is valid, the items replace that room's BOQ
// in the saved project.
// Route: POST /api/boq/import
func HandleBOQImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{"message": "File too large or invalid form data"})
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{"message": "Please select a file to upload"})
		}
		defer file.Close()

		result, err := services.ParseBOQFile(header.Filename, file)
		if err != nil {
			log.Printf("boq_import: %v", err)
			return e.JSON(http.StatusBadRequest, map[string]any{"message": err.Error()})
		}

		roomID := e.Request.FormValue("roomId")
		applied := false
		if roomID != "" && result.ErrorRows == 0 {
			if err := applyImportedBOQ(app, roomID, result.Items); err != nil {
				switch {
				case errors.Is(err, collections.ErrSnapshotNotFound):
					return e.JSON(http.StatusNotFound, map[string]any{"message": "No saved project"})
				case errors.Is(err, services.ErrRoomNotFound):
					return e.JSON(http.StatusNotFound, map[string]any{"message": "Room not found"})
				default:
					log.Printf("boq_import: apply to room %s: %v", roomID, err)
					return e.JSON(http.StatusInternalServerError, map[string]any{"message": "Failed to save imported BOQ"})
				}
			}
			applied = true
		}

		return e.JSON(http.StatusOK, map[string]any{
			"result":  result,
			"applied": applied,
		})
	}
}

func applyImportedBOQ(app *pocketbase.PocketBase, roomID string, items []services.LineItem) error {
	raw, err := collections.LoadSnapshot(app, services.SnapshotKey)
	if err != nil {
		return err
	}
	p, err := services.DecodeSnapshot(raw)
	if err != nil {
		return err
	}

	found := false
	for i := range p.Rooms {
		if p.Rooms[i].ID == roomID {
			p.Rooms[i].SetBOQ(items)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", services.ErrRoomNotFound, roomID)
	}

	data, err := services.EncodeSnapshot(p)
	if err != nil {
		return err
	}
	return collections.SaveSnapshot(app, services.SnapshotKey, data)
}

// HandleBOQErrorReport downloads the posted import errors as a workbook.
// Route: POST /api/boq/import/errors
func HandleBOQErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var importErrors []services.ImportError
		if err := json.NewDecoder(e.Request.Body).Decode(&importErrors); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid error data"})
		}

		xlsxBytes, err := services.GenerateErrorReport(importErrors)
		if err != nil {
			log.Printf("error_report: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate error report")
		}

		filename := fmt.Sprintf("BOQ_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		return writeAttachment(e, contentTypeXLSX, filename, xlsxBytes)
	}
}
