package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqproposal/collections"
	"boqproposal/services"
)

// HandleSnapshotSave returns a handler that stores the posted project as the
// saved project. The document is normalized before it is stored.
func HandleSnapshotSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, err := readProject(e)
		if err != nil {
			return proposalError(e, "snapshot_save", err)
		}

		data, err := services.EncodeSnapshot(p)
		if err != nil {
			return proposalError(e, "snapshot_save", err)
		}

		if err := collections.SaveSnapshot(app, services.SnapshotKey, data); err != nil {
			log.Printf("snapshot_save: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{"message": "Failed to save project"})
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleSnapshotLoad returns a handler that responds with the saved project.
func HandleSnapshotLoad(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		raw, err := collections.LoadSnapshot(app, services.SnapshotKey)
		if errors.Is(err, collections.ErrSnapshotNotFound) {
			return e.JSON(http.StatusNotFound, map[string]any{"message": "No saved project"})
		}
		if err != nil {
			log.Printf("snapshot_load: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{"message": "Failed to load project"})
		}

		p, err := services.DecodeSnapshot(raw)
		if err != nil {
			log.Printf("snapshot_load: stored project is unreadable: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{"message": "Saved project is corrupt"})
		}
		return e.JSON(http.StatusOK, p)
	}
}

// HandleSnapshotDelete returns a handler that clears the saved project.
func HandleSnapshotDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := collections.DeleteSnapshot(app, services.SnapshotKey); err != nil {
			log.Printf("snapshot_delete: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{"message": "Failed to delete project"})
		}
		return e.NoContent(http.StatusNoContent)
	}
}
