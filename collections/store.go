package collections

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// ErrSnapshotNotFound is returned when no project has been saved under a key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SaveSnapshot upserts the raw project document stored under key.
func SaveSnapshot(app *pocketbase.PocketBase, key string, data []byte) error {
	record, err := app.FindFirstRecordByData("project_snapshots", "key", key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("find snapshot %q: %w", key, err)
		}
		col, err := app.FindCollectionByNameOrId("project_snapshots")
		if err != nil {
			return fmt.Errorf("collection not found: %w", err)
		}
		record = core.NewRecord(col)
		record.Set("key", key)
	}

	record.Set("data", types.JSONRaw(data))
	if err := app.Save(record); err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

// LoadSnapshot returns the raw project document stored under key.
func LoadSnapshot(app *pocketbase.PocketBase, key string) ([]byte, error) {
	record, err := app.FindFirstRecordByData("project_snapshots", "key", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("find snapshot %q: %w", key, err)
	}

	raw, ok := record.Get("data").(types.JSONRaw)
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, ErrSnapshotNotFound
	}
	return []byte(raw), nil
}

// DeleteSnapshot removes the document stored under key. Deleting a missing
// snapshot is not an error.
func DeleteSnapshot(app *pocketbase.PocketBase, key string) error {
	record, err := app.FindFirstRecordByData("project_snapshots", "key", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("find snapshot %q: %w", key, err)
	}
	return app.Delete(record)
}

// ExportEntry is one row of the proposal export history.
type ExportEntry struct {
	Filename     string
	ProjectName  string
	Format       string
	Currency     string
	ExchangeRate float64
	GrandTotal   float64
	RoomCount    int
}

// RecordExport appends an entry to the export history.
func RecordExport(app *pocketbase.PocketBase, entry ExportEntry) error {
	col, err := app.FindCollectionByNameOrId("proposal_exports")
	if err != nil {
		return fmt.Errorf("collection not found: %w", err)
	}

	r := core.NewRecord(col)
	r.Set("filename", entry.Filename)
	r.Set("project_name", entry.ProjectName)
	r.Set("format", entry.Format)
	r.Set("currency", entry.Currency)
	r.Set("exchange_rate", entry.ExchangeRate)
	r.Set("grand_total", entry.GrandTotal)
	r.Set("room_count", entry.RoomCount)
	if err := app.Save(r); err != nil {
		return fmt.Errorf("save export entry: %w", err)
	}
	return nil
}

// RecentExports returns up to limit history entries, newest first.
func RecentExports(app *pocketbase.PocketBase, limit int) ([]ExportEntry, error) {
	records, err := app.FindRecordsByFilter("proposal_exports", "id != ''", "-created", limit, 0)
	if err != nil {
		return nil, fmt.Errorf("query exports: %w", err)
	}

	entries := make([]ExportEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, ExportEntry{
			Filename:     r.GetString("filename"),
			ProjectName:  r.GetString("project_name"),
			Format:       r.GetString("format"),
			Currency:     r.GetString("currency"),
			ExchangeRate: r.GetFloat("exchange_rate"),
			GrandTotal:   r.GetFloat("grand_total"),
			RoomCount:    r.GetInt("room_count"),
		})
	}
	return entries, nil
}
