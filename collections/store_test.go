package collections_test

import (
	"errors"
	"testing"

	"boqproposal/collections"
	"boqproposal/testhelpers"
)

func TestLoadSnapshot_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	_, err := collections.LoadSnapshot(app, "missing")
	if !errors.Is(err, collections.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestSaveSnapshot_Upserts(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.SaveSnapshot(app, "k", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("first save error: %v", err)
	}
	if err := collections.SaveSnapshot(app, "k", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("second save error: %v", err)
	}

	records, err := app.FindAllRecords("project_snapshots")
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	raw, err := collections.LoadSnapshot(app, "k")
	if err != nil {
		t.Fatalf("LoadSnapshot error: %v", err)
	}
	if string(raw) != `{"v":2}` {
		t.Errorf("data = %s, want {\"v\":2}", raw)
	}
}

func TestDeleteSnapshot(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.SaveSnapshot(app, "k", []byte(`{}`)); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if err := collections.DeleteSnapshot(app, "k"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := collections.LoadSnapshot(app, "k"); !errors.Is(err, collections.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound after delete, got %v", err)
	}
	// Deleting again is a no-op.
	if err := collections.DeleteSnapshot(app, "k"); err != nil {
		t.Errorf("second delete error: %v", err)
	}
}

func TestRecordExport_RecentExports(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	entries := []collections.ExportEntry{
		{Filename: "A_2026-01-01.xlsx", ProjectName: "A", Format: "xlsx", Currency: "USD", ExchangeRate: 1, GrandTotal: 118, RoomCount: 1},
		{Filename: "B_2026-01-02.pdf", ProjectName: "B", Format: "pdf", Currency: "INR", ExchangeRate: 83.5, GrandTotal: 9853, RoomCount: 2},
	}
	for _, e := range entries {
		if err := collections.RecordExport(app, e); err != nil {
			t.Fatalf("RecordExport error: %v", err)
		}
	}

	got, err := collections.RecentExports(app, 10)
	if err != nil {
		t.Fatalf("RecentExports error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	byName := map[string]collections.ExportEntry{}
	for _, e := range got {
		byName[e.Filename] = e
	}
	b, ok := byName["B_2026-01-02.pdf"]
	if !ok {
		t.Fatal("missing entry B")
	}
	if b.Currency != "INR" || b.RoomCount != 2 || b.ExchangeRate != 83.5 {
		t.Errorf("entry B = %+v", b)
	}
}

func TestRecordExport_RejectsUnknownFormat(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	err := collections.RecordExport(app, collections.ExportEntry{Filename: "x.csv", Format: "csv", Currency: "USD"})
	if err == nil {
		t.Error("expected error for unknown format")
	}
}
