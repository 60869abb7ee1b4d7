// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"

	"boqproposal/collections"
	"boqproposal/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// SampleProject returns a small USD project with one priced room, one room
// with an empty BOQ and one room that has not been generated.
func SampleProject() services.Project {
	margin := 20.0
	return services.Project{
		ClientDetails: services.ClientDetails{
			ClientName:  "Test Client",
			ProjectName: "Test Project",
			PreparedBy:  "Tester",
		},
		Rooms: []services.Room{
			{
				ID:   "room-1",
				Name: "Boardroom",
				LineItems: []services.LineItem{
					{Category: "Display", Description: "75\" display", Brand: "Acme", Model: "D75", Quantity: 1, UnitPrice: 100, TotalPrice: 100},
					{Category: "Audio", Description: "Speaker pair", Brand: "Acme", Model: "S2", Quantity: 2, UnitPrice: 50, TotalPrice: 100, MarginOverride: &margin},
				},
			},
			{ID: "room-2", Name: "Huddle", LineItems: []services.LineItem{}},
			{ID: "room-3", Name: "Lobby"},
		},
		GlobalMargin: 10,
		Branding:     services.DefaultBranding(),
		Currency:     services.CurrencyUSD,
	}
}

// SaveTestSnapshot stores p under services.SnapshotKey.
func SaveTestSnapshot(t *testing.T, app *pocketbase.PocketBase, p services.Project) {
	t.Helper()

	data, err := services.EncodeSnapshot(p)
	if err != nil {
		t.Fatalf("failed to encode snapshot: %v", err)
	}
	if err := collections.SaveSnapshot(app, services.SnapshotKey, data); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}
}
