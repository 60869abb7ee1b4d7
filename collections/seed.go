package collections

import (
	"errors"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"boqproposal/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type itemDef struct {
	category    string
	description string
	brand       string
	model       string
	qty         int
	unitPrice   float64
	margin      *float64
}

type roomDef struct {
	name  string
	items []itemDef
}

func pct(v float64) *float64 { return &v }

var demoRooms = []roomDef{
	{
		name: "Boardroom",
		items: []itemDef{
			{"Display", "86\" 4K interactive flat panel", "Samsung", "WM85B", 1, 5200, nil},
			{"Video Conferencing", "All-in-one video bar with auto framing", "Poly", "Studio X70", 1, 6400, pct(12)},
			{"Audio", "Ceiling microphone array", "Shure", "MXA920", 2, 3900, nil},
			{"Control", "Touch panel and control processor", "Crestron", "TSW-1070", 1, 1850, nil},
			{"Cabling", "HDMI 2.1 cable, 5m", "Kramer", "C-HM/HM/PRO-15", 4, 45, pct(25)},
		},
	},
	{
		name: "Huddle Room 1",
		items: []itemDef{
			{"Display", "65\" 4K commercial display", "LG", "65UH5N-E", 1, 1450, nil},
			{"Video Conferencing", "USB video bar", "Logitech", "Rally Bar Mini", 1, 2650, nil},
			{"Wireless Presentation", "BYOD wireless presentation base unit", "Barco", "ClickShare CX-30", 1, 1850, nil},
		},
	},
	{
		name: "Training Room",
	},
}

// DemoProject builds the sample proposal inserted by Seed.
func DemoProject() services.Project {
	p := services.Project{
		ClientDetails: services.ClientDetails{
			ClientName:     "Northwind Traders",
			ProjectName:    "HQ AV Refresh",
			PreparedBy:     "Proposal Desk",
			DesignEngineer: "A. Rao",
			AccountManager: "S. Iyer",
			Location:       "Bengaluru",
			KeyComments:    "Phase 1 covers the boardroom and huddle rooms.",
		},
		GlobalMargin: 15,
		Branding:     services.DefaultBranding(),
		Currency:     services.CurrencyINR,
	}

	for _, rd := range demoRooms {
		p.AddRoom(rd.name)
		if rd.items == nil {
			continue
		}
		items := make([]services.LineItem, 0, len(rd.items))
		for _, d := range rd.items {
			items = append(items, services.LineItem{
				Category:       d.category,
				Description:    d.description,
				Brand:          d.brand,
				Model:          d.model,
				Quantity:       d.qty,
				UnitPrice:      d.unitPrice,
				TotalPrice:     float64(d.qty) * d.unitPrice,
				MarginOverride: d.margin,
			})
		}
		p.Rooms[len(p.Rooms)-1].SetBOQ(items)
	}
	return p
}

// Seed stores DemoProject under services.SnapshotKey. It is safe to call on
// every startup because it returns early if a snapshot already exists.
func Seed(app *pocketbase.PocketBase) error {
	_, err := LoadSnapshot(app, services.SnapshotKey)
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, ErrSnapshotNotFound) {
		return fmt.Errorf("seed: could not query snapshots: %w", err)
	}

	log.Println("seed: no saved project – inserting demo proposal …")

	data, err := services.EncodeSnapshot(DemoProject())
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if err := SaveSnapshot(app, services.SnapshotKey, data); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
