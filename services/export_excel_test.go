package services

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testProject(currency Currency) Project {
	return Project{
		ClientDetails: ClientDetails{
			ClientName:  "Acme Corp",
			ProjectName: "HQ Fit-out",
			PreparedBy:  "Jane",
			Date:        "2026-03-01",
		},
		Rooms: []Room{
			{
				ID:   "r1",
				Name: "Boardroom",
				LineItems: []LineItem{
					{Category: "Display", Description: "75\" display", Brand: "Acme", Model: "D75", Quantity: 1, UnitPrice: 100},
					{Category: "Audio", Description: "Speaker pair", Brand: "Acme", Model: "S2", Quantity: 2, UnitPrice: 50, MarginOverride: ptr(20)},
				},
			},
			{ID: "r2", Name: "Lobby"},
			{
				ID:        "r3",
				Name:      "Boardroom",
				LineItems: []LineItem{{Description: "Camera", Quantity: 1, UnitPrice: 200}},
			},
		},
		GlobalMargin: 10,
		Branding:     DefaultBranding(),
		Currency:     currency,
	}
}

func buildTestWorkbook(t *testing.T, p Project, rates Rates) (*excelize.File, ProposalData) {
	t.Helper()

	data, err := BuildProposal(p, rates, testNow)
	if err != nil {
		t.Fatalf("BuildProposal() error = %v", err)
	}
	result, err := GenerateWorkbook(data)
	if err != nil {
		t.Fatalf("GenerateWorkbook() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateWorkbook() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f, data
}

func cellString(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s) error = %v", sheet, cell, err)
	}
	return v
}

func cellFloat(t *testing.T, f *excelize.File, sheet, cell string) float64 {
	t.Helper()
	raw := cellString(t, f, sheet, cell)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		t.Fatalf("%s!%s = %q is not a number", sheet, cell, raw)
	}
	return v
}

func TestGenerateWorkbook_SheetOrder(t *testing.T) {
	f, _ := buildTestWorkbook(t, testProject(CurrencyUSD), Rates{CurrencyUSD: 1})

	want := []string{"Cover Page", "Proposal Summary", "Commercial Terms", "Boardroom", "Boardroom (2)"}
	got := f.GetSheetList()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("sheets = %v, want %v", got, want)
	}
	if f.GetActiveSheetIndex() != 0 {
		t.Errorf("active sheet = %d, want 0", f.GetActiveSheetIndex())
	}
}

func TestGenerateWorkbook_NoPricedRooms(t *testing.T) {
	p := testProject(CurrencyUSD)
	p.Rooms = []Room{{ID: "x", Name: "Lobby"}}

	f, _ := buildTestWorkbook(t, p, nil)

	if got := len(f.GetSheetList()); got != 3 {
		t.Fatalf("expected 3 sheets, got %d: %v", got, f.GetSheetList())
	}
	// Header, blank row, grand total.
	if v := cellString(t, f, SheetSummary, "B3"); v != "Grand Total" {
		t.Errorf("B3 = %q, want Grand Total", v)
	}
	if v := cellFloat(t, f, SheetSummary, "C3"); v != 0 {
		t.Errorf("C3 = %v, want 0", v)
	}
}

func TestGenerateWorkbook_CoverSheet(t *testing.T) {
	f, _ := buildTestWorkbook(t, testProject(CurrencyINR), Rates{CurrencyINR: 80})

	checks := map[string]string{
		"A1":  "Your Company Name",
		"A7":  "Project Details",
		"B8":  "HQ Fit-out",
		"B10": "2026-03-01",
		"B11": "Jane",
		"A13": "Contact Details",
		"B15": "Acme Corp",
		"B20": "INR",
		"B21": "1 USD = 80 INR",
	}
	for cell, want := range checks {
		if got := cellString(t, f, SheetCover, cell); got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestGenerateWorkbook_SummarySheet(t *testing.T) {
	f, data := buildTestWorkbook(t, testProject(CurrencyUSD), Rates{CurrencyUSD: 1})

	if v := cellString(t, f, SheetSummary, "C1"); v != "Total (USD)" {
		t.Errorf("C1 = %q, want Total (USD)", v)
	}

	// Lobby has no BOQ, so the index stays contiguous.
	rows := []struct {
		idx, name string
		total     float64
	}{
		{"1", "Boardroom", 271.4},
		{"2", "Boardroom", 259.6},
	}
	for i, r := range rows {
		row := strconv.Itoa(i + 2)
		if v := cellString(t, f, SheetSummary, "A"+row); v != r.idx {
			t.Errorf("A%s = %q, want %q", row, v, r.idx)
		}
		if v := cellString(t, f, SheetSummary, "B"+row); v != r.name {
			t.Errorf("B%s = %q, want %q", row, v, r.name)
		}
		if v := cellFloat(t, f, SheetSummary, "C"+row); math.Abs(v-r.total) > 0.001 {
			t.Errorf("C%s = %v, want %v", row, v, r.total)
		}
	}

	if v := cellString(t, f, SheetSummary, "A4"); v != "" {
		t.Errorf("row 4 should be blank, A4 = %q", v)
	}
	if v := cellFloat(t, f, SheetSummary, "C5"); math.Abs(v-data.Totals.GrandTotal) > 0.001 {
		t.Errorf("C5 = %v, want %v", v, data.Totals.GrandTotal)
	}
}

func TestGenerateWorkbook_SummaryRowsAddUpToGrandTotal(t *testing.T) {
	p := Project{Currency: CurrencyUSD, Branding: DefaultBranding()}
	for _, id := range []string{"a", "b", "c"} {
		p.Rooms = append(p.Rooms, Room{
			ID:        id,
			Name:      "Room " + id,
			LineItems: []LineItem{{Description: "Cable tie", Quantity: 1, UnitPrice: 0.01}},
		})
	}
	f, _ := buildTestWorkbook(t, p, Rates{CurrencyUSD: 1})

	var sum float64
	for row := 2; row <= 4; row++ {
		v := cellFloat(t, f, SheetSummary, "C"+strconv.Itoa(row))
		if v != 0.01 {
			t.Errorf("C%d = %v, want 0.01", row, v)
		}
		sum += v
	}
	grand := cellFloat(t, f, SheetSummary, "C6")
	if math.Abs(grand-sum) > 0.0001 {
		t.Errorf("Grand Total = %v, rows add up to %v", grand, sum)
	}

	// The room sheet's own Grand Total matches its summary row.
	if v := cellFloat(t, f, "Room a", "I7"); v != 0.01 {
		t.Errorf("Room a grand total = %v, want 0.01", v)
	}
}

func TestGenerateWorkbook_TermsSheet(t *testing.T) {
	p := testProject(CurrencyUSD)
	p.CommercialTerms = []TermsSection{
		{Title: "Payment", Rows: [][]string{{"Sr. No", "Description"}, {"1", "=100% advance"}}},
		{Title: "Validity", Rows: [][]string{{"Sr. No", "Description"}, {"1", "30 days"}}},
	}

	f, _ := buildTestWorkbook(t, p, nil)

	checks := map[string]string{
		"A2": "Payment",
		"A3": "Sr. No",
		"B4": "=100% advance",
		"A6": "Validity",
		"B8": "30 days",
	}
	for cell, want := range checks {
		if got := cellString(t, f, SheetTerms, cell); got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}
}

func TestGenerateWorkbook_DefaultTerms(t *testing.T) {
	f, _ := buildTestWorkbook(t, testProject(CurrencyUSD), nil)

	if got := cellString(t, f, SheetTerms, "A2"); got != DefaultCommercialTerms[0].Title {
		t.Errorf("A2 = %q, want %q", got, DefaultCommercialTerms[0].Title)
	}
}

func TestGenerateWorkbook_RoomSheetUSD(t *testing.T) {
	f, _ := buildTestWorkbook(t, testProject(CurrencyUSD), Rates{CurrencyUSD: 1})
	sheet := "Boardroom"

	headers := RoomSheetHeaders(CurrencyUSD)
	if len(headers) != 11 {
		t.Fatalf("expected 11 USD headers, got %d", len(headers))
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if got := cellString(t, f, sheet, cell); got != h {
			t.Errorf("%s = %q, want %q", cell, got, h)
		}
	}

	if v := cellString(t, f, sheet, "B3"); v != "Speaker pair" {
		t.Errorf("B3 = %q, want Speaker pair", v)
	}
	if v := cellFloat(t, f, sheet, "H3"); v != 20 {
		t.Errorf("H3 margin = %v, want 20", v)
	}
	if v := cellFloat(t, f, sheet, "K3"); math.Abs(v-141.6) > 0.001 {
		t.Errorf("K3 final = %v, want 141.6", v)
	}

	// Two data rows, one blank row, totals from row 5.
	labels := []struct {
		cell, label string
		valueCell   string
		value       float64
	}{
		{"H5", "Subtotal:", "I5", 200},
		{"H6", "Total after Margin:", "I6", 230},
		{"H7", "Total Tax (18%):", "I7", 41.4},
		{"H8", "Grand Total:", "I8", 271.4},
	}
	for _, l := range labels {
		if got := cellString(t, f, sheet, l.cell); got != l.label {
			t.Errorf("%s = %q, want %q", l.cell, got, l.label)
		}
		if got := cellFloat(t, f, sheet, l.valueCell); math.Abs(got-l.value) > 0.001 {
			t.Errorf("%s = %v, want %v", l.valueCell, got, l.value)
		}
	}
}

func TestGenerateWorkbook_RoomSheetINR(t *testing.T) {
	f, _ := buildTestWorkbook(t, testProject(CurrencyINR), Rates{CurrencyINR: 80})
	sheet := "Boardroom"

	if got := cellString(t, f, sheet, "J1"); got != "SGST 9% (INR)" {
		t.Errorf("J1 = %q, want SGST 9%% (INR)", got)
	}
	if got := cellString(t, f, sheet, "K1"); got != "CGST 9% (INR)" {
		t.Errorf("K1 = %q, want CGST 9%% (INR)", got)
	}
	if got := cellString(t, f, sheet, "L1"); got != "Total with Tax (INR)" {
		t.Errorf("L1 = %q", got)
	}

	// 230 USD after margin = 18400 INR.
	labels := []struct {
		cell, label string
		valueCell   string
		value       float64
	}{
		{"H5", "Subtotal:", "I5", 16000},
		{"H6", "Total after Margin:", "I6", 18400},
		{"H7", "Total SGST (9%):", "I7", 1656},
		{"H8", "Total CGST (9%):", "I8", 1656},
		{"H9", "Grand Total:", "I9", 21712},
	}
	for _, l := range labels {
		if got := cellString(t, f, sheet, l.cell); got != l.label {
			t.Errorf("%s = %q, want %q", l.cell, got, l.label)
		}
		if got := cellFloat(t, f, sheet, l.valueCell); math.Abs(got-l.value) > 0.001 {
			t.Errorf("%s = %v, want %v", l.valueCell, got, l.value)
		}
	}
}

func TestGenerateWorkbook_EmptyBOQRoomHasTotals(t *testing.T) {
	p := testProject(CurrencyUSD)
	p.Rooms = []Room{{ID: "e", Name: "Storage", LineItems: []LineItem{}}}

	f, _ := buildTestWorkbook(t, p, nil)

	if got := cellString(t, f, "Storage", "H3"); got != "Subtotal:" {
		t.Errorf("H3 = %q, want Subtotal:", got)
	}
	if got := cellFloat(t, f, "Storage", "I6"); got != 0 {
		t.Errorf("grand total = %v, want 0", got)
	}
}

func TestGenerateWorkbook_FormulaInjection(t *testing.T) {
	p := testProject(CurrencyUSD)
	p.Rooms[0].LineItems[0].Description = "=HYPERLINK(\"http://x\")"

	f, _ := buildTestWorkbook(t, p, nil)

	got := cellString(t, f, "Boardroom", "B2")
	if !strings.HasPrefix(got, "'=") {
		t.Errorf("B2 = %q, want leading quote", got)
	}
}

func TestGenerateWorkbook_SummaryLabelMatchesTab(t *testing.T) {
	p := testProject(CurrencyUSD)
	p.Rooms[0].Name = "-Lobby"

	f, _ := buildTestWorkbook(t, p, nil)

	if got := cellString(t, f, SheetSummary, "B2"); got != "-Lobby" {
		t.Errorf("summary B2 = %q, want -Lobby", got)
	}
	if idx, _ := f.GetSheetIndex("-Lobby"); idx < 0 {
		t.Errorf("no tab named -Lobby in %v", f.GetSheetList())
	}
}

func TestGenerateWorkbook_InvalidBrandColorFallsBack(t *testing.T) {
	p := testProject(CurrencyUSD)
	p.Branding.PrimaryColor = "not-a-color"

	data, err := BuildProposal(p, nil, testNow)
	if err != nil {
		t.Fatalf("BuildProposal() error = %v", err)
	}
	if _, err := GenerateWorkbook(data); err != nil {
		t.Errorf("GenerateWorkbook() error = %v", err)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"|pipe", "'|pipe"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
