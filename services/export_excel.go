package services

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/xuri/excelize/v2"
)

// Room sheet totals start this many rows below the header, after the data
// rows and one blank row.
const roomTotalsGap = 2

var hexColor = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// workbookStyles holds the style ids shared by every sheet of a workbook.
type workbookStyles struct {
	title       int
	label       int
	subHeader   int
	header      int
	text        int
	number      int
	money       int
	totalLabel  int
	totalAmount int
}

// GenerateWorkbook renders the proposal as an xlsx workbook with a cover
// sheet, the proposal summary, the commercial terms and one sheet per priced
// room, and returns the file contents. Amounts are written rounded to cents.
func GenerateWorkbook(data ProposalData) ([]byte, error) {
	data.Totals = data.Totals.Rounded()

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f, data.Branding.PrimaryColor)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetCover); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if err := writeCoverSheet(f, styles, data); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("add sheet %q: %w", SheetSummary, err)
	}
	if err := writeSummarySheet(f, styles, data); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SheetTerms); err != nil {
		return nil, fmt.Errorf("add sheet %q: %w", SheetTerms, err)
	}
	if err := writeTermsSheet(f, styles, data.Terms); err != nil {
		return nil, err
	}

	namer := NewSheetNamer(SheetCover, SheetSummary, SheetTerms)
	for _, room := range data.Totals.Rooms {
		name := namer.Unique(room.RoomName)
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", name, err)
		}
		if err := writeRoomSheet(f, styles, name, room, data.Currency); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func newWorkbookStyles(f *excelize.File, primaryColor string) (workbookStyles, error) {
	var s workbookStyles
	if !hexColor.MatchString(primaryColor) {
		primaryColor = DefaultPrimaryColor
	}

	defs := []styleDef{
		{"title", &s.title, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 16},
		}},
		{"label", &s.label, &excelize.Style{
			Font: &excelize.Font{Bold: true},
		}},
		{"sub header", &s.subHeader, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 12},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		}},
		{"header", &s.header, &excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill: excelize.Fill{Type: "pattern", Color: []string{primaryColor}, Pattern: 1},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
				WrapText:   true,
			},
			Border: thinBorders(),
		}},
		{"text", &s.text, &excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
			Border:    thinBorders(),
		}},
		{"number", &s.number, &excelize.Style{
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
			Border:    thinBorders(),
		}},
		{"money", &s.money, &excelize.Style{
			NumFmt:    4, // #,##0.00
			Alignment: &excelize.Alignment{Vertical: "top"},
			Border:    thinBorders(),
		}},
		{"total label", &s.totalLabel, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{"total amount", &s.totalAmount, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			NumFmt:    4,
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
	}
	if err := newStyles(f, defs); err != nil {
		return workbookStyles{}, err
	}
	return s, nil
}

// styleDef names a style and where to store its id.
type styleDef struct {
	name  string
	id    *int
	style *excelize.Style
}

func newStyles(f *excelize.File, defs []styleDef) error {
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.id = id
	}
	return nil
}

// sheetWriter writes cells of one sheet and keeps the first error, so a
// sequence of writes can be checked once.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, value any, style int) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellValue(w.sheet, cell, value); err != nil {
		w.err = fmt.Errorf("set %s!%s: %w", w.sheet, cell, err)
		return
	}
	if style != 0 {
		if err := w.f.SetCellStyle(w.sheet, cell, cell, style); err != nil {
			w.err = fmt.Errorf("style %s!%s: %w", w.sheet, cell, err)
		}
	}
}

func (w *sheetWriter) row(row int, values []any, style int) {
	for i, v := range values {
		w.set(i+1, row, v, style)
	}
}

func (w *sheetWriter) widths(widths ...float64) {
	for i, width := range widths {
		if w.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetColWidth(w.sheet, col, col, width); err != nil {
			w.err = fmt.Errorf("set col width %s: %w", col, err)
		}
	}
}

func writeCoverSheet(f *excelize.File, s workbookStyles, data ProposalData) error {
	w := &sheetWriter{f: f, sheet: SheetCover}
	cd := data.ClientDetails
	info := data.Branding.CompanyInfo

	date := cd.Date
	if date == "" {
		date = data.GeneratedOn.Format("2006-01-02")
	}

	row := 1
	w.set(1, row, sanitizeExcelCell(info.Name), s.title)
	row++
	for _, kv := range [][2]string{
		{"Address", info.Address},
		{"Phone", info.Phone},
		{"Email", info.Email},
		{"Website", info.Website},
	} {
		w.set(1, row, kv[0], s.label)
		w.set(2, row, sanitizeExcelCell(kv[1]), 0)
		row++
	}

	sections := []struct {
		title string
		rows  [][2]string
	}{
		{"Project Details", [][2]string{
			{"Project Name", cd.ProjectName},
			{"Design Engineer", cd.DesignEngineer},
			{"Date", date},
			{"Prepared By", cd.PreparedBy},
		}},
		{"Contact Details", [][2]string{
			{"Account Manager", cd.AccountManager},
			{"Client Name", cd.ClientName},
			{"Key Client Personnel", cd.KeyClientPersonnel},
			{"Location", cd.Location},
			{"Key Comments for this version", cd.KeyComments},
		}},
	}
	for _, sec := range sections {
		row++
		w.set(1, row, sec.title, s.subHeader)
		w.set(2, row, "", s.subHeader)
		row++
		for _, kv := range sec.rows {
			w.set(1, row, kv[0], s.label)
			w.set(2, row, sanitizeExcelCell(kv[1]), 0)
			row++
		}
	}

	row++
	w.set(1, row, "Currency", s.label)
	w.set(2, row, string(data.Currency), 0)
	row++
	w.set(1, row, "Exchange Rate", s.label)
	w.set(2, row, fmt.Sprintf("1 USD = %s %s", decimalString(data.Rate, 4), data.Currency), 0)
	row++

	if data.Branding.LogoURL != "" {
		row++
		w.set(1, row, "Note", s.label)
		w.set(2, row, "Company logo is configured for this proposal.", 0)
	}

	w.widths(30, 50)
	if w.err != nil {
		return fmt.Errorf("cover sheet: %w", w.err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s workbookStyles, data ProposalData) error {
	w := &sheetWriter{f: f, sheet: SheetSummary}

	w.row(1, []any{"Sr. No", "Description", fmt.Sprintf("Total (%s)", data.Currency)}, s.header)

	row := 2
	for i, room := range data.Totals.Rooms {
		w.set(1, row, i+1, s.number)
		// Written as given so the label matches the room's tab. String cells
		// are stored as shared strings and never evaluated.
		w.set(2, row, room.RoomName, s.text)
		w.set(3, row, room.GrandTotal, s.money)
		row++
	}

	row++ // blank row before the grand total
	w.set(2, row, "Grand Total", s.totalLabel)
	w.set(3, row, data.Totals.GrandTotal, s.totalAmount)

	w.widths(10, 40, 20)
	if w.err != nil {
		return fmt.Errorf("summary sheet: %w", w.err)
	}
	return nil
}

// writeTermsSheet renders each section as a spacer row, a shaded title and its
// table. The first table row is styled as a header; cell text is written as
// supplied.
func writeTermsSheet(f *excelize.File, s workbookStyles, terms []TermsSection) error {
	w := &sheetWriter{f: f, sheet: SheetTerms}

	row := 0
	for _, sec := range terms {
		row += 2 // spacer row, then the title
		w.set(1, row, sec.Title, s.subHeader)
		if len(sec.Rows) == 0 {
			continue
		}
		row++
		w.row(row, stringsToAny(sec.Rows[0]), s.header)
		for _, r := range sec.Rows[1:] {
			row++
			w.row(row, stringsToAny(r), 0)
		}
	}

	w.widths(10, 100)
	if w.err != nil {
		return fmt.Errorf("terms sheet: %w", w.err)
	}
	return nil
}

// RoomSheetHeaders returns the room sheet column labels for currency.
func RoomSheetHeaders(currency Currency) []string {
	c := string(currency)
	headers := []string{
		"Sr. No.",
		"Description of Goods / Services",
		"Specifications",
		"Make",
		"Qty.",
		"Unit Rate (" + c + ")",
		"Total (" + c + ")",
		"Margin (%)",
		"Total after Margin (" + c + ")",
	}
	if SplitTax(currency) {
		headers = append(headers, "SGST 9% ("+c+")", "CGST 9% ("+c+")")
	} else {
		headers = append(headers, "Tax 18% ("+c+")")
	}
	return append(headers, "Total with Tax ("+c+")")
}

func writeRoomSheet(f *excelize.File, s workbookStyles, sheet string, room RoomTotals, currency Currency) error {
	w := &sheetWriter{f: f, sheet: sheet}
	split := SplitTax(currency)

	w.row(1, stringsToAny(RoomSheetHeaders(currency)), s.header)

	for i, line := range room.Lines {
		row := i + 2
		w.set(1, row, i+1, s.number)
		w.set(2, row, sanitizeExcelCell(line.Item.Description), s.text)
		w.set(3, row, sanitizeExcelCell(line.Item.Model), s.text)
		w.set(4, row, sanitizeExcelCell(line.Item.Brand), s.text)
		w.set(5, row, line.Item.Quantity, s.number)
		w.set(6, row, line.ConvertedUnit, s.money)
		w.set(7, row, line.ConvertedTotal, s.money)
		w.set(8, row, line.MarginPercent, s.number)
		w.set(9, row, line.TotalAfterMargin, s.money)
		col := 10
		if split {
			w.set(col, row, line.SGST, s.money)
			w.set(col+1, row, line.CGST, s.money)
			col += 2
		} else {
			w.set(col, row, line.Tax, s.money)
			col++
		}
		w.set(col, row, line.FinalTotal, s.money)
	}

	totals := [][2]any{
		{"Subtotal:", room.SubTotal},
		{"Total after Margin:", room.TotalAfterMargin},
	}
	if split {
		totals = append(totals,
			[2]any{"Total SGST (9%):", room.SGSTTotal},
			[2]any{"Total CGST (9%):", room.CGSTTotal},
		)
	} else {
		totals = append(totals, [2]any{"Total Tax (18%):", room.TaxTotal})
	}
	totals = append(totals, [2]any{"Grand Total:", room.GrandTotal})

	start := len(room.Lines) + 1 + roomTotalsGap
	for i, t := range totals {
		w.set(8, start+i, t[0], s.totalLabel)
		w.set(9, start+i, t[1], s.totalAmount)
	}

	if split {
		w.widths(8, 40, 25, 20, 8, 15, 15, 12, 20, 15, 15, 20)
	} else {
		w.widths(8, 40, 25, 20, 8, 15, 15, 12, 20, 15, 20)
	}
	if w.err == nil {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			w.err = fmt.Errorf("freeze header: %w", err)
		}
	}
	if w.err != nil {
		return fmt.Errorf("room sheet %q: %w", sheet, w.err)
	}
	return nil
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
