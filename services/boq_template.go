package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetBOQImport    = "BOQ"
	sheetInstructions = "Instructions"
	sheetImportErrors = "Errors"
)

// GenerateBOQTemplate creates a downloadable .xlsx template for importing a
// room's line items. Required columns are marked with " *" and a darker fill.
func GenerateBOQTemplate() ([]byte, error) {
	fields := BOQTemplateFields()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetBOQImport); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	var requiredHeader, optionalHeader int
	if err := newStyles(f, []styleDef{
		{"required header", &requiredHeader, importHeaderStyle("#1D4ED8")},
		{"optional header", &optionalHeader, importHeaderStyle("#6B7280")},
	}); err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: sheetBOQImport}
	widths := make([]float64, len(fields))
	for i, field := range fields {
		header, style := field.Label, optionalHeader
		if field.AlwaysRequired {
			header, style = header+" *", requiredHeader
		}
		w.set(i+1, 1, header, style)

		widths[i] = max(float64(len(field.Label))*1.3, 15)
		if field.Key == "itemDescription" {
			widths[i] = 50
		}
	}
	w.widths(widths...)
	if w.err != nil {
		return nil, fmt.Errorf("template header: %w", w.err)
	}

	for i, field := range fields {
		if field.Key != "category" {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		dv := excelize.NewDataValidation(true)
		dv.Sqref = fmt.Sprintf("%s2:%s1048576", col, col)
		if err := dv.SetDropList(Categories); err != nil {
			return nil, fmt.Errorf("category list: %w", err)
		}
		if err := f.AddDataValidation(sheetBOQImport, dv); err != nil {
			return nil, fmt.Errorf("add category dropdown: %w", err)
		}
	}

	if err := f.SetPanes(sheetBOQImport, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	if err := addInstructionsSheet(f, fields); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

func importHeaderStyle(fill string) *excelize.Style {
	return &excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	}
}

// addInstructionsSheet adds a hidden sheet describing every import column.
func addInstructionsSheet(f *excelize.File, fields []TemplateField) error {
	if _, err := f.NewSheet(sheetInstructions); err != nil {
		return fmt.Errorf("add sheet %q: %w", sheetInstructions, err)
	}

	var title, header int
	if err := newStyles(f, []styleDef{
		{"instructions title", &title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}},
		{"instructions header", &header, &excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 11},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
		}},
	}); err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: sheetInstructions}
	w.set(1, 1, "BOQ Import - Instructions", title)
	w.row(3, []any{"Column", "Required?", "Format", "Description", "Example"}, header)
	for i, field := range fields {
		required := "Optional"
		if field.AlwaysRequired {
			required = "Required"
		}
		w.row(i+4, []any{field.Label, required, field.FormatRule, field.Description, field.ExampleValue}, 0)
	}
	w.widths(20, 12, 30, 45, 25)
	if w.err != nil {
		return fmt.Errorf("instructions sheet: %w", w.err)
	}

	if err := f.SetSheetVisible(sheetInstructions, false); err != nil {
		return fmt.Errorf("hide instructions: %w", err)
	}
	return nil
}

// GenerateErrorReport creates a downloadable .xlsx file listing import errors
// by sheet row.
func GenerateErrorReport(errs []ImportError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetImportErrors); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	var header int
	if err := newStyles(f, []styleDef{
		{"error header", &header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Border:    thinBorders(),
		}},
	}); err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: sheetImportErrors}
	w.row(1, []any{"Row #", "Field", "Error"}, header)
	for i, e := range errs {
		w.row(i+2, []any{e.Row, e.Field, e.Message}, 0)
	}
	w.widths(8, 22, 55)
	if w.err != nil {
		return nil, fmt.Errorf("error report: %w", w.err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
