package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFile indicates an upload that is neither .csv nor .xlsx.
var ErrUnsupportedFile = errors.New("unsupported file format: must be .csv or .xlsx")

// TemplateField describes one column of the BOQ import template.
type TemplateField struct {
	Key            string // LineItem JSON name
	Label          string // header shown in the sheet
	Description    string // shown on the Instructions sheet
	FormatRule     string
	ExampleValue   string
	AlwaysRequired bool
}

// BOQTemplateFields returns the ordered import columns.
func BOQTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "category", Label: "Category", Description: "Equipment category (select from dropdown)", ExampleValue: "Display"},
		{Key: "itemDescription", Label: "Description", Description: "What the item is", ExampleValue: "86\" 4K interactive flat panel", AlwaysRequired: true},
		{Key: "brand", Label: "Brand", Description: "Manufacturer", ExampleValue: "Samsung"},
		{Key: "model", Label: "Model", Description: "Manufacturer part or model number", ExampleValue: "WM85B"},
		{Key: "quantity", Label: "Quantity", Description: "Number of units", FormatRule: "Whole number, 0 or more", ExampleValue: "1", AlwaysRequired: true},
		{Key: "unitPrice", Label: "Unit Price (USD)", Description: "Price of one unit in US dollars", FormatRule: "Number, 0 or more", ExampleValue: "5200", AlwaysRequired: true},
		{Key: "margin", Label: "Margin %", Description: "Overrides the project margin for this item", FormatRule: "Number, 0 or more", ExampleValue: ""},
	}
}

// Categories offered in the template's Category dropdown.
var Categories = []string{
	"Display",
	"Video Conferencing",
	"Audio",
	"Control",
	"Wireless Presentation",
	"Mounts & Racks",
	"Cabling",
	"Accessories",
	"Services",
}

// ImportError is a single field-level problem on one uploaded row.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing an uploaded BOQ file. Items holds
// only the rows without errors, in file order.
type ImportResult struct {
	TotalRows int           `json:"totalRows"`
	ValidRows int           `json:"validRows"`
	ErrorRows int           `json:"errorRows"`
	Errors    []ImportError `json:"errors"`
	Items     []LineItem    `json:"items"`
}

// ParseBOQFile reads a .csv or .xlsx BOQ upload and converts its rows into
// line items.
func ParseBOQFile(fileName string, r io.Reader) (*ImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(r)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(r)
	default:
		return nil, ErrUnsupportedFile
	}
	if err != nil {
		return nil, err
	}

	fields := BOQTemplateFields()
	columnKeys, _ := mapHeadersToFields(headers, fields)

	keyToLabel := make(map[string]string, len(fields))
	for _, f := range fields {
		keyToLabel[f.Key] = f.Label
	}

	result := &ImportResult{Items: []LineItem{}}
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
		}
		if isBlankRow(rowData) {
			continue
		}
		result.TotalRows++

		var rowErrors []ImportError
		for _, f := range fields {
			if f.AlwaysRequired && rowData[f.Key] == "" {
				rowErrors = append(rowErrors, ImportError{
					Row:     rowNum,
					Field:   f.Label,
					Message: fmt.Sprintf("%s is required", f.Label),
				})
			}
		}

		item, fieldErrs := lineItemFromRow(rowData)
		for _, fe := range fieldErrs {
			rowErrors = append(rowErrors, ImportError{Row: rowNum, Field: keyToLabel[fe.key], Message: fe.msg})
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Items = append(result.Items, item)
	}
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

type fieldError struct {
	key string
	msg string
}

func lineItemFromRow(data map[string]string) (LineItem, []fieldError) {
	var errs []fieldError
	item := LineItem{
		Category:    data["category"],
		Description: data["itemDescription"],
		Brand:       data["brand"],
		Model:       data["model"],
	}

	if v := data["quantity"]; v != "" {
		q, err := parseAmount(v)
		switch {
		case err != nil:
			errs = append(errs, fieldError{"quantity", "Quantity must be a number"})
		case q < 0:
			errs = append(errs, fieldError{"quantity", "Quantity must be 0 or more"})
		case q != math.Trunc(q):
			errs = append(errs, fieldError{"quantity", "Quantity must be a whole number"})
		default:
			item.Quantity = int(q)
		}
	}
	if v := data["unitPrice"]; v != "" {
		p, err := parseAmount(v)
		switch {
		case err != nil:
			errs = append(errs, fieldError{"unitPrice", "Unit Price must be a number"})
		case p < 0:
			errs = append(errs, fieldError{"unitPrice", "Unit Price must be 0 or more"})
		default:
			item.UnitPrice = p
		}
	}
	if v := strings.TrimSuffix(data["margin"], "%"); v != "" {
		m, err := parseAmount(v)
		switch {
		case err != nil:
			errs = append(errs, fieldError{"margin", "Margin % must be a number"})
		case m < 0:
			errs = append(errs, fieldError{"margin", "Margin % must be 0 or more"})
		default:
			item.MarginOverride = &m
		}
	}

	item.TotalPrice = item.BaseTotal()
	return item, errs
}

// parseAmount accepts plain numbers with optional thousands separators and a
// leading "$".
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

func isBlankRow(data map[string]string) bool {
	for _, v := range data {
		if v != "" {
			return false
		}
	}
	return true
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		labelToKey[strings.ToLower(strings.TrimSpace(f.Label))] = f.Key
		labelToKey[strings.ToLower(f.Key)] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}
