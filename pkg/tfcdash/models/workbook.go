// Package models defines the data structures produced by the dashboard pipeline.
package models

import "strings"

// Workbook is the parsed spreadsheet: one cell grid per sheet.
type Workbook struct {
	// SourceName is the workbook file name or URL it was loaded from.
	SourceName string `json:"source_name"`
	// Sheets maps sheet name to its cell grid.
	Sheets map[string]Sheet `json:"sheets"`
}

// Sheet holds the raw cell grid of a single sheet, row-major,
// cell values as the formatted strings the spreadsheet displays.
type Sheet struct {
	Rows [][]string `json:"rows"`
}

// Sheet returns the named sheet. The lookup is exact first and falls
// back to a case-insensitive match, since exports are inconsistent
// about sheet-name capitalization.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	if s, ok := w.Sheets[name]; ok {
		return s, true
	}
	for n, s := range w.Sheets {
		if strings.EqualFold(strings.TrimSpace(n), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Sheet{}, false
}

// SheetNames returns the names of all sheets in the workbook.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for n := range w.Sheets {
		names = append(names, n)
	}
	return names
}
