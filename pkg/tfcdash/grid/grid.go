// Package grid provides small helpers over the raw cell grids excelize
// produces: safe cell access, label normalization, and numeric coercion.
package grid

import (
	"strconv"
	"strings"
)

// Cell returns the cell at col, or "" when the row is ragged and the
// position does not exist.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// NormalizeLabel trims a free-text row or column label and collapses
// internal whitespace runs, since hand-authored sheets are inconsistent
// about both.
func NormalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseNumber coerces a formatted cell string to a float64. Thousands
// separators and a trailing percent sign are stripped. Empty cells and
// non-numeric text report ok=false; they are missing values, not errors.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseInt coerces a cell string to an int, accepting integral floats
// ("3.0") the way spreadsheet number formatting emits them.
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	f, ok := ParseNumber(s)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
