package models

import "strings"

// Table is a tidy table: one record per (entity, round), one column per
// metric. Cell values are float64 for numeric cells, string for text
// cells, int for the Round column, or nil for missing values.
type Table struct {
	// Columns lists column names in display order.
	Columns []string `json:"columns"`
	// Records holds one map per row, keyed by column name.
	Records []map[string]interface{} `json:"records"`
}

// Column reports whether the table has the named column.
func (t *Table) Column(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// DomainTable is one functional domain's sheet after normalization:
// guaranteed Round column, derived ratios where computable, and the
// financial KPI columns left-joined on Round.
type DomainTable struct {
	// Domain is the functional area name (Purchase, Sales, ...).
	Domain string `json:"domain"`
	// SheetName is the workbook sheet the table came from.
	SheetName string `json:"sheet_name"`
	// EntityColumn names the identifier column (Component, Customer, ...).
	EntityColumn string `json:"entity_column"`
	Table        Table  `json:"table"`
	// KPIOptions lists the functional columns eligible for selection as
	// a KPI: numeric, not the identifier, not the round axis.
	KPIOptions []string `json:"kpi_options"`
	// Unavailable lists derived ratios that were omitted because a
	// required source column is absent.
	Unavailable []string `json:"unavailable,omitempty"`
}

// SkippedDomain records a functional tab that could not be built.
// The rest of the dashboard stays usable.
type SkippedDomain struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// Dashboard is everything the presentation layer consumes: the finance
// table, each functional table post-join, and the per-tab failures.
type Dashboard struct {
	SourceName string          `json:"source_name"`
	Finance    FinanceTable    `json:"finance"`
	Domains    []DomainTable   `json:"domains"`
	Skipped    []SkippedDomain `json:"skipped,omitempty"`
}

// Domain returns the named domain table, if it was built.
func (d *Dashboard) Domain(name string) (*DomainTable, bool) {
	for i := range d.Domains {
		if strings.EqualFold(d.Domains[i].Domain, name) {
			return &d.Domains[i], true
		}
	}
	return nil, false
}
