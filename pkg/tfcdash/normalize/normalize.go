// Package normalize turns a functional domain sheet into a tidy table:
// guaranteed Round column, derived ratios where their inputs exist, and
// the financial KPI table left-joined on Round.
package normalize

import (
	"strings"

	"github.com/freshconn/tfcdash/pkg/tfcdash/catalog"
	"github.com/freshconn/tfcdash/pkg/tfcdash/grid"
	"github.com/freshconn/tfcdash/pkg/tfcdash/models"
)

// RoundColumn is the canonical name of the round axis column.
const RoundColumn = "Round"

// Normalize builds one domain table from its raw sheet grid.
//
// The left join never drops or duplicates functional rows: each record
// looks up its round in the finance table and unmatched rounds get nil
// financial values. A derived ratio whose source column is absent is
// omitted entirely and reported in Unavailable — never zero-filled.
func Normalize(spec catalog.DomainSpec, sheetName string, rows [][]string, fin *models.FinanceTable) (*models.DomainTable, error) {
	if len(rows) == 0 {
		return nil, models.NewSchemaError(sheetName, "sheet is empty")
	}

	columns := headerColumns(rows[0])
	if len(columns) == 0 {
		return nil, models.NewSchemaError(sheetName, "header row has no column labels")
	}

	// Guarantee a Round column: when no header cell is literally
	// "Round", the first column plays that role.
	roundIdx := -1
	for i, c := range columns {
		if strings.EqualFold(c, RoundColumn) {
			roundIdx = i
			break
		}
	}
	if roundIdx == -1 {
		roundIdx = 0
		columns[0] = RoundColumn
	} else {
		columns[roundIdx] = RoundColumn
	}

	entityIdx := -1
	for i, c := range columns {
		if strings.EqualFold(c, spec.EntityColumn) {
			entityIdx = i
			break
		}
	}
	if entityIdx == -1 {
		return nil, models.NewSchemaError(sheetName, "identifier column "+spec.EntityColumn+" not found")
	}

	records := make([]map[string]interface{}, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec := make(map[string]interface{}, len(columns)+len(spec.Ratios)+len(models.FinancialColumns))
		for i, col := range columns {
			raw := strings.TrimSpace(grid.Cell(row, i))
			switch {
			case i == roundIdx:
				if n, ok := grid.ParseInt(raw); ok {
					rec[col] = n
				} else {
					rec[col] = nil
				}
			case i == entityIdx:
				rec[col] = raw
			default:
				rec[col] = coerce(raw)
			}
		}
		records = append(records, rec)
	}

	table := &models.DomainTable{
		Domain:       spec.Name,
		SheetName:    sheetName,
		EntityColumn: columns[entityIdx],
		Table:        models.Table{Columns: columns, Records: records},
	}

	applyRatios(table, spec, fin)
	joinFinance(table, fin)
	table.KPIOptions = kpiOptions(table, spec)
	return table, nil
}

// applyRatios computes the domain's derived columns. A ratio is added
// only when every input it needs exists; otherwise it lands in
// Unavailable so the presentation layer can say so instead of charting
// fabricated zeros.
func applyRatios(t *models.DomainTable, spec catalog.DomainSpec, fin *models.FinanceTable) {
	for _, ratio := range spec.Ratios {
		switch {
		case ratio.Alias != "":
			if !t.Table.Column(ratio.Alias) {
				t.Unavailable = append(t.Unavailable, ratio.Name)
				continue
			}
			t.Table.Columns = append(t.Table.Columns, ratio.Name)
			for _, rec := range t.Table.Records {
				rec[ratio.Name] = rec[ratio.Alias]
			}
		case ratio.PercentOfRevenue != "":
			if fin == nil || !t.Table.Column(ratio.PercentOfRevenue) {
				t.Unavailable = append(t.Unavailable, ratio.Name)
				continue
			}
			t.Table.Columns = append(t.Table.Columns, ratio.Name)
			for _, rec := range t.Table.Records {
				rec[ratio.Name] = percentOfRevenue(rec, ratio.PercentOfRevenue, fin)
			}
		}
	}
}

func percentOfRevenue(rec map[string]interface{}, column string, fin *models.FinanceTable) interface{} {
	num, ok := rec[column].(float64)
	if !ok {
		return nil
	}
	round, ok := rec[RoundColumn].(int)
	if !ok {
		return nil
	}
	rev := fin.Value(round, models.ColRealizedRevenues)
	if rev == nil || *rev == 0 {
		return nil
	}
	return num / *rev * 100
}

// joinFinance left-joins the four financial KPI columns on Round.
func joinFinance(t *models.DomainTable, fin *models.FinanceTable) {
	t.Table.Columns = append(t.Table.Columns, models.FinancialColumns...)
	for _, rec := range t.Table.Records {
		round, ok := rec[RoundColumn].(int)
		for _, col := range models.FinancialColumns {
			if fin == nil || !ok {
				rec[col] = nil
				continue
			}
			if v := fin.Value(round, col); v != nil {
				rec[col] = *v
			} else {
				rec[col] = nil
			}
		}
	}
}

// kpiOptions lists the functional columns a user may pick as a KPI:
// numeric, not the identifier, not the round axis, not one of the
// joined financial columns. When the domain spec names preferred
// columns, the list is restricted to those actually present.
func kpiOptions(t *models.DomainTable, spec catalog.DomainSpec) []string {
	var options []string
	if len(spec.KPIColumns) > 0 {
		for _, c := range spec.KPIColumns {
			if t.Table.Column(c) && isNumericColumn(&t.Table, c) {
				options = append(options, c)
			}
		}
		return options
	}
	financial := make(map[string]bool, len(models.FinancialColumns))
	for _, c := range models.FinancialColumns {
		financial[c] = true
	}
	for _, c := range t.Table.Columns {
		if c == RoundColumn || c == t.EntityColumn || financial[c] {
			continue
		}
		if isNumericColumn(&t.Table, c) {
			options = append(options, c)
		}
	}
	return options
}

// isNumericColumn reports whether a column holds only numbers and
// missing values, with at least one number present.
func isNumericColumn(t *models.Table, name string) bool {
	seen := false
	for _, rec := range t.Records {
		switch rec[name].(type) {
		case float64:
			seen = true
		case int:
			seen = true
		case nil:
		default:
			return false
		}
	}
	return seen
}

// coerce maps a raw cell to its tidy value: float64 when numeric, nil
// when empty, the trimmed string otherwise.
func coerce(raw string) interface{} {
	if raw == "" {
		return nil
	}
	if f, ok := grid.ParseNumber(raw); ok {
		return f
	}
	return raw
}

func headerColumns(header []string) []string {
	columns := make([]string, 0, len(header))
	for _, h := range header {
		columns = append(columns, grid.NormalizeLabel(h))
	}
	// Drop trailing unnamed columns, common in hand-edited exports.
	for len(columns) > 0 && columns[len(columns)-1] == "" {
		columns = columns[:len(columns)-1]
	}
	return columns
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
