package models

// Financial KPI column names as exposed to the presentation layer.
const (
	ColROI              = "ROI"
	ColRealizedRevenues = "Realized Revenues"
	ColCOGS             = "COGS"
	ColIndirectCost     = "Indirect Cost"
)

// FinancialColumns lists the financial KPI columns in display order.
var FinancialColumns = []string{ColROI, ColRealizedRevenues, ColCOGS, ColIndirectCost}

// FinanceRow holds the four financial KPIs for one simulation round.
// A nil value means the source cell was empty or non-numeric.
type FinanceRow struct {
	Round            int      `json:"round"`
	ROI              *float64 `json:"roi"`
	RealizedRevenues *float64 `json:"realized_revenues"`
	COGS             *float64 `json:"cogs"`
	IndirectCost     *float64 `json:"indirect_cost"`
}

// FinanceTable is the tidy financial KPI table: exactly one row per
// round present in the finance sheet header, rounds strictly increasing.
type FinanceTable struct {
	Rows []FinanceRow `json:"rows"`
}

// Rounds returns the round axis in table order.
func (t *FinanceTable) Rounds() []int {
	rounds := make([]int, len(t.Rows))
	for i, r := range t.Rows {
		rounds[i] = r.Round
	}
	return rounds
}

// Row returns the row for the given round, if present.
func (t *FinanceTable) Row(round int) (FinanceRow, bool) {
	for _, r := range t.Rows {
		if r.Round == round {
			return r, true
		}
	}
	return FinanceRow{}, false
}

// Value returns the named financial KPI for the given round.
// Unknown columns and absent rounds both yield nil.
func (t *FinanceTable) Value(round int, column string) *float64 {
	r, ok := t.Row(round)
	if !ok {
		return nil
	}
	switch column {
	case ColROI:
		return r.ROI
	case ColRealizedRevenues:
		return r.RealizedRevenues
	case ColCOGS:
		return r.COGS
	case ColIndirectCost:
		return r.IndirectCost
	}
	return nil
}
