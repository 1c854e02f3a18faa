// Package finance turns the irregular "finance report" sheet into a
// tidy round-indexed table of the four financial KPIs.
//
// The sheet layout: row 0 is a title, row 1 carries the round labels in
// columns 1..N, and every following row is one named metric with values
// in the same column range. Metric labels are free text with
// inconsistent capitalization and whitespace.
package finance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/freshconn/tfcdash/pkg/tfcdash/catalog"
	"github.com/freshconn/tfcdash/pkg/tfcdash/grid"
	"github.com/freshconn/tfcdash/pkg/tfcdash/models"
)

const (
	headerRow     = 1
	firstDataRow  = 2
	firstRoundCol = 1
)

// Extract builds the finance table from the raw finance sheet grid.
//
// The round axis is read from the header row itself; the label run ends
// at the first non-numeric cell. ROI and Realized Revenues come from
// the first row whose label matches their pattern exactly; COGS and
// Indirect Cost are summed over every row whose label contains their
// substring, because cost sheets list sub-components on separate rows.
//
// Unparseable cells become missing values. If none of the four patterns
// matches any row, the sheet does not have the expected shape and an
// error wrapping models.ErrSchemaMismatch is returned.
func Extract(sheetName string, rows [][]string, pats catalog.FinancePatterns) (*models.FinanceTable, error) {
	if len(rows) <= headerRow {
		return nil, models.NewSchemaError(sheetName, "too few rows for a finance report")
	}

	rounds, err := roundAxis(sheetName, rows[headerRow])
	if err != nil {
		return nil, err
	}

	roiRe, err := regexp.Compile("(?i)" + pats.ROI)
	if err != nil {
		return nil, fmt.Errorf("ROI pattern: %w", err)
	}
	revRe, err := regexp.Compile("(?i)" + pats.RealizedRevenues)
	if err != nil {
		return nil, fmt.Errorf("realized-revenues pattern: %w", err)
	}
	cogsSub := strings.ToLower(pats.COGS)
	indirectSub := strings.ToLower(pats.IndirectCost)

	var (
		roi, rev      []*float64
		cogs, indir   []*float64
		matchedLabels int
	)
	for _, row := range rows[firstDataRow:] {
		label := grid.NormalizeLabel(grid.Cell(row, 0))
		if label == "" {
			continue
		}
		vals := rowValues(row, len(rounds))
		switch {
		case roiRe.MatchString(label):
			if roi == nil {
				roi = vals
				matchedLabels++
			}
		case revRe.MatchString(label):
			if rev == nil {
				rev = vals
				matchedLabels++
			}
		}
		lower := strings.ToLower(label)
		if strings.Contains(lower, cogsSub) {
			cogs = addValues(cogs, vals)
			matchedLabels++
		}
		if strings.Contains(lower, indirectSub) {
			indir = addValues(indir, vals)
			matchedLabels++
		}
	}
	if matchedLabels == 0 {
		return nil, models.NewSchemaError(sheetName, "no row matched any financial KPI pattern")
	}

	table := &models.FinanceTable{Rows: make([]models.FinanceRow, len(rounds))}
	for i, round := range rounds {
		table.Rows[i] = models.FinanceRow{
			Round:            round,
			ROI:              at(roi, i),
			RealizedRevenues: at(rev, i),
			COGS:             at(cogs, i),
			IndirectCost:     at(indir, i),
		}
	}
	return table, nil
}

// roundAxis parses the round labels out of the header row. The sheet is
// authoritative about numbering; the only requirements are at least one
// round and a strictly increasing axis.
func roundAxis(sheetName string, header []string) ([]int, error) {
	var rounds []int
	for col := firstRoundCol; col < len(header); col++ {
		n, ok := grid.ParseInt(header[col])
		if !ok {
			break
		}
		rounds = append(rounds, n)
	}
	if len(rounds) == 0 {
		return nil, models.NewSchemaError(sheetName, "no round labels in header row")
	}
	for i := 1; i < len(rounds); i++ {
		if rounds[i] <= rounds[i-1] {
			return nil, models.NewSchemaError(sheetName,
				fmt.Sprintf("round labels not strictly increasing: %d after %d", rounds[i], rounds[i-1]))
		}
	}
	return rounds, nil
}

// rowValues extracts one metric row's per-round values, missing where
// the cell is empty or non-numeric.
func rowValues(row []string, n int) []*float64 {
	vals := make([]*float64, n)
	for i := 0; i < n; i++ {
		if v, ok := grid.ParseNumber(grid.Cell(row, firstRoundCol+i)); ok {
			f := v
			vals[i] = &f
		}
	}
	return vals
}

// addValues accumulates a metric row into a running sum, treating
// missing cells as absent rather than zero: a round where every matched
// row is missing stays missing.
func addValues(acc, vals []*float64) []*float64 {
	if acc == nil {
		acc = make([]*float64, len(vals))
	}
	for i, v := range vals {
		if v == nil {
			continue
		}
		if acc[i] == nil {
			f := *v
			acc[i] = &f
		} else {
			*acc[i] += *v
		}
	}
	return acc
}

func at(vals []*float64, i int) *float64 {
	if vals == nil || i >= len(vals) {
		return nil
	}
	return vals[i]
}
