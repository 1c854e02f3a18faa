package finance

import (
	"errors"
	"testing"

	"github.com/freshconn/tfcdash/pkg/tfcdash/catalog"
	"github.com/freshconn/tfcdash/pkg/tfcdash/models"
)

func defaultPatterns() catalog.FinancePatterns {
	return catalog.Default().Finance
}

func TestExtract(t *testing.T) {
	grid := [][]string{
		{"The Fresh Connection - finance report"},
		{"", "1", "2", "3"},
		{"ROI", "5.5", "6.1", "n/a"},
		{"Realized revenue", "100", "", "120"},
		{"Gross margin - Cost of goods sold", "10", "20", "30"},
		{"Purchasing - Cost of goods sold", "5", "", "2"},
		{"Operating profit - Indirect cost", "7", "8", "9"},
	}

	table, err := Extract("finance report", grid, defaultPatterns())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(table.Rows) != 3 {
		t.Fatalf("Expected one row per header round (3), got %d", len(table.Rows))
	}
	for i, want := range []int{1, 2, 3} {
		if table.Rows[i].Round != want {
			t.Errorf("Row %d: expected round %d, got %d", i, want, table.Rows[i].Round)
		}
	}

	if got := table.Rows[0].ROI; got == nil || *got != 5.5 {
		t.Errorf("ROI round 1: expected 5.5, got %v", got)
	}
	// Non-numeric cell is missing, never a string.
	if got := table.Rows[2].ROI; got != nil {
		t.Errorf("ROI round 3: expected missing, got %v", *got)
	}
	if got := table.Rows[1].RealizedRevenues; got != nil {
		t.Errorf("Realized revenues round 2: expected missing, got %v", *got)
	}
}

func TestExtractSumsCostRows(t *testing.T) {
	grid := [][]string{
		{"finance report"},
		{"", "1", "2"},
		{"Gross margin - Cost of goods sold", "10", "20"},
		{"Purchasing - Cost of goods sold", "5", ""},
	}

	table, err := Extract("finance report", grid, defaultPatterns())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	// Both rows mention cost of goods sold: sum, not first match.
	if got := table.Rows[0].COGS; got == nil || *got != 15 {
		t.Errorf("COGS round 1: expected 15, got %v", got)
	}
	// A missing cell in one matched row does not zero the other.
	if got := table.Rows[1].COGS; got == nil || *got != 20 {
		t.Errorf("COGS round 2: expected 20, got %v", got)
	}
}

func TestExtractLabelNormalization(t *testing.T) {
	grid := [][]string{
		{"finance report"},
		{"", "0", "1"},
		{"  roi  ", "4.0", "4.5"},
		{"REALIZED REVENUE", "80", "90"},
	}

	table, err := Extract("finance report", grid, defaultPatterns())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got := table.Rows[0].ROI; got == nil || *got != 4.0 {
		t.Errorf("ROI round 0: expected 4.0, got %v", got)
	}
	if got := table.Rows[1].RealizedRevenues; got == nil || *got != 90 {
		t.Errorf("Realized revenues round 1: expected 90, got %v", got)
	}
}

func TestExtractSchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		grid [][]string
	}{
		{
			name: "no matching metric row",
			grid: [][]string{
				{"finance report"},
				{"", "1", "2"},
				{"Something else", "1", "2"},
			},
		},
		{
			name: "no round labels",
			grid: [][]string{
				{"finance report"},
				{"", "first", "second"},
				{"ROI", "1", "2"},
			},
		},
		{
			name: "duplicate rounds",
			grid: [][]string{
				{"finance report"},
				{"", "1", "1"},
				{"ROI", "1", "2"},
			},
		},
		{
			name: "too few rows",
			grid: [][]string{{"finance report"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract("finance report", tt.grid, defaultPatterns())
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !errors.Is(err, models.ErrSchemaMismatch) {
				t.Errorf("Expected ErrSchemaMismatch, got %v", err)
			}
		})
	}
}

func TestExtractRoundAxisFromHeader(t *testing.T) {
	// The header is authoritative: rounds 0..6, label run ends at the
	// first non-numeric cell.
	grid := [][]string{
		{"finance report"},
		{"", "0", "1", "2", "3", "4", "5", "6", "total"},
		{"ROI", "1", "2", "3", "4", "5", "6", "7", "28"},
	}

	table, err := Extract("finance report", grid, defaultPatterns())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(table.Rows) != 7 {
		t.Fatalf("Expected 7 rounds, got %d", len(table.Rows))
	}
	for i, row := range table.Rows {
		if row.Round != i {
			t.Errorf("Row %d: expected round %d, got %d", i, i, row.Round)
		}
		if i > 0 && table.Rows[i].Round <= table.Rows[i-1].Round {
			t.Errorf("Rounds not strictly increasing at index %d", i)
		}
	}
	// The "total" column is not a round.
	if got := table.Rows[6].ROI; got == nil || *got != 7 {
		t.Errorf("ROI round 6: expected 7, got %v", got)
	}
}
