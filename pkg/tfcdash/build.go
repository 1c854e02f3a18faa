package tfcdash

import (
	"context"

	"github.com/freshconn/tfcdash/pkg/tfcdash/finance"
	"github.com/freshconn/tfcdash/pkg/tfcdash/models"
	"github.com/freshconn/tfcdash/pkg/tfcdash/normalize"
)

// Build loads the source workbook and derives every dashboard table.
//
// The source is a filesystem path or an HTTP(S) URL. A load failure or
// a missing finance report aborts the whole build; a schema problem in
// a single functional sheet only skips that tab, recorded in
// Dashboard.Skipped with its reason.
func Build(ctx context.Context, src string, opts Options) (*models.Dashboard, error) {
	wb, err := opts.loader().Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return BuildFromWorkbook(wb, opts)
}

// BuildFromWorkbook derives the dashboard tables from an already loaded
// workbook. Derivation is deterministic: the same workbook and options
// always produce the same dashboard.
func BuildFromWorkbook(wb *models.Workbook, opts Options) (*models.Dashboard, error) {
	cat := opts.catalog()

	finSheet, ok := wb.Sheet(cat.FinanceSheet)
	if !ok {
		return nil, models.NewSchemaError(cat.FinanceSheet, "sheet not found in workbook")
	}
	fin, err := finance.Extract(cat.FinanceSheet, finSheet.Rows, cat.Finance)
	if err != nil {
		return nil, err
	}

	dash := &models.Dashboard{
		SourceName: wb.SourceName,
		Finance:    *fin,
	}
	for _, spec := range cat.Domains {
		if !opts.wantsDomain(spec.Name) {
			continue
		}
		sheet, ok := wb.Sheet(spec.Sheet)
		if !ok {
			dash.Skipped = append(dash.Skipped, models.SkippedDomain{
				Domain: spec.Name,
				Reason: "sheet " + spec.Sheet + " not found in workbook",
			})
			continue
		}
		table, err := normalize.Normalize(spec, spec.Sheet, sheet.Rows, fin)
		if err != nil {
			dash.Skipped = append(dash.Skipped, models.SkippedDomain{
				Domain: spec.Name,
				Reason: err.Error(),
			})
			continue
		}
		dash.Domains = append(dash.Domains, *table)
	}
	return dash, nil
}
