package tfcdash

import "github.com/freshconn/tfcdash/pkg/tfcdash/models"

// ErrDataUnavailable indicates the spreadsheet source could not be
// fetched or read. Fatal: no dashboard is produced.
var ErrDataUnavailable = models.ErrDataUnavailable

// ErrSchemaMismatch indicates an expected sheet or metric row is
// absent. Fatal for the finance report; for a functional sheet the
// affected tab is skipped and the rest of the dashboard is built.
var ErrSchemaMismatch = models.ErrSchemaMismatch

// SchemaError carries the sheet and detail of a schema failure.
type SchemaError = models.SchemaError
