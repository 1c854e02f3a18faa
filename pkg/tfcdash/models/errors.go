package models

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable indicates the source could not be fetched or read.
// Fatal: no downstream table is produced.
var ErrDataUnavailable = errors.New("data unavailable")

// ErrSchemaMismatch indicates an expected sheet or metric row is absent.
// Fatal for the affected tab only.
var ErrSchemaMismatch = errors.New("schema mismatch")

// SchemaError describes where in the workbook an expectation failed.
type SchemaError struct {
	Sheet  string
	Detail string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %q: %s: %v", e.Sheet, e.Detail, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// NewSchemaError creates a SchemaError wrapping ErrSchemaMismatch.
func NewSchemaError(sheet, detail string) *SchemaError {
	return &SchemaError{Sheet: sheet, Detail: detail, Err: ErrSchemaMismatch}
}
