package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateRecord is returned by the record store when an incoming
// record's fingerprint already exists. Callers treat it as a distinct
// outcome, not a failure.
var ErrDuplicateRecord = errors.New("record already exists")

// ErrSpecNotFound is returned by the configuration provider when no mapping
// specification or calculator schema exists for the requested product type.
var ErrSpecNotFound = errors.New("no configuration for product type")

// MappingError reports that a whole mapping pass could not run, as opposed to
// a single field degrading.
type MappingError struct {
	ProductType string
	Err         error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("field mapping failed for product type %q: %v", e.ProductType, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }
