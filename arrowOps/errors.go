package arrowops

import "errors"

var (
	ErrUnsupportedDataType = errors.New("unsupported data type")
	ErrColumnNotFound      = errors.New("column not found")
	ErrNoDataLeft          = errors.New("no data left")
	ErrSchemasNotEqual     = errors.New("schemas not equal")
	ErrLengthMismatch      = errors.New("length mismatch")
)
