package operations

import "errors"

var (
	ErrEmptyFile                            = errors.New("file has no rows")
	ErrTargetColumnNotFound                 = errors.New("target column not found")
	ErrTargetColumnIncomplete               = errors.New("target column has missing values")
	ErrUnsupportedArrowToAvroTypeConversion = errors.New("unsupported arrow to avro type conversion")
	ErrAvroRowInvalid                       = errors.New("avro row invalid")
	ErrSplitFractionInvalid                 = errors.New("split fraction must be in (0, 1)")
	ErrLengthMismatch                       = errors.New("length mismatch")
)
