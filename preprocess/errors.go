package preprocess

import "errors"

var (
	ErrTargetRequired     = errors.New("target required")
	ErrTargetLength       = errors.New("target length does not match table rows")
	ErrNotFitted          = errors.New("transformer not fitted")
	ErrFittedStateInvalid = errors.New("fitted state invalid")
	ErrColumnDrift        = errors.New("table columns drifted from fitted schema")
)
