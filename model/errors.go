package model

import "errors"

var (
	ErrModelNotFitted = errors.New("model not fitted")
	ErrUnknownModel   = errors.New("unknown model")
	ErrLengthMismatch = errors.New("prediction and target lengths differ")
)
