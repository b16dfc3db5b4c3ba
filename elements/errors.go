package elements

import "errors"

var (
	ErrColumnNotFound      = errors.New("column not found")
	ErrFeatureRolesInvalid = errors.New("feature roles invalid")
)
