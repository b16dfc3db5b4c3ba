package serving

import "errors"

var (
	ErrNoPipelineLoaded = errors.New("no fitted pipeline loaded")
)
