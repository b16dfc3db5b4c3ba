package preprocess

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// ITransformer is one stateful stage of the preprocessing chain. Fit
// computes the stage's statistics from training data exactly once;
// Transform reapplies them unchanged. A stage must not mutate its state
// outside Fit, so a fitted chain can serve concurrent transforms.
type ITransformer interface {
	Fit(rec arrow.Record, target []float64) error
	Transform(mem *memory.GoAllocator, rec arrow.Record) (arrow.Record, error)
}
