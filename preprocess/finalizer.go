package preprocess

import (
	"fmt"
	"math"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
)

// Finalizer replaces non-finite values with missing markers and drops
// the output columns that were entirely missing across the training
// matrix. The dropped index set is fixed at fit time and applied to
// every subsequent transform, so the output width never changes even
// when a dropped column happens to hold data in new input.
type Finalizer struct {
	KeepIdx  []int `json:"keepIdx"`
	NumInput int   `json:"numInput"`
}

func NewFinalizer() *Finalizer {
	return &Finalizer{}
}

func (obj *Finalizer) Fit(rec arrow.Record, target []float64) error {
	obj.NumInput = int(rec.NumCols())
	obj.KeepIdx = []int{}

	for colIdx := 0; colIdx < obj.NumInput; colIdx++ {
		values, valid, err := arrowops.Float64ArrayValues(rec.Column(colIdx))
		if err != nil {
			return errs.Wrap(err)
		}
		for i := range values {
			if valid[i] && !math.IsInf(values[i], 0) {
				obj.KeepIdx = append(obj.KeepIdx, colIdx)
				break
			}
		}
	}
	return nil
}

func (obj *Finalizer) Transform(mem *memory.GoAllocator, rec arrow.Record) (arrow.Record, error) {
	if obj.KeepIdx == nil {
		return nil, errs.Wrap(fmt.Errorf("%w| finalizer", ErrNotFitted))
	}
	if int(rec.NumCols()) != obj.NumInput {
		return nil, errs.Wrap(fmt.Errorf(
			"%w| finalizer fitted on %d columns, got %d", ErrColumnDrift, obj.NumInput, rec.NumCols()))
	}

	numRows := int(rec.NumRows())
	names := make([]string, len(obj.KeepIdx))
	columns := make([][]float64, len(obj.KeepIdx))
	valids := make([][]bool, len(obj.KeepIdx))

	for i, colIdx := range obj.KeepIdx {
		values, valid, err := arrowops.Float64ArrayValues(rec.Column(colIdx))
		if err != nil {
			return nil, errs.Wrap(err)
		}
		for rowIdx := range values {
			if valid[rowIdx] && math.IsInf(values[rowIdx], 0) {
				valid[rowIdx] = false
			}
		}
		names[i] = rec.Schema().Field(colIdx).Name
		columns[i] = values
		valids[i] = valid
	}

	out, err := arrowops.NewFloat64Record(mem, names, columns, valids, numRows)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return out, nil
}
