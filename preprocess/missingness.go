package preprocess

import (
	"fmt"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
)

const missingFlagSuffix = "_was_missing"

// MissingnessIndicator appends one 0/1 flag column per numeric column
// that had at least one missing training value. The flagged set is fixed
// at fit time; the source columns are left in place so imputation can
// still fill them.
type MissingnessIndicator struct {
	Cols []string `json:"cols"`
}

func NewMissingnessIndicator() *MissingnessIndicator {
	return &MissingnessIndicator{}
}

func (obj *MissingnessIndicator) Fit(rec arrow.Record, target []float64) error {
	obj.Cols = []string{}
	for i := 0; i < rec.Schema().NumFields(); i++ {
		field := rec.Schema().Field(i)
		if field.Type.ID() != arrow.FLOAT64 {
			continue
		}
		if columnHasMissing(rec, field.Name) {
			obj.Cols = append(obj.Cols, field.Name)
		}
	}
	return nil
}

func (obj *MissingnessIndicator) Transform(mem *memory.GoAllocator, rec arrow.Record) (arrow.Record, error) {
	if obj.Cols == nil {
		return nil, errs.Wrap(fmt.Errorf("%w| missingness indicator", ErrNotFitted))
	}

	numRows := int(rec.NumRows())
	names := make([]string, 0, len(obj.Cols))
	arrs := make([]arrow.Array, 0, len(obj.Cols))
	for _, name := range obj.Cols {
		_, valid, err := arrowops.Float64Values(rec, name)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("%w| flagged column: %s", ErrColumnDrift, name))
		}
		flags := make([]float64, numRows)
		for i := 0; i < numRows; i++ {
			if !valid[i] {
				flags[i] = 1
			}
		}
		names = append(names, name+missingFlagSuffix)
		arrs = append(arrs, arrowops.NewFloat64Array(mem, flags, nil))
	}

	out, err := arrowops.AppendColumns(rec, names, arrs)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return out, nil
}
