package preprocess

import (
	"fmt"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

const targetEncodedPrefix = "TE_"

// TargetEncoder adds, per designated categorical column, a numeric
// companion column holding the smoothed training-target mean of the
// row's category: (sum + alpha*globalMean) / (count + alpha). The
// original categorical column stays in place for the one-hot path. A
// category unseen at fit time gets the global mean exactly.
type TargetEncoder struct {
	Cols       []string                      `json:"cols"`
	Alpha      float64                       `json:"alpha"`
	GlobalMean float64                       `json:"globalMean"`
	Maps       map[string]map[string]float64 `json:"maps"`
}

func NewTargetEncoder(cols []string, alpha float64) *TargetEncoder {
	return &TargetEncoder{Cols: cols, Alpha: alpha}
}

func (obj *TargetEncoder) Fit(rec arrow.Record, target []float64) error {
	if target == nil {
		return errs.Wrap(fmt.Errorf("%w| target encoder cannot fit without a target", ErrTargetRequired))
	}
	if int64(len(target)) != rec.NumRows() {
		return errs.Wrap(fmt.Errorf("%w| got %d target values for %d rows", ErrTargetLength, len(target), rec.NumRows()))
	}

	var sum float64
	for _, y := range target {
		sum += y
	}
	obj.GlobalMean = sum / float64(len(target))

	obj.Maps = make(map[string]map[string]float64)
	for _, name := range obj.Cols {
		if !arrowops.HasColumn(rec, name) {
			continue
		}
		labels, valid, err := arrowops.StringValues(rec, name)
		if err != nil {
			return errs.Wrap(err)
		}

		counts := make(map[string]float64)
		sums := make(map[string]float64)
		for i, label := range labels {
			if !valid[i] {
				label = elements.MissingLabel
			}
			counts[label]++
			sums[label] += target[i]
		}

		encoded := make(map[string]float64, len(counts))
		for label, count := range counts {
			encoded[label] = (sums[label] + obj.Alpha*obj.GlobalMean) / (count + obj.Alpha)
		}
		obj.Maps[name] = encoded
	}
	return nil
}

func (obj *TargetEncoder) Transform(mem *memory.GoAllocator, rec arrow.Record) (arrow.Record, error) {
	if obj.Maps == nil {
		return nil, errs.Wrap(fmt.Errorf("%w| target encoder", ErrNotFitted))
	}

	names := make([]string, 0, len(obj.Maps))
	arrs := make([]arrow.Array, 0, len(obj.Maps))
	for _, name := range sortedKeys(obj.Maps) {
		encoded := obj.Maps[name]
		labels, valid, err := arrowops.StringValues(rec, name)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("%w| encoded column: %s", ErrColumnDrift, name))
		}

		values := make([]float64, len(labels))
		for i, label := range labels {
			if !valid[i] {
				label = elements.MissingLabel
			}
			if v, ok := encoded[label]; ok {
				values[i] = v
			} else {
				values[i] = obj.GlobalMean
			}
		}

		names = append(names, targetEncodedPrefix+name)
		arrs = append(arrs, arrowops.NewFloat64Array(mem, values, nil))
	}

	out, err := arrowops.AppendColumns(rec, names, arrs)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return out, nil
}
