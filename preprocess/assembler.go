package preprocess

import (
	"fmt"
	"math"
	"sort"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

// CategoryEncoding is the fitted state of one nominal column: the
// most-frequent training level and the fixed one-hot vocabulary.
// Missing values read as the missing label, so a column whose training
// data had frequent gaps carries a hot-able missing level of its own.
// Transform-time categories outside the vocabulary encode as all zeros,
// so unseen labels neither fail nor change the output width.
type CategoryEncoding struct {
	Mode       string   `json:"mode"`
	Categories []string `json:"categories"`
}

// NumericImputer is the fitted fill value for one numeric column.
type NumericImputer struct {
	Fill float64 `json:"fill"`
}

// ContinuousEncoding pairs a median imputer with the rank-to-normal
// transform for one continuous column.
type ContinuousEncoding struct {
	Fill     float64         `json:"fill"`
	Quantile *QuantileNormal `json:"quantile"`
}

// GroupAssembler routes each column group through its imputation and
// encoding sub-pipeline and concatenates the results into one numeric
// matrix, in the fixed group order nominal, ordinal, continuous,
// missing-prone, passthrough. It also records the inverse mapping from
// output column index back to feature name.
type GroupAssembler struct {
	Roles elements.FeatureRoles `json:"roles"`

	Nominal      map[string]*CategoryEncoding   `json:"nominal"`
	Ordinal      map[string]*NumericImputer     `json:"ordinal"`
	Continuous   map[string]*ContinuousEncoding `json:"continuous"`
	MissingProne map[string]*NumericImputer     `json:"missingProne"`
	Passthrough  []string                       `json:"passthrough"`

	OutputNames []string `json:"outputNames"`
}

func NewGroupAssembler(roles elements.FeatureRoles) *GroupAssembler {
	return &GroupAssembler{Roles: roles}
}

func (obj *GroupAssembler) Fit(rec arrow.Record, target []float64) error {
	obj.Nominal = make(map[string]*CategoryEncoding)
	obj.Ordinal = make(map[string]*NumericImputer)
	obj.Continuous = make(map[string]*ContinuousEncoding)
	obj.MissingProne = make(map[string]*NumericImputer)
	obj.Passthrough = nil
	obj.OutputNames = nil

	for _, name := range obj.Roles.Nominal {
		labels, valid, err := arrowops.StringValues(rec, name)
		if err != nil {
			return errs.Wrap(err)
		}
		encoding := &CategoryEncoding{Mode: stringMode(labels, valid)}
		encoding.Categories = uniqueSorted(labels, valid)
		obj.Nominal[name] = encoding
		for _, category := range encoding.Categories {
			obj.OutputNames = append(obj.OutputNames, name+"="+category)
		}
	}

	for _, name := range obj.Roles.Ordinal {
		values, valid, err := arrowops.Float64Values(rec, name)
		if err != nil {
			return errs.Wrap(err)
		}
		obj.Ordinal[name] = &NumericImputer{Fill: numericMode(values, valid)}
		obj.OutputNames = append(obj.OutputNames, name)
	}

	for _, name := range obj.Roles.Continuous {
		values, valid, err := arrowops.Float64Values(rec, name)
		if err != nil {
			return errs.Wrap(err)
		}
		fill := median(values, valid)
		imputed := imputeValues(values, valid, fill)
		obj.Continuous[name] = &ContinuousEncoding{
			Fill:     fill,
			Quantile: FitQuantileNormal(imputed),
		}
		obj.OutputNames = append(obj.OutputNames, name)
	}

	for _, name := range obj.Roles.MissingProne {
		values, valid, err := arrowops.Float64Values(rec, name)
		if err != nil {
			return errs.Wrap(err)
		}
		obj.MissingProne[name] = &NumericImputer{Fill: median(values, valid)}
		obj.OutputNames = append(obj.OutputNames, name)
	}

	for i := 0; i < rec.Schema().NumFields(); i++ {
		name := rec.Schema().Field(i).Name
		if !obj.Roles.Claimed(name) {
			obj.Passthrough = append(obj.Passthrough, name)
			obj.OutputNames = append(obj.OutputNames, name)
		}
	}

	return nil
}

func (obj *GroupAssembler) Transform(mem *memory.GoAllocator, rec arrow.Record) (arrow.Record, error) {
	if obj.OutputNames == nil {
		return nil, errs.Wrap(fmt.Errorf("%w| group assembler", ErrNotFitted))
	}

	numRows := int(rec.NumRows())
	columns := make([][]float64, 0, len(obj.OutputNames))
	valids := make([][]bool, 0, len(obj.OutputNames))

	for _, name := range obj.Roles.Nominal {
		encoding := obj.Nominal[name]
		labels, valid, err := arrowops.StringValues(rec, name)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("%w| nominal column: %s", ErrColumnDrift, name))
		}
		for categoryIdx := range encoding.Categories {
			category := encoding.Categories[categoryIdx]
			hot := make([]float64, numRows)
			for i := 0; i < numRows; i++ {
				label := elements.MissingLabel
				if valid[i] {
					label = labels[i]
				}
				if label == category {
					hot[i] = 1
				}
			}
			columns = append(columns, hot)
			valids = append(valids, nil)
		}
	}

	for _, name := range obj.Roles.Ordinal {
		imputed, err := obj.imputedColumn(rec, name, obj.Ordinal[name].Fill)
		if err != nil {
			return nil, err
		}
		columns = append(columns, imputed)
		valids = append(valids, nil)
	}

	for _, name := range obj.Roles.Continuous {
		encoding := obj.Continuous[name]
		imputed, err := obj.imputedColumn(rec, name, encoding.Fill)
		if err != nil {
			return nil, err
		}
		normalized := make([]float64, numRows)
		for i, v := range imputed {
			normalized[i] = encoding.Quantile.Apply(v)
		}
		columns = append(columns, normalized)
		valids = append(valids, nil)
	}

	for _, name := range obj.Roles.MissingProne {
		imputed, err := obj.imputedColumn(rec, name, obj.MissingProne[name].Fill)
		if err != nil {
			return nil, err
		}
		columns = append(columns, imputed)
		valids = append(valids, nil)
	}

	for _, name := range obj.Passthrough {
		values, valid, err := arrowops.Float64Values(rec, name)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("%w| passthrough column: %s", ErrColumnDrift, name))
		}
		columns = append(columns, values)
		valids = append(valids, valid)
	}

	out, err := arrowops.NewFloat64Record(mem, obj.OutputNames, columns, valids, numRows)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return out, nil
}

func (obj *GroupAssembler) imputedColumn(rec arrow.Record, name string, fill float64) ([]float64, error) {
	values, valid, err := arrowops.Float64Values(rec, name)
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("%w| numeric column: %s", ErrColumnDrift, name))
	}
	return imputeValues(values, valid, fill), nil
}

func imputeValues(values []float64, valid []bool, fill float64) []float64 {
	imputed := make([]float64, len(values))
	for i, v := range values {
		if valid[i] {
			imputed[i] = v
		} else {
			imputed[i] = fill
		}
	}
	return imputed
}

// stringMode picks the most frequent label, breaking ties toward the
// lexicographically smallest. Missing values are counted under the
// missing label so an almost-empty column still has a usable fill.
func stringMode(labels []string, valid []bool) string {
	counts := make(map[string]int)
	for i, label := range labels {
		if !valid[i] {
			label = elements.MissingLabel
		}
		counts[label]++
	}

	best := elements.MissingLabel
	bestCount := -1
	for _, label := range sortedKeys(counts) {
		if counts[label] > bestCount {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}

func numericMode(values []float64, valid []bool) float64 {
	counts := make(map[float64]int)
	for i, v := range values {
		if valid[i] {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return 0
	}

	keys := make([]float64, 0, len(counts))
	for v := range counts {
		keys = append(keys, v)
	}
	sort.Float64s(keys)

	best := keys[0]
	bestCount := -1
	for _, v := range keys {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

func median(values []float64, valid []bool) float64 {
	observed := make([]float64, 0, len(values))
	for i, v := range values {
		if valid[i] && !math.IsNaN(v) {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return 0
	}
	sort.Float64s(observed)
	return percentile(observed, 0.5)
}

func uniqueSorted(labels []string, valid []bool) []string {
	seen := make(map[string]bool)
	for i, label := range labels {
		if !valid[i] {
			label = elements.MissingLabel
		}
		seen[label] = true
	}
	return sortedKeys(seen)
}
