package preprocess

import (
	"fmt"
	"sort"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
)

// OrdinalMapper replaces ordinal category labels with their rank in the
// canonical order. Labels outside the declared order become missing,
// never an error.
type OrdinalMapper struct {
	orders map[string][]string

	Maps map[string]map[string]float64 `json:"maps"`
}

func NewOrdinalMapper(orders map[string][]string) *OrdinalMapper {
	return &OrdinalMapper{orders: orders}
}

func (obj *OrdinalMapper) Fit(rec arrow.Record, target []float64) error {
	obj.Maps = make(map[string]map[string]float64)
	for name, order := range obj.orders {
		if !arrowops.HasColumn(rec, name) {
			continue
		}
		codes := make(map[string]float64, len(order))
		for rank, label := range order {
			codes[label] = float64(rank)
		}
		obj.Maps[name] = codes
	}
	return nil
}

func (obj *OrdinalMapper) Transform(mem *memory.GoAllocator, rec arrow.Record) (arrow.Record, error) {
	if obj.Maps == nil {
		return nil, errs.Wrap(fmt.Errorf("%w| ordinal mapper", ErrNotFitted))
	}

	for _, name := range sortedKeys(obj.Maps) {
		codes := obj.Maps[name]
		labels, valid, err := arrowops.StringValues(rec, name)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("%w| ordinal column: %s", ErrColumnDrift, name))
		}

		values := make([]float64, len(labels))
		mapped := make([]bool, len(labels))
		for i, label := range labels {
			if !valid[i] {
				continue
			}
			if code, ok := codes[label]; ok {
				values[i] = code
				mapped[i] = true
			}
		}

		rec, err = arrowops.ReplaceColumn(rec, name, arrowops.NewFloat64Array(mem, values, mapped))
		if err != nil {
			return nil, errs.Wrap(err)
		}
	}
	return rec, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
