package arrowops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

// missingSentinels are textual values treated as a missing marker when a
// loosely typed column is coerced.
var missingSentinels = map[string]bool{
	"":    true,
	"NA":  true,
	"N/A": true,
	"NaN": true,
	"nan": true,
}

func IsMissingSentinel(value string) bool {
	return missingSentinels[strings.TrimSpace(value)]
}

func ColumnIndex(rec arrow.Record, name string) int {
	indices := rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return -1
	}
	return indices[0]
}

func HasColumn(rec arrow.Record, name string) bool {
	return ColumnIndex(rec, name) >= 0
}

// Float64Values extracts a column as float64 values plus a validity mask.
// Integer columns are widened and textual columns are parsed, so
// numeric-as-string input is tolerated. Nulls, NaNs and unparsable text
// are marked invalid.
func Float64Values(rec arrow.Record, name string) ([]float64, []bool, error) {
	colIdx := ColumnIndex(rec, name)
	if colIdx < 0 {
		return nil, nil, errs.Wrap(fmt.Errorf("%w| column name: %s", ErrColumnNotFound, name))
	}
	return Float64ArrayValues(rec.Column(colIdx))
}

func Float64ArrayValues(arr arrow.Array) ([]float64, []bool, error) {
	n := arr.Len()
	values := make([]float64, n)
	valid := make([]bool, n)

	appendValue := func(i int, v float64, ok bool) {
		if ok && !math.IsNaN(v) {
			values[i] = v
			valid[i] = true
		}
	}

	switch typedArr := arr.(type) {
	case *array.Float64:
		for i := 0; i < n; i++ {
			appendValue(i, typedArr.Value(i), typedArr.IsValid(i))
		}
	case *array.Float32:
		for i := 0; i < n; i++ {
			appendValue(i, float64(typedArr.Value(i)), typedArr.IsValid(i))
		}
	case *array.Int64:
		for i := 0; i < n; i++ {
			appendValue(i, float64(typedArr.Value(i)), typedArr.IsValid(i))
		}
	case *array.Int32:
		for i := 0; i < n; i++ {
			appendValue(i, float64(typedArr.Value(i)), typedArr.IsValid(i))
		}
	case *array.Boolean:
		for i := 0; i < n; i++ {
			v := 0.0
			if typedArr.Value(i) {
				v = 1.0
			}
			appendValue(i, v, typedArr.IsValid(i))
		}
	case *array.String:
		for i := 0; i < n; i++ {
			if !typedArr.IsValid(i) || IsMissingSentinel(typedArr.Value(i)) {
				continue
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(typedArr.Value(i)), 64)
			appendValue(i, parsed, err == nil)
		}
	default:
		return nil, nil, errs.Wrap(fmt.Errorf("%w| data type: %s", ErrUnsupportedDataType, arr.DataType().Name()))
	}

	return values, valid, nil
}

// StringValues extracts a column as text plus a validity mask. Numeric
// columns are formatted with the shortest round-trip representation.
func StringValues(rec arrow.Record, name string) ([]string, []bool, error) {
	colIdx := ColumnIndex(rec, name)
	if colIdx < 0 {
		return nil, nil, errs.Wrap(fmt.Errorf("%w| column name: %s", ErrColumnNotFound, name))
	}
	return StringArrayValues(rec.Column(colIdx))
}

func StringArrayValues(arr arrow.Array) ([]string, []bool, error) {
	n := arr.Len()
	values := make([]string, n)
	valid := make([]bool, n)

	switch typedArr := arr.(type) {
	case *array.String:
		for i := 0; i < n; i++ {
			if !typedArr.IsValid(i) || IsMissingSentinel(typedArr.Value(i)) {
				continue
			}
			values[i] = typedArr.Value(i)
			valid[i] = true
		}
	case *array.Float64:
		for i := 0; i < n; i++ {
			if !typedArr.IsValid(i) || math.IsNaN(typedArr.Value(i)) {
				continue
			}
			values[i] = strconv.FormatFloat(typedArr.Value(i), 'g', -1, 64)
			valid[i] = true
		}
	case *array.Int64:
		for i := 0; i < n; i++ {
			if !typedArr.IsValid(i) {
				continue
			}
			values[i] = strconv.FormatInt(typedArr.Value(i), 10)
			valid[i] = true
		}
	case *array.Int32:
		for i := 0; i < n; i++ {
			if !typedArr.IsValid(i) {
				continue
			}
			values[i] = strconv.FormatInt(int64(typedArr.Value(i)), 10)
			valid[i] = true
		}
	default:
		return nil, nil, errs.Wrap(fmt.Errorf("%w| data type: %s", ErrUnsupportedDataType, arr.DataType().Name()))
	}

	return values, valid, nil
}
