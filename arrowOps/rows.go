package arrowops

import (
	"math"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/alekLukanen/HousePricePipeline/elements"
)

// RecordFromRows builds a record matching the given column set from
// loosely typed row maps. Keys outside the column set are ignored and
// columns absent from every row come out entirely null.
func RecordFromRows(mem *memory.GoAllocator, columns []elements.Column, rows []map[string]interface{}) (arrow.Record, error) {
	fields := make([]arrow.Field, len(columns))
	arrs := make([]arrow.Array, len(columns))

	for colIdx, col := range columns {
		fields[colIdx] = arrow.Field{Name: col.Name, Type: col.Dtype, Nullable: true}
		switch col.Dtype.ID() {
		case arrow.FLOAT64:
			values := make([]float64, len(rows))
			valid := make([]bool, len(rows))
			for i, row := range rows {
				values[i], valid[i] = coerceFloat(row[col.Name])
			}
			arrs[colIdx] = NewFloat64Array(mem, values, valid)
		default:
			values := make([]string, len(rows))
			valid := make([]bool, len(rows))
			for i, row := range rows {
				values[i], valid[i] = coerceString(row[col.Name])
			}
			arrs[colIdx] = NewStringArray(mem, values, valid)
		}
	}

	return array.NewRecord(arrow.NewSchema(fields, nil), arrs, int64(len(rows))), nil
}

func coerceFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), !math.IsNaN(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		if IsMissingSentinel(v) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func coerceString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		if IsMissingSentinel(v) {
			return "", false
		}
		return v, true
	case float64:
		if math.IsNaN(v) {
			return "", false
		}
		// integral codes like MSSubClass arrive as JSON numbers
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		if v {
			return "Y", true
		}
		return "N", true
	default:
		return "", false
	}
}

// NormalizeRecord coerces a loosely typed record onto the given column
// set: expected columns that are absent come out entirely null, unknown
// columns are dropped, and every kept column is cast to its declared
// type. Columns absent from the set keep nothing; callers relying on
// passthrough columns must include them in the set.
func NormalizeRecord(mem *memory.GoAllocator, rec arrow.Record, columns []elements.Column) (arrow.Record, error) {
	numRows := int(rec.NumRows())
	fields := make([]arrow.Field, len(columns))
	arrs := make([]arrow.Array, len(columns))

	for colIdx, col := range columns {
		fields[colIdx] = arrow.Field{Name: col.Name, Type: col.Dtype, Nullable: true}
		if !HasColumn(rec, col.Name) {
			switch col.Dtype.ID() {
			case arrow.FLOAT64:
				arrs[colIdx] = NewFloat64Array(mem, make([]float64, numRows), make([]bool, numRows))
			default:
				arrs[colIdx] = NewStringArray(mem, make([]string, numRows), make([]bool, numRows))
			}
			continue
		}

		switch col.Dtype.ID() {
		case arrow.FLOAT64:
			values, valid, err := Float64Values(rec, col.Name)
			if err != nil {
				return nil, err
			}
			arrs[colIdx] = NewFloat64Array(mem, values, valid)
		default:
			values, valid, err := StringValues(rec, col.Name)
			if err != nil {
				return nil, err
			}
			arrs[colIdx] = NewStringArray(mem, values, valid)
		}
	}

	return array.NewRecord(arrow.NewSchema(fields, nil), arrs, int64(numRows)), nil
}
