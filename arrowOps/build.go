package arrowops

import (
	"fmt"
	"math"
	"slices"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// NewFloat64Array builds a float64 array where invalid positions and NaN
// values become nulls. A nil mask marks every finite value valid.
func NewFloat64Array(mem *memory.GoAllocator, values []float64, valid []bool) arrow.Array {
	builder := array.NewFloat64Builder(mem)
	defer builder.Release()
	for i, v := range values {
		if (valid != nil && !valid[i]) || math.IsNaN(v) {
			builder.AppendNull()
			continue
		}
		builder.Append(v)
	}
	return builder.NewArray()
}

func NewStringArray(mem *memory.GoAllocator, values []string, valid []bool) arrow.Array {
	builder := array.NewStringBuilder(mem)
	defer builder.Release()
	for i, v := range values {
		if valid != nil && !valid[i] {
			builder.AppendNull()
			continue
		}
		builder.Append(v)
	}
	return builder.NewArray()
}

// ReplaceColumn returns a new record with the named column swapped for
// the given array, keeping its position. The field type follows the new
// array.
func ReplaceColumn(rec arrow.Record, name string, arr arrow.Array) (arrow.Record, error) {
	colIdx := ColumnIndex(rec, name)
	if colIdx < 0 {
		return nil, errs.Wrap(fmt.Errorf("%w| column name: %s", ErrColumnNotFound, name))
	}
	if int64(arr.Len()) != rec.NumRows() {
		return nil, errs.Wrap(fmt.Errorf("%w| column name: %s", ErrLengthMismatch, name))
	}

	fields := make([]arrow.Field, rec.Schema().NumFields())
	columns := make([]arrow.Array, rec.Schema().NumFields())
	for i := 0; i < rec.Schema().NumFields(); i++ {
		if i == colIdx {
			fields[i] = arrow.Field{Name: name, Type: arr.DataType(), Nullable: true}
			columns[i] = arr
			continue
		}
		fields[i] = rec.Schema().Field(i)
		columns[i] = rec.Column(i)
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), columns, rec.NumRows()), nil
}

// AppendColumns returns a new record with the named arrays appended in
// the order given.
func AppendColumns(rec arrow.Record, names []string, arrs []arrow.Array) (arrow.Record, error) {
	if len(names) != len(arrs) {
		return nil, errs.Wrap(fmt.Errorf("%w| names and arrays", ErrLengthMismatch))
	}

	fields := make([]arrow.Field, 0, rec.Schema().NumFields()+len(names))
	columns := make([]arrow.Array, 0, rec.Schema().NumFields()+len(names))
	for i := 0; i < rec.Schema().NumFields(); i++ {
		fields = append(fields, rec.Schema().Field(i))
		columns = append(columns, rec.Column(i))
	}
	for i, name := range names {
		if int64(arrs[i].Len()) != rec.NumRows() {
			return nil, errs.Wrap(fmt.Errorf("%w| column name: %s", ErrLengthMismatch, name))
		}
		fields = append(fields, arrow.Field{Name: name, Type: arrs[i].DataType(), Nullable: true})
		columns = append(columns, arrs[i])
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), columns, rec.NumRows()), nil
}

func TakeColumns(rec arrow.Record, columnNames []string) (arrow.Record, error) {
	var selectedCols []arrow.Array
	var selectedFields []arrow.Field

	for _, colName := range columnNames {
		colIdx := ColumnIndex(rec, colName)
		if colIdx < 0 {
			return nil, errs.Wrap(fmt.Errorf("%w| column name: %s", ErrColumnNotFound, colName))
		}
		selectedCols = append(selectedCols, rec.Column(colIdx))
		selectedFields = append(selectedFields, rec.Schema().Field(colIdx))
	}

	newSchema := arrow.NewSchema(selectedFields, nil)
	return array.NewRecord(newSchema, selectedCols, rec.NumRows()), nil
}

func DropColumns(rec arrow.Record, columnNames []string) (arrow.Record, error) {
	var keptNames []string
	for i := 0; i < rec.Schema().NumFields(); i++ {
		name := rec.Schema().Field(i).Name
		if !slices.Contains(columnNames, name) {
			keptNames = append(keptNames, name)
		}
	}
	return TakeColumns(rec, keptNames)
}

// NewFloat64Record assembles a record of float64 columns. NaN values and
// masked positions become nulls.
func NewFloat64Record(mem *memory.GoAllocator, names []string, columns [][]float64, valids [][]bool, numRows int) (arrow.Record, error) {
	if len(names) != len(columns) {
		return nil, errs.Wrap(fmt.Errorf("%w| names and columns", ErrLengthMismatch))
	}

	fields := make([]arrow.Field, len(names))
	arrs := make([]arrow.Array, len(names))
	for i, name := range names {
		if len(columns[i]) != numRows {
			return nil, errs.Wrap(fmt.Errorf("%w| column name: %s", ErrLengthMismatch, name))
		}
		var valid []bool
		if valids != nil {
			valid = valids[i]
		}
		fields[i] = arrow.Field{Name: name, Type: &arrow.Float64Type{}, Nullable: true}
		arrs[i] = NewFloat64Array(mem, columns[i], valid)
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), arrs, int64(numRows)), nil
}
