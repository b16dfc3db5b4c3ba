package arrowops

import (
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// Float64Matrix converts a numeric record into a row-major matrix.
// Nulls come out as NaN so estimators with native missing handling see
// the usual marker.
func Float64Matrix(rec arrow.Record) ([][]float64, error) {
	numRows := int(rec.NumRows())
	numCols := int(rec.NumCols())

	columns := make([][]float64, numCols)
	valids := make([][]bool, numCols)
	for i := 0; i < numCols; i++ {
		values, valid, err := Float64ArrayValues(rec.Column(i))
		if err != nil {
			return nil, err
		}
		columns[i] = values
		valids[i] = valid
	}

	matrix := make([][]float64, numRows)
	for rowIdx := 0; rowIdx < numRows; rowIdx++ {
		row := make([]float64, numCols)
		for colIdx := 0; colIdx < numCols; colIdx++ {
			if valids[colIdx][rowIdx] {
				row[colIdx] = columns[colIdx][rowIdx]
			} else {
				row[colIdx] = math.NaN()
			}
		}
		matrix[rowIdx] = row
	}
	return matrix, nil
}

// TakeRows builds a new record holding the given row indices in order.
// Only the float64 and string column types produced by ingestion are
// supported.
func TakeRows(mem *memory.GoAllocator, rec arrow.Record, indices []int) (arrow.Record, error) {
	fields := make([]arrow.Field, rec.Schema().NumFields())
	arrs := make([]arrow.Array, rec.Schema().NumFields())

	for colIdx := 0; colIdx < rec.Schema().NumFields(); colIdx++ {
		fields[colIdx] = rec.Schema().Field(colIdx)
		switch rec.Schema().Field(colIdx).Type.ID() {
		case arrow.FLOAT64:
			values, valid, err := Float64ArrayValues(rec.Column(colIdx))
			if err != nil {
				return nil, err
			}
			taken := make([]float64, len(indices))
			takenValid := make([]bool, len(indices))
			for i, rowIdx := range indices {
				taken[i] = values[rowIdx]
				takenValid[i] = valid[rowIdx]
			}
			arrs[colIdx] = NewFloat64Array(mem, taken, takenValid)
		case arrow.STRING:
			values, valid, err := StringArrayValues(rec.Column(colIdx))
			if err != nil {
				return nil, err
			}
			taken := make([]string, len(indices))
			takenValid := make([]bool, len(indices))
			for i, rowIdx := range indices {
				taken[i] = values[rowIdx]
				takenValid[i] = valid[rowIdx]
			}
			arrs[colIdx] = NewStringArray(mem, taken, takenValid)
		default:
			return nil, ErrUnsupportedDataType
		}
	}

	return array.NewRecord(arrow.NewSchema(fields, nil), arrs, int64(len(indices))), nil
}

func ConcatenateRecords(mem *memory.GoAllocator, records ...arrow.Record) (arrow.Record, error) {
	if len(records) == 0 {
		return nil, ErrNoDataLeft
	}
	schema := records[0].Schema()
	for _, record := range records {
		if !schema.Equal(record.Schema()) {
			return nil, ErrSchemasNotEqual
		}
	}

	fields := make([][]arrow.Array, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		fields[i] = make([]arrow.Array, len(records))
	}
	for recordIdx, record := range records {
		for i := 0; i < schema.NumFields(); i++ {
			fields[i][recordIdx] = record.Column(i)
		}
	}

	concatenatedFields := make([]arrow.Array, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		concatenatedField, err := array.Concatenate(fields[i], mem)
		if err != nil {
			return nil, err
		}
		concatenatedFields[i] = concatenatedField
	}

	var numRows int64
	for _, record := range records {
		numRows += record.NumRows()
	}
	return array.NewRecord(schema, concatenatedFields, numRows), nil
}

func RecordsEqual(rec1, rec2 arrow.Record) bool {
	if !rec1.Schema().Equal(rec2.Schema()) {
		return false
	}
	for i := 0; i < int(rec1.NumCols()); i++ {
		if !array.Equal(rec1.Column(i), rec2.Column(i)) {
			return false
		}
	}
	return true
}
