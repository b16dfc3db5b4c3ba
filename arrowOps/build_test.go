package arrowops

import (
	"math"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
)

func buildTestRecord(mem *memory.GoAllocator) arrow.Record {
	fields := []arrow.Field{
		{Name: "a", Type: &arrow.Float64Type{}, Nullable: true},
		{Name: "b", Type: &arrow.StringType{}, Nullable: true},
	}
	arrs := []arrow.Array{
		NewFloat64Array(mem, []float64{1, 2}, nil),
		NewStringArray(mem, []string{"x", "y"}, nil),
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), arrs, 2)
}

func TestReplaceColumn(t *testing.T) {

	mem := memory.NewGoAllocator()
	rec := buildTestRecord(mem)
	defer rec.Release()

	replacement := NewFloat64Array(mem, []float64{10, 20}, nil)
	out, err := ReplaceColumn(rec, "b", replacement)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer out.Release()

	// position kept, type follows the new array
	assert.Equal(t, "b", out.Schema().Field(1).Name)
	assert.Equal(t, arrow.FLOAT64, out.Schema().Field(1).Type.ID())

	_, err = ReplaceColumn(rec, "missing", replacement)
	assert.ErrorIs(t, err, ErrColumnNotFound)

	short := NewFloat64Array(mem, []float64{1}, nil)
	_, err = ReplaceColumn(rec, "a", short)
	assert.ErrorIs(t, err, ErrLengthMismatch)

}

func TestAppendColumns(t *testing.T) {

	mem := memory.NewGoAllocator()
	rec := buildTestRecord(mem)
	defer rec.Release()

	out, err := AppendColumns(
		rec,
		[]string{"c"},
		[]arrow.Array{NewFloat64Array(mem, []float64{5, 6}, nil)},
	)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer out.Release()

	assert.Equal(t, int64(3), out.NumCols())
	assert.Equal(t, "c", out.Schema().Field(2).Name)

	_, err = AppendColumns(
		rec,
		[]string{"d"},
		[]arrow.Array{NewFloat64Array(mem, []float64{5}, nil)},
	)
	assert.ErrorIs(t, err, ErrLengthMismatch)

}

func TestTakeAndDropColumns(t *testing.T) {

	mem := memory.NewGoAllocator()
	rec := buildTestRecord(mem)
	defer rec.Release()

	taken, err := TakeColumns(rec, []string{"b"})
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer taken.Release()
	assert.Equal(t, int64(1), taken.NumCols())
	assert.Equal(t, "b", taken.Schema().Field(0).Name)

	dropped, err := DropColumns(rec, []string{"b"})
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer dropped.Release()
	assert.Equal(t, int64(1), dropped.NumCols())
	assert.Equal(t, "a", dropped.Schema().Field(0).Name)

	_, err = TakeColumns(rec, []string{"missing"})
	assert.ErrorIs(t, err, ErrColumnNotFound)

}

func TestNewFloat64Record(t *testing.T) {

	mem := memory.NewGoAllocator()
	rec, err := NewFloat64Record(
		mem,
		[]string{"a", "b"},
		[][]float64{{1, math.NaN()}, {3, 4}},
		[][]bool{nil, {true, false}},
		2,
	)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer rec.Release()

	values, valid, err := Float64Values(rec, "a")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 1.0, values[0])
	assert.Equal(t, []bool{true, false}, valid)

	_, valid, err = Float64Values(rec, "b")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []bool{true, false}, valid)

	_, err = NewFloat64Record(mem, []string{"a"}, [][]float64{{1}}, nil, 2)
	assert.ErrorIs(t, err, ErrLengthMismatch)

}
