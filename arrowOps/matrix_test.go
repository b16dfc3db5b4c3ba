package arrowops

import (
	"math"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
)

func TestFloat64Matrix(t *testing.T) {

	mem := memory.NewGoAllocator()
	rec, err := NewFloat64Record(
		mem,
		[]string{"a", "b"},
		[][]float64{{1, 2}, {3, 0}},
		[][]bool{nil, {true, false}},
		2,
	)
	if !assert.Nil(t, err) {
		return
	}
	defer rec.Release()

	matrix, err := Float64Matrix(rec)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	assert.Equal(t, 2, len(matrix))
	assert.Equal(t, []float64{1, 3}, matrix[0])
	assert.Equal(t, 2.0, matrix[1][0])
	assert.True(t, math.IsNaN(matrix[1][1]))

}

func TestTakeRows(t *testing.T) {

	mem := memory.NewGoAllocator()
	rec := buildTestRecord(mem)
	defer rec.Release()

	out, err := TakeRows(mem, rec, []int{1, 0, 1})
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer out.Release()

	assert.Equal(t, int64(3), out.NumRows())

	values, _, err := Float64Values(out, "a")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []float64{2, 1, 2}, values)

	labels, _, err := StringValues(out, "b")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []string{"y", "x", "y"}, labels)

}

func TestConcatenateRecords(t *testing.T) {

	mem := memory.NewGoAllocator()
	rec1 := buildTestRecord(mem)
	defer rec1.Release()
	rec2 := buildTestRecord(mem)
	defer rec2.Release()

	out, err := ConcatenateRecords(mem, rec1, rec2)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer out.Release()
	assert.Equal(t, int64(4), out.NumRows())

	other, err := NewFloat64Record(mem, []string{"z"}, [][]float64{{1, 2}}, nil, 2)
	if !assert.Nil(t, err) {
		return
	}
	defer other.Release()

	_, err = ConcatenateRecords(mem, rec1, other)
	assert.ErrorIs(t, err, ErrSchemasNotEqual)

	_, err = ConcatenateRecords(mem)
	assert.ErrorIs(t, err, ErrNoDataLeft)

}

func TestRecordsEqual(t *testing.T) {

	mem := memory.NewGoAllocator()
	rec1 := buildTestRecord(mem)
	defer rec1.Release()
	rec2 := buildTestRecord(mem)
	defer rec2.Release()

	assert.True(t, RecordsEqual(rec1, rec2))

	different, err := ReplaceColumn(rec2, "a", NewFloat64Array(mem, []float64{9, 9}, nil))
	if !assert.Nil(t, err) {
		return
	}
	defer different.Release()
	assert.False(t, RecordsEqual(rec1, different))

}
