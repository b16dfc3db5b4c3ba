package preprocess

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
)

func TestMissingnessIndicator_Transform(t *testing.T) {

	mem := memory.NewGoAllocator()
	rec := testRecord(
		[]string{"LotFrontage", "GrLivArea", "Street"},
		[]arrow.Array{
			floatCol(mem, []float64{60, 0, 80}, []bool{true, false, true}),
			floatCol(mem, []float64{1000, 1200, 1400}, nil),
			stringCol(mem, []string{"Pave", "Pave", "Grvl"}, nil),
		},
	)
	defer rec.Release()

	indicator := NewMissingnessIndicator()
	if !assert.Nil(t, indicator.Fit(rec, nil)) {
		return
	}
	// only numeric columns with at least one training gap get a flag
	assert.Equal(t, []string{"LotFrontage"}, indicator.Cols)

	out, err := indicator.Transform(mem, rec)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer out.Release()

	flags, valid := recFloatValues(t, out, "LotFrontage_was_missing")
	assert.Equal(t, []bool{true, true, true}, valid)
	assert.Equal(t, []float64{0, 1, 0}, flags)

	// a fully observed transform row still gets its flag column
	complete := testRecord(
		[]string{"LotFrontage", "GrLivArea", "Street"},
		[]arrow.Array{
			floatCol(mem, []float64{70}, nil),
			floatCol(mem, []float64{900}, nil),
			stringCol(mem, []string{"Pave"}, nil),
		},
	)
	defer complete.Release()

	out2, err := indicator.Transform(mem, complete)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer out2.Release()

	flags2, _ := recFloatValues(t, out2, "LotFrontage_was_missing")
	assert.Equal(t, []float64{0}, flags2)

}
