package preprocess

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"
)

func TestRarePooler_Transform(t *testing.T) {

	mem := memory.NewGoAllocator()

	// 20 common, 10 rare with a cutoff of 15
	labels := make([]string, 30)
	for i := 0; i < 20; i++ {
		labels[i] = "Common"
	}
	for i := 20; i < 30; i++ {
		labels[i] = "Rare"
	}
	rec := testRecord(
		[]string{"Neighborhood"},
		[]arrow.Array{stringCol(mem, labels, nil)},
	)
	defer rec.Release()

	pooler := NewRarePooler([]string{"Neighborhood"}, 15)
	if !assert.Nil(t, pooler.Fit(rec, nil)) {
		return
	}
	assert.Equal(t, []string{"Common"}, pooler.Keep["Neighborhood"])

	out, err := pooler.Transform(mem, rec)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer out.Release()

	pooled, _ := recStringValues(t, out, "Neighborhood")
	assert.Equal(t, "Common", pooled[0])
	assert.Equal(t, "Other", pooled[29])

	// labels never seen in training pool as well
	unseen := testRecord(
		[]string{"Neighborhood"},
		[]arrow.Array{stringCol(mem, []string{"Brand-New", "Common"}, nil)},
	)
	defer unseen.Release()

	out2, err := pooler.Transform(mem, unseen)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer out2.Release()

	pooled2, _ := recStringValues(t, out2, "Neighborhood")
	assert.Equal(t, []string{"Other", "Common"}, pooled2)

}

func TestRarePooler_MissingCountsAsCategory(t *testing.T) {

	mem := memory.NewGoAllocator()

	// 16 missing values form a frequent category of their own
	labels := make([]string, 20)
	valid := make([]bool, 20)
	for i := 0; i < 4; i++ {
		labels[i] = "Seen"
		valid[i] = true
	}
	rec := testRecord(
		[]string{"Alley"},
		[]arrow.Array{stringCol(mem, labels, valid)},
	)
	defer rec.Release()

	pooler := NewRarePooler([]string{"Alley"}, 15)
	if !assert.Nil(t, pooler.Fit(rec, nil)) {
		return
	}
	assert.Equal(t, []string{"NA"}, pooler.Keep["Alley"])

	out, err := pooler.Transform(mem, rec)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer out.Release()

	pooled, _ := recStringValues(t, out, "Alley")
	assert.Equal(t, "Seen", labels[0])
	assert.Equal(t, "Other", pooled[0])
	assert.Equal(t, "NA", pooled[10])

}
