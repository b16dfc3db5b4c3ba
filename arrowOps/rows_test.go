package arrowops

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"

	"github.com/alekLukanen/HousePricePipeline/elements"
)

func TestRecordFromRows(t *testing.T) {

	mem := memory.NewGoAllocator()
	columns := []elements.Column{
		elements.NewColumn("LotArea", &arrow.Float64Type{}),
		elements.NewColumn("MSSubClass", &arrow.StringType{}),
	}

	rec, err := RecordFromRows(mem, columns, []map[string]interface{}{
		{"LotArea": 8450.0, "MSSubClass": 60.0, "ignored": "x"},
		{"LotArea": "9600", "MSSubClass": "NA"},
		{},
	})
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer rec.Release()

	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(2), rec.NumCols())

	values, valid, err := Float64Values(rec, "LotArea")
	if !assert.Nil(t, err) {
		return
	}
	// numeric text parses, an absent key reads as missing
	assert.Equal(t, []float64{8450, 9600, 0}, values)
	assert.Equal(t, []bool{true, true, false}, valid)

	// integral json numbers become clean labels, sentinels become nulls
	labels, valid, err := StringValues(rec, "MSSubClass")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "60", labels[0])
	assert.Equal(t, []bool{true, false, false}, valid)

}

func TestNormalizeRecord(t *testing.T) {

	mem := memory.NewGoAllocator()
	loose, err := RecordFromRows(
		mem,
		[]elements.Column{
			elements.NewColumn("LotArea", &arrow.StringType{}),
			elements.NewColumn("Extra", &arrow.StringType{}),
		},
		[]map[string]interface{}{
			{"LotArea": "8450", "Extra": "dropped"},
		},
	)
	if !assert.Nil(t, err) {
		return
	}
	defer loose.Release()

	columns := []elements.Column{
		elements.NewColumn("LotArea", &arrow.Float64Type{}),
		elements.NewColumn("Neighborhood", &arrow.StringType{}),
	}
	rec, err := NormalizeRecord(mem, loose, columns)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer rec.Release()

	// declared types win, unknown columns vanish, absent columns are null
	assert.Equal(t, int64(2), rec.NumCols())
	assert.False(t, HasColumn(rec, "Extra"))

	values, valid, err := Float64Values(rec, "LotArea")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []float64{8450}, values)
	assert.Equal(t, []bool{true}, valid)

	_, valid, err = StringValues(rec, "Neighborhood")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []bool{false}, valid)

}
