package operations

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

func TestAvroRowRoundTrip(t *testing.T) {

	mem := memory.NewGoAllocator()
	columns := []elements.Column{
		elements.NewColumn("LotArea", &arrow.Float64Type{}),
		elements.NewColumn("1stFlrSF", &arrow.Float64Type{}),
		elements.NewColumn("Neighborhood", &arrow.StringType{}),
	}

	rec, err := arrowops.RecordFromRows(mem, columns, []map[string]interface{}{
		{"LotArea": 8450.0, "1stFlrSF": 856.0, "Neighborhood": "CollgCr"},
		{"LotArea": 9600.0},
	})
	if !assert.Nil(t, err) {
		return
	}
	defer rec.Release()

	rows, err := RecordToAvroRows(rec, columns)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	assert.Equal(t, 2, len(rows))

	decoded, err := AvroRowsToRecord(mem, columns, rows)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer decoded.Release()

	assert.True(t, arrowops.RecordsEqual(rec, decoded))

	// the missing cells survive the round trip as nulls
	_, valid, err := arrowops.Float64Values(decoded, "1stFlrSF")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []bool{true, false}, valid)
	_, valid, err = arrowops.StringValues(decoded, "Neighborhood")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []bool{true, false}, valid)

}

func TestAvroCodecForColumns_FieldNames(t *testing.T) {

	assert.Equal(t, "c_1stFlrSF", avroFieldName("1stFlrSF"))
	assert.Equal(t, "LotArea", avroFieldName("LotArea"))

	// the full raw schema builds a valid codec
	codec, err := AvroCodecForColumns(elements.RawSchema())
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	assert.NotNil(t, codec)

}

func TestAvroCodecForColumns_UnsupportedType(t *testing.T) {

	columns := []elements.Column{
		elements.NewColumn("flags", &arrow.BooleanType{}),
	}
	_, err := AvroCodecForColumns(columns)
	assert.ErrorIs(t, err, ErrUnsupportedArrowToAvroTypeConversion)

}

func TestAvroRowsToRecord_InvalidPayload(t *testing.T) {

	mem := memory.NewGoAllocator()
	columns := []elements.Column{
		elements.NewColumn("LotArea", &arrow.Float64Type{}),
	}

	_, err := AvroRowsToRecord(mem, columns, [][]byte{{0x01, 0x02}})
	assert.NotNil(t, err)

}
