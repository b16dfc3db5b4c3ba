package preprocess

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
)

func testRecord(names []string, arrs []arrow.Array) arrow.Record {
	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: name, Type: arrs[i].DataType(), Nullable: true}
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), arrs, int64(arrs[0].Len()))
}

func stringCol(mem *memory.GoAllocator, values []string, valid []bool) arrow.Array {
	return arrowops.NewStringArray(mem, values, valid)
}

func floatCol(mem *memory.GoAllocator, values []float64, valid []bool) arrow.Array {
	return arrowops.NewFloat64Array(mem, values, valid)
}

func recFloatValues(t *testing.T, rec arrow.Record, name string) ([]float64, []bool) {
	values, valid, err := arrowops.Float64Values(rec, name)
	if err != nil {
		t.Fatal(err)
	}
	return values, valid
}

func recStringValues(t *testing.T, rec arrow.Record, name string) ([]string, []bool) {
	values, valid, err := arrowops.StringValues(rec, name)
	if err != nil {
		t.Fatal(err)
	}
	return values, valid
}
