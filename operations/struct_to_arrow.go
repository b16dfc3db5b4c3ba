package operations

import (
	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"google.golang.org/protobuf/types/known/structpb"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

// StructsToRecord converts loosely typed scoring requests, arriving as
// protobuf structs, into a normalized table. Unknown fields are ignored
// and absent expected columns come out entirely missing, so a partial
// request still transforms to a full-width matrix row.
func StructsToRecord(mem *memory.GoAllocator, columns []elements.Column, rows []*structpb.Struct) (arrow.Record, error) {
	looseRows := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		if row == nil {
			looseRows[i] = map[string]interface{}{}
			continue
		}
		looseRows[i] = row.AsMap()
	}

	rec, err := arrowops.RecordFromRows(mem, columns, looseRows)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return rec, nil
}
