package operations

import (
	"fmt"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

// AvroRowsToRecord decodes avro binary row payloads into a normalized
// table matching the given column set. Null union values come out as
// missing.
func AvroRowsToRecord(mem *memory.GoAllocator, columns []elements.Column, rows [][]byte) (arrow.Record, error) {
	codec, err := AvroCodecForColumns(columns)
	if err != nil {
		return nil, err
	}

	looseRows := make([]map[string]interface{}, len(rows))
	for rowIdx, rowBytes := range rows {
		native, _, err := codec.NativeFromBinary(rowBytes)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("failed decoding row %d", rowIdx))
		}

		rowData, ok := native.(map[string]interface{})
		if !ok {
			return nil, errs.Wrap(fmt.Errorf("%w| row %d is not a record", ErrAvroRowInvalid, rowIdx))
		}

		looseRow := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			looseRow[col.Name] = unwrapAvroUnion(rowData[avroFieldName(col.Name)])
		}
		looseRows[rowIdx] = looseRow
	}

	rec, err := arrowops.RecordFromRows(mem, columns, looseRows)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return rec, nil
}

func unwrapAvroUnion(value interface{}) interface{} {
	union, ok := value.(map[string]interface{})
	if !ok {
		return value
	}
	for _, v := range union {
		return v
	}
	return nil
}
