package operations

import (
	"encoding/json"
	"fmt"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/linkedin/goavro/v2"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

// AvroCodecForColumns builds the codec for scoring-row payloads. Every
// field is a union with null, since any raw column may be missing.
func AvroCodecForColumns(columns []elements.Column) (*goavro.Codec, error) {
	fields := make([]map[string]interface{}, len(columns))
	for i, col := range columns {
		avroType, err := arrowToAvroType(col.Dtype)
		if err != nil {
			return nil, err
		}
		fields[i] = map[string]interface{}{
			"name": avroFieldName(col.Name),
			"type": []interface{}{"null", avroType},
		}
	}

	schema := map[string]interface{}{
		"type":   "record",
		"name":   "saleRecord",
		"fields": fields,
	}
	schemaData, err := json.Marshal(schema)
	if err != nil {
		return nil, errs.Wrap(err)
	}

	codec, err := goavro.NewCodec(string(schemaData))
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed building avro codec"))
	}
	return codec, nil
}

func arrowToAvroType(dtype arrow.DataType) (string, error) {
	switch dtype.ID() {
	case arrow.FLOAT64:
		return "double", nil
	case arrow.STRING:
		return "string", nil
	default:
		return "", errs.Wrap(fmt.Errorf("%w| data type: %s", ErrUnsupportedArrowToAvroTypeConversion, dtype.Name()))
	}
}

// avroFieldName rewrites raw column names that avro identifiers cannot
// carry, e.g. the leading digits of 1stFlrSF.
func avroFieldName(name string) string {
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		return "c_" + name
	}
	return name
}

// RecordToAvroRows serializes a normalized table into one avro binary
// payload per row.
func RecordToAvroRows(rec arrow.Record, columns []elements.Column) ([][]byte, error) {
	codec, err := AvroCodecForColumns(columns)
	if err != nil {
		return nil, err
	}

	numRows := int(rec.NumRows())
	type extractedColumn struct {
		name      string
		fieldName string
		avroType  string
		floats    []float64
		strings   []string
		valid     []bool
	}

	extracted := make([]extractedColumn, len(columns))
	for i, col := range columns {
		extracted[i].name = col.Name
		extracted[i].fieldName = avroFieldName(col.Name)
		switch col.Dtype.ID() {
		case arrow.FLOAT64:
			extracted[i].avroType = "double"
			extracted[i].floats, extracted[i].valid, err = arrowops.Float64Values(rec, col.Name)
		default:
			extracted[i].avroType = "string"
			extracted[i].strings, extracted[i].valid, err = arrowops.StringValues(rec, col.Name)
		}
		if err != nil {
			return nil, errs.Wrap(err)
		}
	}

	rows := make([][]byte, numRows)
	rowData := make(map[string]interface{}, len(columns))
	for rowIdx := 0; rowIdx < numRows; rowIdx++ {
		for _, col := range extracted {
			if !col.valid[rowIdx] {
				rowData[col.fieldName] = nil
				continue
			}
			if col.avroType == "double" {
				rowData[col.fieldName] = map[string]interface{}{"double": col.floats[rowIdx]}
			} else {
				rowData[col.fieldName] = map[string]interface{}{"string": col.strings[rowIdx]}
			}
		}

		rowBytes, err := codec.BinaryFromNative(nil, rowData)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("failed serializing row %d", rowIdx))
		}
		rows[rowIdx] = rowBytes
		clear(rowData)
	}

	return rows, nil
}
