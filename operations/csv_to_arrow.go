package operations

import (
	"fmt"
	"os"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/csv"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

// LoadCsvTable reads a raw sale-record csv file and normalizes it onto
// the reference schema: numeric columns to float64, categorical columns
// to string, "NA" and empty cells to nulls, unknown columns dropped and
// absent expected columns entirely null. When the file carries the
// sale-price column the returned record includes it.
func LoadCsvTable(mem *memory.GoAllocator, filePath string) (arrow.Record, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed opening csv file %s", filePath))
	}
	defer file.Close()

	reader := csv.NewInferringReader(
		file,
		csv.WithChunk(-1),
		csv.WithHeader(true),
		csv.WithNullReader(true, "", "NA", "N/A", "NaN"),
	)
	defer reader.Release()

	if !reader.Next() {
		if readErr := reader.Err(); readErr != nil {
			return nil, errs.Wrap(readErr, fmt.Errorf("failed reading csv file %s", filePath))
		}
		return nil, errs.Wrap(fmt.Errorf("%w| file: %s", ErrEmptyFile, filePath))
	}
	raw := reader.Record()
	raw.Retain()
	defer raw.Release()

	columns := elements.RawSchema()
	if arrowops.HasColumn(raw, elements.TargetColumn) {
		columns = elements.RawSchemaWithTarget()
	}

	normalized, err := arrowops.NormalizeRecord(mem, raw, columns)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return normalized, nil
}

// SplitTargetColumn separates the sale-price target from a training
// table. Every target value must be present; a gap means the file is
// not a usable training table.
func SplitTargetColumn(mem *memory.GoAllocator, rec arrow.Record) (arrow.Record, []float64, error) {
	if !arrowops.HasColumn(rec, elements.TargetColumn) {
		return nil, nil, errs.Wrap(fmt.Errorf("%w| column: %s", ErrTargetColumnNotFound, elements.TargetColumn))
	}

	values, valid, err := arrowops.Float64Values(rec, elements.TargetColumn)
	if err != nil {
		return nil, nil, errs.Wrap(err)
	}
	for i := range values {
		if !valid[i] {
			return nil, nil, errs.Wrap(fmt.Errorf("%w| row: %d", ErrTargetColumnIncomplete, i))
		}
	}

	featureRec, err := arrowops.DropColumns(rec, []string{elements.TargetColumn})
	if err != nil {
		return nil, nil, errs.Wrap(err)
	}
	return featureRec, values, nil
}
