package preprocess

import (
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

// ClassifyColumns partitions the columns of a training table into the
// four feature roles. The secondary table, usually a held-out split, is
// consulted for missingness as well: a numeric column with gaps in
// either table is routed to the imputable group so its fitted imputer
// always exists at inference time. The target column is excluded. Role
// assignment happens once per fit and is immutable afterwards.
func ClassifyColumns(train, secondary arrow.Record, ordinalOrders map[string][]string, targetName string) (elements.FeatureRoles, error) {
	roles := elements.FeatureRoles{}

	for i := 0; i < train.Schema().NumFields(); i++ {
		field := train.Schema().Field(i)
		if field.Name == targetName {
			continue
		}

		if _, isOrdinal := ordinalOrders[field.Name]; isOrdinal {
			roles.Ordinal = append(roles.Ordinal, field.Name)
			continue
		}

		switch field.Type.ID() {
		case arrow.STRING:
			roles.Nominal = append(roles.Nominal, field.Name)
		case arrow.FLOAT64:
			if columnHasMissing(train, field.Name) || columnHasMissing(secondary, field.Name) {
				roles.MissingProne = append(roles.MissingProne, field.Name)
			} else {
				roles.Continuous = append(roles.Continuous, field.Name)
			}
		default:
			// other types never survive ingestion; leave them unclaimed
		}
	}

	if err := roles.IsValid(); err != nil {
		return elements.FeatureRoles{}, err
	}
	return roles, nil
}

// columnHasMissing reports whether a numeric column contains any null or
// NaN entry. A column absent from the table counts as entirely missing.
func columnHasMissing(rec arrow.Record, name string) bool {
	if rec == nil {
		return false
	}
	colIdx := arrowops.ColumnIndex(rec, name)
	if colIdx < 0 {
		return true
	}
	col := rec.Column(colIdx)
	if col.NullN() > 0 {
		return true
	}
	if floatArr, ok := col.(*array.Float64); ok {
		for i := 0; i < floatArr.Len(); i++ {
			if floatArr.IsValid(i) && math.IsNaN(floatArr.Value(i)) {
				return true
			}
		}
	}
	return false
}
