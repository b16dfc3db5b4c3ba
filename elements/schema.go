package elements

import (
	"github.com/apache/arrow/go/v17/arrow"
)

const (
	TargetColumn = "SalePrice"
	IdColumn     = "Id"

	// CatchAllLabel is the pooled label for categories below the
	// rare-pooling frequency cutoff.
	CatchAllLabel = "Other"

	// MissingLabel is the textual stand-in for a missing categorical
	// value once a column has been cast to text.
	MissingLabel = "NA"
)

type Column struct {
	Name  string
	Dtype arrow.DataType
}

func NewColumn(name string, dtype arrow.DataType) Column {
	return Column{
		Name:  name,
		Dtype: dtype,
	}
}

func (obj *Column) IsValid() bool {
	if obj.Name == "" {
		return false
	}
	if obj.Dtype == nil {
		return false
	}
	return true
}

// rawNumericColumns are the raw sale-record columns carrying quantities.
// MSSubClass is deliberately absent: it is a dwelling-type code and is
// ingested as a categorical label even though the raw file stores digits.
var rawNumericColumns = []string{
	"LotFrontage", "LotArea", "OverallQual", "OverallCond",
	"YearBuilt", "YearRemodAdd", "MasVnrArea",
	"BsmtFinSF1", "BsmtFinSF2", "BsmtUnfSF", "TotalBsmtSF",
	"1stFlrSF", "2ndFlrSF", "LowQualFinSF", "GrLivArea",
	"BsmtFullBath", "BsmtHalfBath", "FullBath", "HalfBath",
	"BedroomAbvGr", "KitchenAbvGr", "TotRmsAbvGrd", "Fireplaces",
	"GarageYrBlt", "GarageCars", "GarageArea",
	"WoodDeckSF", "OpenPorchSF", "EnclosedPorch", "3SsnPorch",
	"ScreenPorch", "PoolArea", "MiscVal", "MoSold", "YrSold",
}

var rawCategoricalColumns = []string{
	"MSSubClass", "MSZoning", "Street", "Alley", "LotShape",
	"LandContour", "Utilities", "LotConfig", "LandSlope",
	"Neighborhood", "Condition1", "Condition2", "BldgType",
	"HouseStyle", "RoofStyle", "RoofMatl", "Exterior1st",
	"Exterior2nd", "MasVnrType", "ExterQual", "ExterCond",
	"Foundation", "BsmtQual", "BsmtCond", "BsmtExposure",
	"BsmtFinType1", "BsmtFinType2", "Heating", "HeatingQC",
	"CentralAir", "Electrical", "KitchenQual", "Functional",
	"FireplaceQu", "GarageType", "GarageFinish", "GarageQual",
	"GarageCond", "PavedDrive", "PoolQC", "Fence", "MiscFeature",
	"SaleType", "SaleCondition",
}

// RawSchema returns the fixed reference schema of the raw sale records.
// Numeric columns are normalized to float64 and categorical columns to
// string at ingestion; both tolerate missing values.
func RawSchema() []Column {
	columns := make([]Column, 0, len(rawNumericColumns)+len(rawCategoricalColumns))
	for _, name := range rawNumericColumns {
		columns = append(columns, NewColumn(name, &arrow.Float64Type{}))
	}
	for _, name := range rawCategoricalColumns {
		columns = append(columns, NewColumn(name, &arrow.StringType{}))
	}
	return columns
}

// RawSchemaWithTarget is the raw schema plus the sale-price target, used
// when normalizing a training file.
func RawSchemaWithTarget() []Column {
	return append(RawSchema(), NewColumn(TargetColumn, &arrow.Float64Type{}))
}
