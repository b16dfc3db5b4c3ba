package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

const lotAreaClipQuantile = 0.99

// DeriverState carries the single data-dependent value inside the
// otherwise stateless feature deriver: the upper winsorization threshold
// for LotArea. It is computed once at fit time and reused for every
// transform, never recomputed per call.
type DeriverState struct {
	LotAreaClipHi    float64 `json:"lotAreaClipHi"`
	HasLotAreaClipHi bool    `json:"hasLotAreaClipHi"`
}

// FitDeriver computes the deriver's fitted state from the training
// table. A table without any usable LotArea value yields a state that
// leaves LotArea unclipped.
func FitDeriver(rec arrow.Record) (DeriverState, error) {
	if !arrowops.HasColumn(rec, "LotArea") {
		return DeriverState{}, nil
	}
	values, valid, err := arrowops.Float64Values(rec, "LotArea")
	if err != nil {
		return DeriverState{}, errs.Wrap(err, fmt.Errorf("failed fitting the deriver"))
	}

	observed := make([]float64, 0, len(values))
	for i, v := range values {
		if valid[i] {
			observed = append(observed, v)
		}
	}
	if len(observed) == 0 {
		return DeriverState{}, nil
	}

	sort.Float64s(observed)
	return DeriverState{
		LotAreaClipHi:    quantile(observed, lotAreaClipQuantile),
		HasLotAreaClipHi: true,
	}, nil
}

// quantile linearly interpolates between order statistics, the same
// scheme pandas uses for Series.quantile.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Derive synthesizes the domain feature columns from a raw sale-record
// table. Existing columns are never removed or renamed. Every derivation
// tolerates missing sources: sums treat missing as zero, age and
// interaction features come out missing when an operand is missing.
func Derive(mem *memory.GoAllocator, rec arrow.Record, state DeriverState) (arrow.Record, error) {
	numRows := int(rec.NumRows())

	totalBsmt, totalBsmtOk := numericColumn(rec, "TotalBsmtSF", numRows)
	firstFlr, firstFlrOk := numericColumn(rec, "1stFlrSF", numRows)
	secondFlr, secondFlrOk := numericColumn(rec, "2ndFlrSF", numRows)

	totalSF := make([]float64, numRows)
	for i := 0; i < numRows; i++ {
		totalSF[i] = valueOrZero(totalBsmt, totalBsmtOk, i) +
			valueOrZero(firstFlr, firstFlrOk, i) +
			valueOrZero(secondFlr, secondFlrOk, i)
	}

	fullBath, fullBathOk := numericColumn(rec, "FullBath", numRows)
	halfBath, halfBathOk := numericColumn(rec, "HalfBath", numRows)
	bsmtFullBath, bsmtFullBathOk := numericColumn(rec, "BsmtFullBath", numRows)
	bsmtHalfBath, bsmtHalfBathOk := numericColumn(rec, "BsmtHalfBath", numRows)

	totalBath := make([]float64, numRows)
	for i := 0; i < numRows; i++ {
		totalBath[i] = valueOrZero(fullBath, fullBathOk, i) +
			0.5*valueOrZero(halfBath, halfBathOk, i) +
			valueOrZero(bsmtFullBath, bsmtFullBathOk, i) +
			0.5*valueOrZero(bsmtHalfBath, bsmtHalfBathOk, i)
	}

	yrSold, yrSoldOk := numericColumn(rec, "YrSold", numRows)
	yearBuilt, yearBuiltOk := numericColumn(rec, "YearBuilt", numRows)
	yearRemod, yearRemodOk := numericColumn(rec, "YearRemodAdd", numRows)
	garageYrBlt, garageYrBltOk := numericColumn(rec, "GarageYrBlt", numRows)

	houseAge, houseAgeValid := ageColumn(yrSold, yrSoldOk, yearBuilt, yearBuiltOk, numRows)
	remodAge, remodAgeValid := ageColumn(yrSold, yrSoldOk, yearRemod, yearRemodOk, numRows)
	garageAge, garageAgeValid := ageColumn(yrSold, yrSoldOk, garageYrBlt, garageYrBltOk, numRows)

	isRemodeled := make([]float64, numRows)
	for i := 0; i < numRows; i++ {
		if bothValid(yearRemodOk, yearBuiltOk, i) && yearRemod[i] != yearBuilt[i] {
			isRemodeled[i] = 1
		}
	}

	has2ndFlr := make([]float64, numRows)
	for i := 0; i < numRows; i++ {
		if valueOrZero(secondFlr, secondFlrOk, i) > 0 {
			has2ndFlr[i] = 1
		}
	}

	totalPorch := make([]float64, numRows)
	for _, name := range []string{"OpenPorchSF", "EnclosedPorch", "3SsnPorch", "ScreenPorch", "WoodDeckSF"} {
		values, valid := numericColumn(rec, name, numRows)
		for i := 0; i < numRows; i++ {
			totalPorch[i] += valueOrZero(values, valid, i)
		}
	}

	bedrooms, bedroomsOk := numericColumn(rec, "BedroomAbvGr", numRows)
	rooms, roomsOk := numericColumn(rec, "TotRmsAbvGrd", numRows)
	grLivArea, grLivAreaOk := numericColumn(rec, "GrLivArea", numRows)
	lotArea, lotAreaOk := numericColumn(rec, "LotArea", numRows)

	bathPerBedroom := make([]float64, numRows)
	roomsPerArea := make([]float64, numRows)
	lotAreaRatio := make([]float64, numRows)
	for i := 0; i < numRows; i++ {
		bathPerBedroom[i] = totalBath[i] / flooredDenominator(bedrooms, bedroomsOk, i)
		roomsPerArea[i] = valueOrZero(rooms, roomsOk, i) / flooredDenominator(grLivArea, grLivAreaOk, i)
		lotAreaRatio[i] = valueOrZero(lotArea, lotAreaOk, i) / flooredDenominator(grLivArea, grLivAreaOk, i)
	}

	moSold, moSoldOk := numericColumn(rec, "MoSold", numRows)
	moSoldSin := make([]float64, numRows)
	moSoldCos := make([]float64, numRows)
	moSoldValid := make([]bool, numRows)
	for i := 0; i < numRows; i++ {
		if moSoldOk != nil && moSoldOk[i] {
			angle := 2 * math.Pi * moSold[i] / 12.0
			moSoldSin[i] = math.Sin(angle)
			moSoldCos[i] = math.Cos(angle)
			moSoldValid[i] = true
		}
	}

	neighborhoodBldg := interactionColumn(rec, "Neighborhood", "BldgType", numRows)

	lnTotalSF := make([]float64, numRows)
	for i := 0; i < numRows; i++ {
		lnTotalSF[i] = math.Log1p(totalSF[i])
	}

	overallQual, overallQualOk := numericColumn(rec, "OverallQual", numRows)
	iqGrLiv := make([]float64, numRows)
	iqGrLivValid := make([]bool, numRows)
	iqTotalSF := make([]float64, numRows)
	iqTotalSFValid := make([]bool, numRows)
	for i := 0; i < numRows; i++ {
		if overallQualOk != nil && overallQualOk[i] {
			iqGrLiv[i] = overallQual[i] * valueOrZero(grLivArea, grLivAreaOk, i)
			iqGrLivValid[i] = true
			iqTotalSF[i] = overallQual[i] * totalSF[i]
			iqTotalSFValid[i] = true
		}
	}

	lotAreaClip := make([]float64, numRows)
	lotAreaClipValid := make([]bool, numRows)
	for i := 0; i < numRows; i++ {
		if lotAreaOk != nil && lotAreaOk[i] {
			lotAreaClip[i] = lotArea[i]
			if state.HasLotAreaClipHi && lotAreaClip[i] > state.LotAreaClipHi {
				lotAreaClip[i] = state.LotAreaClipHi
			}
			lotAreaClipValid[i] = true
		}
	}

	names := []string{
		"TotalSF", "TotalBath",
		"HouseAge", "RemodAge", "GarageAge",
		"IsRemodeled", "Has2ndFlr", "TotalPorchSF",
		"BathPerBedroom", "RoomsPerArea", "LotAreaRatio",
		"MoSold_sin", "MoSold_cos",
		"Ln_TotalSF", "IQ_OQ_GrLiv", "IQ_OQ_TotalSF",
		"LotArea_clip",
	}
	arrs := []arrow.Array{
		arrowops.NewFloat64Array(mem, totalSF, nil),
		arrowops.NewFloat64Array(mem, totalBath, nil),
		arrowops.NewFloat64Array(mem, houseAge, houseAgeValid),
		arrowops.NewFloat64Array(mem, remodAge, remodAgeValid),
		arrowops.NewFloat64Array(mem, garageAge, garageAgeValid),
		arrowops.NewFloat64Array(mem, isRemodeled, nil),
		arrowops.NewFloat64Array(mem, has2ndFlr, nil),
		arrowops.NewFloat64Array(mem, totalPorch, nil),
		arrowops.NewFloat64Array(mem, bathPerBedroom, nil),
		arrowops.NewFloat64Array(mem, roomsPerArea, nil),
		arrowops.NewFloat64Array(mem, lotAreaRatio, nil),
		arrowops.NewFloat64Array(mem, moSoldSin, moSoldValid),
		arrowops.NewFloat64Array(mem, moSoldCos, moSoldValid),
		arrowops.NewFloat64Array(mem, lnTotalSF, nil),
		arrowops.NewFloat64Array(mem, iqGrLiv, iqGrLivValid),
		arrowops.NewFloat64Array(mem, iqTotalSF, iqTotalSFValid),
		arrowops.NewFloat64Array(mem, lotAreaClip, lotAreaClipValid),
	}

	names = append(names, "Neighborhood_BldgType")
	arrs = append(arrs, arrowops.NewStringArray(mem, neighborhoodBldg, nil))

	augmented, err := arrowops.AppendColumns(rec, names, arrs)
	if err != nil {
		return nil, errs.Wrap(err, fmt.Errorf("failed deriving domain features"))
	}
	return augmented, nil
}

// numericColumn reads a column as float64 values, returning nil slices
// when the column is absent so callers fall back to their neutral
// default.
func numericColumn(rec arrow.Record, name string, numRows int) ([]float64, []bool) {
	if !arrowops.HasColumn(rec, name) {
		return nil, nil
	}
	values, valid, err := arrowops.Float64Values(rec, name)
	if err != nil {
		return nil, nil
	}
	return values, valid
}

func valueOrZero(values []float64, valid []bool, i int) float64 {
	if values == nil || !valid[i] {
		return 0
	}
	return values[i]
}

func bothValid(a, b []bool, i int) bool {
	return a != nil && b != nil && a[i] && b[i]
}

func flooredDenominator(values []float64, valid []bool, i int) float64 {
	v := valueOrZero(values, valid, i)
	if v < 1 {
		return 1
	}
	return v
}

func ageColumn(yrSold []float64, yrSoldOk []bool, year []float64, yearOk []bool, numRows int) ([]float64, []bool) {
	ages := make([]float64, numRows)
	valid := make([]bool, numRows)
	for i := 0; i < numRows; i++ {
		if bothValid(yrSoldOk, yearOk, i) {
			ages[i] = yrSold[i] - year[i]
			valid[i] = true
		}
	}
	return ages, valid
}

// interactionColumn concatenates two categorical columns with a "|"
// separator; a missing side contributes the missing label so the
// composite stays comparable across rows.
func interactionColumn(rec arrow.Record, left, right string, numRows int) []string {
	leftValues, leftValid := stringColumn(rec, left, numRows)
	rightValues, rightValid := stringColumn(rec, right, numRows)

	composite := make([]string, numRows)
	for i := 0; i < numRows; i++ {
		composite[i] = stringOrMissing(leftValues, leftValid, i) + "|" + stringOrMissing(rightValues, rightValid, i)
	}
	return composite
}

func stringColumn(rec arrow.Record, name string, numRows int) ([]string, []bool) {
	if !arrowops.HasColumn(rec, name) {
		return nil, nil
	}
	values, valid, err := arrowops.StringValues(rec, name)
	if err != nil {
		return nil, nil
	}
	return values, valid
}

func stringOrMissing(values []string, valid []bool, i int) string {
	if values == nil || !valid[i] {
		return elements.MissingLabel
	}
	return values[i]
}
