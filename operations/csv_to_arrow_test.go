package operations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/assert"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
	"github.com/alekLukanen/HousePricePipeline/elements"
)

func writeCsvFile(t *testing.T, content string) string {
	filePath := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return filePath
}

func TestLoadCsvTable(t *testing.T) {

	mem := memory.NewGoAllocator()
	filePath := writeCsvFile(t,
		"Id,MSSubClass,LotArea,LotFrontage,Neighborhood,Alley,BogusColumn,SalePrice\n"+
			"1,60,8450,65,CollgCr,Grvl,x,208500\n"+
			"2,20,9600,NA,Veenker,NA,y,181500\n",
	)

	rec, err := LoadCsvTable(mem, filePath)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer rec.Release()

	// the table is normalized onto the full reference schema
	assert.Equal(t, int64(2), rec.NumRows())
	assert.Equal(t, len(elements.RawSchemaWithTarget()), int(rec.NumCols()))
	assert.False(t, arrowops.HasColumn(rec, "BogusColumn"))

	lotArea, valid, err := arrowops.Float64Values(rec, "LotArea")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []float64{8450, 9600}, lotArea)
	assert.Equal(t, []bool{true, true}, valid)

	// NA cells become nulls
	_, valid, err = arrowops.Float64Values(rec, "LotFrontage")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []bool{true, false}, valid)

	// dwelling-type codes read as categorical labels
	subClass, valid, err := arrowops.StringValues(rec, "MSSubClass")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []string{"60", "20"}, subClass)
	assert.Equal(t, []bool{true, true}, valid)

	// a column absent from the file comes out entirely null
	_, valid, err = arrowops.StringValues(rec, "GarageType")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []bool{false, false}, valid)

}

func TestLoadCsvTable_WithoutTarget(t *testing.T) {

	mem := memory.NewGoAllocator()
	filePath := writeCsvFile(t,
		"LotArea,Neighborhood\n8450,CollgCr\n",
	)

	rec, err := LoadCsvTable(mem, filePath)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer rec.Release()

	assert.Equal(t, len(elements.RawSchema()), int(rec.NumCols()))
	assert.False(t, arrowops.HasColumn(rec, elements.TargetColumn))

}

func TestLoadCsvTable_EmptyFile(t *testing.T) {

	mem := memory.NewGoAllocator()
	filePath := writeCsvFile(t, "")

	_, err := LoadCsvTable(mem, filePath)
	assert.NotNil(t, err)

}

func TestSplitTargetColumn(t *testing.T) {

	mem := memory.NewGoAllocator()
	filePath := writeCsvFile(t,
		"LotArea,SalePrice\n8450,208500\n9600,181500\n",
	)

	rec, err := LoadCsvTable(mem, filePath)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer rec.Release()

	features, target, err := SplitTargetColumn(mem, rec)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	assert.Equal(t, []float64{208500, 181500}, target)
	assert.False(t, arrowops.HasColumn(features, elements.TargetColumn))
	assert.Equal(t, len(elements.RawSchema()), int(features.NumCols()))

}

func TestSplitTargetColumn_IncompleteTarget(t *testing.T) {

	mem := memory.NewGoAllocator()
	filePath := writeCsvFile(t,
		"LotArea,SalePrice\n8450,208500\n9600,NA\n",
	)

	rec, err := LoadCsvTable(mem, filePath)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer rec.Release()

	_, _, err = SplitTargetColumn(mem, rec)
	assert.ErrorIs(t, err, ErrTargetColumnIncomplete)

}

func TestSplitTargetColumn_MissingTarget(t *testing.T) {

	mem := memory.NewGoAllocator()
	filePath := writeCsvFile(t, "LotArea\n8450\n")

	rec, err := LoadCsvTable(mem, filePath)
	if !assert.Nil(t, err, "expected a nil error") {
		return
	}
	defer rec.Release()

	_, _, err = SplitTargetColumn(mem, rec)
	assert.ErrorIs(t, err, ErrTargetColumnNotFound)

}
