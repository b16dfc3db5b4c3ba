package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureRoles_IsValid(t *testing.T) {

	roles := FeatureRoles{
		Nominal:    []string{"Neighborhood"},
		Ordinal:    []string{"ExterQual"},
		Continuous: []string{"GrLivArea"},
	}
	assert.Nil(t, roles.IsValid())

	duplicated := FeatureRoles{
		Nominal: []string{"Neighborhood"},
		Ordinal: []string{"Neighborhood"},
	}
	assert.ErrorIs(t, duplicated.IsValid(), ErrFeatureRolesInvalid)

	unnamed := FeatureRoles{Nominal: []string{""}}
	assert.ErrorIs(t, unnamed.IsValid(), ErrFeatureRolesInvalid)

}

func TestFeatureRoles_Claimed(t *testing.T) {

	roles := FeatureRoles{
		Nominal:      []string{"Neighborhood"},
		MissingProne: []string{"LotFrontage"},
	}
	assert.True(t, roles.Claimed("Neighborhood"))
	assert.True(t, roles.Claimed("LotFrontage"))
	assert.False(t, roles.Claimed("TE_Neighborhood"))

}

func TestOrdinalOrders_CoverKnownColumns(t *testing.T) {

	orders := OrdinalOrders()
	assert.Equal(t, 20, len(orders))

	// quality scales run worst to best
	assert.Equal(t, []string{"Po", "Fa", "TA", "Gd", "Ex"}, orders["ExterQual"][len(orders["ExterQual"])-5:])

	for name, order := range orders {
		assert.NotEmpty(t, order, "ordinal column %s has no order", name)
	}

}

func TestRawSchema(t *testing.T) {

	columns := RawSchema()
	names := make(map[string]bool, len(columns))
	for _, col := range columns {
		assert.True(t, col.IsValid())
		assert.False(t, names[col.Name], "duplicate column %s", col.Name)
		names[col.Name] = true
	}

	// the dwelling-type code is categorical despite its numeric storage
	assert.True(t, names["MSSubClass"])
	assert.False(t, names[TargetColumn])

	withTarget := RawSchemaWithTarget()
	assert.Equal(t, len(columns)+1, len(withTarget))
	assert.Equal(t, TargetColumn, withTarget[len(withTarget)-1].Name)

}
