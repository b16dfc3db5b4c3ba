package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRMSE(t *testing.T) {

	rmse, err := RMSE([]float64{1, 2, 3}, []float64{1, 2, 3})
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 0.0, rmse)

	rmse, err = RMSE([]float64{2, 4}, []float64{0, 0})
	if !assert.Nil(t, err) {
		return
	}
	assert.InDelta(t, 3.1622776601683795, rmse, 1e-12)

	_, err = RMSE([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)

}

func TestR2(t *testing.T) {

	r2, err := R2([]float64{1, 2, 3}, []float64{1, 2, 3})
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 1.0, r2)

	// predicting the mean scores exactly zero
	r2, err = R2([]float64{2, 2, 2}, []float64{1, 2, 3})
	if !assert.Nil(t, err) {
		return
	}
	assert.InDelta(t, 0.0, r2, 1e-12)

	// a constant target yields zero rather than dividing by zero
	r2, err = R2([]float64{5, 5}, []float64{5, 5})
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 0.0, r2)

	_, err = R2([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLengthMismatch)

}
