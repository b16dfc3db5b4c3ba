package model

import (
	"math"

	"github.com/alekLukanen/errs"

	"gonum.org/v1/gonum/stat"
)

// RMSE is the root mean squared error between predictions and targets.
func RMSE(predicted, target []float64) (float64, error) {
	if len(predicted) != len(target) || len(predicted) == 0 {
		return 0, errs.Wrap(ErrLengthMismatch)
	}
	var sum float64
	for i := range predicted {
		diff := predicted[i] - target[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(predicted))), nil
}

// R2 is the coefficient of determination.
func R2(predicted, target []float64) (float64, error) {
	if len(predicted) != len(target) || len(predicted) == 0 {
		return 0, errs.Wrap(ErrLengthMismatch)
	}

	targetMean := stat.Mean(target, nil)
	var residual, total float64
	for i := range predicted {
		diff := target[i] - predicted[i]
		residual += diff * diff
		spread := target[i] - targetMean
		total += spread * spread
	}
	if total == 0 {
		return 0, nil
	}
	return 1 - residual/total, nil
}
