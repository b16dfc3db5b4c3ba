package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
)

// IRegressor is the opaque estimator boundary. The pipeline only ever
// hands it a fully numeric matrix and a target; the boosted-tree model
// used in production lives behind this interface.
type IRegressor interface {
	Fit(ctx context.Context, matrix arrow.Record, target []float64) error
	Predict(ctx context.Context, matrix arrow.Record) ([]float64, error)

	Name() string
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

const MeanRegressorName = "mean-baseline"

// MeanRegressor predicts the training-target mean for every row. It
// exists to wire and test the pipeline end to end; real scoring swaps in
// an external gradient-boosted estimator.
type MeanRegressor struct {
	Mean   float64 `json:"mean"`
	Fitted bool    `json:"fitted"`
}

func NewMeanRegressor() *MeanRegressor {
	return &MeanRegressor{}
}

func (obj *MeanRegressor) Name() string { return MeanRegressorName }

func (obj *MeanRegressor) Fit(ctx context.Context, matrix arrow.Record, target []float64) error {
	if len(target) == 0 {
		return errs.Wrap(fmt.Errorf("%w| empty target", ErrModelNotFitted))
	}
	var sum float64
	for _, y := range target {
		sum += y
	}
	obj.Mean = sum / float64(len(target))
	obj.Fitted = true
	return nil
}

func (obj *MeanRegressor) Predict(ctx context.Context, matrix arrow.Record) ([]float64, error) {
	if !obj.Fitted {
		return nil, errs.Wrap(ErrModelNotFitted)
	}
	predictions := make([]float64, matrix.NumRows())
	for i := range predictions {
		predictions[i] = obj.Mean
	}
	return predictions, nil
}

func (obj *MeanRegressor) Marshal() ([]byte, error) {
	return json.Marshal(obj)
}

func (obj *MeanRegressor) Unmarshal(data []byte) error {
	return json.Unmarshal(data, obj)
}

// NewRegressorByName builds an empty regressor for a persisted artifact.
func NewRegressorByName(name string) (IRegressor, error) {
	switch name {
	case MeanRegressorName:
		return NewMeanRegressor(), nil
	default:
		return nil, errs.Wrap(fmt.Errorf("%w| model name: %s", ErrUnknownModel, name))
	}
}

// MatrixMean is a convenience for sanity checks on a transformed matrix.
func MatrixMean(matrix arrow.Record) (float64, error) {
	rows, err := arrowops.Float64Matrix(matrix)
	if err != nil {
		return 0, err
	}
	var sum float64
	var count int
	for _, row := range rows {
		for _, v := range row {
			if !math.IsNaN(v) {
				sum += v
				count++
			}
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}
