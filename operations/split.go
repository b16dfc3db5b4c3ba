package operations

import (
	"fmt"
	"math/rand"

	"github.com/alekLukanen/errs"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	arrowops "github.com/alekLukanen/HousePricePipeline/arrowOps"
)

// SplitRows partitions a table and its aligned target into a training
// and a held-out part by a seeded shuffle, so the same seed always
// produces the same split.
func SplitRows(
	mem *memory.GoAllocator,
	rec arrow.Record,
	target []float64,
	testFraction float64,
	seed int64,
) (arrow.Record, []float64, arrow.Record, []float64, error) {

	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, nil, nil, errs.Wrap(fmt.Errorf("%w| got %f", ErrSplitFractionInvalid, testFraction))
	}
	numRows := int(rec.NumRows())
	if len(target) != numRows {
		return nil, nil, nil, nil, errs.Wrap(fmt.Errorf("%w| %d targets for %d rows", ErrLengthMismatch, len(target), numRows))
	}

	perm := rand.New(rand.NewSource(seed)).Perm(numRows)
	numTest := int(float64(numRows) * testFraction)
	if numTest == 0 && numRows > 1 {
		numTest = 1
	}

	testIdx := perm[:numTest]
	trainIdx := perm[numTest:]

	trainRec, err := arrowops.TakeRows(mem, rec, trainIdx)
	if err != nil {
		return nil, nil, nil, nil, errs.Wrap(err)
	}
	testRec, err := arrowops.TakeRows(mem, rec, testIdx)
	if err != nil {
		return nil, nil, nil, nil, errs.Wrap(err)
	}

	trainTarget := make([]float64, len(trainIdx))
	for i, rowIdx := range trainIdx {
		trainTarget[i] = target[rowIdx]
	}
	testTarget := make([]float64, len(testIdx))
	for i, rowIdx := range testIdx {
		testTarget[i] = target[rowIdx]
	}

	return trainRec, trainTarget, testRec, testTarget, nil
}
