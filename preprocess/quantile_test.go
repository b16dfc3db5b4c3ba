package preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantileNormal_Monotonic(t *testing.T) {

	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i) * float64(i)
	}
	qn := FitQuantileNormal(values)
	assert.Equal(t, quantileLandmarks, len(qn.Landmarks))

	previous := math.Inf(-1)
	for x := -10.0; x < 1_100_000; x += 7919 {
		score := qn.Apply(x)
		assert.False(t, math.IsNaN(score))
		assert.False(t, math.IsInf(score, 0))
		assert.GreaterOrEqual(t, score, previous)
		previous = score
	}

}

func TestQuantileNormal_MedianMapsNearZero(t *testing.T) {

	values := make([]float64, 1001)
	for i := range values {
		values[i] = float64(i)
	}
	qn := FitQuantileNormal(values)

	assert.InDelta(t, 0, qn.Apply(500), 0.05)
	assert.Less(t, qn.Apply(10), 0.0)
	assert.Greater(t, qn.Apply(990), 0.0)

}

func TestQuantileNormal_TailsSaturate(t *testing.T) {

	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	qn := FitQuantileNormal(values)

	low := qn.Apply(-1_000_000)
	high := qn.Apply(1_000_000)
	assert.False(t, math.IsInf(low, 0))
	assert.False(t, math.IsInf(high, 0))
	assert.Equal(t, low, qn.Apply(-2_000_000))
	assert.Equal(t, high, qn.Apply(2_000_000))

}

func TestQuantileNormal_ConstantColumn(t *testing.T) {

	values := []float64{5, 5, 5, 5, 5}
	qn := FitQuantileNormal(values)

	// ties across every landmark resolve to the run midpoint
	assert.InDelta(t, 0, qn.Apply(5), 1e-9)

}

func TestQuantileNormal_SubsampleCap(t *testing.T) {

	values := make([]float64, quantileSubsampleCap+50_000)
	for i := range values {
		values[i] = float64(i)
	}
	qn := FitQuantileNormal(values)
	assert.Equal(t, quantileLandmarks, len(qn.Landmarks))

	// refitting the same data yields the same landmarks
	qn2 := FitQuantileNormal(values)
	assert.Equal(t, qn.Landmarks, qn2.Landmarks)

}
