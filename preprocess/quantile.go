package preprocess

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	quantileLandmarks    = 200
	quantileSubsampleCap = 200_000

	// probability clip bound keeps the normal quantile finite at the
	// distribution tails
	quantileClipBound = 1e-7
)

// QuantileNormal is a monotonic rank-based transform mapping a column's
// empirical distribution onto a standard normal. A fixed number of
// quantile landmarks is fitted from training data only, over a capped,
// deterministically strided subsample, and reapplied unchanged at
// transform time.
type QuantileNormal struct {
	Landmarks []float64 `json:"landmarks"`
}

func FitQuantileNormal(values []float64) *QuantileNormal {
	sample := values
	if len(values) > quantileSubsampleCap {
		stride := float64(len(values)) / float64(quantileSubsampleCap)
		sample = make([]float64, 0, quantileSubsampleCap)
		for i := 0; i < quantileSubsampleCap; i++ {
			sample = append(sample, values[int(float64(i)*stride)])
		}
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	numLandmarks := quantileLandmarks
	if len(sorted) < numLandmarks {
		numLandmarks = len(sorted)
	}
	if numLandmarks < 2 {
		return &QuantileNormal{Landmarks: sorted}
	}

	landmarks := make([]float64, numLandmarks)
	for i := 0; i < numLandmarks; i++ {
		landmarks[i] = percentile(sorted, float64(i)/float64(numLandmarks-1))
	}
	return &QuantileNormal{Landmarks: landmarks}
}

// Apply maps a value to its normal score. Values beyond the fitted
// range saturate at the clipped tails rather than diverging.
func (obj *QuantileNormal) Apply(x float64) float64 {
	p := obj.rank(x)
	if p < quantileClipBound {
		p = quantileClipBound
	}
	if p > 1-quantileClipBound {
		p = 1 - quantileClipBound
	}
	return distuv.UnitNormal.Quantile(p)
}

// rank inverts the landmark table: for ties across several landmarks the
// rank is the midpoint of the tied run, keeping the map monotonic.
func (obj *QuantileNormal) rank(x float64) float64 {
	landmarks := obj.Landmarks
	n := len(landmarks)
	if n == 0 {
		return 0.5
	}
	if n == 1 {
		switch {
		case x < landmarks[0]:
			return 0
		case x > landmarks[0]:
			return 1
		default:
			return 0.5
		}
	}

	if x < landmarks[0] {
		return 0
	}
	if x > landmarks[n-1] {
		return 1
	}

	lo := sort.SearchFloat64s(landmarks, x)
	hi := sort.Search(n, func(i int) bool { return landmarks[i] > x })
	denom := float64(n - 1)
	if lo < hi {
		// exact hit on one or more equal landmarks
		return (float64(lo) + float64(hi-1)) / 2 / denom
	}

	// strictly between landmarks lo-1 and lo
	left := landmarks[lo-1]
	right := landmarks[lo]
	frac := (x - left) / (right - left)
	return (float64(lo-1) + frac) / denom
}

// percentile linearly interpolates between order statistics of a sorted
// sample.
func percentile(sorted []float64, p float64) float64 {
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
