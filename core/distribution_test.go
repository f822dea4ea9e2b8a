package core

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, Quantile(s, 0.25), 1e-9)
	assert.InDelta(t, 2.5, Quantile(s, 0.5), 1e-9)
	assert.InDelta(t, 3.25, Quantile(s, 0.75), 1e-9)
	assert.Equal(t, 1.0, Quantile(s, 0))
	assert.Equal(t, 4.0, Quantile(s, 1))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.5))
	assert.Zero(t, Quantile(nil, 0.5))
}

func TestComputeDistribution(t *testing.T) {
	tests := []struct {
		name      string
		samples   []float64
		quartiles [3]float64
		whiskers  [2]int
		outliers  []int
	}{
		{
			name:      "no outliers",
			samples:   []float64{3, 1, 2, 4},
			quartiles: [3]float64{1.75, 2.5, 3.25},
			whiskers:  [2]int{0, 3},
			outliers:  []int{},
		},
		{
			name:      "high outlier",
			samples:   []float64{100, 1, 2, 3, 4},
			quartiles: [3]float64{2, 3, 4},
			whiskers:  [2]int{0, 3},
			outliers:  []int{4},
		},
		{
			name:      "low and high outliers",
			samples:   []float64{-50, 10, 11, 12, 13, 14, 80},
			quartiles: [3]float64{10.5, 12, 13.5},
			whiskers:  [2]int{1, 5},
			outliers:  []int{0, 6},
		},
		{
			name:      "single sample",
			samples:   []float64{5},
			quartiles: [3]float64{5, 5, 5},
			whiskers:  [2]int{0, 0},
			outliers:  []int{},
		},
		{
			name:     "empty",
			samples:  nil,
			whiskers: [2]int{0, -1},
			outliers: []int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ComputeDistribution(tt.samples)
			assert.True(t, slices.IsSorted(d.Sorted))
			assert.Len(t, d.Sorted, len(tt.samples))
			assert.InDeltaSlice(t, tt.quartiles[:], d.Quartiles[:], 1e-9)
			assert.Equal(t, tt.whiskers, d.WhiskerBounds)
			assert.Equal(t, tt.outliers, d.Outliers)
		})
	}
}

func TestComputeDistributionDoesNotModifyInput(t *testing.T) {
	in := []float64{3, 1, 2}
	_ = ComputeDistribution(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

// FuzzComputeDistribution checks the structural invariants of box plot statistics.
func FuzzComputeDistribution(f *testing.F) {
	f.Add(1.0, 2.0, 3.0, 4.0, 100.0)
	f.Add(0.0, 0.0, 0.0, 0.0, 0.0)
	f.Add(-5.0, 2.5, 1e9, -1e9, 7.0)

	f.Fuzz(func(t *testing.T, a, b, c, d, e float64) {
		samples := []float64{a, b, c, d, e}
		for _, v := range samples {
			if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > 1e150 {
				return
			}
		}
		dist := ComputeDistribution(samples)
		if !slices.IsSorted(dist.Sorted) {
			t.Fatalf("not sorted: %v", dist.Sorted)
		}
		q := dist.Quartiles
		if q[0] > q[1] || q[1] > q[2] {
			t.Fatalf("quartiles out of order: %v", q)
		}
		lo, hi := dist.WhiskerBounds[0], dist.WhiskerBounds[1]
		if lo < 0 || hi >= len(samples) || lo > hi {
			t.Fatalf("invalid whisker bounds %v", dist.WhiskerBounds)
		}
		if len(dist.Outliers)+(hi-lo+1) != len(samples) {
			t.Fatalf("outliers %v do not complement whiskers %v", dist.Outliers, dist.WhiskerBounds)
		}
	})
}
