package core

import (
	"math"
	"slices"

	"github.com/huangsam/leaderboard/schema"
)

// whiskerK is the IQR multiplier for whisker cutoffs.
const whiskerK = 1.5

// Quantile returns the p-quantile of an ascending sample using linear
// interpolation between the two closest order statistics.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	weight := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*weight
}

// ComputeDistribution returns quartiles, whisker bounds and outlier indexes of
// the samples. Indexes refer to the ascending copy in Distribution.Sorted.
func ComputeDistribution(samples []float64) schema.Distribution {
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	d := schema.Distribution{Sorted: sorted, Outliers: []int{}}
	n := len(sorted)
	if n == 0 {
		d.WhiskerBounds = [2]int{0, -1}
		return d
	}

	q1 := Quantile(sorted, 0.25)
	q2 := Quantile(sorted, 0.5)
	q3 := Quantile(sorted, 0.75)
	d.Quartiles = [3]float64{q1, q2, q3}

	iqr := (q3 - q1) * whiskerK
	i, j := 0, n-1
	for i < n-1 && sorted[i] < q1-iqr {
		i++
	}
	for j > 0 && sorted[j] > q3+iqr {
		j--
	}
	d.WhiskerBounds = [2]int{i, j}

	for k := 0; k < i; k++ {
		d.Outliers = append(d.Outliers, k)
	}
	for k := j + 1; k < n; k++ {
		d.Outliers = append(d.Outliers, k)
	}
	return d
}
