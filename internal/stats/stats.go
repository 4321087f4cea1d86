// Package stats holds the numeric helpers the analysis questions are built
// from. The heavy lifting is done by gonum; this package adds the input
// checks gonum leaves to the caller and the median and most-common rules.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmpty is returned when a statistic needs at least one value.
	ErrEmpty = errors.New("no data points")
	// ErrInsufficientData is returned when fewer than two points are given.
	ErrInsufficientData = errors.New("need at least 2 data points")
	// ErrLengthMismatch is returned when paired sequences differ in length.
	ErrLengthMismatch = errors.New("sequences differ in length")
	// ErrZeroVariance is returned when a sequence is constant.
	ErrZeroVariance = errors.New("sequence has zero variance")
)

// Mean returns the arithmetic mean.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmpty
	}
	return stat.Mean(xs, nil), nil
}

// Median returns the middle value of the sorted input, or the average of the
// two middle values for even lengths. The input is not modified.
func Median(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, ErrEmpty
	}
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	return quantile(cp, 0.5), nil
}

// StdDev returns the sample standard deviation.
func StdDev(xs []float64) (float64, error) {
	if len(xs) < 2 {
		return 0, ErrInsufficientData
	}
	return stat.StdDev(xs, nil), nil
}

// Pearson returns the product-moment correlation coefficient of xs and ys.
func Pearson(xs, ys []float64) (float64, error) {
	if err := checkPairs(xs, ys); err != nil {
		return 0, err
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0, ErrZeroVariance
	}
	// float noise can push |r| past 1 on perfectly linear data
	return math.Max(-1, math.Min(1, r)), nil
}

// Line is a fitted y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 { return l.Slope*x + l.Intercept }

// LinearRegression fits an ordinary least-squares line through (xs, ys).
func LinearRegression(xs, ys []float64) (Line, error) {
	if err := checkPairs(xs, ys); err != nil {
		return Line{}, err
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return Line{Slope: beta, Intercept: alpha}, nil
}

// Normalize min-max scales xs into [0, 1].
func Normalize(xs []float64) ([]float64, error) {
	if len(xs) == 0 {
		return nil, ErrEmpty
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	if hi == lo {
		return nil, ErrZeroVariance
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = (x - lo) / (hi - lo)
	}
	return out, nil
}

func checkPairs(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return ErrLengthMismatch
	}
	if len(xs) < 2 {
		return ErrInsufficientData
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return ErrZeroVariance
	}
	return nil
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
