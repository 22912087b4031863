// Package indicator provides stateless rolling calculations over OHLCV series.
//
// Every function returns a slice of the same length as its input, with NaN in
// the leading positions until enough history exists. All calculations are
// single-pass with O(1) incremental state per step.
package indicator

import (
	"fmt"
	"math"

	"github.com/hmasato/trader/internal/core"
)

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// SMA calculates the simple moving average of values over window.
// Positions before window-1 are NaN.
func SMA(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// Bollinger calculates Bollinger Bands over period with the given standard
// deviation multiplier. The middle band is the SMA; upper and lower are
// middle +/- mult * rolling sample standard deviation.
func Bollinger(values []float64, period int, mult float64) (middle, upper, lower []float64) {
	n := len(values)
	middle = SMA(values, period)
	upper = nanSlice(n)
	lower = nanSlice(n)
	if period < 2 || n < period {
		return middle, upper, lower
	}

	var sum, sumSq float64
	for i, v := range values {
		sum += v
		sumSq += v * v
		if i >= period {
			old := values[i-period]
			sum -= old
			sumSq -= old * old
		}
		if i >= period-1 {
			p := float64(period)
			// Sample variance (ddof=1), clamped against rounding noise.
			variance := (sumSq - sum*sum/p) / (p - 1)
			if variance < 0 {
				variance = 0
			}
			sd := math.Sqrt(variance)
			upper[i] = middle[i] + mult*sd
			lower[i] = middle[i] - mult*sd
		}
	}
	return middle, upper, lower
}

// ATR calculates the average true range over period. True range is
// max(high-low, |high-prevClose|, |low-prevClose|); the first bar uses
// high-low since no previous close exists.
func ATR(series core.Series, period int) []float64 {
	n := series.Len()
	tr := make([]float64, n)
	for i, b := range series.Bars {
		if i == 0 {
			tr[i] = b.High - b.Low
			continue
		}
		prevClose := series.Bars[i-1].Close
		tr[i] = math.Max(b.High-b.Low,
			math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
	}
	return SMA(tr, period)
}

// VolumeMA calculates the rolling mean of volume over period. It fails when
// the series has no usable volume data; callers that can degrade should go
// through the registry fallback instead.
func VolumeMA(series core.Series, period int) ([]float64, error) {
	if !series.VolumeAvailable() {
		return nil, core.WrapError(core.ErrMissingData,
			fmt.Errorf("series of %d bars has no volume data", series.Len()))
	}
	return SMA(series.Volumes(), period), nil
}
