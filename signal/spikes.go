package signal

import (
	"math"

	"github.com/montanaflynn/stats"
)

// RemoveSpikes implements spec.md §4.1 remove_spikes: samples with a
// robust z-score beyond threshold are replaced by a length-window
// median-filtered value at the same index. Non-spike samples are never
// modified.
func RemoveSpikes(data []float64, threshold float64, window int) ([]float64, int) {
	if threshold <= 0 {
		threshold = 5.0
	}
	if window <= 0 {
		window = 5
	}
	out := make([]float64, len(data))
	copy(out, data)
	if len(data) == 0 {
		return out, 0
	}

	median, err := stats.Median(stats.Float64Data(data))
	if err != nil {
		return out, 0
	}

	deviations := make([]float64, len(data))
	for i, v := range data {
		deviations[i] = math.Abs(v - median)
	}
	mad, err := stats.Median(stats.Float64Data(deviations))
	if err != nil {
		mad = 0
	}

	var scale func(v float64) float64
	if mad == 0 {
		std, errStd := stats.StandardDeviation(stats.Float64Data(data))
		if errStd != nil || std == 0 {
			return out, 0
		}
		scale = func(v float64) float64 { return (v - median) / std }
	} else {
		scale = func(v float64) float64 { return 0.6745 * (v - median) / mad }
	}

	count := 0
	for i, v := range data {
		z := scale(v)
		if math.Abs(z) > threshold {
			out[i] = windowMedian(data, i, window)
			count++
		}
	}
	return out, count
}

// windowMedian returns the median of a length-window slice of data centred
// on (clamped at array bounds around) index i.
func windowMedian(data []float64, i, window int) float64 {
	half := window / 2
	lo := i - half
	hi := i + half + 1
	if lo < 0 {
		lo = 0
	}
	if hi > len(data) {
		hi = len(data)
	}
	segment := make([]float64, hi-lo)
	copy(segment, data[lo:hi])
	m, err := stats.Median(stats.Float64Data(segment))
	if err != nil {
		return data[i]
	}
	return m
}
