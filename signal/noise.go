package signal

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/geoseis/goseis/seis"
)

// EstimateNoise computes noise statistics from the pre-event window
// [p_arrival_s - duration, p_arrival_s), shrinking the window if
// p_arrival_s < duration, per spec.md §4.1. Returns nil if the window is
// empty.
func EstimateNoise(sig []float64, pArrivalS, fs, duration float64) *seis.NoiseStats {
	if duration <= 0 {
		duration = 60
	}
	if fs <= 0 || len(sig) == 0 {
		return nil
	}

	windowStart := pArrivalS - duration
	windowEnd := pArrivalS
	if windowStart < 0 {
		windowStart = 0
	}
	if windowEnd <= windowStart {
		return nil
	}

	startIdx := int(math.Round(windowStart * fs))
	endIdx := int(math.Round(windowEnd * fs))
	if startIdx < 0 {
		startIdx = 0
	}
	if endIdx > len(sig) {
		endIdx = len(sig)
	}
	if endIdx <= startIdx {
		return nil
	}

	segment := sig[startIdx:endIdx]
	return noiseStatsOf(segment, float64(endIdx-startIdx)/fs)
}

func noiseStatsOf(segment []float64, durationS float64) *seis.NoiseStats {
	if len(segment) == 0 {
		return nil
	}

	data := stats.Float64Data(segment)
	median, _ := stats.Median(data)
	std, _ := stats.StandardDeviation(data)

	deviations := make([]float64, len(segment))
	for i, v := range segment {
		deviations[i] = math.Abs(v - median)
	}
	mad, _ := stats.Median(stats.Float64Data(deviations))

	sumSq := 0.0
	maxAbs := 0.0
	for _, v := range segment {
		sumSq += v * v
		if math.Abs(v) > maxAbs {
			maxAbs = math.Abs(v)
		}
	}
	rms := math.Sqrt(sumSq / float64(len(segment)))

	return &seis.NoiseStats{
		RMS:       rms,
		Std:       std,
		Max:       maxAbs,
		Median:    median,
		MAD:       mad,
		NSamples:  len(segment),
		DurationS: durationS,
	}
}
