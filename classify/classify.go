// Package classify identifies the dominant surface-wave family (Love,
// Rayleigh, or Mixed) present in a conditioned three-component waveform
// from the ratio of horizontal to vertical energy, per spec.md §4.4.
package classify

import (
	"math"

	"github.com/geoseis/goseis/seis"
)

const loveRayleighEpsilon = 1e-10

// TimeWindow restricts classification to [StartS, EndS) of the waveform's
// shared time axis (t=0 at EarthquakeTime). A nil *TimeWindow means "use
// the full signal".
type TimeWindow struct {
	StartS float64
	EndS   float64
}

// Classify implements spec.md §4.4 classify(waveform, time_window).
func Classify(w *seis.Waveform, window *TimeWindow) seis.WaveClassification {
	north := sliceFor(w, seis.ComponentNorth, window)
	east := sliceFor(w, seis.ComponentEast, window)
	vertical := sliceFor(w, seis.ComponentVertical, window)

	northEnergy := sumSquares(north)
	eastEnergy := sumSquares(east)
	verticalEnergy := sumSquares(vertical)
	horizontalEnergy := northEnergy + eastEnergy

	totalEnergy := horizontalEnergy + verticalEnergy
	var horizontalRatio, verticalRatio float64
	if totalEnergy > 0 {
		horizontalRatio = horizontalEnergy / totalEnergy
		verticalRatio = verticalEnergy / totalEnergy
	}

	rho := horizontalEnergy / (verticalEnergy + loveRayleighEpsilon)

	var dominant seis.WaveType
	var confidence float64
	switch {
	case rho > 3.0:
		dominant = seis.WaveLove
		confidence = math.Min(rho/5.0, 1.0)
	case rho < 0.5:
		dominant = seis.WaveRayleigh
		confidence = math.Min(2.0/(rho+0.1), 1.0)
	default:
		dominant = seis.WaveMixed
		confidence = clamp01(1.0 - math.Abs(rho-1.5)/1.5)
	}

	northRMS := rmsOf(north)
	eastRMS := rmsOf(east)
	verticalRMS := rmsOf(vertical)

	return seis.WaveClassification{
		DominantType:      dominant,
		Confidence:        confidence,
		LoveRayleighRatio: rho,
		HorizontalRatio:   horizontalRatio,
		VerticalRatio:     verticalRatio,
		ComponentEnergy: map[seis.Component]float64{
			seis.ComponentNorth:    northEnergy,
			seis.ComponentEast:     eastEnergy,
			seis.ComponentVertical: verticalEnergy,
		},
		RMSAmplitudes: map[seis.Component]float64{
			seis.ComponentNorth:    northRMS,
			seis.ComponentEast:     eastRMS,
			seis.ComponentVertical: verticalRMS,
		},
		InterpretationText: interpret(rho),
	}
}

func sliceFor(w *seis.Waveform, c seis.Component, window *TimeWindow) []float64 {
	series, ok := w.Series(c)
	if !ok || len(series) == 0 {
		return nil
	}
	if window == nil {
		return series
	}
	fs := w.ComponentRateHz[c]
	if fs <= 0 {
		fs = w.SamplingRateHz
	}
	if fs <= 0 {
		return series
	}
	origin := 0.0
	if len(w.TimeS) > 0 {
		origin = w.TimeS[0]
	}
	start := int((window.StartS - origin) * fs)
	end := int((window.EndS - origin) * fs)
	if start < 0 {
		start = 0
	}
	if end > len(series) {
		end = len(series)
	}
	if end <= start {
		return nil
	}
	return series[start:end]
}

func sumSquares(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func rmsOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(sumSquares(x) / float64(len(x)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// interpret maps a Love/Rayleigh energy ratio to a short interpretation
// string from the fixed bucket table in spec.md §4.4.
func interpret(rho float64) string {
	switch {
	case rho > 5.0:
		return "strong Love wave dominance - primarily horizontal motion"
	case rho > 3.0:
		return "Love waves dominate - more horizontal than vertical motion"
	case rho > 1.5:
		return "mixed Love and Rayleigh - both wave types present"
	case rho > 0.5:
		return "mixed signal with Rayleigh tendency"
	case rho > 0.2:
		return "Rayleigh waves dominate - strong vertical component"
	default:
		return "strong Rayleigh wave dominance - primarily vertical motion"
	}
}
