// Package magnitude implements the IASPEI 2013 surface-wave magnitude
// (Ms) estimator: a pure, deterministic function over conditioned
// three-component displacement that returns both a magnitude value and a
// fully populated explanation of every intermediate term.
package magnitude

import (
	"math"

	"github.com/geoseis/goseis/geomath"
	"github.com/geoseis/goseis/seis"
	"github.com/geoseis/goseis/signal"
)

const (
	standardLowHz    = 0.02
	standardHighCap  = 0.5
	minDistanceKm    = 200
	shortDistanceKm  = 2000
	unreliableRangeKm = 16000
	deepEarthquakeKm = 60
	depthCorrectionKm = 50
	msConstant       = 3.3
	msDistanceCoeff  = 1.66
)

// Options bundles compute_ms's optional arguments.
type Options struct {
	PeriodS     float64 // default 20
	DepthKm     *float64
	ApplyFilter bool
}

// Compute implements spec.md §4.3 compute_ms: validates distance,
// optionally band-passes to the standard surface-wave window, picks the
// peak amplitude across components, and applies the IASPEI formula plus
// depth/short-distance corrections. Returns (nil, explanation) on any
// failure, with explanation.Error set and explanation.ErrorReason naming
// the cause.
func Compute(northMm, eastMm, verticalMm []float64, distanceKm, fs float64, opts Options) (*float64, seis.MsExplanation) {
	periodS := opts.PeriodS
	if periodS <= 0 {
		periodS = 20.0
	}

	explanation := seis.MsExplanation{}

	if distanceKm < minDistanceKm {
		explanation.Error = true
		explanation.ErrorReason = "distance_too_short"
		explanation.ErrorMessage = "Ms magnitude requires epicentral distance > 200 km"
		return nil, explanation
	}

	var issues []seis.ValidationIssue
	requiresCorrection := false

	if distanceKm < shortDistanceKm {
		issues = append(issues, seis.ValidationIssue{
			Type:    "distance",
			Message: "distance below 2000 km",
			Detail:  "Rayleigh waves not fully developed - result may underestimate magnitude",
		})
		requiresCorrection = true
	}
	if distanceKm > unreliableRangeKm {
		issues = append(issues, seis.ValidationIssue{
			Type:    "distance",
			Message: "distance above 16000 km (160 degrees)",
			Detail:  "Ms magnitude is unreliable at very large distances",
		})
	}
	if opts.DepthKm != nil && *opts.DepthKm > deepEarthquakeKm {
		issues = append(issues, seis.ValidationIssue{
			Type:    "depth",
			Message: "depth above 60 km",
			Detail:  "Ms is designed for shallow earthquakes - deep earthquakes generate weaker surface waves",
		})
		requiresCorrection = true
	}

	vertical, north, east := verticalMm, northMm, eastMm
	filterInfo := seis.MsFilterInfo{}
	if opts.ApplyFilter {
		nyquist := fs / 2.0
		if nyquist < 0.5 {
			explanation.Error = true
			explanation.ErrorReason = "sampling_rate_too_low"
			explanation.ErrorMessage = "sampling rate too low for Ms filter"
			return nil, explanation
		}
		lowFreq := standardLowHz
		highFreq := math.Min(standardHighCap, nyquist*0.9)

		vertical, _ = signal.Bandpass(vertical, fs, lowFreq, highFreq, 4)
		north, _ = signal.Bandpass(north, fs, lowFreq, highFreq, 4)
		east, _ = signal.Bandpass(east, fs, lowFreq, highFreq, 4)

		filterInfo = seis.MsFilterInfo{
			Applied:      true,
			LowFreqHz:    lowFreq,
			HighFreqHz:   highFreq,
			NyquistHz:    nyquist,
			CenterFreqHz: 1.0 / periodS,
		}
	}

	maxVert := maxAbsUm(vertical)
	maxNorth := maxAbsUm(north)
	maxEast := maxAbsUm(east)
	maxHorizontal := horizontalPeakUm(north, east, maxNorth, maxEast)

	amplitudeUm := math.Max(maxVert, maxHorizontal)
	usedComponent := "horizontal"
	if maxVert >= maxHorizontal {
		usedComponent = "vertical"
	}

	amplitudes := seis.MsAmplitudes{
		NorthUm:       maxNorth,
		EastUm:        maxEast,
		VerticalUm:    maxVert,
		HorizontalUm:  maxHorizontal,
		UsedUm:        amplitudeUm,
		UsedComponent: usedComponent,
	}

	if amplitudeUm == 0 {
		explanation.Error = true
		explanation.ErrorReason = "no_amplitude"
		explanation.ErrorMessage = "no amplitude found - check data"
		explanation.Amplitudes = amplitudes
		explanation.Filter = filterInfo
		return nil, explanation
	}

	distanceDeg := geomath.DegreesIASPEI(distanceKm)

	logAmpOverPeriod := math.Log10(amplitudeUm / periodS)
	logDistance := math.Log10(distanceDeg)
	distanceTerm := msDistanceCoeff * logDistance
	rawResult := logAmpOverPeriod + distanceTerm + msConstant

	msRaw := rawResult

	depthCorrection := seis.MsDepthCorrection{}
	if opts.DepthKm != nil && *opts.DepthKm > depthCorrectionKm {
		correction := -0.0035 * (*opts.DepthKm - depthCorrectionKm)
		depthCorrection = seis.MsDepthCorrection{
			Applied:    true,
			DepthKm:    *opts.DepthKm,
			Correction: correction,
		}
		msRaw += correction
	}

	distanceCorrection := seis.MsDistanceCorrection{}
	if distanceKm < shortDistanceKm {
		factor := (shortDistanceKm - distanceKm) / shortDistanceKm
		correction := 0.3 * factor
		distanceCorrection = seis.MsDistanceCorrection{
			Applied:    true,
			DistanceKm: distanceKm,
			Correction: correction,
			Factor:     factor,
		}
		msRaw += correction
	}

	ms := roundTo(msRaw, 1)

	explanation.Magnitude = &ms
	explanation.Amplitudes = amplitudes
	explanation.Parameters = seis.MsParameters{
		PeriodS:          periodS,
		PeriodIsStandard: periodS == 20.0,
		DistanceKm:       distanceKm,
		DistanceDeg:      distanceDeg,
		SamplingRateHz:   fs,
	}
	explanation.Filter = filterInfo
	explanation.Calculation = seis.MsCalculationTerms{
		AmplitudeOverPeriod: amplitudeUm / periodS,
		LogAmpOverPeriod:    logAmpOverPeriod,
		LogDistance:         logDistance,
		DistanceTerm:        distanceTerm,
		Constant:            msConstant,
		RawResult:           rawResult,
	}
	explanation.DepthCorrection = depthCorrection
	explanation.DistanceCorrection = distanceCorrection
	explanation.Validation = seis.MsValidation{
		Issues:              issues,
		RequiresCorrection:  requiresCorrection,
		IsStandardCompliant: len(issues) == 0,
	}

	return &ms, explanation
}

func maxAbsUm(mm []float64) float64 {
	maxVal := 0.0
	for _, v := range mm {
		av := math.Abs(v) * 1000
		if av > maxVal {
			maxVal = av
		}
	}
	return maxVal
}

// horizontalPeakUm computes max(sqrt(N^2+E^2))*1000 when both components
// carry samples, falling back to max(maxNorth, maxEast) otherwise.
func horizontalPeakUm(north, east []float64, maxNorth, maxEast float64) float64 {
	if len(north) == 0 || len(east) == 0 {
		return math.Max(maxNorth, maxEast)
	}
	n := len(north)
	if len(east) < n {
		n = len(east)
	}
	peak := 0.0
	for i := 0; i < n; i++ {
		h := math.Hypot(north[i], east[i]) * 1000
		if h > peak {
			peak = h
		}
	}
	return peak
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
