package acquire

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// removeResponse converts raw counts to displacement metres using a
// flat-sensitivity instrument model (the overall stage-zero gain an FDSN
// station service's text "Scale" field publishes) and a frequency-domain
// cosine pre-filter taper, spec.md §4.6 step 5.
//
// A full pole-zero response correction divides the spectrum by a
// frequency-dependent transfer function and needs the water-level floor to
// keep that division from blowing up near the response's notches; this
// module's instrument model has no frequency dependence beyond the scalar
// sensitivity, so there is nothing for the water level to floor.
// waterLevelDB is declared with the other acquisition constants but is not
// passed here and has no effect.
func removeResponse(counts []float64, fs, sensitivity float64, preFilt [4]float64) []float64 {
	n := len(counts)
	if n == 0 || sensitivity <= 0 || fs <= 0 {
		return nil
	}

	metres := make([]float64, n)
	for i, c := range counts {
		metres[i] = c / sensitivity
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, metres)

	for k := range coeffs {
		freq := fft.Freq(k) * fs
		taper := cosineTaper(freq, preFilt[0], preFilt[1], preFilt[2], preFilt[3])
		coeffs[k] *= complex(taper, 0)
	}

	return fft.Sequence(nil, coeffs)
}

// cosineTaper is zero below f1 and above f4, unity between f2 and f3, and
// eased in/out with a raised-cosine ramp in between — the standard
// ObsPy-style pre-filter shape spec.md §4.6 names by its four corners.
func cosineTaper(freq, f1, f2, f3, f4 float64) float64 {
	switch {
	case freq <= f1 || freq >= f4:
		return 0
	case freq < f2:
		return 0.5 * (1 - math.Cos(math.Pi*(freq-f1)/(f2-f1)))
	case freq <= f3:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(freq-f3)/(f4-f3)))
	}
}
