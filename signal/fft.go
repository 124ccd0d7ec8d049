package signal

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFTPeriods implements spec.md §4.1 fft_periods: extracts a window,
// removes the mean, computes a real FFT via gonum's real-input
// dsp/fourier FFT, converts positive frequencies to periods, and returns the
// amplitude peak within the search band.
func FFTPeriods(sig []float64, fs, tStartS, durationS float64, periodSearchLo, periodSearchHi float64) (periods, amplitudes []float64, peakPeriod, peakAmplitude float64) {
	if durationS <= 0 {
		durationS = 600
	}
	if periodSearchLo <= 0 {
		periodSearchLo = 10
	}
	if periodSearchHi <= 0 {
		periodSearchHi = 40
	}
	if fs <= 0 || len(sig) == 0 {
		return nil, nil, 20, 0
	}

	startIdx := int(math.Round(tStartS * fs))
	endIdx := startIdx + int(math.Round(durationS*fs))
	if startIdx < 0 {
		startIdx = 0
	}
	if endIdx > len(sig) {
		endIdx = len(sig)
	}
	if endIdx <= startIdx {
		return nil, nil, 20, 0
	}

	window := make([]float64, endIdx-startIdx)
	copy(window, sig[startIdx:endIdx])
	mean := meanOf(window)
	for i := range window {
		window[i] -= mean
	}

	n := len(window)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, window)

	nBins := n/2 + 1
	periods = make([]float64, 0, nBins-1)
	amplitudes = make([]float64, 0, nBins-1)

	for k := 1; k < nBins; k++ {
		freq := float64(k) * fs / float64(n)
		if freq <= 0 {
			continue
		}
		period := 1.0 / freq
		amp := (2.0 / float64(n)) * magnitude(coeffs[k])
		periods = append(periods, period)
		amplitudes = append(amplitudes, amp)
	}

	peakPeriod = 20
	peakAmplitude = 0
	found := false
	for i, p := range periods {
		if p >= periodSearchLo && p <= periodSearchHi {
			if !found || amplitudes[i] > peakAmplitude {
				peakAmplitude = amplitudes[i]
				peakPeriod = p
				found = true
			}
		}
	}

	return periods, amplitudes, peakPeriod, peakAmplitude
}

func magnitude(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
