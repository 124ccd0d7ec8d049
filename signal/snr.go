package signal

import "math"

// SNRSeries implements spec.md §4.1 snr_series: sliding windows of
// window_s with 50% overlap, snr_db = 10*log10(mean(x^2)/noise_rms^2),
// emitting -60 dB when signal power is zero.
func SNRSeries(sig []float64, noiseRMS, windowS, fs float64) (snrDB, tCenterS []float64) {
	if fs <= 0 || windowS <= 0 || len(sig) == 0 {
		return nil, nil
	}
	windowN := int(math.Round(windowS * fs))
	if windowN < 1 {
		windowN = 1
	}
	step := windowN / 2
	if step < 1 {
		step = 1
	}

	for start := 0; start+windowN <= len(sig); start += step {
		segment := sig[start : start+windowN]
		power := meanSquare(segment)
		var db float64
		if power == 0 || noiseRMS == 0 {
			db = -60
		} else {
			db = 10 * math.Log10(power/(noiseRMS*noiseRMS))
			if db < -60 {
				db = -60
			}
		}
		snrDB = append(snrDB, db)
		centerIdx := start + windowN/2
		tCenterS = append(tCenterS, float64(centerIdx)/fs)
	}
	return snrDB, tCenterS
}

func meanSquare(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum / float64(len(x))
}

func meanOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}
