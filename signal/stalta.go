package signal

// STALTA implements spec.md §4.1 sta_lta: a short-term/long-term average
// trigger. Reports the first local maximum of the sta/lta ratio exceeding
// threshold, along with the running maximum ratio.
func STALTA(sig []float64, fs, staS, ltaS, threshold float64) (maxRatio float64, triggerTimeS *float64) {
	if staS <= 0 {
		staS = 2.0
	}
	if ltaS <= 0 {
		ltaS = 10.0
	}
	if threshold <= 0 {
		threshold = 3.0
	}
	if fs <= 0 || len(sig) == 0 {
		return 0, nil
	}

	staN := int(staS * fs)
	ltaN := int(ltaS * fs)
	if staN < 1 {
		staN = 1
	}
	if ltaN < 1 {
		ltaN = 1
	}

	sq := make([]float64, len(sig))
	for i, v := range sig {
		sq[i] = v * v
	}

	ratios := make([]float64, len(sig))
	for i := range sig {
		if i-ltaN < 0 || i+staN > len(sig) {
			ratios[i] = 0
			continue
		}
		sta := meanOf(sq[i : i+staN])
		lta := meanOf(sq[i-ltaN : i])
		if lta == 0 {
			ratios[i] = 0
		} else {
			ratios[i] = sta / lta
		}
	}

	for _, r := range ratios {
		if r > maxRatio {
			maxRatio = r
		}
	}

	for i := 1; i < len(ratios)-1; i++ {
		if ratios[i] > threshold && ratios[i] >= ratios[i-1] && ratios[i] >= ratios[i+1] {
			t := float64(i) / fs
			return maxRatio, &t
		}
	}
	return maxRatio, nil
}
