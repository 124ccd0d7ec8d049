package orchestrator

import (
	"math"

	"github.com/geoseis/goseis/seis"
)

// windowOf extracts [startS, startS+durationS) of a component's series,
// measured on the waveform's shared time axis (t=0 at EarthquakeTime),
// returning nil if the component is absent or the window falls entirely
// outside the available data.
func windowOf(wf *seis.Waveform, c seis.Component, startS, durationS float64) []float64 {
	if wf == nil || len(wf.TimeS) == 0 {
		return nil
	}
	series, ok := wf.Series(c)
	if !ok || len(series) == 0 {
		return nil
	}

	fs := wf.ComponentRateHz[c]
	if fs <= 0 {
		fs = wf.SamplingRateHz
	}
	if fs <= 0 {
		return nil
	}

	origin := wf.TimeS[0]
	startIdx := int(math.Round((startS - origin) * fs))
	endIdx := int(math.Round((startS + durationS - origin) * fs))

	if startIdx < 0 {
		startIdx = 0
	}
	if endIdx > len(series) {
		endIdx = len(series)
	}
	if endIdx <= startIdx {
		return nil
	}
	return series[startIdx:endIdx]
}
