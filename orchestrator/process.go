package orchestrator

import (
	"github.com/geoseis/goseis/seis"
	"github.com/geoseis/goseis/signal"
)

const (
	noiseWindowDurationS = 60.0
	snrWindowS           = 20.0
)

// processWaveform implements spec.md §6's process(): per-component
// bandpass, optional despike, optional noise/SNR estimation, all against
// a copy of the waveform's current series so the source Waveform is
// never mutated.
func processWaveform(wf *seis.Waveform, filter signal.Filter, removeSpikes, computeSNR bool) seis.ProcessedWaveform {
	out := seis.ProcessedWaveform{
		Original:     map[seis.Component][]float64{},
		Filtered:     map[seis.Component][]float64{},
		SpikeCounts:  map[seis.Component]int{},
		NoiseStats:   map[seis.Component]*seis.NoiseStats{},
		SNRSeriesDB:  map[seis.Component][]float64{},
		SNRCentersS:  map[seis.Component][]float64{},
		FilterStatus: map[seis.Component]seis.FilterStatus{},
	}
	if wf == nil {
		return out
	}

	lo, hi, applyFilter := filter.Resolve()

	for _, c := range wf.AvailableComps {
		series, ok := wf.Series(c)
		if !ok {
			continue
		}
		original := append([]float64(nil), series...)
		out.Original[c] = original

		working := original
		if removeSpikes {
			despiked, count := signal.RemoveSpikes(working, 0, 0)
			working = despiked
			out.SpikeCounts[c] = count
		}

		var status seis.FilterStatus
		if applyFilter {
			fs := wf.ComponentRateHz[c]
			if fs <= 0 {
				fs = wf.SamplingRateHz
			}
			filtered, fstatus := signal.Bandpass(working, fs, lo, hi, 4)
			working = filtered
			status = fstatus
			out.FilterInfo = fstatus
		}
		out.FilterStatus[c] = status
		out.Filtered[c] = working

		if computeSNR {
			fs := wf.ComponentRateHz[c]
			if fs <= 0 {
				fs = wf.SamplingRateHz
			}
			pArrival := noiseWindowDurationS
			noise := signal.EstimateNoise(working, pArrival, fs, noiseWindowDurationS)
			out.NoiseStats[c] = noise
			if noise != nil {
				snrDB, centers := signal.SNRSeries(working, noise.RMS, snrWindowS, fs)
				out.SNRSeriesDB[c] = snrDB
				out.SNRCentersS[c] = centers
			}
		}
	}

	return out
}
