// Package acquire implements WaveformAcquirer: fetching, merging,
// instrument-response removal, and timing validation for a single
// station's three-component waveform, per spec.md §4.6.
package acquire

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/geoseis/goseis/seis"
	"github.com/geoseis/goseis/signal"
)

// Trace is one contiguous channel segment as returned by a WaveformSource,
// mirroring the {network, station, location, channel, starttime,
// sampling_rate, npts} + integer data shape spec.md §6 describes for
// get_waveforms.
type Trace struct {
	Network      string
	Station      string
	Location     string
	Channel      string
	StartTime    time.Time
	SamplingRateHz float64
	Counts       []float64
}

// WaveformSource is the external raw-waveform boundary. A concrete adapter
// (fdsn/iris) implements it against the IRIS timeseries service's ASCII
// output.
type WaveformSource interface {
	GetWaveforms(ctx context.Context, network, station, location, channel string, start, end time.Time, attachResponse bool) ([]Trace, error)
}

// ResponseInfo is the minimal instrument-response description this module
// removes: a frequency-independent sensitivity (stage-zero gain), which is
// what an FDSN station service's text/"Scale" field actually publishes.
type ResponseInfo struct {
	SensitivityCountsPerMeter float64
	ScaleFreqHz               float64
	InputUnits                string
}

// ResponseSource is the external instrument-response boundary.
type ResponseSource interface {
	GetResponse(ctx context.Context, network, station, location, channel string, at time.Time) (*ResponseInfo, error)
}

// channelPriority is the ordered set of broadband/short-period channel
// patterns WaveformAcquirer tries before falling back to everything,
// spec.md §4.6 step 2-3.
var channelPriority = []string{"BH?", "HH?", "SH?"}

const (
	preWindow  = 180 * time.Second
	postWindow = 1800 * time.Second

	preFilterLowHz      = 0.005
	preFilterLowPlateau = 0.01
	waterLevelDB        = 60.0

	timingMaxDifferenceS = 10.0
	timingMinRatio       = 3.0

	minImplicitPVelocity = 5.8
	maxImplicitPVelocity = 13.7
)

// Acquirer implements WaveformAcquirer, owning the process-wide
// failed_stations set spec.md §4.7/§5 describes as purely additive within
// a session.
type Acquirer struct {
	Waveforms WaveformSource
	Responses ResponseSource

	mu             sync.Mutex
	failedStations map[string]bool
}

// NewAcquirer builds an Acquirer. responses may be nil, in which case
// every waveform is retained as raw counts.
func NewAcquirer(waveforms WaveformSource, responses ResponseSource) *Acquirer {
	return &Acquirer{
		Waveforms:      waveforms,
		Responses:      responses,
		failedStations: make(map[string]bool),
	}
}

// FailedStations returns a snapshot of the net.sta identifiers that have
// failed acquisition this session.
func (a *Acquirer) FailedStations() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.failedStations))
	for id := range a.failedStations {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ResetFailedStations clears the failed_stations set, spec.md §5's
// "cleared on explicit reset".
func (a *Acquirer) ResetFailedStations() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failedStations = make(map[string]bool)
}

func (a *Acquirer) markFailed(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failedStations[id] = true
}

// Acquire implements spec.md §4.6 steps 1-7: channel-pattern fallback,
// merge/dedup, optional response removal, per-component time axes,
// STA/LTA timing detection (recorded on wf.Timing; applying it is
// CorrectTiming's job), and the physical-sanity warning.
// Returns (nil, nil) when no data is available for the station — "None"
// in spec terms, not a Go error — after recording the station as failed.
func (a *Acquirer) Acquire(ctx context.Context, ev seis.Event, st seis.Station) (*seis.Waveform, error) {
	start := ev.OriginTime.Add(-preWindow)
	end := ev.OriginTime.Add(postWindow)

	var traces []Trace
	var err error
	for _, pattern := range channelPriority {
		traces, err = a.Waveforms.GetWaveforms(ctx, st.NetworkCode, st.StationCode, "*", pattern, start, end, true)
		if err == nil && countComponents(traces) >= 2 {
			break
		}
	}
	if countComponents(traces) < 2 {
		traces, err = a.Waveforms.GetWaveforms(ctx, st.NetworkCode, st.StationCode, "*", "*", start, end, true)
	}
	if err != nil || countComponents(traces) < 2 {
		a.markFailed(st.ID())
		return nil, nil
	}

	traces = dedupeByQualifiedID(traces)
	wf := a.buildWaveform(ctx, ev, st, traces)

	a.applyTimingValidation(wf, st)
	a.applyPhysicalSanityCheck(wf, st)

	return wf, nil
}

func countComponents(traces []Trace) int {
	seen := map[seis.Component]bool{}
	for _, tr := range traces {
		seen[componentOf(tr.Channel)] = true
	}
	return len(seen)
}

func componentOf(channel string) seis.Component {
	if channel == "" {
		return ""
	}
	switch channel[len(channel)-1] {
	case 'Z':
		return seis.ComponentVertical
	case 'N', '1':
		return seis.ComponentNorth
	case 'E', '2':
		return seis.ComponentEast
	default:
		return ""
	}
}

// dedupeByQualifiedID drops exact repeat segments (identical channel id and
// start time), keeping the first occurrence, spec.md §4.6 step 5. Distinct
// time segments of the same channel are kept — they are gap-fill material
// for mergeComponent, not duplicates.
func dedupeByQualifiedID(traces []Trace) []Trace {
	seenIDs := map[string]bool{}
	out := make([]Trace, 0, len(traces))
	for _, tr := range traces {
		id := fmt.Sprintf("%s.%s.%s.%s@%s", tr.Network, tr.Station, tr.Location, tr.Channel, tr.StartTime.Format(time.RFC3339Nano))
		if seenIDs[id] {
			continue
		}
		seenIDs[id] = true
		out = append(out, tr)
	}
	return out
}

func (a *Acquirer) buildWaveform(ctx context.Context, ev seis.Event, st seis.Station, traces []Trace) *seis.Waveform {
	byComponent := map[seis.Component][]Trace{}
	for _, tr := range traces {
		c := componentOf(tr.Channel)
		if c == "" {
			continue
		}
		byComponent[c] = append(byComponent[c], tr)
	}

	wf := &seis.Waveform{
		EventID:         ev.ID,
		StationID:       st.ID(),
		EarthquakeTime:  ev.OriginTime,
		RawCounts:       map[seis.Component][]float64{},
		DisplacementMm:  map[seis.Component][]float64{},
		ComponentRateHz: map[seis.Component]float64{},
	}

	anyDisplacement := false
	var maxRate float64
	for c, segs := range byComponent {
		segStart, fs, counts := mergeComponent(segs)
		if fs > maxRate {
			maxRate = fs
		}
		wf.RawCounts[c] = append([]float64(nil), counts...)
		wf.ComponentRateHz[c] = fs
		wf.AvailableComps = append(wf.AvailableComps, c)

		timeS := make([]float64, len(counts))
		offset := segStart.Sub(ev.OriginTime).Seconds()
		for i := range counts {
			timeS[i] = offset + float64(i)/fs
		}
		if c == seis.ComponentVertical || (len(wf.TimeS) == 0) {
			wf.TimeS = timeS
		}

		if a.Responses != nil {
			if resp, err := a.Responses.GetResponse(ctx, st.NetworkCode, st.StationCode, "*", channelCodeFor(segs), segStart); err == nil && resp != nil && resp.SensitivityCountsPerMeter > 0 {
				disp := removeResponse(counts, fs, resp.SensitivityCountsPerMeter, preFilterCorners(fs))
				for i := range disp {
					disp[i] *= 1000 // metres -> millimetres
				}
				wf.DisplacementMm[c] = disp
				anyDisplacement = true
				continue
			}
		}
	}

	sort.Slice(wf.AvailableComps, func(i, j int) bool { return wf.AvailableComps[i] < wf.AvailableComps[j] })
	wf.SamplingRateHz = maxRate
	if anyDisplacement && len(wf.DisplacementMm) == len(wf.AvailableComps) {
		wf.Units = seis.UnitsMillimetres
	} else {
		wf.Units = seis.UnitsCounts
		wf.DisplacementMm = nil
	}
	return wf
}

func channelCodeFor(segs []Trace) string {
	if len(segs) == 0 {
		return ""
	}
	return segs[0].Channel
}

// mergeComponent sorts a component's segments by start time and
// concatenates them onto one sample axis, zero-filling any gap between the
// end of one segment and the start of the next (spec.md §4.6 step 5).
func mergeComponent(segs []Trace) (startTime time.Time, fs float64, data []float64) {
	sort.Slice(segs, func(i, j int) bool { return segs[i].StartTime.Before(segs[j].StartTime) })
	startTime = segs[0].StartTime
	fs = segs[0].SamplingRateHz
	if fs <= 0 {
		fs = 1
	}

	for _, seg := range segs {
		idx := int(math.Round(seg.StartTime.Sub(startTime).Seconds() * fs))
		if idx > len(data) {
			data = append(data, make([]float64, idx-len(data))...)
		}
		if idx < len(data) {
			overlap := len(data) - idx
			if overlap < len(seg.Counts) {
				data = append(data, seg.Counts[overlap:]...)
			}
			continue
		}
		data = append(data, seg.Counts...)
	}
	return startTime, fs, data
}

func preFilterCorners(fs float64) [4]float64 {
	nyquist := fs / 2
	return [4]float64{preFilterLowHz, preFilterLowPlateau, 0.8 * nyquist, 0.9 * nyquist}
}

// applyTimingValidation implements the detection half of spec.md §4.6 step
// 6: an STA/LTA check of the Z component against the theoretical P arrival
// already attached to st by ArrivalModel, recording what was found on
// wf.Timing. It never mutates wf.TimeS — applying the detected offset is a
// separate, explicit step a caller opts into via CorrectTiming, so that an
// unreliable STA/LTA detection on a noisy trace can never silently shift a
// waveform merely by being downloaded.
func (a *Acquirer) applyTimingValidation(wf *seis.Waveform, st seis.Station) {
	if st.PArrivalS == nil {
		return
	}
	z, ok := wf.RawCounts[seis.ComponentVertical]
	if !ok {
		return
	}
	fs := wf.ComponentRateHz[seis.ComponentVertical]
	if fs <= 0 {
		return
	}

	ratio, triggerS := signal.STALTA(z, fs, 2.0, 10.0, timingMinRatio)
	if triggerS == nil {
		return
	}

	offsetFromOrigin := wf.TimeS[0] + *triggerS
	theoretical := *st.PArrivalS
	diff := offsetFromOrigin - theoretical

	wf.Timing = &seis.TimingValidation{
		Performed:     true,
		DetectedPS:    offsetFromOrigin,
		TheoreticalPS: theoretical,
		DifferenceS:   diff,
		TriggerRatio:  ratio,
	}
}

// CorrectTiming applies the timing offset applyTimingValidation already
// detected for wf, when that detection qualifies: |difference| within 10 s
// and trigger ratio above 3, spec.md §4.6 step 6's correction threshold.
// Callers must invoke this explicitly after Acquire — it is never run
// automatically, per spec.md §9's resolution that a noisy-trace detection
// must not silently rewrite every sample timestamp. Returns whether a
// correction has been applied: true if it applies one now or one was
// already applied (the axis is not shifted a second time); false, with wf
// left untouched, if there is no detection or it doesn't qualify.
func (a *Acquirer) CorrectTiming(wf *seis.Waveform) bool {
	if wf == nil || wf.Timing == nil || !wf.Timing.Performed {
		return false
	}
	if wf.Timing.Corrected {
		return true
	}
	if math.Abs(wf.Timing.DifferenceS) > timingMaxDifferenceS || wf.Timing.TriggerRatio <= timingMinRatio {
		return false
	}

	diff := wf.Timing.DifferenceS
	for i := range wf.TimeS {
		wf.TimeS[i] -= diff
	}
	wf.Timing.Corrected = true
	wf.Timing.OffsetAppliedS = diff
	wf.TimingCorrected = true
	return true
}

// applyPhysicalSanityCheck implements spec.md §4.6 step 7 / §7: the
// implicit P velocity distance_km/observed_p_s must lie in [5.8, 13.7]
// km/s. Uses the STA/LTA-detected time if timing validation ran,
// otherwise the theoretical arrival already on the station.
func (a *Acquirer) applyPhysicalSanityCheck(wf *seis.Waveform, st seis.Station) {
	var observedPS float64
	switch {
	case wf.Timing != nil && wf.Timing.Performed:
		observedPS = wf.Timing.DetectedPS
	case st.PArrivalS != nil:
		observedPS = *st.PArrivalS
	default:
		return
	}
	if observedPS <= 0 || st.DistanceKm <= 0 {
		return
	}

	velocity := st.DistanceKm / observedPS
	if velocity < minImplicitPVelocity || velocity > maxImplicitPVelocity {
		wf.Warnings = append(wf.Warnings, fmt.Sprintf(
			"implicit P velocity %.2f km/s outside plausible range [%.1f, %.1f]", velocity, minImplicitPVelocity, maxImplicitPVelocity))
	}
}
