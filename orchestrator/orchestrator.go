// Package orchestrator implements PipelineOrchestrator: the stateful
// coordinator that owns every cache and the failed_stations set, drives
// select → acquire → condition → magnitude/classify in strict order for a
// given (event, station), and implements fail-forward station
// substitution, per spec.md §4.7 and §5.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/geoseis/goseis/acquire"
	"github.com/geoseis/goseis/arrival"
	"github.com/geoseis/goseis/cache"
	"github.com/geoseis/goseis/classify"
	"github.com/geoseis/goseis/fdsn"
	"github.com/geoseis/goseis/logging"
	"github.com/geoseis/goseis/magnitude"
	"github.com/geoseis/goseis/seis"
	"github.com/geoseis/goseis/signal"
	"github.com/geoseis/goseis/station"
)

// State is the explicit state machine spec.md §9's Design Notes asks for
// in place of the original's interleaved UI/orchestrator booleans.
type State string

const (
	StateIdle          State = "Idle"
	StateSearching     State = "Searching"
	StateStationsReady State = "StationsReady"
	StateDownloading   State = "Downloading"
	StateWaveformReady State = "WaveformReady"
	StateFailed        State = "Failed"
)

const (
	automaticMsPeriodS    = 20.0
	automaticMsDurationS  = 600.0
	validationProbeWorkers = 10
)

// Orchestrator coordinates the full pipeline. All caches and the
// failed-stations set live here exclusively, per spec.md §5's "Only the
// orchestrator may mutate".
type Orchestrator struct {
	Events   fdsn.Client
	Stations *station.Selector
	Acquirer *acquire.Acquirer

	// Logger receives one entry per search/download call, each tagged
	// with a fresh correlation ID. Nil disables logging.
	Logger *logging.Logger

	eventCache     *cache.Cache
	stationCache   *cache.Cache
	waveformCache  *cache.Cache
	searchGuard    *cache.Group
	downloadGuard  *cache.Group

	mu             sync.Mutex
	state          State
	currentEventID string
	currentStation *seis.Station
	waveform       *seis.Waveform
	msResult       *seis.MsExplanation
}

// New builds an Orchestrator with the spec's default 24h/50-entry caches
// for each of the three cache roles it owns (event, station, waveform).
func New(events fdsn.Client, stations *station.Selector, acquirer *acquire.Acquirer) *Orchestrator {
	return &Orchestrator{
		Events:        events,
		Stations:      stations,
		Acquirer:      acquirer,
		eventCache:    cache.New(cache.DefaultCapacity, cache.DefaultTTL),
		stationCache:  cache.New(cache.DefaultCapacity, cache.DefaultTTL),
		waveformCache: cache.New(cache.DefaultCapacity, cache.DefaultTTL),
		searchGuard:   cache.NewGroup(),
		downloadGuard: cache.NewGroup(),
		state:         StateIdle,
	}
}

// State returns the orchestrator's current pipeline state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// requestLogger returns a child logger tagged with a fresh correlation ID
// for one search or download call, or nil when no Logger is configured.
func (o *Orchestrator) requestLogger(op string) *logging.Logger {
	if o.Logger == nil {
		return nil
	}
	return o.Logger.WithFields(map[string]interface{}{
		"op":             op,
		"correlation_id": uuid.NewString(),
	})
}

// SelectEvent implements spec.md §4.7's "search-select-download" reset:
// choosing a new event clears the waveform, selected station, and every
// downstream result so stale overlays can never survive an event change.
func (o *Orchestrator) SelectEvent(ev seis.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.currentEventID == ev.ID {
		return
	}
	o.currentEventID = ev.ID
	o.currentStation = nil
	o.waveform = nil
	o.msResult = nil
	o.state = StateIdle
}

// SearchEarthquakes implements spec.md §6's search_earthquakes, caching by
// the query's effective parameters and coalescing duplicate concurrent
// searches via the re-entrancy guard, spec.md §5's ordering guarantee.
func (o *Orchestrator) SearchEarthquakes(ctx context.Context, q fdsn.EventQuery) ([]seis.Event, error) {
	log := o.requestLogger("search_earthquakes")
	key := eventQueryKey(q)
	if cached, ok := o.eventCache.Get(key); ok {
		if log != nil {
			log.Info("event cache hit")
		}
		return cached.([]seis.Event), nil
	}

	v, err, _ := o.searchGuard.Do(key, func() (any, error) {
		return o.Events.GetEvents(ctx, q)
	})
	if err != nil {
		if log != nil {
			log.Error("event search failed", err)
		}
		return nil, err
	}

	events := v.([]seis.Event)
	o.eventCache.Set(key, events)
	if log != nil {
		log.Info(fmt.Sprintf("event search returned %d results", len(events)))
	}
	return events, nil
}

func eventQueryKey(q fdsn.EventQuery) string {
	region := "none"
	if q.Region != nil {
		region = fmt.Sprintf("%.2f,%.2f,%.2f,%.2f", q.Region.MinLat, q.Region.MaxLat, q.Region.MinLon, q.Region.MaxLon)
	}
	return fmt.Sprintf("%s|%s|%.2f|%.2f|%s|%d",
		q.StartTime.Format(time.RFC3339), q.EndTime.Format(time.RFC3339), q.MinMagnitude, q.MaxMagnitude, region, q.Limit)
}

// SearchStations implements spec.md §6's search_stations, excluding any
// station already recorded in the acquirer's failed_stations set —
// spec.md §8 invariant 10, "fail-forward".
func (o *Orchestrator) SearchStations(ctx context.Context, ev seis.Event, minKm, maxKm float64, target int) ([]seis.Station, error) {
	log := o.requestLogger("search_stations")
	o.setState(StateSearching)
	candidates, err := o.Stations.Select(ctx, ev, minKm, maxKm, target)
	if err != nil {
		o.setState(StateFailed)
		if log != nil {
			log.Error("station search failed", err)
		}
		return nil, err
	}

	failed := toSet(o.Acquirer.FailedStations())
	filtered := candidates[:0:0]
	for _, st := range candidates {
		if !failed[st.ID()] {
			filtered = append(filtered, st)
		}
	}

	o.setState(StateStationsReady)
	if log != nil {
		log.Info(fmt.Sprintf("station search returned %d candidates (%d excluded as previously failed)", len(filtered), len(candidates)-len(filtered)))
	}
	return filtered, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// DownloadWaveform implements spec.md §6's download_waveform for one
// already-chosen station: cache by (event origin time, net, sta), and on
// a successful first load for this (event, station) pair, run
// MagnitudeEstimator automatically with the spec's default parameters.
// It does not apply the STA/LTA timing correction Acquire detects — that
// is a separate step a caller opts into via CorrectTiming.
func (o *Orchestrator) DownloadWaveform(ctx context.Context, ev seis.Event, st seis.Station) (*seis.Waveform, error) {
	log := o.requestLogger("download_waveform")
	if log != nil {
		log = log.WithField("station", st.ID())
	}

	key := waveformCacheKey(ev, st)
	if cached, ok := o.waveformCache.Get(key); ok {
		if log != nil {
			log.Info("waveform cache hit")
		}
		o.onStationSelected(ev, st, cached.(*seis.Waveform))
		return cached.(*seis.Waveform), nil
	}

	o.setState(StateDownloading)
	v, err, _ := o.downloadGuard.Do(key, func() (any, error) {
		return o.Acquirer.Acquire(ctx, ev, st)
	})
	if err != nil {
		o.setState(StateFailed)
		if log != nil {
			log.Error("waveform download failed", err)
		}
		return nil, err
	}

	wf, _ := v.(*seis.Waveform)
	if wf == nil {
		if log != nil {
			log.Warn("waveform download yielded no usable data")
		}
		return nil, nil
	}

	o.waveformCache.Set(key, wf)
	o.onStationSelected(ev, st, wf)
	o.setState(StateWaveformReady)
	if log != nil {
		log.Info("waveform downloaded")
	}
	return wf, nil
}

// CorrectTiming applies the STA/LTA-detected timing offset already
// recorded on wf.Timing by Acquire, when that detection qualifies for
// correction. DownloadWaveform never calls this itself: applying a
// detected offset to the time axis is an explicit, separate step the
// caller opts into, so that an unreliable STA/LTA detection on a noisy
// trace can never silently shift a waveform merely by being downloaded.
// Returns whether a correction was applied.
func (o *Orchestrator) CorrectTiming(wf *seis.Waveform) bool {
	applied := o.Acquirer.CorrectTiming(wf)
	if log := o.requestLogger("correct_timing"); log != nil && applied {
		log.Info("applied STA/LTA timing correction")
	}
	return applied
}

func waveformCacheKey(ev seis.Event, st seis.Station) string {
	return fmt.Sprintf("%s|%s", ev.OriginTime.Format(time.RFC3339), st.ID())
}

// onStationSelected implements the station-change reset: switching to a
// different (event, station) pair evicts the automatic Ms result and
// records the new key, so no stale overlay from a previous station
// survives the switch.
func (o *Orchestrator) onStationSelected(ev seis.Event, st seis.Station, wf *seis.Waveform) {
	o.mu.Lock()
	changed := o.currentStation == nil || o.currentStation.ID() != st.ID() || o.currentEventID != ev.ID
	o.currentEventID = ev.ID
	o.currentStation = &st
	o.waveform = wf
	if changed {
		o.msResult = nil
	}
	o.mu.Unlock()

	if changed {
		o.runAutomaticMs(ev, st, wf)
	}
}

func (o *Orchestrator) runAutomaticMs(ev seis.Event, st seis.Station, wf *seis.Waveform) {
	if wf == nil {
		return
	}
	windowStart := automaticMsPeriodS
	if st.RayleighArrivalS != nil {
		windowStart = *st.RayleighArrivalS
	}

	_, explanation := o.Ms(wf, st, ev, MsParams{
		PeriodS:       automaticMsPeriodS,
		WindowStartS:  windowStart,
		DurationS:     automaticMsDurationS,
		ApplyFilter:   true,
	})

	o.mu.Lock()
	o.msResult = &explanation
	o.mu.Unlock()
}

// SelectStationAndDownload implements the auto-fallback loop of spec.md
// §4.7: search stations, try each candidate in ranked order, and move to
// the next on a nil (no-data) download, surfacing a terminal error only
// when every candidate is exhausted.
func (o *Orchestrator) SelectStationAndDownload(ctx context.Context, ev seis.Event, minKm, maxKm float64, target int) (*seis.Station, *seis.Waveform, error) {
	o.SelectEvent(ev)

	candidates, err := o.SearchStations(ctx, ev, minKm, maxKm, target)
	if err != nil {
		return nil, nil, err
	}

	for i := range candidates {
		st := candidates[i]
		wf, err := o.DownloadWaveform(ctx, ev, st)
		if err != nil {
			o.setState(StateFailed)
			return nil, nil, err
		}
		if wf == nil {
			continue
		}
		return &st, wf, nil
	}

	o.setState(StateFailed)
	return nil, nil, fmt.Errorf("orchestrator: no candidate station yielded data for event %s", ev.ID)
}

// ValidateStations probes a set of candidates concurrently (bounded at
// validationProbeWorkers per spec.md §5's "≤10 workers") with a full
// Acquire of each candidate, returning the subset that yielded data,
// sorted by distance. A probe that finds no data records the station in
// the acquirer's failed-stations set, as any failed Acquire does. Used by
// callers that want to present only confirmed-available stations rather
// than relying on SelectStationAndDownload's serial fallback.
func (o *Orchestrator) ValidateStations(ctx context.Context, ev seis.Event, candidates []seis.Station) []seis.Station {
	return validateStations(ctx, o.Acquirer, ev, candidates, validationProbeWorkers)
}

// Process implements spec.md §6's process(): per-component filter,
// optional despike, optional SNR, returning a fresh ProcessedWaveform
// that never mutates wf.
func (o *Orchestrator) Process(wf *seis.Waveform, filter signal.Filter, removeSpikes, computeSNR bool) seis.ProcessedWaveform {
	return processWaveform(wf, filter, removeSpikes, computeSNR)
}

// MsParams mirrors spec.md §6's ms() options.
type MsParams struct {
	PeriodS      float64
	WindowStartS float64
	DurationS    float64
	ApplyFilter  bool
}

// Ms implements spec.md §6's ms(): extracts the requested window from the
// waveform's displacement (or raw-counts, degrading gracefully per §7)
// series and runs MagnitudeEstimator.
func (o *Orchestrator) Ms(wf *seis.Waveform, st seis.Station, ev seis.Event, params MsParams) (*float64, seis.MsExplanation) {
	north := windowOf(wf, seis.ComponentNorth, params.WindowStartS, params.DurationS)
	east := windowOf(wf, seis.ComponentEast, params.WindowStartS, params.DurationS)
	vertical := windowOf(wf, seis.ComponentVertical, params.WindowStartS, params.DurationS)

	fs := wf.SamplingRateHz
	var depthKm *float64
	d := ev.DepthKm
	depthKm = &d

	return magnitude.Compute(north, east, vertical, st.DistanceKm, fs, magnitude.Options{
		PeriodS:     params.PeriodS,
		DepthKm:     depthKm,
		ApplyFilter: params.ApplyFilter,
	})
}

// Classify implements spec.md §6's classify().
func (o *Orchestrator) Classify(wf *seis.Waveform, window *classify.TimeWindow) seis.WaveClassification {
	return classify.Classify(wf, window)
}

// ArrivalsFor exposes the arrival model for callers (e.g. the CLI) that
// need P/S/Love/Rayleigh without going through StationSelector.
func (o *Orchestrator) ArrivalsFor(ctx context.Context, model *arrival.Model, ev seis.Event, st seis.Station) seis.Arrivals {
	return model.Arrivals(ctx, ev, st)
}
