// Package station implements StationSelector: picking, ranking, and
// caching the candidate recording stations for an event per spec.md §4.5.
package station

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alitto/pond"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/samber/lo"

	"github.com/geoseis/goseis/arrival"
	"github.com/geoseis/goseis/cache"
	"github.com/geoseis/goseis/geomath"
	"github.com/geoseis/goseis/seis"
)

// InventoryQuery is what Selector asks the external inventory service for.
type InventoryQuery struct {
	Networks     []string
	OriginTime   time.Time
	Window       time.Duration
	StationLevel bool
}

// InventorySource is the external station-metadata boundary. A concrete
// adapter (fdsn/iris) implements it against a real FDSN web service.
type InventorySource interface {
	Query(ctx context.Context, q InventoryQuery) (seis.InventorySnapshot, error)
}

// Selector implements StationSelector: inventory query, distance/priority
// ranking, arrival attachment, binning for large candidate sets, result
// caching, and fail-forward to the static fallback list.
type Selector struct {
	Inventory InventorySource
	Arrivals  *arrival.Model
	Workers   int

	cache *cache.Cache
	guard *cache.Group
}

// NewSelector builds a Selector. workers <= 0 defaults to 4 concurrent
// arrival computations.
func NewSelector(inventory InventorySource, arrivals *arrival.Model, workers int) *Selector {
	if workers <= 0 {
		workers = 4
	}
	return &Selector{
		Inventory: inventory,
		Arrivals:  arrivals,
		Workers:   workers,
		cache:     cache.New(cache.DefaultCapacity, cache.DefaultTTL),
		guard:     cache.NewGroup(),
	}
}

// Select returns up to targetCount stations within [minKm, maxKm] of the
// event, ranked per spec.md §4.5, with arrivals attached. Results are
// cached by (event_id, min_km, max_km, target_count); concurrent calls
// for the same key share one underlying search via the re-entrancy guard.
func (s *Selector) Select(ctx context.Context, ev seis.Event, minKm, maxKm float64, targetCount int) ([]seis.Station, error) {
	key := fmt.Sprintf("%s|%.1f|%.1f|%d", ev.ID, minKm, maxKm, targetCount)

	if cached, ok := s.cache.Get(key); ok {
		return cached.([]seis.Station), nil
	}

	v, err, _ := s.guard.Do(key, func() (any, error) {
		return s.selectUncached(ctx, ev, minKm, maxKm, targetCount)
	})
	if err != nil {
		return nil, err
	}

	stations := v.([]seis.Station)
	s.cache.Set(key, stations)
	return stations, nil
}

func (s *Selector) selectUncached(ctx context.Context, ev seis.Event, minKm, maxKm float64, targetCount int) ([]seis.Station, error) {
	snapshot, err := s.queryInventory(ctx, ev)
	usingFallback := err != nil
	if usingFallback {
		snapshot = fallbackSnapshot()
	}

	candidates := s.buildCandidates(ev, snapshot, minKm, maxKm)
	s.attachArrivals(ctx, ev, candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return sortKeyOf(candidates[i]).Less(sortKeyOf(candidates[j]))
	})

	if len(candidates) > 100 {
		candidates = equalWidthBin(candidates, targetCount)
	}

	if len(candidates) > targetCount {
		candidates = candidates[:targetCount]
	}
	return candidates, nil
}

func (s *Selector) queryInventory(ctx context.Context, ev seis.Event) (seis.InventorySnapshot, error) {
	if s.Inventory == nil {
		return seis.InventorySnapshot{}, fmt.Errorf("no inventory source configured")
	}
	return s.Inventory.Query(ctx, InventoryQuery{
		Networks:     PreferredNetworks,
		OriginTime:   ev.OriginTime,
		Window:       24 * time.Hour,
		StationLevel: true,
	})
}

// buildCandidates flattens an inventory snapshot into ranked Station
// values, discarding anything outside [minKm, maxKm]. A cheap s2
// spherical-cap prefilter (5% slack) skips the full haversine/bearing
// computation for stations that are obviously out of range.
func (s *Selector) buildCandidates(ev seis.Event, snapshot seis.InventorySnapshot, minKm, maxKm float64) []seis.Station {
	evPoint := s2.LatLngFromDegrees(ev.Lat, ev.Lon)
	maxAngle := s1.Angle(maxKm * 1.05 / geomath.EarthRadiusKm)

	var candidates []seis.Station
	for _, net := range snapshot.Networks {
		netPriority := NetworkPriority(net.Code)
		for _, sta := range net.Stations {
			staPoint := s2.LatLngFromDegrees(sta.Lat, sta.Lon)
			if evPoint.Distance(staPoint) > maxAngle {
				continue
			}

			gc := geomath.Haversine(ev.Lat, ev.Lon, sta.Lat, sta.Lon)
			if gc.DistanceKm < minKm || gc.DistanceKm > maxKm {
				continue
			}

			candidates = append(candidates, seis.Station{
				NetworkCode:       net.Code,
				StationCode:       sta.Code,
				Lat:               sta.Lat,
				Lon:               sta.Lon,
				ElevationM:        sta.ElevationM,
				DistanceKm:        gc.DistanceKm,
				DistanceDeg:       geomath.DegreesDisplay(gc.DistanceKm),
				AzimuthDeg:        gc.AzimuthDeg,
				ChannelsAvailable: sta.Channels,
				SampleRateHz:      sta.SampleRateHz,
				NetworkPriority:   netPriority,
				ChannelPriority:   ChannelPriority(sta.Channels),
				OperationalStart:  sta.Start,
				OperationalEnd:    sta.End,
			})
		}
	}
	return candidates
}

// attachArrivals computes P/S/Love/Rayleigh for every candidate
// concurrently via a bounded worker pool.
func (s *Selector) attachArrivals(ctx context.Context, ev seis.Event, candidates []seis.Station) {
	if s.Arrivals == nil || len(candidates) == 0 {
		return
	}

	pool := pond.New(s.Workers, len(candidates), pond.Context(ctx))
	defer pool.StopAndWait()

	for i := range candidates {
		idx := i
		pool.Submit(func() {
			out := s.Arrivals.Arrivals(ctx, ev, candidates[idx])
			candidates[idx].PArrivalS = out.PS
			candidates[idx].SArrivalS = out.SS
			candidates[idx].LoveArrivalS = out.LoveS
			candidates[idx].RayleighArrivalS = out.RayleighS
		})
	}
}

// equalWidthBin implements spec.md §4.5 step 6: split [d_min, d_max]
// into targetCount equal-width bins and keep the candidate closest to
// each bin's centre, preserving geographic spread on large candidate
// sets. Empty bins are backfilled from the nearest remaining candidates,
// already priority-sorted by the caller.
func equalWidthBin(sorted []seis.Station, targetCount int) []seis.Station {
	if targetCount <= 0 || len(sorted) == 0 {
		return sorted
	}

	dMin, dMax := sorted[0].DistanceKm, sorted[0].DistanceKm
	for _, c := range sorted {
		dMin = minF(dMin, c.DistanceKm)
		dMax = maxF(dMax, c.DistanceKm)
	}
	width := (dMax - dMin) / float64(targetCount)
	if width <= 0 {
		width = 1
	}

	used := make([]bool, len(sorted))
	var selected []seis.Station

	for bin := 0; bin < targetCount; bin++ {
		lo0 := dMin + float64(bin)*width
		hi0 := lo0 + width
		center := (lo0 + hi0) / 2

		bestIdx := -1
		bestDelta := 0.0
		for i, c := range sorted {
			if used[i] || c.DistanceKm < lo0 || c.DistanceKm > hi0 {
				continue
			}
			delta := absF(c.DistanceKm - center)
			if bestIdx == -1 || delta < bestDelta {
				bestIdx = i
				bestDelta = delta
			}
		}
		if bestIdx != -1 {
			used[bestIdx] = true
			selected = append(selected, sorted[bestIdx])
		}
	}

	if len(selected) < targetCount {
		remaining := lo.Filter(sorted, func(c seis.Station, i int) bool { return !used[i] })
		for _, c := range remaining {
			if len(selected) >= targetCount {
				break
			}
			selected = append(selected, c)
		}
	}

	return selected
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
