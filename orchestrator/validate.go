package orchestrator

import (
	"context"
	"sort"
	"sync"

	"github.com/alitto/pond"

	"github.com/geoseis/goseis/acquire"
	"github.com/geoseis/goseis/seis"
)

// validateStations probes each candidate's data availability concurrently
// through a bounded pond pool, per spec.md §5's "long-running operations
// may be dispatched in a bounded worker pool (<=10 workers)". A probe
// that fails or yields no data is simply dropped, never surfaced as an
// error to the caller — the pool is for ranking/offering candidates, not
// for the authoritative download.
func validateStations(ctx context.Context, acquirer *acquire.Acquirer, ev seis.Event, candidates []seis.Station, workers int) []seis.Station {
	if acquirer == nil || len(candidates) == 0 {
		return nil
	}
	if workers <= 0 || workers > len(candidates) {
		workers = len(candidates)
	}

	pool := pond.New(workers, len(candidates), pond.Context(ctx))

	var mu sync.Mutex
	ok := make(map[string]bool, len(candidates))

	for i := range candidates {
		st := candidates[i]
		pool.Submit(func() {
			wf, err := acquirer.Acquire(ctx, ev, st)
			if err != nil || wf == nil {
				return
			}
			mu.Lock()
			ok[st.ID()] = true
			mu.Unlock()
		})
	}
	pool.StopAndWait()

	var validated []seis.Station
	for _, st := range candidates {
		if ok[st.ID()] {
			validated = append(validated, st)
		}
	}
	sort.SliceStable(validated, func(i, j int) bool { return validated[i].DistanceKm < validated[j].DistanceKm })
	return validated
}
