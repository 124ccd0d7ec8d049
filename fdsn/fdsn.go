// Package fdsn defines the boundary types shared by every external
// seismological data source: event catalog search, station inventory,
// and raw waveform retrieval. Concrete adapters (fdsn/iris for a live
// FDSN web service, fdsn/taup for a travel-time oracle) implement the
// narrower per-concern interfaces declared by the packages that consume
// them (station.InventorySource, acquire.WaveformSource, arrival.Oracle).
package fdsn

import (
	"context"
	"time"

	"github.com/geoseis/goseis/seis"
)

// BoundingBox restricts an event search geographically.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// EventQuery is the input to Client.GetEvents.
type EventQuery struct {
	StartTime    time.Time
	EndTime      time.Time
	MinMagnitude float64
	MaxMagnitude float64
	Region       *BoundingBox
	Limit        int
}

// Client is the top-level event-catalog search boundary, used by the
// search-earthquakes CLI command and PipelineOrchestrator.
type Client interface {
	GetEvents(ctx context.Context, q EventQuery) ([]seis.Event, error)
}
