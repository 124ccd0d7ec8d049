package iris

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geoseis/goseis/seis"
	"github.com/geoseis/goseis/station"
)

// Query implements station.InventorySource against the FDSN station web
// service's channel-level pipe-delimited text format:
//
//	#Network|Station|Location|Channel|Latitude|Longitude|Elevation|Depth|
//	Azimuth|Dip|SensorDescription|Scale|ScaleFreq|ScaleUnits|SampleRate|
//	StartTime|EndTime
func (c *Client) Query(ctx context.Context, q station.InventoryQuery) (seis.InventorySnapshot, error) {
	u, err := url.Parse(c.StationURL)
	if err != nil {
		return seis.InventorySnapshot{}, fmt.Errorf("iris: bad station URL: %w", err)
	}

	params := url.Values{}
	params.Set("format", "text")
	params.Set("level", "channel")
	if len(q.Networks) > 0 {
		params.Set("network", strings.Join(q.Networks, ","))
	}
	if !q.OriginTime.IsZero() {
		window := q.Window
		if window <= 0 {
			window = 24 * time.Hour
		}
		params.Set("starttime", q.OriginTime.Add(-window).UTC().Format(time.RFC3339))
		params.Set("endtime", q.OriginTime.Add(window).UTC().Format(time.RFC3339))
	}

	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return seis.InventorySnapshot{}, fmt.Errorf("iris: building station request: %w", err)
	}

	body, err := c.get(req)
	if err != nil {
		return seis.InventorySnapshot{}, err
	}
	return parseStationText(string(body)), nil
}

// parseStationText groups channel-level rows into the network/station tree
// a Selector expects, taking the union of channel codes and the widest
// operational window seen across a station's channels.
func parseStationText(body string) seis.InventorySnapshot {
	type key struct{ network, station string }
	order := []key{}
	stations := map[key]*seis.InventoryStation{}
	networkOf := map[key]string{}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f := strings.Split(line, "|")
		if len(f) < 17 {
			continue
		}

		k := key{f[0], f[1]}
		lat, _ := strconv.ParseFloat(f[4], 64)
		lon, _ := strconv.ParseFloat(f[5], 64)
		elevation, _ := strconv.ParseFloat(f[6], 64)
		sampleRate, _ := strconv.ParseFloat(f[14], 64)
		start, _ := time.Parse(time.RFC3339Nano, f[15])
		end, _ := time.Parse(time.RFC3339Nano, f[16])

		st, ok := stations[k]
		if !ok {
			st = &seis.InventoryStation{Code: f[1], Lat: lat, Lon: lon, ElevationM: elevation}
			stations[k] = st
			networkOf[k] = f[0]
			order = append(order, k)
		}

		channel := f[3]
		known := false
		for _, existing := range st.Channels {
			if existing == channel {
				known = true
				break
			}
		}
		if !known {
			st.Channels = append(st.Channels, channel)
		}
		if sampleRate > st.SampleRateHz {
			st.SampleRateHz = sampleRate
		}
		if st.Start.IsZero() || start.Before(st.Start) {
			st.Start = start
		}
		if end.After(st.End) {
			st.End = end
		}
	}

	byNetwork := map[string][]seis.InventoryStation{}
	var networkOrder []string
	for _, k := range order {
		net := networkOf[k]
		if _, seen := byNetwork[net]; !seen {
			networkOrder = append(networkOrder, net)
		}
		byNetwork[net] = append(byNetwork[net], *stations[k])
	}

	snapshot := seis.InventorySnapshot{QueriedAt: time.Now()}
	for _, net := range networkOrder {
		snapshot.Networks = append(snapshot.Networks, seis.InventoryNetwork{Code: net, Stations: byNetwork[net]})
	}
	return snapshot
}
