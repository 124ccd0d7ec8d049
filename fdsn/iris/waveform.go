package iris

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geoseis/goseis/acquire"
)

// GetWaveforms implements acquire.WaveformSource against the IRIS
// timeseries web service's two-column ASCII output (ISO-8601 timestamp,
// sample value), avoiding a miniSEED decoder this module has no library
// for. channel accepts FDSN wildcard patterns like "BH?"; each matching
// concrete channel is queried individually since the ASCII endpoint
// returns one channel's series per request.
func (c *Client) GetWaveforms(ctx context.Context, network, station, location, channel string, start, end time.Time, attachResponse bool) ([]acquire.Trace, error) {
	var traces []acquire.Trace
	for _, code := range expandChannelPattern(channel) {
		tr, err := c.getSingleChannel(ctx, network, station, location, code, start, end)
		if err != nil {
			continue
		}
		if tr != nil {
			traces = append(traces, *tr)
		}
	}
	return traces, nil
}

// expandChannelPattern turns spec.md §4.6's broadband/short-period
// patterns ("BH?", "HH?", "SH?") into the three concrete orientation
// codes the ASCII endpoint needs one request per channel for. A literal
// "*" is expanded to the same three orientations under every common band
// code this module's StationSelector ever ranks.
func expandChannelPattern(pattern string) []string {
	if pattern == "*" {
		var all []string
		for _, band := range []string{"BH", "HH", "SH", "LH"} {
			for _, orient := range []string{"Z", "N", "E"} {
				all = append(all, band+orient)
			}
		}
		return all
	}
	if len(pattern) == 3 && (pattern[2] == '?' || pattern[2] == '*') {
		band := pattern[:2]
		return []string{band + "Z", band + "N", band + "E"}
	}
	return []string{pattern}
}

func (c *Client) getSingleChannel(ctx context.Context, network, station, location, channel string, start, end time.Time) (*acquire.Trace, error) {
	u, err := url.Parse(c.TimeseriesURL)
	if err != nil {
		return nil, fmt.Errorf("iris: bad timeseries URL: %w", err)
	}

	loc := location
	if loc == "*" || loc == "" {
		loc = "--"
	}

	params := url.Values{}
	params.Set("net", network)
	params.Set("sta", station)
	params.Set("loc", loc)
	params.Set("cha", channel)
	params.Set("start", start.UTC().Format(time.RFC3339))
	params.Set("end", end.UTC().Format(time.RFC3339))
	params.Set("output", "ascii")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("iris: building timeseries request: %w", err)
	}

	body, err := c.get(req)
	if err != nil {
		return nil, err
	}
	return parseAsciiTimeseries(network, station, location, channel, string(body))
}

// parseAsciiTimeseries reads the two-column "timestamp value" body the
// irisws-timeseries ASCII output format produces, tolerating a leading
// header line.
func parseAsciiTimeseries(network, station, location, channel, body string) (*acquire.Trace, error) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var samples []float64
	var firstTime, prevTime time.Time
	var fs float64

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		if len(samples) == 0 {
			firstTime = ts
		} else if !prevTime.IsZero() {
			dt := ts.Sub(prevTime).Seconds()
			if dt > 0 {
				fs = 1.0 / dt
			}
		}
		prevTime = ts
		samples = append(samples, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("iris: scanning timeseries body: %w", err)
	}
	if len(samples) == 0 {
		return nil, nil
	}

	return &acquire.Trace{
		Network:        network,
		Station:        station,
		Location:       location,
		Channel:        channel,
		StartTime:      firstTime,
		SamplingRateHz: fs,
		Counts:         samples,
	}, nil
}
