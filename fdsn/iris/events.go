package iris

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geoseis/goseis/fdsn"
	"github.com/geoseis/goseis/seis"
)

// GetEvents implements fdsn.Client against the FDSN event web service's
// pipe-delimited text format:
//
//	#EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|
//	ContributorID|MagType|Magnitude|MagAuthor|EventLocationName
func (c *Client) GetEvents(ctx context.Context, q fdsn.EventQuery) ([]seis.Event, error) {
	u, err := url.Parse(c.EventURL)
	if err != nil {
		return nil, fmt.Errorf("iris: bad event URL: %w", err)
	}

	params := url.Values{}
	params.Set("format", "text")
	if !q.StartTime.IsZero() {
		params.Set("starttime", q.StartTime.UTC().Format(time.RFC3339))
	}
	if !q.EndTime.IsZero() {
		params.Set("endtime", q.EndTime.UTC().Format(time.RFC3339))
	}
	if q.MinMagnitude > 0 {
		params.Set("minmagnitude", strconv.FormatFloat(q.MinMagnitude, 'f', -1, 64))
	}
	if q.MaxMagnitude > 0 {
		params.Set("maxmagnitude", strconv.FormatFloat(q.MaxMagnitude, 'f', -1, 64))
	}
	if q.Region != nil {
		params.Set("minlatitude", strconv.FormatFloat(q.Region.MinLat, 'f', -1, 64))
		params.Set("maxlatitude", strconv.FormatFloat(q.Region.MaxLat, 'f', -1, 64))
		params.Set("minlongitude", strconv.FormatFloat(q.Region.MinLon, 'f', -1, 64))
		params.Set("maxlongitude", strconv.FormatFloat(q.Region.MaxLon, 'f', -1, 64))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	params.Set("orderby", "time")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("iris: building event request: %w", err)
	}

	body, err := c.get(req)
	if err != nil {
		return nil, err
	}
	return parseEventText(string(body))
}

func parseEventText(body string) ([]seis.Event, error) {
	var events []seis.Event
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 13 {
			continue
		}

		originTime, err := time.Parse(time.RFC3339Nano, fields[1])
		if err != nil {
			continue
		}
		lat, _ := strconv.ParseFloat(fields[2], 64)
		lon, _ := strconv.ParseFloat(fields[3], 64)
		depth, _ := strconv.ParseFloat(fields[4], 64)
		mag, _ := strconv.ParseFloat(fields[10], 64)

		events = append(events, seis.Event{
			ID:            fields[0],
			OriginTime:    originTime,
			Lat:           lat,
			Lon:           lon,
			DepthKm:       depth,
			Magnitude:     mag,
			MagnitudeType: fields[9],
			RegionText:    fields[12],
		})
	}
	return events, nil
}
