package iris

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geoseis/goseis/acquire"
)

// GetResponse implements acquire.ResponseSource using the same
// channel-level text output Query reads, pulling the "Scale" (stage-zero
// sensitivity), "ScaleFreq", and "ScaleUnits" fields for a single channel
// rather than the full PAZ response this module has no parser for.
func (c *Client) GetResponse(ctx context.Context, network, station, location, channel string, at time.Time) (*acquire.ResponseInfo, error) {
	u, err := url.Parse(c.StationURL)
	if err != nil {
		return nil, fmt.Errorf("iris: bad station URL: %w", err)
	}

	params := url.Values{}
	params.Set("format", "text")
	params.Set("level", "response")
	params.Set("network", network)
	params.Set("station", station)
	params.Set("channel", channel)
	if !at.IsZero() {
		params.Set("time", at.UTC().Format(time.RFC3339))
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("iris: building response request: %w", err)
	}

	body, err := c.get(req)
	if err != nil {
		return nil, err
	}
	return parseResponseText(string(body))
}

func parseResponseText(body string) (*acquire.ResponseInfo, error) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f := strings.Split(line, "|")
		if len(f) < 14 {
			continue
		}
		scale, err := strconv.ParseFloat(f[11], 64)
		if err != nil || scale == 0 {
			continue
		}
		scaleFreq, _ := strconv.ParseFloat(f[12], 64)
		return &acquire.ResponseInfo{
			SensitivityCountsPerMeter: scale,
			ScaleFreqHz:               scaleFreq,
			InputUnits:                f[13],
		}, nil
	}
	return nil, fmt.Errorf("iris: no response/scale information found")
}
