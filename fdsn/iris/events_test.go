package iris

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEventText = `#EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|ContributorID|MagType|Magnitude|MagAuthor|EventLocationName
us1000abcd|2024-01-05T12:30:00.000Z|-6.12|129.87|120.5|us|us|us|1000abcd|mww|6.8|us|Banda Sea
us1000abce|2024-01-06T03:15:00.120Z|35.40|140.10|35.0|us|us|us|1000abce|mb|5.2|us|Japan region
`

func TestParseEventTextExtractsFields(t *testing.T) {
	events, err := parseEventText(sampleEventText)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "us1000abcd", events[0].ID)
	assert.InDelta(t, -6.12, events[0].Lat, 1e-9)
	assert.InDelta(t, 129.87, events[0].Lon, 1e-9)
	assert.InDelta(t, 120.5, events[0].DepthKm, 1e-9)
	assert.InDelta(t, 6.8, events[0].Magnitude, 1e-9)
	assert.Equal(t, "mww", events[0].MagnitudeType)
	assert.Equal(t, "Banda Sea", events[0].RegionText)
	assert.Equal(t, 2024, events[0].OriginTime.Year())
}

func TestParseEventTextSkipsMalformedLines(t *testing.T) {
	events, err := parseEventText("#header\nnot|enough|fields\n\n")
	require.NoError(t, err)
	assert.Empty(t, events)
}
