package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRemoveSpikesLeavesCleanDataUntouched(t *testing.T) {
	data := []float64{1, 1.1, 0.9, 1.05, 0.95, 1, 1.02}
	out, count := RemoveSpikes(data, 5.0, 5)
	assert.Equal(t, 0, count)
	assert.Equal(t, data, out)
}

func TestRemoveSpikesReplacesOutliers(t *testing.T) {
	data := []float64{1, 1, 1, 1, 100, 1, 1, 1, 1}
	out, count := RemoveSpikes(data, 3.0, 5)
	require.Equal(t, 1, count)
	assert.NotEqual(t, 100.0, out[4])
	for i, v := range data {
		if i != 4 {
			assert.Equal(t, v, out[i])
		}
	}
}

func TestRemoveSpikesIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(10, 100).Draw(t, "n")
		data := make([]float64, n)
		for i := range data {
			data[i] = rapid.Float64Range(-5, 5).Draw(t, "v")
		}
		if rapid.Bool().Draw(t, "spike") {
			idx := rapid.IntRange(0, n-1).Draw(t, "idx")
			data[idx] = rapid.Float64Range(500, 1000).Draw(t, "spike_val")
		}

		once, _ := RemoveSpikes(data, 5.0, 5)
		twice, secondPassCount := RemoveSpikes(once, 5.0, 5)
		require.Equal(t, 0, secondPassCount)
		require.Equal(t, once, twice)
	})
}
