package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf})

	l.Debug("should not appear")
	l.Info("hello")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "hello", entry["message"])
}

func TestWithFieldAttachesToSubsequentEntries(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf, Level: LevelDebug})
	child := l.WithField("request_id", "abc-123")

	child.Info("working")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc-123", entry["request_id"])
}

func TestErrorIncludesErrField(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf})

	l.Error("failed", errors.New("boom"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
}
