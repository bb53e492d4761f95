package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	for _, s := range []string{
		"2024-06-01T12:30:00Z",
		"2024-06-01T14:30:00+02:00",
		"2024-06-01T12:30:00",
		"2024-06-01T12:30:00.000",
	} {
		got, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s parsed as %s", s, got)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestTimestampJSON(t *testing.T) {
	var body struct {
		Start Timestamp `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-06-01T12:30:00"}`), &body))
	assert.Equal(t, 12, body.Start.Hour())

	assert.Error(t, json.Unmarshal([]byte(`{"start":17}`), &body))

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-06-01T12:30:00Z"}`, string(out))
}
