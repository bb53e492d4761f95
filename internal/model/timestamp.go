package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// localLayout is an ISO-8601 date-time without zone, read as UTC.
const localLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a JSON time that accepts RFC 3339 as well as date-times
// without a zone offset.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s as RFC 3339, falling back to a zone-less date-time in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(localLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q", s)
	}
	return t, nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date-time must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
