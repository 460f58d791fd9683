package notify

import (
	"bytes"
	"encoding/json"
	"time"
)

// displayLayout is the locale form used in rendered mail bodies,
// e.g. "4/20/2025, 10:30:00 AM".
const displayLayout = "1/2/2006, 3:04:05 PM"

// isoLayouts are the accepted string timestamp forms, tried in order.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp accepts either an ISO-8601 string or a structured platform
// timestamp ({seconds, nanoseconds}). An absent or unparseable value is
// invalid and displays as "N/A".
type Timestamp struct {
	t     time.Time
	valid bool
}

// NewTimestamp wraps a concrete time.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{t: t, valid: true}
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				ts.t = t
				ts.valid = true
				return nil
			}
		}
		// Unparseable strings render as "N/A" rather than failing the request.
		return nil
	}

	var structured struct {
		Seconds     *int64 `json:"seconds"`
		Nanoseconds int64  `json:"nanoseconds"`
	}
	if err := json.Unmarshal(data, &structured); err != nil {
		return nil
	}
	if structured.Seconds == nil {
		return nil
	}
	ts.t = time.Unix(*structured.Seconds, structured.Nanoseconds)
	ts.valid = true
	return nil
}

func (ts *Timestamp) MarshalJSON() ([]byte, error) {
	if ts == nil || !ts.valid {
		return []byte("null"), nil
	}
	return json.Marshal(ts.t.Format(time.RFC3339Nano))
}

// Valid reports whether a usable instant was supplied.
func (ts *Timestamp) Valid() bool {
	return ts != nil && ts.valid
}

// Time returns the underlying instant; only meaningful when Valid.
func (ts *Timestamp) Time() time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.t
}

// Display formats the timestamp for mail bodies, or "N/A" when absent or
// unparseable.
func (ts *Timestamp) Display() string {
	if !ts.Valid() {
		return fallbackNA
	}
	return ts.t.Local().Format(displayLayout)
}

// displayOrNow renders the timestamp, substituting the current time when no
// value was supplied. Order events use this; contact and modification
// events always carry a received timestamp and render "N/A" instead.
func displayOrNow(ts *Timestamp) string {
	if ts.Valid() {
		return ts.Display()
	}
	return time.Now().Local().Format(displayLayout)
}
