package core

import (
	"bytes"
	"encoding/json"
	"time"
)

// TimestampLayout is the wire format of a Timestamp. It carries no zone.
const TimestampLayout = "2006-01-02T15:04:05"

// Timestamp is a wall-clock date and time without a time zone. The wrapped
// time.Time is always in UTC and must be read as naive.
type Timestamp struct {
	time.Time
}

// Naive drops the zone of t and keeps its wall-clock components.
func Naive(t time.Time) Timestamp {
	return Timestamp{time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

func (t Timestamp) String() string {
	if t.Nanosecond() != 0 {
		return t.Format(TimestampLayout + ".000000")
	}
	return t.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		// fractional seconds are optional on the wire
		parsed, err = time.Parse(TimestampLayout+".999999999", s)
		if err != nil {
			return err
		}
	}
	*t = Naive(parsed)
	return nil
}
