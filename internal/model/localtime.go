package model

import "time"

// LocalTimeLayout is the persisted timestamp encoding: timezone-naive local
// wall-clock, no UTC offset or conversion. The surrounding system schedules
// relative to the operator's clock, so round-tripping must reproduce the
// local wall-clock fields exactly.
const LocalTimeLayout = "2006-01-02 15:04:05"

// FormatLocal encodes t for storage or hand-off.
func FormatLocal(t time.Time) string {
	return t.Format(LocalTimeLayout)
}

// ParseLocal decodes a persisted timestamp in the local time zone.
func ParseLocal(s string) (time.Time, error) {
	return time.ParseInLocation(LocalTimeLayout, s, time.Local)
}

// ParseLocalOr decodes a persisted timestamp, substituting fallback when the
// string is empty or unparsable. Invalid timestamps never surface as errors
// to schedule computation.
func ParseLocalOr(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := ParseLocal(s)
	if err != nil {
		return fallback
	}
	return t
}
