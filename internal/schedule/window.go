// Package schedule converts a campaign's pending actions plus a cadence
// configuration into a concrete, orderable sequence of execution timestamps.
// All operations are pure: they take and return values, never mutate their
// inputs, and perform no I/O.
package schedule

import (
	"time"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

// ClampIntoWindow moves t into the daily active-hours window. A timestamp
// before the window opens is moved to the window start on the same calendar
// day; one at or past the window end is moved to the window start on the next
// calendar day; anything inside the window is returned unchanged.
func ClampIntoWindow(t time.Time, w model.ActiveHours) time.Time {
	minuteOfDay := t.Hour()*60 + t.Minute()
	switch {
	case minuteOfDay < w.Start:
		return atMinuteOfDay(t, w.Start)
	case minuteOfDay >= w.End:
		return atMinuteOfDay(t.AddDate(0, 0, 1), w.Start)
	default:
		return t
	}
}

func atMinuteOfDay(t time.Time, minute int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), minute/60, minute%60, 0, 0, t.Location())
}
