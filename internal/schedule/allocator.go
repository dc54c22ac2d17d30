package schedule

import (
	"math"
	"math/rand"
	"time"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

// Allocate walks items in order and assigns each a concrete timestamp:
// the first item gets the anchor (clamped into the active-hours window), and
// every later item follows its predecessor by the configured interval,
// jittered when enabled, clamped into the window before assignment. The input
// slice is not mutated; a new slice is returned.
//
// The first gap drawn after the anchor is jittered like every other so the
// only timestamp the user controls exactly is the anchor itself. For a fixed
// input list and a fixed random stream the result is deterministic.
//
// Weekday filtering (ActiveDays) is accepted in configuration but not
// applied here; only the hour-of-day window is enforced.
//
// The only error is a malformed configuration.
func Allocate(items []model.TimelineItem, start time.Time, cfg model.ScheduleConfig, rng *rand.Rand) ([]model.TimelineItem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	out := make([]model.TimelineItem, len(items))
	copy(out, items)

	cursor := start
	for i := range out {
		if i > 0 {
			cursor = cursor.Add(gap(cfg, rng))
		}
		cursor = ClampIntoWindow(cursor, cfg.ActiveHours)
		out[i].Time = cursor
	}
	return out, nil
}

// gap returns the spacing to the next item. With jitter enabled the interval
// is scaled by a factor drawn uniformly from [0.5, 1.5), rounded to whole
// minutes; otherwise it is the interval exactly.
func gap(cfg model.ScheduleConfig, rng *rand.Rand) time.Duration {
	if !cfg.JitterEnabled {
		return cfg.Interval()
	}
	factor := 0.5 + rng.Float64()
	minutes := math.Round(float64(cfg.IntervalMinutes) * factor)
	return time.Duration(minutes) * time.Minute
}
