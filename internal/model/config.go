package model

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// ActiveHours is the daily time-of-day range, as minute-of-day offsets,
// during which actions are permitted to run. Actions fall in [Start, End).
type ActiveHours struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// ScheduleConfig is the cadence contract for a campaign.
type ScheduleConfig struct {
	IntervalMinutes int         `yaml:"interval_minutes"`
	StartAt         string      `yaml:"start_at"` // local wall-clock, see LocalTimeLayout
	ActiveDays      []string    `yaml:"active_days,omitempty"`
	ActiveHours     ActiveHours `yaml:"active_hours"`
	JitterEnabled   bool        `yaml:"jitter"`
}

// Validate reports a malformed configuration. This is the only condition in
// the scheduling engine that surfaces as an explicit failure; malformed data
// degrades to defaults instead.
func (c ScheduleConfig) Validate() error {
	if c.IntervalMinutes < 1 {
		return fmt.Errorf("interval_minutes must be >= 1, got %d", c.IntervalMinutes)
	}
	if c.ActiveHours.Start < 0 || c.ActiveHours.End > minutesPerDay {
		return fmt.Errorf("active_hours must lie within [0, %d], got [%d, %d]",
			minutesPerDay, c.ActiveHours.Start, c.ActiveHours.End)
	}
	if c.ActiveHours.Start >= c.ActiveHours.End {
		return fmt.Errorf("active_hours start %d must be before end %d",
			c.ActiveHours.Start, c.ActiveHours.End)
	}
	return nil
}

// Anchor parses StartAt, falling back to now when it is absent or
// unparsable.
func (c ScheduleConfig) Anchor(now time.Time) time.Time {
	return ParseLocalOr(c.StartAt, now)
}

// Interval returns the configured gap as a duration.
func (c ScheduleConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}
