// Package storage persists allocated schedules and hands back missed entries
// for crash-recovery rescheduling.
package storage

import (
	"errors"
	"time"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

var ErrNotFound = errors.New("not found")

// ScheduleRepository stores computed timelines and surfaces entries whose
// scheduled time passed without execution. Timestamps are persisted with the
// timezone-naive local encoding so the operator's wall clock survives
// restarts and zone changes.
type ScheduleRepository interface {
	SaveTimeline(campaign string, items []model.TimelineItem) error
	FetchMissed(campaign string, now time.Time) ([]model.MissedJob, error)
	MarkExecuted(id string) error
}
