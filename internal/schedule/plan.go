package schedule

import (
	"math/rand"
	"time"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

// Plan is the working timeline as an explicit value: the ordered items, the
// anchor the first item was derived from, and the cadence configuration.
// Every operation returns a new Plan; the caller holds the single source of
// truth.
type Plan struct {
	Items  []model.TimelineItem
	Anchor time.Time
	Config model.ScheduleConfig
}

// NewPlan builds and allocates the initial timeline for a campaign.
func NewPlan(videos []model.Video, sources []model.Source, cfg model.ScheduleConfig, anchor time.Time, rng *rand.Rand) (Plan, error) {
	items, err := Allocate(Build(videos, sources), anchor, cfg, rng)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Items: items, Anchor: anchor, Config: cfg}, nil
}

// Reorder moves the item at from to position to and reallocates the whole
// list from the plan's anchor, discarding any previously drawn jitter. The
// item id set is unchanged; only order and times change. Out-of-bounds
// indices are a no-op because interactive gestures can race with list
// mutation.
func (p Plan) Reorder(from, to int, rng *rand.Rand) Plan {
	if from < 0 || from >= len(p.Items) || to < 0 || to >= len(p.Items) {
		return p
	}
	items, err := Allocate(Reorder(p.Items, from, to), p.Anchor, p.Config, rng)
	if err != nil {
		return p
	}
	return Plan{Items: items, Anchor: p.Anchor, Config: p.Config}
}

// Reorder removes the item at from and reinserts it at to, splice-style,
// without touching timestamps. Callers reallocate afterwards. Out-of-bounds
// indices return the input unchanged.
func Reorder(items []model.TimelineItem, from, to int) []model.TimelineItem {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return items
	}
	out := make([]model.TimelineItem, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	moved := items[from]
	out = append(out[:to], append([]model.TimelineItem{moved}, out[to:]...)...)
	return out
}

// SetTime applies a direct timestamp edit to one item. Editing the first item
// redefines the anchor and cascades a full reallocation; editing any later
// item is a local correction that leaves every other time untouched, so the
// list may be temporarily non-monotonic until the next reorder or anchor
// change re-normalizes it. An out-of-range index is a no-op.
func (p Plan) SetTime(index int, newTime time.Time, rng *rand.Rand) Plan {
	if index < 0 || index >= len(p.Items) {
		return p
	}
	if index == 0 {
		items, err := Allocate(p.Items, newTime, p.Config, rng)
		if err != nil {
			return p
		}
		return Plan{Items: items, Anchor: newTime, Config: p.Config}
	}
	items := make([]model.TimelineItem, len(p.Items))
	copy(items, p.Items)
	items[index].Time = newTime
	return Plan{Items: items, Anchor: p.Anchor, Config: p.Config}
}

// IDs returns the item ids in list order.
func (p Plan) IDs() []string {
	ids := make([]string, len(p.Items))
	for i, it := range p.Items {
		ids[i] = it.ID
	}
	return ids
}
