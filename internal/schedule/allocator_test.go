package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

// 09:00 - 21:00
var testWindow = model.ActiveHours{Start: 540, End: 1260}

func testItems(n int) []model.TimelineItem {
	items := make([]model.TimelineItem, n)
	for i := range items {
		items[i] = model.TimelineItem{
			ID:    model.ItemID(model.ItemPost, string(rune('a'+i))),
			Kind:  model.ItemPost,
			Video: &model.Video{ID: string(rune('a' + i))},
		}
	}
	return items
}

func TestAllocateLinearSpacing(t *testing.T) {
	cfg := model.ScheduleConfig{IntervalMinutes: 15, ActiveHours: testWindow}
	anchor := time.Date(2026, 6, 1, 10, 0, 0, 0, time.Local)

	got, err := Allocate(testItems(5), anchor, cfg, nil)
	require.NoError(t, err)
	require.Len(t, got, 5)

	for i, item := range got {
		want := anchor.Add(time.Duration(i) * 15 * time.Minute)
		assert.True(t, item.Time.Equal(want), "item %d = %v, want %v", i, item.Time, want)
	}
}

func TestAllocateDoesNotMutateInput(t *testing.T) {
	cfg := model.ScheduleConfig{IntervalMinutes: 10, ActiveHours: testWindow}
	anchor := time.Date(2026, 6, 1, 10, 0, 0, 0, time.Local)

	in := testItems(3)
	_, err := Allocate(in, anchor, cfg, nil)
	require.NoError(t, err)
	for _, item := range in {
		assert.True(t, item.Time.IsZero(), "input item time was mutated")
	}
}

func TestAllocateWindowClamping(t *testing.T) {
	cfg := model.ScheduleConfig{IntervalMinutes: 30, ActiveHours: testWindow}
	// 20:30 → second item naively lands at 21:00, exactly the window end.
	anchor := time.Date(2026, 6, 1, 20, 30, 0, 0, time.Local)

	got, err := Allocate(testItems(3), anchor, cfg, nil)
	require.NoError(t, err)

	assert.True(t, got[0].Time.Equal(anchor))
	nextDayStart := time.Date(2026, 6, 2, 9, 0, 0, 0, time.Local)
	assert.True(t, got[1].Time.Equal(nextDayStart), "got %v", got[1].Time)
	assert.True(t, got[2].Time.Equal(nextDayStart.Add(30*time.Minute)), "got %v", got[2].Time)

	// Nothing lands outside the window on any day.
	for i, item := range got {
		minute := item.Time.Hour()*60 + item.Time.Minute()
		assert.GreaterOrEqual(t, minute, testWindow.Start, "item %d", i)
		assert.Less(t, minute, testWindow.End, "item %d", i)
	}
}

func TestAllocateEndToEndScenario(t *testing.T) {
	// 2 videos + 1 source, 10 minute interval, no jitter, window 09:00-21:00,
	// anchored at 20:55: the second item overflows the window and lands at
	// 09:00 next day, the scan follows at 09:10.
	videos := []model.Video{{ID: "v1", Title: "one"}, {ID: "v2", Title: "two"}}
	sources := []model.Source{{ID: "s1", Name: "feed"}}
	cfg := model.ScheduleConfig{IntervalMinutes: 10, ActiveHours: testWindow}
	anchor := time.Date(2026, 6, 1, 20, 55, 0, 0, time.Local)

	got, err := Allocate(Build(videos, sources), anchor, cfg, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.True(t, got[0].Time.Equal(anchor), "got %v", got[0].Time)
	assert.True(t, got[1].Time.Equal(time.Date(2026, 6, 2, 9, 0, 0, 0, time.Local)), "got %v", got[1].Time)
	assert.Equal(t, model.ItemScan, got[2].Kind)
	assert.True(t, got[2].Time.Equal(time.Date(2026, 6, 2, 9, 10, 0, 0, time.Local)), "got %v", got[2].Time)
}

func TestAllocateJitterBounds(t *testing.T) {
	cfg := model.ScheduleConfig{IntervalMinutes: 10, ActiveHours: testWindow, JitterEnabled: true}
	anchor := time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local)
	rng := rand.New(rand.NewSource(1))

	got, err := Allocate(testItems(40), anchor, cfg, rng)
	require.NoError(t, err)

	// The anchor itself is never jittered.
	assert.True(t, got[0].Time.Equal(anchor))

	for i := 1; i < len(got); i++ {
		gap := got[i].Time.Sub(got[i-1].Time)
		// Window clamping may widen a gap across the overnight boundary.
		if got[i].Time.Day() != got[i-1].Time.Day() {
			continue
		}
		assert.GreaterOrEqual(t, gap, 5*time.Minute, "gap %d", i)
		assert.LessOrEqual(t, gap, 15*time.Minute, "gap %d", i)
	}
}

func TestAllocateJitterVaries(t *testing.T) {
	cfg := model.ScheduleConfig{IntervalMinutes: 10, ActiveHours: testWindow, JitterEnabled: true}
	anchor := time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local)

	got, err := Allocate(testItems(30), anchor, cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	gaps := map[time.Duration]bool{}
	for i := 1; i < len(got); i++ {
		gaps[got[i].Time.Sub(got[i-1].Time)] = true
	}
	assert.Greater(t, len(gaps), 1, "jittered gaps should not all be identical")
}

func TestAllocateDeterministicForFixedSeed(t *testing.T) {
	cfg := model.ScheduleConfig{IntervalMinutes: 10, ActiveHours: testWindow, JitterEnabled: true}
	anchor := time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local)
	items := testItems(10)

	first, err := Allocate(items, anchor, cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := Allocate(items, anchor, cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	for i := range first {
		assert.True(t, first[i].Time.Equal(second[i].Time), "item %d diverged", i)
	}
}

func TestAllocateAnchorOutsideWindowIsClamped(t *testing.T) {
	cfg := model.ScheduleConfig{IntervalMinutes: 10, ActiveHours: testWindow}
	anchor := time.Date(2026, 6, 1, 6, 0, 0, 0, time.Local)

	got, err := Allocate(testItems(1), anchor, cfg, nil)
	require.NoError(t, err)
	assert.True(t, got[0].Time.Equal(time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local)))
}

func TestAllocateRejectsMalformedConfig(t *testing.T) {
	anchor := time.Date(2026, 6, 1, 10, 0, 0, 0, time.Local)

	_, err := Allocate(testItems(1), anchor, model.ScheduleConfig{IntervalMinutes: 0, ActiveHours: testWindow}, nil)
	assert.Error(t, err)

	_, err = Allocate(testItems(1), anchor, model.ScheduleConfig{IntervalMinutes: 10, ActiveHours: model.ActiveHours{Start: 1260, End: 540}}, nil)
	assert.Error(t, err)
}

// Active days are threaded through the configuration but deliberately not
// consulted by the allocator: only the hour-of-day window is enforced. This
// test pins that behavior rather than silently "fixing" it.
func TestAllocateIgnoresActiveDays(t *testing.T) {
	cfg := model.ScheduleConfig{
		IntervalMinutes: 10,
		ActiveHours:     testWindow,
		ActiveDays:      []string{"monday"},
	}
	// 2026-06-06 is a Saturday.
	anchor := time.Date(2026, 6, 6, 10, 0, 0, 0, time.Local)

	got, err := Allocate(testItems(1), anchor, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, got[0].Time.Weekday())
}

func TestAllocateEmptyItems(t *testing.T) {
	cfg := model.ScheduleConfig{IntervalMinutes: 10, ActiveHours: testWindow}
	got, err := Allocate(nil, time.Now(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
