package schedule

import (
	"testing"
	"time"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

func TestClampIntoWindow(t *testing.T) {
	// 09:00 - 21:00
	window := model.ActiveHours{Start: 540, End: 1260}
	day := func(d, h, m int) time.Time {
		return time.Date(2026, 6, d, h, m, 0, 0, time.Local)
	}

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"inside window unchanged", day(1, 14, 30), day(1, 14, 30)},
		{"exactly at window start unchanged", day(1, 9, 0), day(1, 9, 0)},
		{"last minute inside", day(1, 20, 59), day(1, 20, 59)},
		{"before window moves to same-day start", day(1, 7, 45), day(1, 9, 0)},
		{"midnight moves to same-day start", day(1, 0, 0), day(1, 9, 0)},
		{"exactly at window end moves to next day", day(1, 21, 0), day(2, 9, 0)},
		{"after window moves to next day", day(1, 23, 59), day(2, 9, 0)},
		{"month rollover", time.Date(2026, 6, 30, 22, 0, 0, 0, time.Local), time.Date(2026, 7, 1, 9, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampIntoWindow(tt.in, window); !got.Equal(tt.want) {
				t.Errorf("ClampIntoWindow(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampIntoWindowKeepsSecondsInsideWindow(t *testing.T) {
	window := model.ActiveHours{Start: 540, End: 1260}
	in := time.Date(2026, 6, 1, 14, 30, 42, 0, time.Local)
	if got := ClampIntoWindow(in, window); !got.Equal(in) {
		t.Errorf("ClampIntoWindow(%v) = %v, want unchanged", in, got)
	}
}
