package timewindow

import (
	"testing"
	"time"
)

func TestIsDiscountDay_TableTests(t *testing.T) {
	loc := Location()

	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{
			name: "wednesday afternoon",
			ts:   time.Date(2025, 1, 8, 14, 0, 0, 0, loc),
			want: true,
		},
		{
			name: "wednesday midnight",
			ts:   time.Date(2025, 1, 8, 0, 0, 0, 0, loc),
			want: true,
		},
		{
			name: "tuesday",
			ts:   time.Date(2025, 1, 7, 14, 0, 0, 0, loc),
			want: false,
		},
		{
			name: "thursday",
			ts:   time.Date(2025, 1, 9, 14, 0, 0, 0, loc),
			want: false,
		},
		{
			name: "utc time that is still wednesday locally",
			// 23:30 UTC вторник = 01:30 среда в UTC+2
			ts:   time.Date(2025, 1, 7, 23, 30, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "utc time that is already thursday locally",
			// 22:30 UTC среда = 00:30 четверг в UTC+2
			ts:   time.Date(2025, 1, 8, 22, 30, 0, 0, time.UTC),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDiscountDay(tt.ts); got != tt.want {
				t.Errorf("IsDiscountDay(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestIsHappyHour_TableTests(t *testing.T) {
	loc := Location()

	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{
			name: "saturday 19:00 exactly",
			ts:   time.Date(2025, 1, 11, 19, 0, 0, 0, loc),
			want: true,
		},
		{
			name: "saturday 19:59",
			ts:   time.Date(2025, 1, 11, 19, 59, 59, 0, loc),
			want: true,
		},
		{
			name: "saturday 20:00 is outside",
			ts:   time.Date(2025, 1, 11, 20, 0, 0, 0, loc),
			want: false,
		},
		{
			name: "saturday 18:59 is outside",
			ts:   time.Date(2025, 1, 11, 18, 59, 59, 0, loc),
			want: false,
		},
		{
			name: "sunday 19:30",
			ts:   time.Date(2025, 1, 12, 19, 30, 0, 0, loc),
			want: false,
		},
		{
			name: "wednesday 19:30",
			ts:   time.Date(2025, 1, 8, 19, 30, 0, 0, loc),
			want: false,
		},
		{
			name: "utc saturday 17:30 is 19:30 locally",
			ts:   time.Date(2025, 1, 11, 17, 30, 0, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHappyHour(tt.ts); got != tt.want {
				t.Errorf("IsHappyHour(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestStartOfDay(t *testing.T) {
	loc := Location()

	tests := []struct {
		name string
		ts   time.Time
		want time.Time
	}{
		{
			name: "midday",
			ts:   time.Date(2025, 3, 5, 13, 45, 12, 0, loc),
			want: time.Date(2025, 3, 5, 0, 0, 0, 0, loc),
		},
		{
			name: "already midnight",
			ts:   time.Date(2025, 3, 5, 0, 0, 0, 0, loc),
			want: time.Date(2025, 3, 5, 0, 0, 0, 0, loc),
		},
		{
			name: "utc evening crosses into next local day",
			// 23:00 UTC 4 марта = 01:00 5 марта в UTC+2
			ts:   time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC),
			want: time.Date(2025, 3, 5, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfDay(tt.ts)
			if !got.Equal(tt.want) {
				t.Errorf("StartOfDay(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}
