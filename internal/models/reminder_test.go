package models

import (
	"testing"
	"time"
)

func TestReminder_FollowingAt(t *testing.T) {
	anchor := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		days int
		want time.Time
	}{
		{"one day", 1, time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)},
		{"across month end", 20, time.Date(2026, 11, 5, 9, 0, 0, 0, time.UTC)},
		{"max repeat", MaxRepeatDays, anchor.AddDate(0, 0, MaxRepeatDays)},
		// beyond what a time.Duration of days can hold
		{"huge repeat", 200000, anchor.AddDate(0, 0, 200000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reminder{NextAt: anchor, RepeatDays: tc.days}.FollowingAt()
			if !got.Equal(tc.want) {
				t.Fatalf("FollowingAt = %v, want %v", got, tc.want)
			}
			if !got.After(anchor) {
				t.Fatalf("FollowingAt moved backwards: %v", got)
			}
		})
	}
}

func TestReminder_FollowingAtNormalizesToUTC(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	r := Reminder{NextAt: time.Date(2026, 3, 1, 6, 0, 0, 0, ist), RepeatDays: 2}

	got := r.FollowingAt()
	if got.Location() != time.UTC {
		t.Fatalf("location = %v", got.Location())
	}
	if want := r.NextAt.Add(48 * time.Hour); !got.Equal(want) {
		t.Fatalf("FollowingAt = %v, want %v", got, want)
	}
}
