package booking

import (
	"testing"
	"time"
)

func TestClampGuests(t *testing.T) {
	tests := []struct {
		name     string
		guests   int
		rooms    int
		capacity int
		want     int
	}{
		{name: "within limit unchanged", guests: 4, rooms: 2, capacity: 3, want: 4},
		{name: "at limit unchanged", guests: 6, rooms: 2, capacity: 3, want: 6},
		{name: "over limit clamped down", guests: 9, rooms: 2, capacity: 3, want: 6},
		{name: "zero floors to one", guests: 0, rooms: 1, capacity: 2, want: 1},
		{name: "negative floors to one", guests: -3, rooms: 1, capacity: 2, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampGuests(tt.guests, tt.rooms, tt.capacity); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestMaxRooms(t *testing.T) {
	tests := []struct {
		available int
		want      int
	}{
		{0, 0},
		{1, 1},
		{5, 5},
		{6, 5},
		{40, 5},
	}
	for _, tt := range tests {
		if got := MaxRooms(tt.available); got != tt.want {
			t.Errorf("available=%d: expected %d, got %d", tt.available, tt.want, got)
		}
	}
}

func TestNightsFloorsAtOne(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("bad date %q: %v", s, err)
		}
		return d
	}

	if got := Nights(day("2026-09-10"), day("2026-09-13")); got != 3 {
		t.Errorf("expected 3 nights, got %d", got)
	}
	if got := Nights(day("2026-09-10"), day("2026-09-10")); got != 1 {
		t.Errorf("same-day stay should bill 1 night, got %d", got)
	}
	if got := Nights(day("2026-09-13"), day("2026-09-10")); got != 1 {
		t.Errorf("inverted range should bill 1 night, got %d", got)
	}
}
