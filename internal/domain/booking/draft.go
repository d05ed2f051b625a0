package booking

import (
	"github.com/luxestay/booking-api/internal/domain/catalog"
	"github.com/luxestay/booking-api/internal/pkg/pricing"
)

// Draft is an in-progress booking for one selected room. Room is a snapshot of
// the offering at selection time; background catalog refreshes never mutate
// it. The snapshot is replaced only by reconciliation at confirm time.
type Draft struct {
	Room          *catalog.RoomOffering
	NumberOfRooms int
	Guests        int
	GuestName     string
	Details       pricing.GuestDetails
}

// NewDraft opens a draft for a selected room with one unit and the searched
// party size clamped to what one unit can host.
func NewDraft(room catalog.RoomOffering, guests int) *Draft {
	snapshot := room
	return &Draft{
		Room:          &snapshot,
		NumberOfRooms: 1,
		Guests:        ClampGuests(guests, 1, snapshot.Capacity),
	}
}

// SetNumberOfRooms changes the unit count, clamped to availability and the
// per-booking cap, then re-clamps the party size to the new limit.
func (d *Draft) SetNumberOfRooms(n int) {
	max := MaxRooms(d.Room.Available)
	if max < 1 {
		max = 1
	}
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	d.NumberOfRooms = n
	d.Guests = ClampGuests(d.Guests, d.NumberOfRooms, d.Room.Capacity)
}

// SetGuests changes the party size, clamped to the current room count.
func (d *Draft) SetGuests(guests int) {
	d.Guests = ClampGuests(guests, d.NumberOfRooms, d.Room.Capacity)
}

// MaxGuests is the largest party the current selection can host.
func (d *Draft) MaxGuests() int {
	return MaxGuests(d.NumberOfRooms, d.Room.Capacity)
}

// MaxRooms is how many units the guest may select for this room.
func (d *Draft) MaxRooms() int {
	return MaxRooms(d.Room.Available)
}
