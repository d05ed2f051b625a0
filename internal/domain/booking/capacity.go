package booking

import "time"

// MaxRoomsPerBooking caps how many units of one room type a single booking may
// hold, regardless of availability.
const MaxRoomsPerBooking = 5

// MaxGuests is the largest party the given number of units can host.
func MaxGuests(numberOfRooms, capacityPerRoom int) int {
	if numberOfRooms < 1 || capacityPerRoom < 1 {
		return 1
	}
	return numberOfRooms * capacityPerRoom
}

// ClampGuests adjusts a requested party size into the bookable range instead
// of rejecting it.
func ClampGuests(guests, numberOfRooms, capacityPerRoom int) int {
	if guests < 1 {
		return 1
	}
	if limit := MaxGuests(numberOfRooms, capacityPerRoom); guests > limit {
		return limit
	}
	return guests
}

// MaxRooms is how many units may be selected given current availability.
func MaxRooms(available int) int {
	if available < 1 {
		return 0
	}
	if available > MaxRoomsPerBooking {
		return MaxRoomsPerBooking
	}
	return available
}

// Nights counts billable nights between check-in and check-out, never fewer
// than one.
func Nights(checkIn, checkOut time.Time) int {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}
