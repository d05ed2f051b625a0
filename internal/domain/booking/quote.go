package booking

import (
	"math"
	"time"
)

// Quote is a fully priced booking at a point in time. TakenAt records when the
// underlying rate was read so callers can reason about staleness.
type Quote struct {
	TakenAt       time.Time `json:"taken_at"`
	PricePerNight float64   `json:"price_per_night"`
	Nights        int       `json:"nights"`
	NumberOfRooms int       `json:"number_of_rooms"`
	Guests        int       `json:"guests"`
	DiscountRate  float64   `json:"discount_rate"`
	Subtotal      float64   `json:"subtotal"`
	Total         float64   `json:"total"`
}

// ComputeQuote prices a stay: nightly rate times nights times rooms, with the
// group discount for the party size applied to the subtotal. Amounts are
// rounded to cents.
func ComputeQuote(pricePerNight float64, checkIn, checkOut time.Time, numberOfRooms, guests int, takenAt time.Time) Quote {
	nights := Nights(checkIn, checkOut)
	rate := DiscountRate(guests)
	subtotal := round2(pricePerNight * float64(nights) * float64(numberOfRooms))
	total := round2(subtotal * (1 - rate))

	return Quote{
		TakenAt:       takenAt,
		PricePerNight: pricePerNight,
		Nights:        nights,
		NumberOfRooms: numberOfRooms,
		Guests:        guests,
		DiscountRate:  rate,
		Subtotal:      subtotal,
		Total:         total,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
