package pricing

// DateLayout is the wire format for all dates exchanged with the reservation
// service.
const DateLayout = "2006-01-02"

// CatalogRecord is one room type as returned by GET /api/rooms.
type CatalogRecord struct {
	RoomID        int      `json:"room_id"`
	Type          string   `json:"type"`
	Location      string   `json:"location,omitempty"`
	BasePrice     float64  `json:"base_price"`
	Available     int      `json:"available"`
	OccupiedCount int      `json:"occupied_count"`
	TotalRooms    int      `json:"total_rooms"`
	Amenities     []string `json:"amenities"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	Capacity      int      `json:"capacity"`
}

// PricingRecord is the dynamically computed rate for one room, keyed by room
// id, as returned by GET /api/dynamic-pricing.
type PricingRecord struct {
	RoomID       int                    `json:"room_id"`
	Price        float64                `json:"price"`
	PriceFactors map[string]interface{} `json:"price_factors"`
}

// GuestDetails carries the guest contact block of a booking submission. The
// payment method is collected but never charged locally.
type GuestDetails struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	Country         string `json:"country"`
	ZipCode         string `json:"zip_code"`
	SpecialRequests string `json:"special_requests,omitempty"`
	PaymentMethod   string `json:"payment_method"`
}

// BookingRequest is the body of POST /api/bookings. Field names are part of
// the compatibility surface with the reservation service.
type BookingRequest struct {
	RoomID        int          `json:"room_id"`
	Location      string       `json:"location,omitempty"`
	GuestName     string       `json:"guest_name"`
	CheckIn       string       `json:"check_in"`
	CheckOut      string       `json:"check_out"`
	Guests        int          `json:"guests"`
	NumberOfRooms int          `json:"number_of_rooms"`
	PricePerNight float64      `json:"price_per_night"`
	TotalPrice    float64      `json:"total_price"`
	GuestDetails  GuestDetails `json:"guest_details"`
}

// Confirmation is the reservation service's acknowledgement of a booking.
type Confirmation struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

// RoomStats summarizes chain-wide occupancy, as returned by
// GET /api/room-stats.
type RoomStats struct {
	TotalRooms    int `json:"totalRooms"`
	OccupiedRooms int `json:"occupiedRooms"`
	OccupancyRate int `json:"occupancyRate"`
}
