package session

import (
	"time"

	"github.com/luxestay/booking-api/internal/domain/booking"
	"github.com/luxestay/booking-api/internal/domain/catalog"
	"github.com/luxestay/booking-api/internal/pkg/pricing"
)

type CriteriaRequest struct {
	CheckIn  string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Location string `json:"location" validate:"omitempty,max=100"`
	RoomType string `json:"room_type" validate:"omitempty,max=100"`
	Guests   int    `json:"guests" validate:"required,min=1,max=50"`
}

func (r CriteriaRequest) toCriteria() (Criteria, error) {
	checkIn, err := time.Parse(pricing.DateLayout, r.CheckIn)
	if err != nil {
		return Criteria{}, err
	}
	checkOut, err := time.Parse(pricing.DateLayout, r.CheckOut)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Location: r.Location,
		RoomType: r.RoomType,
		Guests:   r.Guests,
	}, nil
}

type SelectRoomRequest struct {
	RoomID int `json:"room_id" validate:"required,min=1"`
}

type GuestDetailsRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,min=7,max=20"`
	Address         string `json:"address" validate:"required,max=200"`
	City            string `json:"city" validate:"required,max=100"`
	Country         string `json:"country" validate:"required,max=100"`
	ZipCode         string `json:"zip_code" validate:"required,max=20"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=500"`
	PaymentMethod   string `json:"payment_method" validate:"required,payment_method"`
}

func (r GuestDetailsRequest) toDetails() pricing.GuestDetails {
	return pricing.GuestDetails{
		Email:           r.Email,
		Phone:           r.Phone,
		Address:         r.Address,
		City:            r.City,
		Country:         r.Country,
		ZipCode:         r.ZipCode,
		SpecialRequests: r.SpecialRequests,
		PaymentMethod:   r.PaymentMethod,
	}
}

type DraftUpdateRequest struct {
	NumberOfRooms *int    `json:"number_of_rooms" validate:"omitempty,min=1"`
	Guests        *int    `json:"guests" validate:"omitempty,min=1"`
	GuestName     *string `json:"guest_name" validate:"omitempty,min=2,max=100"`
}

type ConfirmRequest struct {
	GuestName    string              `json:"guest_name" validate:"required,min=2,max=100"`
	GuestDetails GuestDetailsRequest `json:"guest_details" validate:"required"`
}

type OfferingResponse struct {
	ID                int      `json:"id"`
	Type              string   `json:"type"`
	Location          string   `json:"location,omitempty"`
	BasePrice         float64  `json:"base_price"`
	CurrentPrice      float64  `json:"current_price"`
	Capacity          int      `json:"capacity"`
	Available         int      `json:"available"`
	AvailabilityLevel string   `json:"availability_level"`
	TotalUnits        int      `json:"total_units"`
	Amenities         []string `json:"amenities,omitempty"`
	Description       string   `json:"description,omitempty"`
	ImageURL          string   `json:"image_url,omitempty"`
	PriceNotes        []string `json:"price_notes,omitempty"`
	NextAvailable     string   `json:"next_available,omitempty"`
}

type OfferingsResponse struct {
	State          State              `json:"state"`
	Offerings      []OfferingResponse `json:"offerings"`
	Recommendation *OfferingResponse  `json:"recommendation,omitempty"`
	RoomTypes      []string           `json:"room_types,omitempty"`
	Locations      []string           `json:"locations,omitempty"`
	Notice         string             `json:"notice,omitempty"`
}

type DraftResponse struct {
	RoomID        int     `json:"room_id"`
	RoomType      string  `json:"room_type"`
	PricePerNight float64 `json:"price_per_night"`
	NumberOfRooms int     `json:"number_of_rooms"`
	MaxRooms      int     `json:"max_rooms"`
	Guests        int     `json:"guests"`
	MaxGuests     int     `json:"max_guests"`
	GuestName     string  `json:"guest_name,omitempty"`
}

type CriteriaResponse struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Location string `json:"location,omitempty"`
	RoomType string `json:"room_type,omitempty"`
	Guests   int    `json:"guests"`
}

type SessionResponse struct {
	ID           string                `json:"id"`
	State        State                 `json:"state"`
	Criteria     *CriteriaResponse     `json:"criteria,omitempty"`
	Draft        *DraftResponse        `json:"draft,omitempty"`
	Quote        *booking.Quote        `json:"quote,omitempty"`
	Confirmation *pricing.Confirmation `json:"confirmation,omitempty"`
	Notice       string                `json:"notice,omitempty"`
}

func toOfferingResponse(o catalog.RoomOffering, nextAvailable map[int]string) OfferingResponse {
	resp := OfferingResponse{
		ID:                o.ID,
		Type:              o.Type,
		Location:          o.Location,
		BasePrice:         o.BasePrice,
		CurrentPrice:      o.CurrentPrice,
		Capacity:          o.Capacity,
		Available:         o.Available,
		AvailabilityLevel: o.AvailabilityLevel(),
		TotalUnits:        o.TotalUnits,
		Amenities:         o.Amenities,
		Description:       o.Description,
		ImageURL:          o.ImageURL,
		PriceNotes:        catalog.PriceExplanation(o.PriceFactors),
	}
	if date, ok := nextAvailable[o.ID]; ok {
		resp.NextAvailable = date
	}
	return resp
}

func toOfferingsResponse(view View) OfferingsResponse {
	offerings := make([]OfferingResponse, 0, len(view.Offerings))
	for _, o := range view.Offerings {
		offerings = append(offerings, toOfferingResponse(o, view.NextAvailable))
	}

	resp := OfferingsResponse{
		State:     view.State,
		Offerings: offerings,
		RoomTypes: view.RoomTypes,
		Locations: view.Locations,
		Notice:    view.Notice,
	}
	if view.Recommendation != nil {
		rec := toOfferingResponse(*view.Recommendation, view.NextAvailable)
		resp.Recommendation = &rec
	}
	return resp
}

func toSessionResponse(snap Snapshot) SessionResponse {
	resp := SessionResponse{
		ID:           snap.ID,
		State:        snap.State,
		Quote:        snap.Quote,
		Confirmation: snap.Confirmation,
		Notice:       snap.Notice,
	}
	if snap.HasCriteria {
		resp.Criteria = &CriteriaResponse{
			CheckIn:  snap.Criteria.CheckIn.Format(pricing.DateLayout),
			CheckOut: snap.Criteria.CheckOut.Format(pricing.DateLayout),
			Location: snap.Criteria.Location,
			RoomType: snap.Criteria.RoomType,
			Guests:   snap.Criteria.Guests,
		}
	}
	if snap.Draft != nil {
		resp.Draft = &DraftResponse{
			RoomID:        snap.Draft.Room.ID,
			RoomType:      snap.Draft.Room.Type,
			PricePerNight: snap.Draft.Room.CurrentPrice,
			NumberOfRooms: snap.Draft.NumberOfRooms,
			MaxRooms:      snap.Draft.MaxRooms(),
			Guests:        snap.Draft.Guests,
			MaxGuests:     snap.Draft.MaxGuests(),
			GuestName:     snap.Draft.GuestName,
		}
	}
	return resp
}
