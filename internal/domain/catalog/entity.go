package catalog

import (
	"sort"

	"github.com/luxestay/booking-api/internal/pkg/pricing"
)

// Availability buckets shown to the guest.
const (
	AvailabilitySoldOut   = "sold_out"
	AvailabilityLow       = "low"
	AvailabilityAvailable = "available"
)

const lowAvailabilityMax = 2

// RoomOffering is a room type with its live availability and the nightly rate
// currently in effect. CurrentPrice equals BasePrice when no dynamic rate was
// published for the room.
type RoomOffering struct {
	ID            int
	Type          string
	Location      string
	BasePrice     float64
	CurrentPrice  float64
	Capacity      int
	Available     int
	TotalUnits    int
	OccupiedUnits int
	Amenities     []string
	Description   string
	ImageURL      string
	PriceFactors  map[string]interface{}
}

// RelativeDiscount is (current - base) / base. Negative values mean the room
// is cheaper than its base rate right now.
func (r *RoomOffering) RelativeDiscount() float64 {
	if r.BasePrice == 0 {
		return 0
	}
	return (r.CurrentPrice - r.BasePrice) / r.BasePrice
}

// AvailabilityLevel classifies remaining inventory for display.
func (r *RoomOffering) AvailabilityLevel() string {
	switch {
	case r.Available <= 0:
		return AvailabilitySoldOut
	case r.Available <= lowAvailabilityMax:
		return AvailabilityLow
	default:
		return AvailabilityAvailable
	}
}

// Merge joins catalog records with dynamic pricing by room id. Rooms without a
// published rate fall back to their base price. Catalog order is preserved.
func Merge(records []pricing.CatalogRecord, prices []pricing.PricingRecord) []RoomOffering {
	rateByID := make(map[int]pricing.PricingRecord, len(prices))
	for _, p := range prices {
		rateByID[p.RoomID] = p
	}

	offerings := make([]RoomOffering, 0, len(records))
	for _, rec := range records {
		offering := RoomOffering{
			ID:            rec.RoomID,
			Type:          rec.Type,
			Location:      rec.Location,
			BasePrice:     rec.BasePrice,
			CurrentPrice:  rec.BasePrice,
			Capacity:      rec.Capacity,
			Available:     rec.Available,
			TotalUnits:    rec.TotalRooms,
			OccupiedUnits: rec.OccupiedCount,
			Amenities:     rec.Amenities,
			Description:   rec.Description,
			ImageURL:      rec.ImageURL,
		}
		if rate, ok := rateByID[rec.RoomID]; ok {
			offering.CurrentPrice = rate.Price
			offering.PriceFactors = rate.PriceFactors
		}
		offerings = append(offerings, offering)
	}
	return offerings
}

// Filter keeps offerings matching the requested room type (empty matches all)
// with enough capacity for the party and at least one unit free. Order is
// preserved.
func Filter(offerings []RoomOffering, roomType string, guests int) []RoomOffering {
	filtered := make([]RoomOffering, 0, len(offerings))
	for _, o := range offerings {
		if roomType != "" && o.Type != roomType {
			continue
		}
		if guests > 0 && o.Capacity < guests {
			continue
		}
		if o.Available <= 0 {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

// Recommend picks the best-value offering: the lowest relative discount among
// offerings with availability. Ties go to the earliest entry. Returns nil when
// nothing is available.
func Recommend(offerings []RoomOffering) *RoomOffering {
	var best *RoomOffering
	for i := range offerings {
		o := &offerings[i]
		if o.Available <= 0 {
			continue
		}
		if best == nil || o.RelativeDiscount() < best.RelativeDiscount() {
			best = o
		}
	}
	if best == nil {
		return nil
	}
	picked := *best
	return &picked
}

// RoomTypes lists the distinct room types in offering order.
func RoomTypes(offerings []RoomOffering) []string {
	seen := make(map[string]bool, len(offerings))
	types := make([]string, 0, len(offerings))
	for _, o := range offerings {
		if o.Type == "" || seen[o.Type] {
			continue
		}
		seen[o.Type] = true
		types = append(types, o.Type)
	}
	return types
}

// Locations lists the distinct locations, sorted, for the search form.
func Locations(offerings []RoomOffering) []string {
	seen := make(map[string]bool, len(offerings))
	locations := make([]string, 0, len(offerings))
	for _, o := range offerings {
		if o.Location == "" || seen[o.Location] {
			continue
		}
		seen[o.Location] = true
		locations = append(locations, o.Location)
	}
	sort.Strings(locations)
	return locations
}

// PriceExplanation renders the pricing factors as guest-facing labels.
func PriceExplanation(factors map[string]interface{}) []string {
	if len(factors) == 0 {
		return nil
	}

	var labels []string
	if truthy(factors["holiday"]) || truthy(factors["is_holiday"]) || truthy(factors["has_holiday"]) {
		labels = append(labels, "Holiday pricing")
	}
	if truthy(factors["weekend"]) || truthy(factors["has_weekend"]) {
		labels = append(labels, "Weekend pricing")
	}
	if truthy(factors["low_occupancy"]) {
		labels = append(labels, "Low occupancy discount")
	}
	if truthy(factors["high_occupancy"]) {
		labels = append(labels, "High demand")
	}
	return labels
}

// truthy interprets loosely typed JSON factor values.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val == "true" || val == "1" || val == "yes"
	default:
		return false
	}
}
