package catalog

import (
	"reflect"
	"testing"

	"github.com/luxestay/booking-api/internal/pkg/pricing"
)

func TestMergeFallsBackToBasePrice(t *testing.T) {
	records := []pricing.CatalogRecord{
		{RoomID: 1, Type: "Standard Single", BasePrice: 2499, Available: 5, Capacity: 1},
		{RoomID: 2, Type: "Deluxe Double", BasePrice: 4299, Available: 3, Capacity: 2},
	}
	prices := []pricing.PricingRecord{
		{RoomID: 2, Price: 5100, PriceFactors: map[string]interface{}{"weekend": true}},
	}

	offerings := Merge(records, prices)
	if len(offerings) != 2 {
		t.Fatalf("expected 2 offerings, got %d", len(offerings))
	}
	if offerings[0].CurrentPrice != 2499 {
		t.Errorf("room without a published rate should keep base price, got %.2f", offerings[0].CurrentPrice)
	}
	if offerings[1].CurrentPrice != 5100 {
		t.Errorf("expected dynamic price 5100, got %.2f", offerings[1].CurrentPrice)
	}
	if offerings[1].PriceFactors["weekend"] != true {
		t.Error("expected price factors to carry over")
	}
}

func TestMergePreservesCatalogOrder(t *testing.T) {
	records := []pricing.CatalogRecord{
		{RoomID: 7, Type: "Suite", BasePrice: 7499},
		{RoomID: 2, Type: "Deluxe Double", BasePrice: 4299},
		{RoomID: 5, Type: "Family Room", BasePrice: 5999},
	}

	offerings := Merge(records, nil)
	got := []int{offerings[0].ID, offerings[1].ID, offerings[2].ID}
	if !reflect.DeepEqual(got, []int{7, 2, 5}) {
		t.Fatalf("expected catalog order preserved, got %v", got)
	}
}

func TestFilter(t *testing.T) {
	offerings := []RoomOffering{
		{ID: 1, Type: "Standard Single", Capacity: 1, Available: 4},
		{ID: 2, Type: "Deluxe Double", Capacity: 2, Available: 0},
		{ID: 3, Type: "Family Room", Capacity: 4, Available: 2},
		{ID: 4, Type: "Suite", Capacity: 3, Available: 1},
	}

	tests := []struct {
		name     string
		roomType string
		guests   int
		wantIDs  []int
	}{
		{name: "no constraints drops only sold out", roomType: "", guests: 0, wantIDs: []int{1, 3, 4}},
		{name: "capacity excludes small rooms", roomType: "", guests: 3, wantIDs: []int{3, 4}},
		{name: "type match", roomType: "Family Room", guests: 2, wantIDs: []int{3}},
		{name: "sold out type yields nothing", roomType: "Deluxe Double", guests: 2, wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(offerings, tt.roomType, tt.guests)
			ids := make([]int, 0, len(got))
			for _, o := range got {
				ids = append(ids, o.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("expected %v, got %v", tt.wantIDs, ids)
			}
		})
	}
}

func TestRecommendPicksLowestRelativeDiscount(t *testing.T) {
	offerings := []RoomOffering{
		{ID: 1, BasePrice: 100, CurrentPrice: 110, Available: 2}, // +10%
		{ID: 2, BasePrice: 200, CurrentPrice: 170, Available: 1}, // -15%
		{ID: 3, BasePrice: 100, CurrentPrice: 85, Available: 0},  // -15% but sold out
		{ID: 4, BasePrice: 100, CurrentPrice: 95, Available: 3},  // -5%
	}

	best := Recommend(offerings)
	if best == nil {
		t.Fatal("expected a recommendation")
	}
	if best.ID != 2 {
		t.Fatalf("expected room 2, got %d", best.ID)
	}
}

func TestRecommendFirstWinsOnTie(t *testing.T) {
	offerings := []RoomOffering{
		{ID: 1, BasePrice: 100, CurrentPrice: 90, Available: 1},
		{ID: 2, BasePrice: 200, CurrentPrice: 180, Available: 1},
	}

	best := Recommend(offerings)
	if best == nil || best.ID != 1 {
		t.Fatalf("expected first tied room to win, got %+v", best)
	}
}

func TestRecommendReturnsCopy(t *testing.T) {
	offerings := []RoomOffering{
		{ID: 1, BasePrice: 100, CurrentPrice: 90, Available: 1},
	}

	best := Recommend(offerings)
	best.CurrentPrice = 999
	if offerings[0].CurrentPrice != 90 {
		t.Fatal("mutating the recommendation must not touch the source slice")
	}
}

func TestRecommendNilWhenNothingAvailable(t *testing.T) {
	offerings := []RoomOffering{
		{ID: 1, BasePrice: 100, CurrentPrice: 90, Available: 0},
	}
	if best := Recommend(offerings); best != nil {
		t.Fatalf("expected nil, got %+v", best)
	}
}

func TestAvailabilityLevel(t *testing.T) {
	tests := []struct {
		available int
		want      string
	}{
		{0, AvailabilitySoldOut},
		{1, AvailabilityLow},
		{2, AvailabilityLow},
		{3, AvailabilityAvailable},
	}
	for _, tt := range tests {
		r := RoomOffering{Available: tt.available}
		if got := r.AvailabilityLevel(); got != tt.want {
			t.Errorf("available=%d: expected %s, got %s", tt.available, tt.want, got)
		}
	}
}

func TestRoomTypesUniqueInOrder(t *testing.T) {
	offerings := []RoomOffering{
		{Type: "Suite"},
		{Type: "Standard Single"},
		{Type: "Suite"},
		{Type: "Family Room"},
	}
	got := RoomTypes(offerings)
	if !reflect.DeepEqual(got, []string{"Suite", "Standard Single", "Family Room"}) {
		t.Fatalf("unexpected types: %v", got)
	}
}

func TestLocationsSortedAndUnique(t *testing.T) {
	offerings := []RoomOffering{
		{Location: "Mumbai"},
		{Location: "Chennai"},
		{Location: "Mumbai"},
		{Location: ""},
	}
	got := Locations(offerings)
	if !reflect.DeepEqual(got, []string{"Chennai", "Mumbai"}) {
		t.Fatalf("unexpected locations: %v", got)
	}
}

func TestPriceExplanation(t *testing.T) {
	labels := PriceExplanation(map[string]interface{}{
		"weekend":       true,
		"is_holiday":    1.0,
		"low_occupancy": false,
	})
	if !reflect.DeepEqual(labels, []string{"Holiday pricing", "Weekend pricing"}) {
		t.Fatalf("unexpected labels: %v", labels)
	}

	if labels := PriceExplanation(nil); labels != nil {
		t.Fatalf("expected nil for empty factors, got %v", labels)
	}
}
