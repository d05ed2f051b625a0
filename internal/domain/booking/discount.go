package booking

// Group discount tiers by party size.
const (
	largeGroupMin  = 10
	mediumGroupMin = 5
	smallGroupMin  = 3

	largeGroupRate  = 0.30
	mediumGroupRate = 0.25
	smallGroupRate  = 0.15
)

// DiscountRate returns the group discount fraction for a party size.
func DiscountRate(guests int) float64 {
	switch {
	case guests >= largeGroupMin:
		return largeGroupRate
	case guests >= mediumGroupMin:
		return mediumGroupRate
	case guests >= smallGroupMin:
		return smallGroupRate
	default:
		return 0
	}
}
