package booking

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func TestComputeQuoteGroupDiscount(t *testing.T) {
	// 3 nights at 1000/night for 2 rooms and 6 guests: subtotal 6000,
	// party of 6 lands in the 25% tier, total 4500.
	now := time.Now()

	q := ComputeQuote(1000, day(t, "2026-09-10"), day(t, "2026-09-13"), 2, 6, now)
	if q.Nights != 3 {
		t.Fatalf("expected 3 nights, got %d", q.Nights)
	}
	if q.Subtotal != 6000 {
		t.Fatalf("expected subtotal 6000, got %.2f", q.Subtotal)
	}
	if q.DiscountRate != 0.25 || q.Total != 4500 {
		t.Fatalf("expected 25%% off 6000 = 4500, got rate=%.2f total=%.2f", q.DiscountRate, q.Total)
	}

	q = ComputeQuote(1000, day(t, "2026-09-10"), day(t, "2026-09-13"), 2, 2, now)
	if q.Subtotal != 6000 || q.Total != 6000 || q.DiscountRate != 0 {
		t.Fatalf("expected undiscounted 6000 for a party of 2, got subtotal=%.2f total=%.2f rate=%.2f", q.Subtotal, q.Total, q.DiscountRate)
	}

	q = ComputeQuote(1000, day(t, "2026-09-10"), day(t, "2026-09-13"), 5, 10, now)
	if q.DiscountRate != 0.30 || q.Total != 10500 {
		t.Fatalf("expected 30%% off 15000 = 10500, got rate=%.2f total=%.2f", q.DiscountRate, q.Total)
	}
}

func TestComputeQuoteRoundsToCents(t *testing.T) {
	q := ComputeQuote(1033.33, day(t, "2026-09-10"), day(t, "2026-09-11"), 3, 4, time.Now())
	if q.Subtotal != 3099.99 {
		t.Fatalf("expected subtotal 3099.99, got %v", q.Subtotal)
	}
	// 15% off 3099.99 = 2634.9915, rounded to 2634.99.
	if q.Total != 2634.99 {
		t.Fatalf("expected total 2634.99, got %v", q.Total)
	}
}

func TestComputeQuoteRecordsTakenAt(t *testing.T) {
	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	q := ComputeQuote(500, day(t, "2026-09-10"), day(t, "2026-09-12"), 1, 2, at)
	if !q.TakenAt.Equal(at) {
		t.Fatalf("expected TakenAt %v, got %v", at, q.TakenAt)
	}
}
