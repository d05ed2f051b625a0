package booking

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luxestay/booking-api/internal/domain/catalog"
	"github.com/luxestay/booking-api/internal/pkg/pricing"
)

// ErrStaleOffer means the selected room is gone or sold out at confirm time.
var ErrStaleOffer = errors.New("selected room is no longer available")

// PriceSource reads the live catalog and rates for a date range.
type PriceSource interface {
	FetchCatalog(ctx context.Context, checkIn, checkOut time.Time, location string) ([]pricing.CatalogRecord, error)
	FetchPricing(ctx context.Context, checkIn, checkOut time.Time) ([]pricing.PricingRecord, error)
}

// Reconciler re-reads the live price for a draft immediately before
// submission so the guest is charged the current rate, not the one displayed
// when they selected the room.
type Reconciler struct {
	source PriceSource
}

func NewReconciler(source PriceSource) *Reconciler {
	return &Reconciler{source: source}
}

// Reconcile fetches the current catalog and rates and prices the stay at the
// fresh rate, with room and guest counts clamped against fresh availability.
// The draft itself is never modified; the fresh offering is returned so the
// caller can replace the draft's snapshot once it accepts the quote. Returns
// ErrStaleOffer when the room has disappeared or sold out since selection.
func (r *Reconciler) Reconcile(ctx context.Context, draft *Draft, checkIn, checkOut time.Time, location string) (Quote, *catalog.RoomOffering, error) {
	var (
		records []pricing.CatalogRecord
		prices  []pricing.PricingRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = r.source.FetchCatalog(gctx, checkIn, checkOut, location)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = r.source.FetchPricing(gctx, checkIn, checkOut)
		return err
	})
	if err := g.Wait(); err != nil {
		return Quote{}, nil, err
	}

	offerings := catalog.Merge(records, prices)
	var fresh *catalog.RoomOffering
	for i := range offerings {
		if offerings[i].ID == draft.Room.ID {
			fresh = &offerings[i]
			break
		}
	}
	if fresh == nil || fresh.Available <= 0 {
		return Quote{}, nil, ErrStaleOffer
	}

	snapshot := *fresh
	scratch := *draft
	scratch.Room = &snapshot
	scratch.SetNumberOfRooms(scratch.NumberOfRooms)

	quote := ComputeQuote(snapshot.CurrentPrice, checkIn, checkOut, scratch.NumberOfRooms, scratch.Guests, time.Now())
	return quote, &snapshot, nil
}
