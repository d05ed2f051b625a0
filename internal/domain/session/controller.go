package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/luxestay/booking-api/internal/domain/booking"
	"github.com/luxestay/booking-api/internal/domain/catalog"
	"github.com/luxestay/booking-api/internal/pkg/pricing"
)

// State is the lifecycle phase of one guest's booking session.
type State string

const (
	StateIdle            State = "idle"
	StateSearchPending   State = "search_pending"
	StateReady           State = "ready"
	StateRoomSelected    State = "room_selected"
	StateQuoteRefreshing State = "quote_refreshing"
	StateSubmitting      State = "submitting"
	StateCompleted       State = "completed"
)

// Guest-facing notices. Upstream validation messages override these.
const (
	noticeSearchDegraded = "Live availability is temporarily unavailable. Prices shown may be out of date."
	noticeStaleOffer     = "This room is no longer available for your dates. Please search again."
	noticeSubmitFailed   = "We couldn't reach the reservation service. Your booking was not placed. Please try again."
)

// Event types pushed to session watchers.
const (
	EventOfferingsRefreshed = "offerings_refreshed"
	EventSearchFailed       = "search_failed"
	EventStateChanged       = "state_changed"
)

// Event is a push notification about a session.
type Event struct {
	Type   string `json:"type"`
	State  State  `json:"state"`
	Notice string `json:"notice,omitempty"`
}

// Gateway is everything the controller needs from the reservation service.
type Gateway interface {
	booking.PriceSource
	FetchNextAvailable(ctx context.Context) (map[int]string, error)
	SubmitBooking(ctx context.Context, booking pricing.BookingRequest) (*pricing.Confirmation, error)
}

// Notifier delivers session events to connected watchers.
type Notifier interface {
	Notify(sessionID string, event Event)
}

// Config tunes the controller's timing behavior.
type Config struct {
	Debounce        time.Duration
	RefreshInterval time.Duration
	FetchTimeout    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = 300 * time.Millisecond
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 60 * time.Second
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	return c
}

// Criteria is the guest's search input.
type Criteria struct {
	CheckIn  time.Time
	CheckOut time.Time
	Location string
	RoomType string
	Guests   int
}

// Validate checks the criteria against the calendar. It returns per-field
// messages; an empty map means valid.
func (c Criteria) Validate(now time.Time) map[string]string {
	fieldErrs := make(map[string]string)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case c.CheckIn.IsZero():
		fieldErrs["check_in"] = "Check-in date is required"
	case c.CheckIn.Before(today):
		fieldErrs["check_in"] = "Check-in date cannot be in the past"
	}

	switch {
	case c.CheckOut.IsZero():
		fieldErrs["check_out"] = "Check-out date is required"
	case !c.CheckIn.IsZero() && !c.CheckOut.After(c.CheckIn):
		fieldErrs["check_out"] = "Check-out date must be after check-in"
	}

	if c.Guests < 1 {
		fieldErrs["guests"] = "At least one guest is required"
	}

	if len(fieldErrs) == 0 {
		return nil
	}
	return fieldErrs
}

// View is the offerings panel for a session: the filtered result list plus
// the data the guest needs to act on it.
type View struct {
	State          State
	Offerings      []catalog.RoomOffering
	Recommendation *catalog.RoomOffering
	RoomTypes      []string
	Locations      []string
	NextAvailable  map[int]string
	Notice         string
}

// Snapshot is the full externally visible session state.
type Snapshot struct {
	ID           string
	State        State
	Criteria     Criteria
	HasCriteria  bool
	Draft        *booking.Draft
	Quote        *booking.Quote
	Confirmation *pricing.Confirmation
	Notice       string
}

// DraftUpdate carries partial edits to an open draft. Nil fields are left
// untouched.
type DraftUpdate struct {
	NumberOfRooms *int
	Guests        *int
	GuestName     *string
	Details       *pricing.GuestDetails
}

// Controller drives one guest's search-to-booking workflow. All exported
// methods are safe for concurrent use. Search results arrive asynchronously;
// a fetch token guards against out-of-order responses overwriting newer ones.
type Controller struct {
	id         string
	gw         Gateway
	reconciler *booking.Reconciler
	notifier   Notifier
	cfg        Config
	log        zerolog.Logger

	mu            sync.Mutex
	closed        bool
	state         State
	criteria      Criteria
	hasCriteria   bool
	offerings     []catalog.RoomOffering
	nextAvailable map[int]string
	draft         *booking.Draft
	draftSeq      int
	quote         *booking.Quote
	confirmation  *pricing.Confirmation
	notice        string
	fetchToken    uuid.UUID
	debounce      *time.Timer
	stopRefresh   chan struct{}
}

// NewController creates a session controller and starts its background
// refresh loop. Callers must Close it when the session ends.
func NewController(id string, gw Gateway, notifier Notifier, cfg Config, log zerolog.Logger) *Controller {
	c := &Controller{
		id:          id,
		gw:          gw,
		reconciler:  booking.NewReconciler(gw),
		notifier:    notifier,
		cfg:         cfg.withDefaults(),
		log:         log.With().Str("session_id", id).Logger(),
		state:       StateIdle,
		stopRefresh: make(chan struct{}),
	}
	go c.refreshLoop()
	return c
}

// SetCriteria validates and applies new search criteria. Valid criteria
// schedule a debounced search; rapid successive edits collapse into a single
// fetch of the latest values. While a room is selected, date and guest edits
// reprice the open draft without re-searching.
func (c *Controller) SetCriteria(crit Criteria) (map[string]string, error) {
	if fieldErrs := crit.Validate(time.Now()); fieldErrs != nil {
		return fieldErrs, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrSessionClosed
	}

	switch c.state {
	case StateQuoteRefreshing, StateSubmitting:
		return nil, ErrInvalidTransition
	case StateRoomSelected:
		c.criteria = crit
		c.hasCriteria = true
		if c.draft != nil {
			c.draft.SetGuests(crit.Guests)
			c.recomputeQuoteLocked()
		}
		return nil, nil
	case StateCompleted:
		// A new search after completion starts a fresh workflow.
		c.draft = nil
		c.quote = nil
		c.confirmation = nil
		c.draftSeq++
	}

	c.criteria = crit
	c.hasCriteria = true
	c.notice = ""
	c.state = StateSearchPending
	c.scheduleFetchLocked()
	return nil, nil
}

// SearchNow bypasses the debounce window and fetches immediately.
func (c *Controller) SearchNow() error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	if !c.hasCriteria {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	switch c.state {
	case StateQuoteRefreshing, StateSubmitting:
		c.mu.Unlock()
		return ErrInvalidTransition
	}

	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	if c.state == StateCompleted {
		// A new search after completion starts a fresh workflow.
		c.draft = nil
		c.quote = nil
		c.confirmation = nil
		c.draftSeq++
		c.notice = ""
	}
	if c.state != StateRoomSelected {
		c.state = StateSearchPending
	}
	token := uuid.New()
	c.fetchToken = token
	crit := c.criteria
	c.mu.Unlock()

	c.fetch(token, crit)
	return nil
}

// scheduleFetchLocked arms the debounce timer, replacing any pending one.
// Caller holds c.mu.
func (c *Controller) scheduleFetchLocked() {
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.cfg.Debounce, func() {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		token := uuid.New()
		c.fetchToken = token
		crit := c.criteria
		c.mu.Unlock()

		c.fetch(token, crit)
	})
}

// fetch loads catalog, pricing, and next-available dates concurrently and
// applies the result if this fetch is still the newest one. A failed fetch
// keeps the previous results and surfaces a notice instead.
func (c *Controller) fetch(token uuid.UUID, crit Criteria) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.FetchTimeout)
	defer cancel()

	var (
		records []pricing.CatalogRecord
		prices  []pricing.PricingRecord
		dates   map[int]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = c.gw.FetchCatalog(gctx, crit.CheckIn, crit.CheckOut, crit.Location)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = c.gw.FetchPricing(gctx, crit.CheckIn, crit.CheckOut)
		return err
	})
	g.Go(func() error {
		var err error
		dates, err = c.gw.FetchNextAvailable(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || token != c.fetchToken {
		return
	}

	if err != nil {
		c.log.Warn().Err(err).Msg("Search fetch failed, keeping previous results")
		c.notice = noticeSearchDegraded
		if c.state == StateSearchPending {
			if len(c.offerings) > 0 {
				c.state = StateReady
			} else {
				c.state = StateIdle
			}
		}
		c.notifyLocked(Event{Type: EventSearchFailed, State: c.state, Notice: c.notice})
		return
	}

	c.offerings = catalog.Merge(records, prices)
	c.nextAvailable = dates
	c.notice = ""
	if c.state == StateSearchPending {
		c.state = StateReady
	}
	c.log.Debug().Int("offerings", len(c.offerings)).Msg("Search results applied")
	c.notifyLocked(Event{Type: EventOfferingsRefreshed, State: c.state})
}

// refreshLoop re-fetches results on an interval so long-open sessions keep
// seeing live availability. Refreshes are paused during quote reconciliation
// and submission.
func (c *Controller) refreshLoop() {
	ticker := time.NewTicker(c.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopRefresh:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.closed || !c.hasCriteria {
				c.mu.Unlock()
				continue
			}
			switch c.state {
			case StateQuoteRefreshing, StateSubmitting:
				c.mu.Unlock()
				continue
			}
			token := uuid.New()
			c.fetchToken = token
			crit := c.criteria
			c.mu.Unlock()

			c.fetch(token, crit)
		}
	}
}

// Offerings returns the current result panel, filtered by the session's
// criteria. Next-available dates are reported only for sold-out rooms.
func (c *Controller) Offerings() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return View{}, ErrSessionClosed
	}

	filtered := catalog.Filter(c.offerings, c.criteria.RoomType, c.criteria.Guests)

	var soldOutDates map[int]string
	for _, o := range c.offerings {
		if o.Available > 0 {
			continue
		}
		date, ok := c.nextAvailable[o.ID]
		if !ok {
			continue
		}
		if soldOutDates == nil {
			soldOutDates = make(map[int]string)
		}
		soldOutDates[o.ID] = date
	}

	return View{
		State:          c.state,
		Offerings:      filtered,
		Recommendation: catalog.Recommend(filtered),
		RoomTypes:      catalog.RoomTypes(c.offerings),
		Locations:      catalog.Locations(c.offerings),
		NextAvailable:  soldOutDates,
		Notice:         c.notice,
	}, nil
}

// SelectRoom opens a draft for one of the current offerings. The draft holds
// a snapshot of the offering; later refreshes do not reprice it.
func (c *Controller) SelectRoom(roomID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}
	switch c.state {
	case StateReady, StateRoomSelected:
	default:
		return ErrInvalidTransition
	}

	var room *catalog.RoomOffering
	for i := range c.offerings {
		if c.offerings[i].ID == roomID {
			room = &c.offerings[i]
			break
		}
	}
	if room == nil || room.Available <= 0 {
		return ErrRoomNotAvailable
	}

	c.draft = booking.NewDraft(*room, c.criteria.Guests)
	c.draftSeq++
	c.confirmation = nil
	c.notice = ""
	c.state = StateRoomSelected
	c.recomputeQuoteLocked()
	c.notifyLocked(Event{Type: EventStateChanged, State: c.state})
	return nil
}

// UpdateDraft applies partial edits to the open draft and reprices it. Room
// and guest counts are clamped, never rejected.
func (c *Controller) UpdateDraft(update DraftUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}
	if c.state != StateRoomSelected || c.draft == nil {
		return ErrNoRoomSelected
	}

	if update.NumberOfRooms != nil {
		c.draft.SetNumberOfRooms(*update.NumberOfRooms)
	}
	if update.Guests != nil {
		c.draft.SetGuests(*update.Guests)
	}
	if update.GuestName != nil {
		c.draft.GuestName = *update.GuestName
	}
	if update.Details != nil {
		c.draft.Details = *update.Details
	}
	c.recomputeQuoteLocked()
	return nil
}

// Quote returns the current displayed quote.
func (c *Controller) Quote() (*booking.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrSessionClosed
	}
	if c.quote == nil {
		return nil, ErrNoRoomSelected
	}
	q := *c.quote
	return &q, nil
}

// Confirm reconciles the draft against live prices and submits the booking.
// The guest is charged the reconciled price, which may differ from the one on
// screen. A cancelled draft invalidates any in-flight confirmation.
func (c *Controller) Confirm(ctx context.Context) (*pricing.Confirmation, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrSessionClosed
	}
	switch c.state {
	case StateQuoteRefreshing, StateSubmitting:
		c.mu.Unlock()
		return nil, ErrAlreadySubmitting
	case StateRoomSelected:
	default:
		c.mu.Unlock()
		return nil, ErrNoRoomSelected
	}
	if c.draft == nil {
		c.mu.Unlock()
		return nil, ErrNoRoomSelected
	}

	// The reconciler works on a detached copy; the live draft is only
	// touched under the lock once the fresh quote is accepted.
	seq := c.draftSeq
	draftCopy := *c.draft
	roomCopy := *c.draft.Room
	draftCopy.Room = &roomCopy
	crit := c.criteria
	c.state = StateQuoteRefreshing
	c.notifyLocked(Event{Type: EventStateChanged, State: c.state})
	c.mu.Unlock()

	quote, fresh, err := c.reconciler.Reconcile(ctx, &draftCopy, crit.CheckIn, crit.CheckOut, crit.Location)

	c.mu.Lock()
	if c.closed || seq != c.draftSeq {
		c.mu.Unlock()
		return nil, ErrNoRoomSelected
	}
	if err != nil {
		// The draft stays open either way; on a stale offer the guest is
		// told to re-search rather than being handed a substitute room.
		if errors.Is(err, booking.ErrStaleOffer) {
			c.notice = noticeStaleOffer
		} else {
			c.notice = submitNotice(err)
		}
		c.state = StateRoomSelected
		c.notifyLocked(Event{Type: EventStateChanged, State: c.state, Notice: c.notice})
		c.mu.Unlock()
		return nil, err
	}

	snapshot := *fresh
	c.draft.Room = &snapshot
	c.draft.NumberOfRooms = quote.NumberOfRooms
	c.draft.Guests = quote.Guests
	c.quote = &quote
	c.state = StateSubmitting
	c.notifyLocked(Event{Type: EventStateChanged, State: c.state})
	req := buildBookingRequest(c.draft, crit, quote)
	c.mu.Unlock()

	conf, err := c.gw.SubmitBooking(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.draftSeq {
		return nil, ErrNoRoomSelected
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("Booking submission failed")
		c.notice = submitNotice(err)
		c.state = StateRoomSelected
		c.notifyLocked(Event{Type: EventStateChanged, State: c.state, Notice: c.notice})
		return nil, err
	}

	c.confirmation = conf
	c.notice = ""
	c.state = StateCompleted
	c.log.Info().Str("booking_id", conf.ID).Msg("Booking completed")
	c.notifyLocked(Event{Type: EventStateChanged, State: c.state})
	result := *conf
	return &result, nil
}

// Cancel abandons the open draft and returns the session to its results.
// Canceling with no draft open succeeds without effect. Any in-flight
// confirmation for the draft is discarded when it lands.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	c.draft = nil
	c.quote = nil
	c.confirmation = nil
	c.draftSeq++
	c.notice = ""
	if c.hasCriteria {
		c.state = StateReady
	} else {
		c.state = StateIdle
	}
	c.notifyLocked(Event{Type: EventStateChanged, State: c.state})
	return nil
}

/// Close ends the session: the debounce timer and refresh loop stop, and all
// further operations fail with ErrSessionClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	close(c.stopRefresh)
}

// Snapshot returns the full externally visible state of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		ID:          c.id,
		State:       c.state,
		Criteria:    c.criteria,
		HasCriteria: c.hasCriteria,
		Notice:      c.notice,
	}
	if c.draft != nil {
		draftCopy := *c.draft
		roomCopy := *c.draft.Room
		draftCopy.Room = &roomCopy
		snap.Draft = &draftCopy
	}
	if c.quote != nil {
		quoteCopy := *c.quote
		snap.Quote = &quoteCopy
	}
	if c.confirmation != nil {
		confCopy := *c.confirmation
		snap.Confirmation = &confCopy
	}
	return snap
}

// State reports the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// recomputeQuoteLocked reprices the open draft at its snapshot rate. Caller
// holds c.mu.
func (c *Controller) recomputeQuoteLocked() {
	if c.draft == nil {
		c.quote = nil
		return
	}
	quote := booking.ComputeQuote(
		c.draft.Room.CurrentPrice,
		c.criteria.CheckIn, c.criteria.CheckOut,
		c.draft.NumberOfRooms, c.draft.Guests,
		time.Now(),
	)
	c.quote = &quote
}

// notifyLocked pushes an event to watchers. The notifier must not block.
func (c *Controller) notifyLocked(event Event) {
	if c.notifier != nil {
		c.notifier.Notify(c.id, event)
	}
}

func buildBookingRequest(draft *booking.Draft, crit Criteria, quote booking.Quote) pricing.BookingRequest {
	return pricing.BookingRequest{
		RoomID:        draft.Room.ID,
		Location:      draft.Room.Location,
		GuestName:     draft.GuestName,
		CheckIn:       crit.CheckIn.Format(pricing.DateLayout),
		CheckOut:      crit.CheckOut.Format(pricing.DateLayout),
		Guests:        draft.Guests,
		NumberOfRooms: draft.NumberOfRooms,
		PricePerNight: quote.PricePerNight,
		TotalPrice:    quote.Total,
		GuestDetails:  draft.Details,
	}
}

// submitNotice turns an upstream error into the message shown to the guest.
// Server-provided rejection details are passed through verbatim.
func submitNotice(err error) string {
	var ve *pricing.ValidationError
	if errors.As(err, &ve) && ve.Detail != "" {
		return ve.Detail
	}
	var se *pricing.ServiceError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return noticeSubmitFailed
}
