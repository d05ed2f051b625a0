package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/luxestay/booking-api/internal/domain/booking"
	"github.com/luxestay/booking-api/internal/pkg/pricing"
	"github.com/luxestay/booking-api/internal/pkg/response"
	"github.com/luxestay/booking-api/internal/pkg/validator"
)

// Handler exposes the session workflow over HTTP.
type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// Create opens a new session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id := h.service.Create()
	ctrl, err := h.service.Get(id)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, toSessionResponse(ctrl.Snapshot()))
}

// Get returns the full session state.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	response.OK(w, toSessionResponse(ctrl.Snapshot()))
}

// Delete ends a session.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Close(id); err != nil {
		response.NotFound(w, "Session not found")
		return
	}
	response.NoContent(w)
}

// SetCriteria applies search criteria and schedules a debounced search.
func (h *Handler) SetCriteria(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req CriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrs := validator.Validate(req); fieldErrs != nil {
		response.ValidationError(w, fieldErrs)
		return
	}

	crit, err := req.toCriteria()
	if err != nil {
		response.BadRequest(w, "Invalid date. Use YYYY-MM-DD")
		return
	}

	fieldErrs, err := ctrl.SetCriteria(crit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if fieldErrs != nil {
		response.ValidationError(w, fieldErrs)
		return
	}
	response.OK(w, toSessionResponse(ctrl.Snapshot()))
}

// Search triggers an immediate fetch, bypassing the debounce window.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := ctrl.SearchNow(); err != nil {
		h.writeError(w, err)
		return
	}
	view, err := ctrl.Offerings()
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, toOfferingsResponse(view))
}

// Offerings returns the current filtered result panel.
func (h *Handler) Offerings(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	view, err := ctrl.Offerings()
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, toOfferingsResponse(view))
}

// SelectRoom opens a booking draft for one of the offered rooms.
func (h *Handler) SelectRoom(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req SelectRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrs := validator.Validate(req); fieldErrs != nil {
		response.ValidationError(w, fieldErrs)
		return
	}

	if err := ctrl.SelectRoom(req.RoomID); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, toSessionResponse(ctrl.Snapshot()))
}

// UpdateDraft edits the open draft and reprices it.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req DraftUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrs := validator.Validate(req); fieldErrs != nil {
		response.ValidationError(w, fieldErrs)
		return
	}

	update := DraftUpdate{
		NumberOfRooms: req.NumberOfRooms,
		Guests:        req.Guests,
		GuestName:     req.GuestName,
	}
	if err := ctrl.UpdateDraft(update); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, toSessionResponse(ctrl.Snapshot()))
}

// Quote returns the currently displayed quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	quote, err := ctrl.Quote()
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, quote)
}

// Confirm reconciles the quote against live prices and submits the booking.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if fieldErrs := validator.Validate(req); fieldErrs != nil {
		response.ValidationError(w, fieldErrs)
		return
	}

	details := req.GuestDetails.toDetails()
	update := DraftUpdate{GuestName: &req.GuestName, Details: &details}
	if err := ctrl.UpdateDraft(update); err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := ctrl.Confirm(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, toSessionResponse(ctrl.Snapshot()))
}

// Cancel abandons the open draft.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := ctrl.Cancel(); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, toSessionResponse(ctrl.Snapshot()))
}

// Watch upgrades to a websocket that streams session events.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		response.NotFound(w, "Event streaming is not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := h.service.Get(id); err != nil {
		response.NotFound(w, "Session not found")
		return
	}
	h.hub.ServeWS(w, r, id)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Controller, bool) {
	id := chi.URLParam(r, "id")
	ctrl, err := h.service.Get(id)
	if err != nil {
		response.NotFound(w, "Session not found")
		return nil, false
	}
	return ctrl, true
}

// writeError maps workflow and upstream errors onto HTTP statuses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		response.NotFound(w, "Session not found")
	case errors.Is(err, ErrSessionClosed):
		response.Error(w, http.StatusGone, "SESSION_CLOSED", "Session has ended")
	case errors.Is(err, ErrNoRoomSelected):
		response.Conflict(w, "No room is selected in this session")
	case errors.Is(err, ErrRoomNotAvailable):
		response.Conflict(w, "Room is not available")
	case errors.Is(err, ErrAlreadySubmitting):
		response.Conflict(w, "A booking submission is already in progress")
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, "Operation not allowed in the session's current state")
	case errors.Is(err, booking.ErrStaleOffer):
		response.Error(w, http.StatusConflict, "STALE_OFFER", "This room is no longer available for your dates. Please search again.")
	default:
		var ve *pricing.ValidationError
		if errors.As(err, &ve) {
			response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "BOOKING_REJECTED", ve.Error(), nil)
			return
		}
		var se *pricing.ServiceError
		var ne *pricing.NetworkError
		if errors.As(err, &se) || errors.As(err, &ne) {
			log.Warn().Err(err).Msg("Upstream reservation service error")
			response.BadGateway(w, "Reservation service is unavailable")
			return
		}
		log.Error().Err(err).Msg("Unhandled session error")
		response.InternalError(w)
	}
}
