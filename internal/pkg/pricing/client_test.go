package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestFetchCatalogSendsDateRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rooms" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		q := r.URL.Query()
		if q.Get("check_in") != "2026-09-10" || q.Get("check_out") != "2026-09-13" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if q.Get("location") != "Chennai" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode([]CatalogRecord{
			{RoomID: 1, Type: "Standard Single", BasePrice: 2499, Available: 5, TotalRooms: 5, Capacity: 1},
			{RoomID: 4, Type: "Suite", BasePrice: 7499, Available: 2, TotalRooms: 2, Capacity: 3},
		})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, "LuxeStay/1.0")
	records, err := client.FetchCatalog(context.Background(), testDate(t, "2026-09-10"), testDate(t, "2026-09-13"), "Chennai")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].RoomID != 1 || records[1].Type != "Suite" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestFetchCatalogServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "database unavailable"})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, "LuxeStay/1.0")
	_, err := client.FetchCatalog(context.Background(), testDate(t, "2026-09-10"), testDate(t, "2026-09-13"), "")
	if err == nil {
		t.Fatal("expected error")
	}

	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if se.Status != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", se.Status)
	}
	if se.Detail != "database unavailable" {
		t.Fatalf("expected server detail, got %q", se.Detail)
	}
}

func TestFetchCatalogNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, time.Second, "LuxeStay/1.0")
	_, err := client.FetchCatalog(context.Background(), testDate(t, "2026-09-10"), testDate(t, "2026-09-13"), "")
	if err == nil {
		t.Fatal("expected error")
	}

	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
}

func TestFetchNextAvailableConvertsKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/next-available-dates" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"3":"2026-10-01","5":"2026-10-04"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, "LuxeStay/1.0")
	dates, err := client.FetchNextAvailable(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(dates))
	}
	if dates[3] != "2026-10-01" || dates[5] != "2026-10-04" {
		t.Fatalf("unexpected dates: %v", dates)
	}
}

func TestSubmitBookingSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/bookings" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var req BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.RoomID != 2 || req.NumberOfRooms != 2 || req.TotalPrice != 4500 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Confirmation{ID: "abc123", Message: "Booking confirmed"})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, "LuxeStay/1.0")
	conf, err := client.SubmitBooking(context.Background(), BookingRequest{
		RoomID:        2,
		GuestName:     "Asha Nair",
		CheckIn:       "2026-09-10",
		CheckOut:      "2026-09-13",
		Guests:        6,
		NumberOfRooms: 2,
		PricePerNight: 1000,
		TotalPrice:    4500,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if conf.ID != "abc123" {
		t.Fatalf("expected confirmation id abc123, got %q", conf.ID)
	}
}

func TestSubmitBookingRejectionSurfacesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Room is not available for the selected dates"})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, "LuxeStay/1.0")
	_, err := client.SubmitBooking(context.Background(), BookingRequest{RoomID: 1})
	if err == nil {
		t.Fatal("expected error")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if ve.Detail != "Room is not available for the selected dates" {
		t.Fatalf("expected server detail verbatim, got %q", ve.Detail)
	}
}

func TestSubmitBookingServerErrorIsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, "LuxeStay/1.0")
	_, err := client.SubmitBooking(context.Background(), BookingRequest{RoomID: 1})
	if err == nil {
		t.Fatal("expected error")
	}

	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("expected *ServiceError, got %T: %v", err, err)
	}
	if se.Status != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", se.Status)
	}
}
