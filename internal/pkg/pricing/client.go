package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of an error response we keep for messages.
const maxErrorBody = 1024

// Client is the HTTP gateway to the remote reservation/pricing service. It
// holds no state beyond the underlying connection pool.
type Client struct {
	baseURL string
	ua      string
	http    *http.Client
}

// NewClient creates a reservation service client.
func NewClient(baseURL string, timeout time.Duration, ua string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		ua:      ua,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// FetchCatalog returns the room catalog with availability for the date range.
// The location parameter is optional; an empty string queries all locations.
func (c *Client) FetchCatalog(ctx context.Context, checkIn, checkOut time.Time, location string) ([]CatalogRecord, error) {
	q := url.Values{}
	q.Set("check_in", checkIn.Format(DateLayout))
	q.Set("check_out", checkOut.Format(DateLayout))
	if location != "" {
		q.Set("location", location)
	}

	var records []CatalogRecord
	if err := c.getJSON(ctx, "fetch catalog", "/api/rooms", q, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchPricing returns the dynamically computed nightly rates for the date
// range, keyed by room id.
func (c *Client) FetchPricing(ctx context.Context, checkIn, checkOut time.Time) ([]PricingRecord, error) {
	q := url.Values{}
	q.Set("check_in", checkIn.Format(DateLayout))
	q.Set("check_out", checkOut.Format(DateLayout))

	var records []PricingRecord
	if err := c.getJSON(ctx, "fetch pricing", "/api/dynamic-pricing", q, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchNextAvailable returns the next free date for rooms that are currently
// sold out, keyed by room id.
func (c *Client) FetchNextAvailable(ctx context.Context) (map[int]string, error) {
	// JSON object keys are strings on the wire even though room ids are ints.
	var raw map[string]string
	if err := c.getJSON(ctx, "fetch next available", "/api/next-available-dates", nil, &raw); err != nil {
		return nil, err
	}

	dates := make(map[int]string, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		dates[id] = v
	}
	return dates, nil
}

// FetchRoomStats returns chain-wide occupancy statistics.
func (c *Client) FetchRoomStats(ctx context.Context) (*RoomStats, error) {
	var stats RoomStats
	if err := c.getJSON(ctx, "fetch room stats", "/api/room-stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SubmitBooking submits a booking for the reconciled price. A rejection with a
// client-error status is returned as *ValidationError carrying the server's
// message; transport failures as *NetworkError.
func (c *Client) SubmitBooking(ctx context.Context, booking BookingRequest) (*Confirmation, error) {
	const op = "submit booking"

	payload, err := json.Marshal(booking)
	if err != nil {
		return nil, fmt.Errorf("pricing %s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/bookings", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("pricing %s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return nil, &NetworkError{Op: op, Err: readErr}
	}

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		var conf Confirmation
		if err := json.Unmarshal(body, &conf); err != nil {
			return nil, &ServiceError{Op: op, Status: resp.StatusCode, Detail: "malformed confirmation body"}
		}
		return &conf, nil
	}

	detail := extractDetail(body)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &ValidationError{Detail: detail}
	}
	return nil, &ServiceError{Op: op, Status: resp.StatusCode, Detail: detail}
}

func (c *Client) getJSON(ctx context.Context, op, path string, q url.Values, v interface{}) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("pricing %s: build request: %w", op, err)
	}
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ServiceError{Op: op, Status: resp.StatusCode, Detail: extractDetail(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &ServiceError{Op: op, Status: resp.StatusCode, Detail: "malformed response body"}
	}
	return nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.ua != "" {
		req.Header.Set("User-Agent", c.ua)
	}
}

// extractDetail pulls the server's human-readable message out of an error
// body, falling back to the raw (truncated) body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}

	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
