// Package libraryapi is a thin client for the university library's own
// seat management API.  The integration is optional: when
// LIBRARY_API_ENABLED is false the router never mounts its endpoints and
// the client is never constructed.
package libraryapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Client talks to the upstream library API.  Requests carry the service
// credentials; the student's own token is forwarded in a User-Token
// header the way the upstream expects.
type Client struct {
	BaseURL   string
	APIKey    string
	APISecret string
	HTTP      *http.Client
}

// Enabled reports whether the integration is switched on.
func Enabled() bool {
	return os.Getenv("LIBRARY_API_ENABLED") == "true"
}

// NewFromEnv builds a client from LIBRARY_API_* environment variables.
func NewFromEnv() *Client {
	base := os.Getenv("LIBRARY_API_BASE_URL")
	if base == "" {
		base = "https://library.your-university.edu/api"
	}
	timeout := 10 * time.Second
	if v := os.Getenv("LIBRARY_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	return &Client{
		BaseURL:   base,
		APIKey:    os.Getenv("LIBRARY_API_KEY"),
		APISecret: os.Getenv("LIBRARY_API_SECRET"),
		HTTP:      &http.Client{Timeout: timeout},
	}
}

// do performs one request and decodes the JSON response into a generic
// map, which the handler returns verbatim.  Upstream formats vary per
// deployment, so no schema is imposed here.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, userToken string) (map[string]interface{}, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Library-Seat-Booking-System/1.0")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("X-API-Secret", c.APISecret)
	if userToken != "" {
		req.Header.Set("User-Token", userToken)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("library api: %s %s returned %d", method, path, resp.StatusCode)
	}

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("library api: decode response: %w", err)
	}
	return out, nil
}

// Seats lists the library's seats, optionally filtered by room.
func (c *Client) Seats(ctx context.Context, roomID string) (map[string]interface{}, error) {
	q := url.Values{}
	if roomID != "" {
		q.Set("room_id", roomID)
	}
	return c.do(ctx, http.MethodGet, "/seats", q, nil, "")
}

// SeatAvailability returns the booked slots of one seat for a date.
func (c *Client) SeatAvailability(ctx context.Context, seatID, date string) (map[string]interface{}, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	return c.do(ctx, http.MethodGet, "/seats/availability/"+url.PathEscape(seatID), q, nil, "")
}

// Rooms lists the library's rooms.
func (c *Client) Rooms(ctx context.Context) (map[string]interface{}, error) {
	return c.do(ctx, http.MethodGet, "/rooms", nil, nil, "")
}

// CreateBooking forwards a booking request on behalf of the student.
func (c *Client) CreateBooking(ctx context.Context, userToken string, body io.Reader) (map[string]interface{}, error) {
	return c.do(ctx, http.MethodPost, "/bookings/create", nil, body, userToken)
}

// CancelBooking cancels an upstream booking on behalf of the student.
func (c *Client) CancelBooking(ctx context.Context, userToken, bookingID string) (map[string]interface{}, error) {
	return c.do(ctx, http.MethodPost, "/bookings/cancel/"+url.PathEscape(bookingID), nil, nil, userToken)
}

// BookingHistory fetches the student's upstream booking history.
func (c *Client) BookingHistory(ctx context.Context, userToken string) (map[string]interface{}, error) {
	return c.do(ctx, http.MethodGet, "/bookings/history", nil, nil, userToken)
}
