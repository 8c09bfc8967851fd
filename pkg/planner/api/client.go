// Package api is the HTTP client for the wayfarer trip service. All calls
// are single best-effort attempts; there is no retry or backoff, failures
// surface as TransportError and abandoned contexts as context.Canceled.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-app/wayfarer/pkg/models"
)

// TransportError is a failed call: a network error or a non-2xx response.
// Message carries the server's {error} or {details} field verbatim when one
// was sent.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	baseURL string
	httpc   *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client, mainly for tests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListTrips(ctx context.Context) ([]models.Trip, error) {
	var trips []models.Trip
	if err := c.do(ctx, http.MethodGet, "/api/trips", nil, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *Client) GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	if err := c.do(ctx, http.MethodGet, "/api/trips/"+id.String(), nil, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *Client) CreateTrip(ctx context.Context, req models.CreateTripRequest) (*models.Trip, error) {
	var trip models.Trip
	if err := c.do(ctx, http.MethodPost, "/api/trips", req, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *Client) UpdateTrip(ctx context.Context, id uuid.UUID, req models.UpdateTripRequest) (*models.Trip, error) {
	var trip models.Trip
	if err := c.do(ctx, http.MethodPut, "/api/trips/"+id.String(), req, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (c *Client) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/trips/"+id.String(), nil, nil)
}

func (c *Client) CreateActivity(ctx context.Context, tripID uuid.UUID, req models.CreateActivityRequest) (*models.Activity, error) {
	var activity models.Activity
	if err := c.do(ctx, http.MethodPost, "/api/trips/"+tripID.String()+"/activities", req, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (c *Client) UpdateActivity(ctx context.Context, id uuid.UUID, req models.UpdateActivityRequest) (*models.Activity, error) {
	var activity models.Activity
	if err := c.do(ctx, http.MethodPut, "/api/activities/"+id.String(), req, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (c *Client) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/activities/"+id.String(), nil, nil)
}

func (c *Client) SearchPlaces(ctx context.Context, query string) ([]models.PlaceCandidate, error) {
	var resp models.PlaceSearchResponse
	path := "/api/places/search?query=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Features, nil
}

// do runs one request/response cycle. Unknown response fields are ignored so
// server additions never break the client.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Context cancellation passes through as-is so callers can discard
		// it silently instead of surfacing a transport failure.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &TransportError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to decode response: %v", err)}
		}
	}
	return nil
}

// errorMessage pulls the {error} or {details} field out of a failure body.
func errorMessage(raw []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Details != "" {
			return payload.Details
		}
	}
	return strings.TrimSpace(string(raw))
}
