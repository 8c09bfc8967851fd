package models

import (
	"time"

	"github.com/google/uuid"
)

// Place groups the fields stored for a trip endpoint. Label is the free text
// the user typed, PlaceName the canonical geocoded name, PlaceID the stable
// id assigned by the upstream geocoder.
type Place struct {
	Label     *string  `json:"label"`
	PlaceName *string  `json:"place_name"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	PlaceID   *string  `json:"place_id"`
}

// Resolved reports whether the place carries usable coordinates.
func (p Place) Resolved() bool {
	return p.Lat != nil && p.Lng != nil
}

// Trip is the top-level planning unit.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Origin      Place      `json:"origin"`
	Destination Place      `json:"destination"`
	IsRoundTrip bool       `json:"is_round_trip"`
	StartDate   *Date      `json:"start_date"`
	EndDate     *Date      `json:"end_date"`
	Summary     *string    `json:"summary"`
	People      []string   `json:"people"`
	CreatedAt   time.Time  `json:"created_at"`
	Activities  []Activity `json:"activities,omitempty"`
}

// CreateTripRequest is the POST /api/trips payload. Dates arrive as
// YYYY-MM-DD strings and are parsed fail-fast by the service.
type CreateTripRequest struct {
	Name        string   `json:"name" binding:"required"`
	Origin      *Place   `json:"origin"`
	Destination *Place   `json:"destination"`
	IsRoundTrip bool     `json:"is_round_trip"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Summary     *string  `json:"summary"`
	People      []string `json:"people"`
}

// UpdateTripRequest is the PUT /api/trips/{id} payload. Every field is
// optional; only the ones present are applied.
type UpdateTripRequest struct {
	Name        *string   `json:"name"`
	Destination *Place    `json:"destination"`
	StartDate   *string   `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	Summary     *string   `json:"summary"`
	People      *[]string `json:"people"`
}

// CalendarDayResponse answers the day-click query for a trip calendar.
type CalendarDayResponse struct {
	Day        string     `json:"day"`
	InRange    bool       `json:"in_range"`
	Activities []Activity `json:"activities"`
}
