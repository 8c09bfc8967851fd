package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityType string

const (
	ActivityExcursion  ActivityType = "excursion"
	ActivityRestaurant ActivityType = "restaurant"
	ActivityFlight     ActivityType = "flight"
	ActivityLodging    ActivityType = "lodging"
)

type ActivityStatus string

const (
	StatusPlanned   ActivityStatus = "planned"
	StatusBooked    ActivityStatus = "booked"
	StatusCompleted ActivityStatus = "completed"
)

// Activity is a single scheduled or unscheduled item within a trip. A nil
// Date means unscheduled: the activity never matches a calendar day but is
// still listed.
type Activity struct {
	ID       uuid.UUID      `json:"id" db:"id"`
	TripID   uuid.UUID      `json:"trip_id" db:"trip_id"`
	Name     string         `json:"name" db:"name"`
	Type     ActivityType   `json:"type" db:"type"`
	Date     *time.Time     `json:"date" db:"date"`
	Location *string        `json:"location" db:"location"`
	Notes    *string        `json:"notes" db:"notes"`
	Status   ActivityStatus `json:"status" db:"status"`
}

// CreateActivityRequest is the POST /api/trips/{id}/activities payload.
type CreateActivityRequest struct {
	Name     string  `json:"name" binding:"required"`
	Type     *string `json:"type"`
	Date     *string `json:"date"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
	Status   *string `json:"status"`
}

// UpdateActivityRequest is the PUT /api/activities/{id} payload.
type UpdateActivityRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	Date     *string `json:"date"`
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
	Status   *string `json:"status"`
}
