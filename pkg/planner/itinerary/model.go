// Package itinerary holds the in-memory trip aggregate the dashboard works
// against. Every mutation is confirm-then-apply: the server call happens
// first and the local copy is only touched once it succeeds, so a failed
// call leaves prior state fully intact.
package itinerary

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-app/wayfarer/pkg/models"
	"github.com/wayfarer-app/wayfarer/pkg/planner/calendar"
)

// API is the slice of the trip service the model depends on.
type API interface {
	GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, req models.UpdateTripRequest) (*models.Trip, error)
	CreateActivity(ctx context.Context, tripID uuid.UUID, req models.CreateActivityRequest) (*models.Activity, error)
	UpdateActivity(ctx context.Context, id uuid.UUID, req models.UpdateActivityRequest) (*models.Activity, error)
}

// Model is the aggregate for one trip. It is meant for a single event loop:
// all mutation goes through its methods, there are no concurrent writers.
type Model struct {
	api  API
	trip models.Trip
}

// Load fetches the trip and builds its model.
func Load(ctx context.Context, api API, id uuid.UUID) (*Model, error) {
	trip, err := api.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}
	return New(api, *trip), nil
}

func New(api API, trip models.Trip) *Model {
	return &Model{api: api, trip: trip}
}

// Trip returns the current aggregate state.
func (m *Model) Trip() models.Trip {
	return m.trip
}

// SaveSummary persists the new summary text, then applies the confirmed
// value locally.
func (m *Model) SaveSummary(ctx context.Context, text string) error {
	updated, err := m.api.UpdateTrip(ctx, m.trip.ID, models.UpdateTripRequest{Summary: &text})
	if err != nil {
		return err
	}
	m.trip.Summary = updated.Summary
	return nil
}

// AddActivity creates a new activity on the server and appends the
// confirmed entity, with its assigned id, to the list. An empty name is
// rejected locally without a server call.
func (m *Model) AddActivity(ctx context.Context, req models.CreateActivityRequest) (*models.Activity, error) {
	if req.Name == "" {
		return nil, models.ErrActivityNameEmpty
	}
	created, err := m.api.CreateActivity(ctx, m.trip.ID, req)
	if err != nil {
		return nil, err
	}
	m.upsert(*created)
	return created, nil
}

// UpsertActivity saves an edit and applies the confirmed entity: replaced
// in place when the id is already present, appended otherwise. Edit and
// create confirmations flow through the same path.
func (m *Model) UpsertActivity(ctx context.Context, id uuid.UUID, req models.UpdateActivityRequest) (*models.Activity, error) {
	if req.Name != nil && *req.Name == "" {
		return nil, models.ErrActivityNameEmpty
	}
	updated, err := m.api.UpdateActivity(ctx, id, req)
	if err != nil {
		return nil, err
	}
	m.upsert(*updated)
	return updated, nil
}

func (m *Model) upsert(confirmed models.Activity) {
	for i, existing := range m.trip.Activities {
		if existing.ID == confirmed.ID {
			m.trip.Activities[i] = confirmed
			return
		}
	}
	m.trip.Activities = append(m.trip.Activities, confirmed)
}

// Calendar builds the day index for the current state. Rebuild after each
// mutation; the index itself is immutable.
func (m *Model) Calendar() *calendar.Index[models.Activity] {
	var start, end *time.Time
	if m.trip.StartDate != nil {
		start = &m.trip.StartDate.Time
	}
	if m.trip.EndDate != nil {
		end = &m.trip.EndDate.Time
	}
	return calendar.New(start, end, m.trip.Activities, func(a models.Activity) *time.Time {
		return a.Date
	})
}

// Day answers a date click against the current state.
func (m *Model) Day(day time.Time) calendar.Day[models.Activity] {
	return m.Calendar().Click(day)
}
