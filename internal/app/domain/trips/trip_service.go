package trips

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/pkg/models"
	"github.com/wayfarer-app/wayfarer/internal/observability/metrics"
	"github.com/wayfarer-app/wayfarer/pkg/planner/calendar"
)

// ActivityLister is the slice of the activities domain the trip service
// needs to hydrate a trip.
type ActivityLister interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error)
}

type Service interface {
	ListTrips(ctx context.Context) ([]models.Trip, error)
	GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	CreateTrip(ctx context.Context, req models.CreateTripRequest) (*models.Trip, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, req models.UpdateTripRequest) (*models.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
	CalendarDay(ctx context.Context, id uuid.UUID, day string) (*models.CalendarDayResponse, error)
}

type ServiceImpl struct {
	logger     *zap.Logger
	repo       Repository
	activities ActivityLister
}

func NewService(repo Repository, activities ActivityLister, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repo:       repo,
		activities: activities,
	}
}

func (s *ServiceImpl) ListTrips(ctx context.Context) ([]models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListTrips")
	defer span.End()

	trips, err := s.repo.ListTrips(ctx)
	if err != nil {
		s.logger.Error("Failed to list trips", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	span.SetStatus(codes.Ok, "Trips listed")
	return trips, nil
}

// GetTrip returns a trip with its activities attached, in insertion order.
func (s *ServiceImpl) GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTrip")
	defer span.End()

	l := s.logger.With(zap.String("method", "GetTrip"), zap.String("tripID", id.String()))

	trip, err := s.repo.GetTrip(ctx, id)
	if err != nil {
		l.Error("Failed to get trip", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, err
	}

	activities, err := s.activities.ListByTrip(ctx, id)
	if err != nil {
		l.Error("Failed to load trip activities", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	trip.Activities = activities

	span.SetStatus(codes.Ok, "Trip retrieved")
	return trip, nil
}

// CreateTrip validates and persists a new trip. A round trip with no
// resolved destination falls back to the origin at this point; a trip
// without destination coordinates after that is rejected. Dates are not
// cross-checked against each other on purpose: an inverted range is stored
// as-is and simply renders an empty calendar.
func (s *ServiceImpl) CreateTrip(ctx context.Context, req models.CreateTripRequest) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip")
	defer span.End()

	l := s.logger.With(zap.String("method", "CreateTrip"), zap.String("name", req.Name))

	if req.Name == "" {
		return nil, models.ErrTripNameEmpty
	}

	trip := &models.Trip{
		Name:        req.Name,
		IsRoundTrip: req.IsRoundTrip,
		Summary:     req.Summary,
		People:      req.People,
	}
	if trip.People == nil {
		trip.People = []string{}
	}
	if req.Origin != nil {
		trip.Origin = *req.Origin
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}

	// Round-trip defaulting re-applied at submission time.
	if trip.IsRoundTrip && !trip.Destination.Resolved() && trip.Origin.Resolved() {
		trip.Destination = trip.Origin
	}
	if !trip.Destination.Resolved() {
		return nil, models.ErrMissingCoordinates
	}

	if req.StartDate != nil {
		d, err := models.ParseDate("start_date", *req.StartDate)
		if err != nil {
			return nil, err
		}
		trip.StartDate = d
	}
	if req.EndDate != nil {
		d, err := models.ParseDate("end_date", *req.EndDate)
		if err != nil {
			return nil, err
		}
		trip.EndDate = d
	}

	created, err := s.repo.CreateTrip(ctx, trip)
	if err != nil {
		l.Error("Failed to create trip", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	metrics.Get().TripsCreatedTotal.Add(ctx, 1)
	l.Info("Trip created", zap.String("tripID", created.ID.String()))
	span.SetStatus(codes.Ok, "Trip created")
	return created, nil
}

func (s *ServiceImpl) UpdateTrip(ctx context.Context, id uuid.UUID, req models.UpdateTripRequest) (*models.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "UpdateTrip")
	defer span.End()

	l := s.logger.With(zap.String("method", "UpdateTrip"), zap.String("tripID", id.String()))

	set := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, models.ErrTripNameEmpty
		}
		set["name"] = *req.Name
	}
	if req.Destination != nil {
		dst := req.Destination
		if (dst.Lat == nil) != (dst.Lng == nil) {
			return nil, models.ErrCoordinatePair
		}
		if dst.Lat != nil {
			set["destination_lat"] = *dst.Lat
			set["destination_lng"] = *dst.Lng
		}
		if dst.Label != nil || dst.PlaceName != nil {
			set["destination"] = coalesce(dst.Label, dst.PlaceName)
			set["destination_place_name"] = dst.PlaceName
		}
		if dst.PlaceID != nil {
			set["destination_place_id"] = *dst.PlaceID
		}
	}
	if req.StartDate != nil {
		d, err := models.ParseDate("start_date", *req.StartDate)
		if err != nil {
			return nil, err
		}
		set["start_date"] = d.Time
	}
	if req.EndDate != nil {
		d, err := models.ParseDate("end_date", *req.EndDate)
		if err != nil {
			return nil, err
		}
		set["end_date"] = d.Time
	}
	if req.Summary != nil {
		set["summary"] = *req.Summary
	}
	if req.People != nil {
		set["people"] = *req.People
	}

	updated, err := s.repo.UpdateTrip(ctx, id, set)
	if err != nil {
		l.Error("Failed to update trip", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Trip updated")
	return updated, nil
}

func (s *ServiceImpl) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("TripService").Start(ctx, "DeleteTrip")
	defer span.End()

	if err := s.repo.DeleteTrip(ctx, id); err != nil {
		s.logger.Error("Failed to delete trip", zap.String("tripID", id.String()), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return err
	}

	span.SetStatus(codes.Ok, "Trip deleted")
	return nil
}

// CalendarDay answers the date-click query: in-range flag plus the day's
// activities in insertion order.
func (s *ServiceImpl) CalendarDay(ctx context.Context, id uuid.UUID, day string) (*models.CalendarDayResponse, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CalendarDay")
	defer span.End()

	clicked, err := models.ParseDate("day", day)
	if err != nil {
		return nil, err
	}

	trip, err := s.GetTrip(ctx, id)
	if err != nil {
		return nil, err
	}

	ix := calendar.New(
		dateTime(trip.StartDate),
		dateTime(trip.EndDate),
		trip.Activities,
		func(a models.Activity) *time.Time { return a.Date },
	)
	result := ix.Click(clicked.Time)

	span.SetAttributes(attribute.Int("activities.count", len(result.Items)))
	span.SetStatus(codes.Ok, "Calendar day resolved")
	return &models.CalendarDayResponse{
		Day:        clicked.String(),
		InRange:    result.InRange,
		Activities: result.Items,
	}, nil
}

func dateTime(d *models.Date) *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

func coalesce(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
