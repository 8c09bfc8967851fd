package activities

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/pkg/models"
	"github.com/wayfarer-app/wayfarer/internal/observability/metrics"
)

// TripChecker verifies a parent trip exists before an activity is attached
// to it. Activities never exist without a parent trip.
type TripChecker interface {
	GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error)
}

type Service interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error)
	CreateActivity(ctx context.Context, tripID uuid.UUID, req models.CreateActivityRequest) (*models.Activity, error)
	UpdateActivity(ctx context.Context, id uuid.UUID, req models.UpdateActivityRequest) (*models.Activity, error)
	DeleteActivity(ctx context.Context, id uuid.UUID) error
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	trips  TripChecker
}

func NewService(repo Repository, trips TripChecker, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		trips:  trips,
	}
}

func (s *ServiceImpl) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error) {
	return s.repo.ListByTrip(ctx, tripID)
}

// CreateActivity attaches a new activity to a trip. Status defaults to
// "planned"; a missing date means unscheduled, a malformed one is rejected.
func (s *ServiceImpl) CreateActivity(ctx context.Context, tripID uuid.UUID, req models.CreateActivityRequest) (*models.Activity, error) {
	ctx, span := otel.Tracer("ActivityService").Start(ctx, "CreateActivity")
	defer span.End()

	l := s.logger.With(zap.String("method", "CreateActivity"), zap.String("tripID", tripID.String()))

	if req.Name == "" {
		return nil, models.ErrActivityNameEmpty
	}

	if _, err := s.trips.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		TripID:   tripID,
		Name:     req.Name,
		Type:     models.ActivityExcursion,
		Location: req.Location,
		Notes:    req.Notes,
		Status:   models.StatusPlanned,
	}
	if req.Type != nil {
		activity.Type = models.ActivityType(*req.Type)
	}
	if req.Status != nil {
		activity.Status = models.ActivityStatus(*req.Status)
	}
	if req.Date != nil && *req.Date != "" {
		ts, err := models.ParseDateTime("date", *req.Date)
		if err != nil {
			return nil, err
		}
		activity.Date = ts
	}

	created, err := s.repo.CreateActivity(ctx, activity)
	if err != nil {
		l.Error("Failed to create activity", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	metrics.Get().ActivitiesCreatedTotal.Add(ctx, 1)
	l.Info("Activity created", zap.String("activityID", created.ID.String()))
	span.SetStatus(codes.Ok, "Activity created")
	return created, nil
}

func (s *ServiceImpl) UpdateActivity(ctx context.Context, id uuid.UUID, req models.UpdateActivityRequest) (*models.Activity, error) {
	ctx, span := otel.Tracer("ActivityService").Start(ctx, "UpdateActivity")
	defer span.End()

	l := s.logger.With(zap.String("method", "UpdateActivity"), zap.String("activityID", id.String()))

	set := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, models.ErrActivityNameEmpty
		}
		set["name"] = *req.Name
	}
	if req.Type != nil {
		set["type"] = *req.Type
	}
	if req.Date != nil {
		if *req.Date == "" {
			set["date"] = nil
		} else {
			ts, err := models.ParseDateTime("date", *req.Date)
			if err != nil {
				return nil, err
			}
			set["date"] = *ts
		}
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}

	updated, err := s.repo.UpdateActivity(ctx, id, set)
	if err != nil {
		l.Error("Failed to update activity", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Activity updated")
	return updated, nil
}

func (s *ServiceImpl) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("ActivityService").Start(ctx, "DeleteActivity")
	defer span.End()

	if err := s.repo.DeleteActivity(ctx, id); err != nil {
		s.logger.Error("Failed to delete activity", zap.String("activityID", id.String()), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository operation failed")
		return err
	}

	span.SetStatus(codes.Ok, "Activity deleted")
	return nil
}
