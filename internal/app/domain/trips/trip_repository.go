package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/pkg/models"
)

// PGX is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type PGX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository defines the persistence contract for trips.
type Repository interface {
	ListTrips(ctx context.Context) ([]models.Trip, error)
	GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error)
	CreateTrip(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	UpdateTrip(ctx context.Context, id uuid.UUID, set map[string]any) (*models.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	db     PGX
	logger *zap.Logger
}

func NewRepository(db PGX, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{db: db, logger: logger}
}

const tripColumns = `id, name,
	origin, origin_place_name, origin_lat, origin_lng, origin_place_id,
	destination, destination_place_name, destination_lat, destination_lng, destination_place_id,
	is_round_trip, start_date, end_date, summary, people, created_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func scanTrip(row pgx.Row) (*models.Trip, error) {
	var t models.Trip
	var startDate, endDate *time.Time
	err := row.Scan(
		&t.ID, &t.Name,
		&t.Origin.Label, &t.Origin.PlaceName, &t.Origin.Lat, &t.Origin.Lng, &t.Origin.PlaceID,
		&t.Destination.Label, &t.Destination.PlaceName, &t.Destination.Lat, &t.Destination.Lng, &t.Destination.PlaceID,
		&t.IsRoundTrip, &startDate, &endDate, &t.Summary, &t.People, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if startDate != nil {
		d := models.DateOf(*startDate)
		t.StartDate = &d
	}
	if endDate != nil {
		d := models.DateOf(*endDate)
		t.EndDate = &d
	}
	if t.People == nil {
		t.People = []string{}
	}
	return &t, nil
}

func (r *RepositoryImpl) ListTrips(ctx context.Context) ([]models.Trip, error) {
	query := fmt.Sprintf("SELECT %s FROM trips ORDER BY created_at DESC", tripColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := make([]models.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	query := fmt.Sprintf("SELECT %s FROM trips WHERE id = $1", tripColumns)
	t, err := scanTrip(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return t, nil
}

func (r *RepositoryImpl) CreateTrip(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	var startDate, endDate *time.Time
	if trip.StartDate != nil {
		startDate = &trip.StartDate.Time
	}
	if trip.EndDate != nil {
		endDate = &trip.EndDate.Time
	}

	query, args, err := psql.Insert("trips").
		Columns("name",
			"origin", "origin_place_name", "origin_lat", "origin_lng", "origin_place_id",
			"destination", "destination_place_name", "destination_lat", "destination_lng", "destination_place_id",
			"is_round_trip", "start_date", "end_date", "summary", "people").
		Values(trip.Name,
			trip.Origin.Label, trip.Origin.PlaceName, trip.Origin.Lat, trip.Origin.Lng, trip.Origin.PlaceID,
			trip.Destination.Label, trip.Destination.PlaceName, trip.Destination.Lat, trip.Destination.Lng, trip.Destination.PlaceID,
			trip.IsRoundTrip, startDate, endDate, trip.Summary, trip.People).
		Suffix("RETURNING " + tripColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	created, err := scanTrip(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return created, nil
}

// UpdateTrip applies a partial update; set holds column/value pairs already
// validated by the service.
func (r *RepositoryImpl) UpdateTrip(ctx context.Context, id uuid.UUID, set map[string]any) (*models.Trip, error) {
	if len(set) == 0 {
		return r.GetTrip(ctx, id)
	}

	query, args, err := psql.Update("trips").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + tripColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	updated, err := scanTrip(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM trips WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
