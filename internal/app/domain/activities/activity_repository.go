package activities

import (
	"context"
	"errors"
	"fmt"

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

type Repository interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error)
	GetActivity(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	UpdateActivity(ctx context.Context, id uuid.UUID, set map[string]any) (*models.Activity, error)
	DeleteActivity(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	db     PGX
	logger *zap.Logger
}

func NewRepository(db PGX, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{db: db, logger: logger}
}

const activityColumns = `id, trip_id, name, type, date, location, notes, status`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func scanActivity(row pgx.Row) (*models.Activity, error) {
	var a models.Activity
	err := row.Scan(&a.ID, &a.TripID, &a.Name, &a.Type, &a.Date, &a.Location, &a.Notes, &a.Status)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByTrip returns a trip's activities in insertion order. The calendar
// bucketing downstream depends on that order being stable.
func (r *RepositoryImpl) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error) {
	query := fmt.Sprintf("SELECT %s FROM activities WHERE trip_id = $1 ORDER BY seq", activityColumns)
	rows, err := r.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	out := make([]models.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *RepositoryImpl) GetActivity(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	query := fmt.Sprintf("SELECT %s FROM activities WHERE id = $1", activityColumns)
	a, err := scanActivity(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return a, nil
}

func (r *RepositoryImpl) CreateActivity(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	query, args, err := psql.Insert("activities").
		Columns("trip_id", "name", "type", "date", "location", "notes", "status").
		Values(activity.TripID, activity.Name, activity.Type, activity.Date,
			activity.Location, activity.Notes, activity.Status).
		Suffix("RETURNING " + activityColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	created, err := scanActivity(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	return created, nil
}

func (r *RepositoryImpl) UpdateActivity(ctx context.Context, id uuid.UUID, set map[string]any) (*models.Activity, error) {
	if len(set) == 0 {
		return r.GetActivity(ctx, id)
	}

	query, args, err := psql.Update("activities").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + activityColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	updated, err := scanActivity(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	return updated, nil
}

func (r *RepositoryImpl) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM activities WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
