package activities

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/pkg/models"
)

var activityRowColumns = []string{"id", "trip_id", "name", "type", "date", "location", "notes", "status"}

func activityRow(id, tripID uuid.UUID, name string, date *time.Time) []any {
	return []any{id, tripID, name, models.ActivityExcursion, date, (*string)(nil), (*string)(nil), models.StatusPlanned}
}

// anyArgs returns n pgxmock.AnyArg matchers; pgxmock requires the argument
// count to match even when the values are not being asserted.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func newActivityRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewRepository(mockPool, zap.NewNop()), mockPool
}

func TestRepoListByTripOrdersBySeq(t *testing.T) {
	repo, mockPool := newActivityRepo(t)
	tripID := uuid.New()
	first, second := uuid.New(), uuid.New()
	date := time.Date(2024, time.July, 2, 9, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery("SELECT (.+) FROM activities WHERE trip_id = \\$1 ORDER BY seq").
		WithArgs(tripID).
		WillReturnRows(pgxmock.NewRows(activityRowColumns).
			AddRow(activityRow(first, tripID, "hike", &date)...).
			AddRow(activityRow(second, tripID, "someday", nil)...))

	activities, err := repo.ListByTrip(context.Background(), tripID)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "hike", activities[0].Name)
	assert.Nil(t, activities[1].Date)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestRepoGetActivityNotFound(t *testing.T) {
	repo, mockPool := newActivityRepo(t)
	id := uuid.New()

	mockPool.ExpectQuery("SELECT (.+) FROM activities WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(activityRowColumns))

	_, err := repo.GetActivity(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRepoCreateActivity(t *testing.T) {
	repo, mockPool := newActivityRepo(t)
	id, tripID := uuid.New(), uuid.New()

	mockPool.ExpectQuery("INSERT INTO activities (.+) RETURNING").
		WithArgs(anyArgs(7)...).
		WillReturnRows(pgxmock.NewRows(activityRowColumns).
			AddRow(activityRow(id, tripID, "hike", nil)...))

	created, err := repo.CreateActivity(context.Background(), &models.Activity{
		TripID: tripID,
		Name:   "hike",
		Type:   models.ActivityExcursion,
		Status: models.StatusPlanned,
	})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.Equal(t, tripID, created.TripID)
}

func TestRepoUpdateActivity(t *testing.T) {
	repo, mockPool := newActivityRepo(t)
	id, tripID := uuid.New(), uuid.New()

	mockPool.ExpectQuery("UPDATE activities SET (.+) WHERE id = (.+) RETURNING").
		WithArgs(anyArgs(2)...).
		WillReturnRows(pgxmock.NewRows(activityRowColumns).
			AddRow(activityRow(id, tripID, "long hike", nil)...))

	updated, err := repo.UpdateActivity(context.Background(), id, map[string]any{"name": "long hike"})
	require.NoError(t, err)
	assert.Equal(t, "long hike", updated.Name)
}

func TestRepoUpdateActivityNotFound(t *testing.T) {
	repo, mockPool := newActivityRepo(t)

	mockPool.ExpectQuery("UPDATE activities SET (.+) RETURNING").
		WithArgs(anyArgs(2)...).
		WillReturnRows(pgxmock.NewRows(activityRowColumns))

	_, err := repo.UpdateActivity(context.Background(), uuid.New(), map[string]any{"name": "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRepoDeleteActivity(t *testing.T) {
	repo, mockPool := newActivityRepo(t)
	id := uuid.New()

	mockPool.ExpectExec("DELETE FROM activities WHERE id = \\$1").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.DeleteActivity(context.Background(), id))
}

func TestRepoDeleteActivityNotFound(t *testing.T) {
	repo, mockPool := newActivityRepo(t)
	id := uuid.New()

	mockPool.ExpectExec("DELETE FROM activities WHERE id = \\$1").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.DeleteActivity(context.Background(), id), models.ErrNotFound)
}
