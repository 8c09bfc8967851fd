package trips

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/internal/observability/metrics"
	"github.com/wayfarer-app/wayfarer/pkg/models"
)

func TestMain(m *testing.M) {
	metrics.InitAppMetrics()
	m.Run()
}

type MockTripRepo struct {
	mock.Mock
}

func (m *MockTripRepo) ListTrips(ctx context.Context) ([]models.Trip, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockTripRepo) GetTrip(ctx context.Context, id uuid.UUID) (*models.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) CreateTrip(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	args := m.Called(ctx, trip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) UpdateTrip(ctx context.Context, id uuid.UUID, set map[string]any) (*models.Trip, error) {
	args := m.Called(ctx, id, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepo) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockActivityLister struct {
	mock.Mock
}

func (m *MockActivityLister) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

func newTestService() (*ServiceImpl, *MockTripRepo, *MockActivityLister) {
	repo := new(MockTripRepo)
	lister := new(MockActivityLister)
	return NewService(repo, lister, zap.NewNop()), repo, lister
}

func resolvedPlace(name string, lat, lng float64) *models.Place {
	return &models.Place{PlaceName: &name, Label: &name, Lat: &lat, Lng: &lng}
}

func unresolvedPlace(name string) *models.Place {
	return &models.Place{Label: &name}
}

func TestGetTripAttachesActivities(t *testing.T) {
	svc, repo, lister := newTestService()
	id := uuid.New()
	repo.On("GetTrip", mock.Anything, id).Return(&models.Trip{ID: id, Name: "Lisbon"}, nil).Once()
	lister.On("ListByTrip", mock.Anything, id).Return([]models.Activity{
		{ID: uuid.New(), TripID: id, Name: "hike"},
	}, nil).Once()

	trip, err := svc.GetTrip(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, trip.Activities, 1)
	assert.Equal(t, "hike", trip.Activities[0].Name)
}

func TestGetTripNotFound(t *testing.T) {
	svc, repo, _ := newTestService()
	id := uuid.New()
	repo.On("GetTrip", mock.Anything, id).Return(nil, models.ErrNotFound).Once()

	_, err := svc.GetTrip(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateTrip(t *testing.T) {
	start := "2024-07-01"
	end := "2024-07-03"
	badDate := "July 1st"

	tests := []struct {
		name        string
		req         models.CreateTripRequest
		expectedErr error
		check       func(t *testing.T, trip *models.Trip)
	}{
		{
			name: "Success",
			req: models.CreateTripRequest{
				Name:        "Portugal 2024",
				Origin:      resolvedPlace("Lisbon", 38.72, -9.14),
				Destination: resolvedPlace("Porto", 41.16, -8.63),
				StartDate:   &start,
				EndDate:     &end,
			},
			check: func(t *testing.T, stored *models.Trip) {
				require.NotNil(t, stored.StartDate)
				assert.Equal(t, "2024-07-01", stored.StartDate.String())
				require.NotNil(t, stored.EndDate)
				assert.Equal(t, "2024-07-03", stored.EndDate.String())
			},
		},
		{
			name:        "EmptyName",
			req:         models.CreateTripRequest{Origin: resolvedPlace("Lisbon", 38.72, -9.14)},
			expectedErr: models.ErrTripNameEmpty,
		},
		{
			name: "RoundTripDefaultsDestination",
			req: models.CreateTripRequest{
				Name:        "Weekend away",
				Origin:      resolvedPlace("Lisbon", 38.72, -9.14),
				IsRoundTrip: true,
			},
			check: func(t *testing.T, stored *models.Trip) {
				require.NotNil(t, stored.Destination.PlaceName)
				assert.Equal(t, "Lisbon", *stored.Destination.PlaceName)
			},
		},
		{
			name: "UnresolvedDestinationRejected",
			req: models.CreateTripRequest{
				Name:        "Nowhere",
				Origin:      resolvedPlace("Lisbon", 38.72, -9.14),
				Destination: unresolvedPlace("free text only"),
			},
			expectedErr: models.ErrMissingCoordinates,
		},
		{
			name: "RoundTripWithUnresolvedOriginRejected",
			req: models.CreateTripRequest{
				Name:        "Nowhere",
				Origin:      unresolvedPlace("somewhere"),
				IsRoundTrip: true,
			},
			expectedErr: models.ErrMissingCoordinates,
		},
		{
			name: "MalformedStartDateRejected",
			req: models.CreateTripRequest{
				Name:        "Portugal 2024",
				Destination: resolvedPlace("Porto", 41.16, -8.63),
				StartDate:   &badDate,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			var stored *models.Trip
			repo.On("CreateTrip", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				stored = args.Get(1).(*models.Trip)
			}).Return(&models.Trip{ID: uuid.New()}, nil).Maybe()

			_, err := svc.CreateTrip(context.Background(), tc.req)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Nil(t, stored)
				return
			}
			if tc.name == "MalformedStartDateRejected" {
				var parseErr *models.ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, "start_date", parseErr.Field)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, stored)
			if tc.check != nil {
				tc.check(t, stored)
			}
		})
	}
}

func TestCreateTripDefaultsPeopleToEmptyList(t *testing.T) {
	svc, repo, _ := newTestService()
	var captured *models.Trip
	repo.On("CreateTrip", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*models.Trip)
	}).Return(&models.Trip{ID: uuid.New()}, nil).Once()

	_, err := svc.CreateTrip(context.Background(), models.CreateTripRequest{
		Name:        "Solo",
		Destination: resolvedPlace("Porto", 41.16, -8.63),
	})
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.NotNil(t, captured.People)
	assert.Empty(t, captured.People)
}

func TestCreateTripInvertedDatesAccepted(t *testing.T) {
	// Start after end is stored as-is; the calendar just contains no day.
	svc, repo, _ := newTestService()
	repo.On("CreateTrip", mock.Anything, mock.Anything).Return(&models.Trip{ID: uuid.New()}, nil).Once()

	start := "2024-07-10"
	end := "2024-07-01"
	_, err := svc.CreateTrip(context.Background(), models.CreateTripRequest{
		Name:        "Backwards",
		Destination: resolvedPlace("Porto", 41.16, -8.63),
		StartDate:   &start,
		EndDate:     &end,
	})
	assert.NoError(t, err)
}

func TestUpdateTrip(t *testing.T) {
	emptyName := ""
	newName := "Renamed"
	lat := 41.16

	tests := []struct {
		name        string
		req         models.UpdateTripRequest
		expectedErr error
		expectedSet map[string]any
	}{
		{
			name:        "RenameOnly",
			req:         models.UpdateTripRequest{Name: &newName},
			expectedSet: map[string]any{"name": "Renamed"},
		},
		{
			name:        "EmptyNameRejected",
			req:         models.UpdateTripRequest{Name: &emptyName},
			expectedErr: models.ErrTripNameEmpty,
		},
		{
			name:        "LatWithoutLngRejected",
			req:         models.UpdateTripRequest{Destination: &models.Place{Lat: &lat}},
			expectedErr: models.ErrCoordinatePair,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			id := uuid.New()
			if tc.expectedErr == nil {
				repo.On("UpdateTrip", mock.Anything, id, tc.expectedSet).
					Return(&models.Trip{ID: id, Name: newName}, nil).Once()
			}

			_, err := svc.UpdateTrip(context.Background(), id, tc.req)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestUpdateTripDestinationSet(t *testing.T) {
	svc, repo, _ := newTestService()
	id := uuid.New()
	name := "Porto, Portugal"
	lat, lng := 41.16, -8.63
	placeID := "place.porto"

	var captured map[string]any
	repo.On("UpdateTrip", mock.Anything, id, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(2).(map[string]any)
	}).Return(&models.Trip{ID: id}, nil).Once()

	_, err := svc.UpdateTrip(context.Background(), id, models.UpdateTripRequest{
		Destination: &models.Place{PlaceName: &name, Lat: &lat, Lng: &lng, PlaceID: &placeID},
	})
	require.NoError(t, err)
	assert.Equal(t, lat, captured["destination_lat"])
	assert.Equal(t, lng, captured["destination_lng"])
	assert.Equal(t, placeID, captured["destination_place_id"])
	assert.Equal(t, &name, captured["destination"])
}

func TestDeleteTripPropagatesNotFound(t *testing.T) {
	svc, repo, _ := newTestService()
	id := uuid.New()
	repo.On("DeleteTrip", mock.Anything, id).Return(models.ErrNotFound).Once()

	assert.ErrorIs(t, svc.DeleteTrip(context.Background(), id), models.ErrNotFound)
}

func TestCalendarDay(t *testing.T) {
	svc, repo, lister := newTestService()
	id := uuid.New()
	start := models.NewDate(2024, time.July, 1)
	end := models.NewDate(2024, time.July, 3)
	hikeDate := time.Date(2024, time.July, 2, 9, 0, 0, 0, time.UTC)
	dinnerDate := time.Date(2024, time.July, 2, 19, 30, 0, 0, time.UTC)

	repo.On("GetTrip", mock.Anything, id).Return(&models.Trip{
		ID: id, Name: "Portugal 2024", StartDate: &start, EndDate: &end,
	}, nil)
	lister.On("ListByTrip", mock.Anything, id).Return([]models.Activity{
		{ID: uuid.New(), Name: "hike", Date: &hikeDate},
		{ID: uuid.New(), Name: "dinner", Date: &dinnerDate},
		{ID: uuid.New(), Name: "someday"},
	}, nil)

	result, err := svc.CalendarDay(context.Background(), id, "2024-07-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-02", result.Day)
	assert.True(t, result.InRange)
	require.Len(t, result.Activities, 2)
	assert.Equal(t, "hike", result.Activities[0].Name)
	assert.Equal(t, "dinner", result.Activities[1].Name)

	outside, err := svc.CalendarDay(context.Background(), id, "2024-07-10")
	require.NoError(t, err)
	assert.False(t, outside.InRange)
	assert.Empty(t, outside.Activities)
}

func TestCalendarDayMalformedDate(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CalendarDay(context.Background(), uuid.New(), "not-a-date")
	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "day", parseErr.Field)
}

func TestListTripsWrapsRepositoryError(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("ListTrips", mock.Anything).Return(nil, errors.New("connection reset")).Once()

	_, err := svc.ListTrips(context.Background())
	assert.ErrorContains(t, err, "failed to list trips")
}
