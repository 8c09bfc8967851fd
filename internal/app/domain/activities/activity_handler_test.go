package activities

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/pkg/models"
)

type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]models.Activity, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Activity), args.Error(1)
}

func (m *MockActivityService) CreateActivity(ctx context.Context, tripID uuid.UUID, req models.CreateActivityRequest) (*models.Activity, error) {
	args := m.Called(ctx, tripID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockActivityService) UpdateActivity(ctx context.Context, id uuid.UUID, req models.UpdateActivityRequest) (*models.Activity, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Activity), args.Error(1)
}

func (m *MockActivityService) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/api/trips/:id/activities", handler.CreateActivity)
	r.PUT("/api/activities/:id", handler.UpdateActivity)
	r.DELETE("/api/activities/:id", handler.DeleteActivity)
	return r
}

func TestHandlerCreateActivity(t *testing.T) {
	svc := new(MockActivityService)
	tripID := uuid.New()
	created := &models.Activity{ID: uuid.New(), TripID: tripID, Name: "hike"}
	svc.On("CreateActivity", mock.Anything, tripID, mock.MatchedBy(func(req models.CreateActivityRequest) bool {
		return req.Name == "hike"
	})).Return(created, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/trips/"+tripID.String()+"/activities",
		strings.NewReader(`{"name": "hike"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var activity models.Activity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &activity))
	assert.Equal(t, created.ID, activity.ID)
}

func TestHandlerCreateActivityUnknownTrip(t *testing.T) {
	svc := new(MockActivityService)
	tripID := uuid.New()
	svc.On("CreateActivity", mock.Anything, tripID, mock.Anything).
		Return(nil, models.ErrNotFound).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/trips/"+tripID.String()+"/activities",
		strings.NewReader(`{"name": "hike"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlerCreateActivityInvalidTripID(t *testing.T) {
	svc := new(MockActivityService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/trips/garbage/activities",
		strings.NewReader(`{"name": "hike"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateActivity", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlerUpdateActivityMalformedDate(t *testing.T) {
	svc := new(MockActivityService)
	id := uuid.New()
	svc.On("UpdateActivity", mock.Anything, id, mock.Anything).
		Return(nil, &models.ParseError{Field: "date", Value: "tomorrow"}).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/activities/"+id.String(),
		strings.NewReader(`{"date": "tomorrow"}`))
	req.Header.Set("Content-Type", "application/json")
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "date")
}

func TestHandlerDeleteActivity(t *testing.T) {
	svc := new(MockActivityService)
	id := uuid.New()
	svc.On("DeleteActivity", mock.Anything, id).Return(nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/activities/"+id.String(), nil)
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerDeleteActivityNotFound(t *testing.T) {
	svc := new(MockActivityService)
	id := uuid.New()
	svc.On("DeleteActivity", mock.Anything, id).Return(models.ErrNotFound).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/activities/"+id.String(), nil)
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
