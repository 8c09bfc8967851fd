package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wayfarer-app/wayfarer/internal/app/domain/activities"
	"github.com/wayfarer-app/wayfarer/internal/app/domain/geocode"
	"github.com/wayfarer-app/wayfarer/internal/app/domain/trips"
	"github.com/wayfarer-app/wayfarer/internal/pkg/config"
)

// Setup wires repositories, services and handlers onto the router.
func Setup(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) {
	tripRepo := trips.NewRepository(dbPool, logger)
	activityRepo := activities.NewRepository(dbPool, logger)

	tripService := trips.NewService(tripRepo, activityRepo, logger)
	activityService := activities.NewService(activityRepo, tripService, logger)
	geocodeService := geocode.NewService(cfg, logger)

	tripHandler := trips.NewHandler(tripService, logger)
	activityHandler := activities.NewHandler(activityService, logger)
	geocodeHandler := geocode.NewHandler(geocodeService, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/trips", tripHandler.ListTrips)
		api.POST("/trips", tripHandler.CreateTrip)
		api.GET("/trips/:id", tripHandler.GetTrip)
		api.PUT("/trips/:id", tripHandler.UpdateTrip)
		api.DELETE("/trips/:id", tripHandler.DeleteTrip)
		api.GET("/trips/:id/calendar", tripHandler.CalendarDay)

		api.POST("/trips/:id/activities", activityHandler.CreateActivity)
		api.PUT("/activities/:id", activityHandler.UpdateActivity)
		api.DELETE("/activities/:id", activityHandler.DeleteActivity)

		api.GET("/places/search", geocodeHandler.SearchPlaces)
	}
}
