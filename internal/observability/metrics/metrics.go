package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	TripsCreatedTotal      metric.Int64Counter
	ActivitiesCreatedTotal metric.Int64Counter
	PlaceSearchesTotal     metric.Int64Counter
	PlaceSearchCacheHits   metric.Int64Counter
	DBQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments exactly once,
// using the meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("wayfarer")
		var err error
		m := &AppMetrics{}

		m.TripsCreatedTotal, err = meter.Int64Counter(
			"trips_created_total",
			metric.WithDescription("Total number of trips created"),
			metric.WithUnit("{trip}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trips_created_total: %v", err)
		}

		m.ActivitiesCreatedTotal, err = meter.Int64Counter(
			"activities_created_total",
			metric.WithDescription("Total number of activities created"),
			metric.WithUnit("{activity}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create activities_created_total: %v", err)
		}

		m.PlaceSearchesTotal, err = meter.Int64Counter(
			"place_searches_total",
			metric.WithDescription("Total number of place search lookups"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_searches_total: %v", err)
		}

		m.PlaceSearchCacheHits, err = meter.Int64Counter(
			"place_search_cache_hits_total",
			metric.WithDescription("Place searches answered from the response cache"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_search_cache_hits_total: %v", err)
		}

		m.DBQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance. Panics if
// InitAppMetrics was not called at startup.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
