// Package gateway provides airport and route reference data: from the
// OpenFlights web service, from OpenFlights CSV dumps, or from either of
// those behind a Redis cache.
package gateway

import (
	"context"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
)

type Gateway interface {
	// FetchAirports returns every airport of country.
	FetchAirports(ctx context.Context, country string) ([]models.Airport, error)
	// FetchRoutes returns every route departing sourceID.
	FetchRoutes(ctx context.Context, sourceID models.AirportID) ([]models.Route, error)
}

// Cache stores gateway responses. Misses are (nil, false, nil).
type Cache interface {
	Airports(ctx context.Context, country string) ([]models.Airport, bool, error)
	SetAirports(ctx context.Context, country string, airports []models.Airport) error
	Routes(ctx context.Context, sourceID models.AirportID) ([]models.Route, bool, error)
	SetRoutes(ctx context.Context, sourceID models.AirportID, routes []models.Route) error
}
