package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/jszwec/csvutil"
)

const (
	AirportsFile = "airports.dat"
	RoutesFile   = "routes.dat"

	// nullField marks a missing value in OpenFlights dumps.
	nullField = `\N`
)

// OpenFlights dumps have no header row.
var (
	airportsHeader = []string{
		"airport_id", "name", "city", "country", "iata", "icao", "latitude", "longitude",
		"altitude", "timezone", "dst", "tz", "type", "source",
	}
	routesHeader = []string{
		"airline", "airline_id", "source", "source_id", "destination", "destination_id",
		"codeshare", "stops", "equipment",
	}
)

type airportRow struct {
	ID        string `csv:"airport_id"`
	Name      string `csv:"name"`
	City      string `csv:"city"`
	Country   string `csv:"country"`
	Latitude  string `csv:"latitude"`
	Longitude string `csv:"longitude"`
}

type routeRow struct {
	Airline       string `csv:"airline"`
	SourceID      string `csv:"source_id"`
	DestinationID string `csv:"destination_id"`
	Stops         string `csv:"stops"`
}

// CSVGateway serves lookups from OpenFlights airports.dat and routes.dat
// loaded into memory.
type CSVGateway struct {
	byCountry map[string][]models.Airport
	bySource  map[models.AirportID][]models.Route
}

// LoadCSVGateway reads airports.dat and routes.dat from dir.
func LoadCSVGateway(dir string) (*CSVGateway, error) {
	af, err := os.Open(filepath.Join(dir, AirportsFile))
	if err != nil {
		return nil, fmt.Errorf("open airports: %w", err)
	}
	defer af.Close()

	rf, err := os.Open(filepath.Join(dir, RoutesFile))
	if err != nil {
		return nil, fmt.Errorf("open routes: %w", err)
	}
	defer rf.Close()

	return NewCSVGateway(af, rf)
}

func NewCSVGateway(airports, routes io.Reader) (*CSVGateway, error) {
	g := &CSVGateway{
		byCountry: make(map[string][]models.Airport),
		bySource:  make(map[models.AirportID][]models.Route),
	}

	var arows []airportRow
	if err := decodeCSV(airports, airportsHeader, &arows); err != nil {
		return nil, fmt.Errorf("decode airports: %w", err)
	}
	for i, r := range arows {
		a, err := r.airport()
		if err != nil {
			return nil, fmt.Errorf("airports line %d: %w", i+1, err)
		}
		key := countryKey(a.Country)
		g.byCountry[key] = append(g.byCountry[key], a)
	}

	var rrows []routeRow
	if err := decodeCSV(routes, routesHeader, &rrows); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	for _, r := range rrows {
		if r.SourceID == nullField || r.DestinationID == nullField {
			continue
		}
		stops, _ := strconv.Atoi(r.Stops)
		route := models.Route{
			SourceAirportID:      models.AirportID(r.SourceID),
			DestinationAirportID: models.AirportID(r.DestinationID),
			Airline:              r.Airline,
			Stops:                stops,
		}
		g.bySource[route.SourceAirportID] = append(g.bySource[route.SourceAirportID], route)
	}

	return g, nil
}

// FetchAirports matches country case-insensitively.
func (g *CSVGateway) FetchAirports(_ context.Context, country string) ([]models.Airport, error) {
	return g.byCountry[countryKey(country)], nil
}

func (g *CSVGateway) FetchRoutes(_ context.Context, sourceID models.AirportID) ([]models.Route, error) {
	return g.bySource[sourceID], nil
}

func (r airportRow) airport() (models.Airport, error) {
	lat, err := strconv.ParseFloat(r.Latitude, 64)
	if err != nil {
		return models.Airport{}, fmt.Errorf("airport %s latitude: %w", r.ID, err)
	}
	lng, err := strconv.ParseFloat(r.Longitude, 64)
	if err != nil {
		return models.Airport{}, fmt.Errorf("airport %s longitude: %w", r.ID, err)
	}
	return models.Airport{
		AirportID: models.AirportID(r.ID),
		Name:      r.Name,
		City:      nullToEmpty(r.City),
		Country:   nullToEmpty(r.Country),
		Latitude:  models.Coordinate(lat),
		Longitude: models.Coordinate(lng),
	}, nil
}

func decodeCSV(r io.Reader, header []string, v any) error {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func countryKey(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}

func nullToEmpty(s string) string {
	if s == nullField {
		return ""
	}
	return s
}
