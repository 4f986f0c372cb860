// Package models defines the itinerary data model used by the gophtrip CLI:
// airports and routes from the remote gateway, trip sessions, users and the
// account registry.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AirportID is the OpenFlights airport identifier. The upstream API returns
// it either as a JSON number or as a string; both decode to the same value.
type AirportID string

func (id *AirportID) UnmarshalJSON(b []byte) error {
	s, err := looseString(b)
	if err != nil {
		return fmt.Errorf("airport id: %w", err)
	}
	*id = AirportID(s)
	return nil
}

// Coordinate is a latitude or longitude in decimal degrees. Numeric strings
// are accepted on decode.
type Coordinate float64

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	s, err := looseString(b)
	if err != nil {
		return fmt.Errorf("coordinate: %w", err)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("coordinate %q: %w", s, err)
	}
	*c = Coordinate(f)
	return nil
}

// looseString returns the text of a JSON string or number literal.
func looseString(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Airport is reference data obtained from the gateway. It is never mutated
// after it has been fetched.
type Airport struct {
	AirportID AirportID  `json:"airportId" validate:"required"`
	Name      string     `json:"name" validate:"required"`
	City      string     `json:"city,omitempty"`
	Country   string     `json:"country,omitempty"`
	Latitude  Coordinate `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude Coordinate `json:"longitude" validate:"gte=-180,lte=180"`
}

// Marker is a map position.
type Marker struct {
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
}

func MarkerOf(a Airport) Marker {
	return Marker{Lng: float64(a.Longitude), Lat: float64(a.Latitude)}
}

func MarkersOf(airports []Airport) []Marker {
	markers := make([]Marker, len(airports))
	for i, a := range airports {
		markers[i] = MarkerOf(a)
	}
	return markers
}

// Route is a single scheduled connection. It is only used to work out which
// airports can be reached from a base and is not persisted.
type Route struct {
	SourceAirportID      AirportID `json:"sourceAirportId"`
	DestinationAirportID AirportID `json:"destinationAirportId"`
	Airline              string    `json:"airline,omitempty"`
	Stops                int       `json:"stops,omitempty"`
}
