package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/common"
)

// PathSeparator joins base airport names in a trip summary.
const PathSeparator = " -> "

// Session is one itinerary. BaseAirports, BaseMarkers, Destinations and
// DestinationMarkers are parallel: index i describes leg i, and every
// mutation touches all four.
type Session struct {
	Date               time.Time   `json:"date"`
	Country            string      `json:"country" validate:"required"`
	BaseAirports       []Airport   `json:"base_airports" validate:"dive"`
	BaseMarkers        []Marker    `json:"base_markers" validate:"dive"`
	Destinations       [][]Airport `json:"destinations" validate:"dive,dive"`
	DestinationMarkers [][]Marker  `json:"destination_markers" validate:"dive,dive"`
	NumDestinations    int         `json:"num_destinations" validate:"gte=0"`
}

func NewSession(country string, date time.Time) *Session {
	return &Session{Country: country, Date: date}
}

// Len returns the number of legs.
func (s *Session) Len() int {
	return len(s.BaseAirports)
}

// AddTour appends one leg to the itinerary.
func (s *Session) AddTour(leg Leg) error {
	if err := leg.Validate(); err != nil {
		return err
	}

	s.BaseAirports = append(s.BaseAirports, *leg.Base)
	s.BaseMarkers = append(s.BaseMarkers, *leg.BaseMarker)
	s.Destinations = append(s.Destinations, slices.Clone(leg.Destinations))
	s.DestinationMarkers = append(s.DestinationMarkers, slices.Clone(leg.DestinationMarkers))
	s.NumDestinations = len(leg.DestinationMarkers)
	return nil
}

// PopLastData removes the most recent leg.
func (s *Session) PopLastData() error {
	n := s.Len()
	if n == 0 {
		return common.ErrEmptySession
	}

	if n == 1 {
		s.BaseAirports, s.BaseMarkers = nil, nil
		s.Destinations, s.DestinationMarkers = nil, nil
		s.NumDestinations = 0
		return nil
	}

	s.BaseAirports = s.BaseAirports[:n-1]
	s.BaseMarkers = s.BaseMarkers[:n-1]
	s.Destinations = s.Destinations[:n-1]
	s.DestinationMarkers = s.DestinationMarkers[:n-1]
	s.NumDestinations = len(s.DestinationMarkers[n-2])
	return nil
}

// Points returns spoke segments from the last base to each of its candidate
// destinations, followed by trunk segments along the committed path. It
// also refreshes NumDestinations.
func (s *Session) Points() (Geometry, error) {
	if len(s.BaseMarkers) == 0 || len(s.DestinationMarkers) == 0 {
		return Geometry{}, common.ErrEmptySession
	}

	lastDest := s.DestinationMarkers[len(s.DestinationMarkers)-1]
	lastBase := s.BaseMarkers[len(s.BaseMarkers)-1]

	segments := make([]Segment, 0, len(lastDest)+len(s.BaseMarkers)-1)
	for _, d := range lastDest {
		segments = append(segments, Segment{From: lastBase, To: d, Kind: SegmentSpoke})
	}
	for i := 0; i+1 < len(s.BaseMarkers); i++ {
		segments = append(segments, Segment{From: s.BaseMarkers[i], To: s.BaseMarkers[i+1], Kind: SegmentTrunk})
	}

	s.NumDestinations = len(lastDest)
	return Geometry{Segments: segments, NumDestinations: len(lastDest)}, nil
}

// BasePoints returns the committed path only, used for saved trips.
func (s *Session) BasePoints() (Geometry, error) {
	g, err := s.Points()
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{Segments: g.Trunk()}, nil
}

// Summary is the human-readable view of a session.
type Summary struct {
	Country string    `json:"country"`
	Date    time.Time `json:"date"`
	Origin  string    `json:"origin"`
	Final   string    `json:"final"`
	Path    string    `json:"path"`
	Stops   int       `json:"stops"`
}

func (s *Session) Summary() Summary {
	names := make([]string, len(s.BaseAirports))
	for i, a := range s.BaseAirports {
		names[i] = a.Name
	}

	sum := Summary{
		Country: s.Country,
		Date:    s.Date,
		Path:    strings.Join(names, PathSeparator),
		Stops:   max(0, len(names)-2),
	}
	if len(names) > 0 {
		sum.Origin = names[0]
		sum.Final = names[len(names)-1]
	}
	return sum
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.BaseAirports = slices.Clone(s.BaseAirports)
	c.BaseMarkers = slices.Clone(s.BaseMarkers)
	if s.Destinations != nil {
		c.Destinations = make([][]Airport, len(s.Destinations))
		for i, d := range s.Destinations {
			c.Destinations[i] = slices.Clone(d)
		}
	}
	if s.DestinationMarkers != nil {
		c.DestinationMarkers = make([][]Marker, len(s.DestinationMarkers))
		for i, d := range s.DestinationMarkers {
			c.DestinationMarkers[i] = slices.Clone(d)
		}
	}
	return &c
}

// IsUpcoming reports whether the trip departs after now.
func (s *Session) IsUpcoming(now time.Time) bool {
	return now.Before(s.Date)
}

// checkParallel verifies the parallel-sequence invariant.
func (s *Session) checkParallel() error {
	n := len(s.BaseAirports)
	if len(s.BaseMarkers) != n || len(s.Destinations) != n || len(s.DestinationMarkers) != n {
		return fmt.Errorf("parallel sequences differ: %d bases, %d base markers, %d destination sets, %d marker sets",
			n, len(s.BaseMarkers), len(s.Destinations), len(s.DestinationMarkers))
	}
	for i := range s.Destinations {
		if len(s.Destinations[i]) != len(s.DestinationMarkers[i]) {
			return fmt.Errorf("leg %d: %d destinations but %d markers",
				i, len(s.Destinations[i]), len(s.DestinationMarkers[i]))
		}
	}
	return nil
}
