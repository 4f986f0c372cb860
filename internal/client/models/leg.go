package models

import (
	"fmt"

	"github.com/dmitrijs2005/gophtrip/internal/common"
)

// Leg is the bundle appended to a Session by AddTour: one base airport with
// its marker, plus the destinations reachable from it and their markers.
type Leg struct {
	Base               *Airport
	BaseMarker         *Marker
	Destinations       []Airport
	DestinationMarkers []Marker
}

// NewLeg builds a well-formed leg, deriving markers from the airports.
func NewLeg(base Airport, destinations []Airport) Leg {
	marker := MarkerOf(base)
	return Leg{
		Base:               &base,
		BaseMarker:         &marker,
		Destinations:       destinations,
		DestinationMarkers: MarkersOf(destinations),
	}
}

func (l Leg) Validate() error {
	if l.Base == nil {
		return fmt.Errorf("%w: missing base airport", common.ErrInvalidLegData)
	}
	if l.BaseMarker == nil {
		return fmt.Errorf("%w: missing base marker", common.ErrInvalidLegData)
	}
	if len(l.Destinations) != len(l.DestinationMarkers) {
		return fmt.Errorf("%w: %d destinations but %d markers",
			common.ErrInvalidLegData, len(l.Destinations), len(l.DestinationMarkers))
	}
	return nil
}
