// Package render turns a planning session into something a person can look
// at: a GeoJSON map file or a plain-text listing.
package render

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophtrip/internal/client/models"
	"github.com/dmitrijs2005/gophtrip/internal/filex"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	SpokeColor = "#000000"
	TrunkColor = "#ff0000"

	RoleBase        = "base"
	RoleDestination = "destination"
)

// FeatureCollection builds the map of s: a point for every base, a point for
// every candidate destination of the last leg, and one line per segment of g.
// Lines with index below g.NumDestinations are spokes.
func FeatureCollection(s *models.Session, g models.Geometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	addBases(fc, s)

	if n := len(s.Destinations); n > 0 {
		for i, a := range s.Destinations[n-1] {
			fc.Append(point(s.DestinationMarkers[n-1][i], a.Name, RoleDestination))
		}
	}

	for i, seg := range g.Segments {
		color, kind := TrunkColor, models.SegmentTrunk
		if g.IsSpoke(i) {
			color, kind = SpokeColor, models.SegmentSpoke
		}
		fc.Append(line(seg, color, kind))
	}
	return fc
}

// BasesMap builds the map of a saved trip: bases and the trunk between them.
func BasesMap(s *models.Session) (*geojson.FeatureCollection, error) {
	g, err := s.BasePoints()
	if err != nil {
		return nil, err
	}
	fc := geojson.NewFeatureCollection()
	addBases(fc, s)
	for _, seg := range g.Segments {
		fc.Append(line(seg, TrunkColor, models.SegmentTrunk))
	}
	return fc, nil
}

func addBases(fc *geojson.FeatureCollection, s *models.Session) {
	for i, a := range s.BaseAirports {
		fc.Append(point(s.BaseMarkers[i], a.Name, RoleBase))
	}
}

func point(m models.Marker, name, role string) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{m.Lng, m.Lat})
	f.Properties["name"] = name
	f.Properties["role"] = role
	return f
}

func line(seg models.Segment, color string, kind models.SegmentKind) *geojson.Feature {
	f := geojson.NewFeature(orb.LineString{
		{seg.From.Lng, seg.From.Lat},
		{seg.To.Lng, seg.To.Lat},
	})
	f.Properties["kind"] = string(kind)
	f.Properties["stroke"] = color
	f.Properties["stroke-width"] = 2
	return f
}

// GeoJSONRenderer rewrites a GeoJSON file every time the plan changes.
type GeoJSONRenderer struct {
	path string
}

func NewGeoJSONRenderer(path string) *GeoJSONRenderer {
	return &GeoJSONRenderer{path: path}
}

func (r *GeoJSONRenderer) Path() string {
	return r.path
}

func (r *GeoJSONRenderer) Render(_ context.Context, s *models.Session, g models.Geometry) error {
	data, err := FeatureCollection(s, g).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	if err := filex.WriteFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("write map %s: %w", r.path, err)
	}
	return nil
}

// RenderBases writes the map of a saved trip.
func (r *GeoJSONRenderer) RenderBases(_ context.Context, s *models.Session) error {
	fc, err := BasesMap(s)
	if err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode map: %w", err)
	}
	if err := filex.WriteFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("write map %s: %w", r.path, err)
	}
	return nil
}
