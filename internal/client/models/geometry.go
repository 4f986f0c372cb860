package models

// SegmentKind tells spoke lines (current base to a candidate destination)
// from trunk lines (between two committed bases).
type SegmentKind string

const (
	SegmentSpoke SegmentKind = "spoke"
	SegmentTrunk SegmentKind = "trunk"
)

type Segment struct {
	From Marker      `json:"from"`
	To   Marker      `json:"to"`
	Kind SegmentKind `json:"kind"`
}

// Geometry is the set of lines to draw for a session. Spokes come first;
// NumDestinations is the number of spokes.
type Geometry struct {
	Segments        []Segment `json:"segments"`
	NumDestinations int       `json:"num_destinations"`
}

func (g Geometry) Spokes() []Segment {
	return g.Segments[:g.NumDestinations]
}

func (g Geometry) Trunk() []Segment {
	return g.Segments[g.NumDestinations:]
}

// IsSpoke reports whether the i-th segment is a spoke.
func (g Geometry) IsSpoke(i int) bool {
	return i < g.NumDestinations
}
