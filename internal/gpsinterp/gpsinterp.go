// Package gpsinterp maps corrected pipeline distances onto geographic
// coordinates by linear interpolation along a pre-supplied centerline
// polyline. It sits outside the core alignment engine (spec.md §6): the
// engine never calls it, and it consumes corrected_distance values the
// engine already produced.
package gpsinterp

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Vertex is one point on a pipeline centerline: a geographic coordinate
// tagged with the cumulative distance (feet) along the route at that point.
type Vertex struct {
	Lat                float64
	Lng                float64
	CumulativeDistance float64
}

// Centerline is a pipeline route as an ordered polyline, sorted ascending
// by cumulative distance, plus the go-geom LineString built from it.
type Centerline struct {
	vertices []Vertex
	line     *geom.LineString
}

// NewCenterline builds a Centerline from route vertices. Vertices are
// sorted by cumulative distance; duplicate or out-of-order input is
// tolerated by the sort, not rejected.
func NewCenterline(vertices []Vertex) (*Centerline, error) {
	if len(vertices) < 2 {
		return nil, eris.New("gpsinterp: centerline needs at least 2 vertices")
	}

	sorted := make([]Vertex, len(vertices))
	copy(sorted, vertices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CumulativeDistance < sorted[j].CumulativeDistance })

	flat := make([]float64, 0, len(sorted)*2)
	for _, v := range sorted {
		flat = append(flat, v.Lng, v.Lat)
	}
	line := geom.NewLineStringFlat(geom.XY, flat).SetSRID(4326)

	return &Centerline{vertices: sorted, line: line}, nil
}

// Line exposes the underlying go-geom LineString, e.g. for callers that
// want to serialize the route independently of point interpolation.
func (c *Centerline) Line() *geom.LineString {
	return c.line
}

// Interpolate returns the geographic point on the centerline at
// corrected_distance feet along the route, linearly interpolating between
// the two bracketing vertices. Distances outside the polyline's extent are
// clamped to the nearest endpoint.
func (c *Centerline) Interpolate(distanceFt float64) geom.Point {
	first, last := c.vertices[0], c.vertices[len(c.vertices)-1]
	if distanceFt <= first.CumulativeDistance {
		return pointOf(first)
	}
	if distanceFt >= last.CumulativeDistance {
		return pointOf(last)
	}

	idx := sort.Search(len(c.vertices), func(i int) bool {
		return c.vertices[i].CumulativeDistance >= distanceFt
	})
	// idx is the first vertex at or beyond distanceFt; idx > 0 because the
	// clamp above already handled distanceFt <= first.CumulativeDistance.
	a, b := c.vertices[idx-1], c.vertices[idx]
	span := b.CumulativeDistance - a.CumulativeDistance
	if span <= 0 {
		return pointOf(a)
	}
	frac := (distanceFt - a.CumulativeDistance) / span

	lat := a.Lat + frac*(b.Lat-a.Lat)
	lng := a.Lng + frac*(b.Lng-a.Lng)
	return *geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(4326)
}

// InterpolateAll interpolates a coordinate for every distance in
// corrected order, one call to Interpolate per value.
func (c *Centerline) InterpolateAll(distancesFt []float64) []geom.Point {
	out := make([]geom.Point, len(distancesFt))
	for i, d := range distancesFt {
		out[i] = c.Interpolate(d)
	}
	return out
}

func pointOf(v Vertex) geom.Point {
	return *geom.NewPointFlat(geom.XY, []float64{v.Lng, v.Lat}).SetSRID(4326)
}
