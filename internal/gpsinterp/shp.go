package gpsinterp

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// LoadShapefile reads a pipeline centerline delivered as an Esri shapefile
// (a single PolyLine feature, or the first one found) and builds a
// Centerline from it. cumulativeField names the DBF attribute carrying the
// polyline record's cumulative distance along the route, in feet, which is
// used as the station of its first vertex; later vertices' distances are
// accumulated from the approximate distance between consecutive points
// (see polylineVertices). Callers with known per-vertex stations can build a
// Centerline directly via NewCenterline instead.
func LoadShapefile(path, cumulativeField string) (*Centerline, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "gpsinterp: open shapefile")
	}
	defer reader.Close() //nolint:errcheck

	fieldIdx := fieldIndex(reader, cumulativeField)
	if fieldIdx < 0 {
		return nil, eris.Errorf("gpsinterp: shapefile has no %q attribute", cumulativeField)
	}

	var vertices []Vertex
	for reader.Next() {
		_, shape := reader.Shape()
		polyline, ok := shape.(*shp.PolyLine)
		if !ok {
			continue
		}
		cumulative := parseStation(reader.Attribute(fieldIdx))
		vertices = append(vertices, polylineVertices(polyline, cumulative)...)
		break // one route per file; ignore any further polylines
	}

	if len(vertices) < 2 {
		return nil, eris.New("gpsinterp: shapefile contains no usable polyline")
	}
	return NewCenterline(vertices)
}

// polylineVertices flattens a shapefile PolyLine's points into Vertex
// records. baseStation is the cumulative distance of the polyline's first
// point; subsequent points accumulate straight-line planar distance between
// consecutive vertices as an approximation, since shapefiles rarely carry
// per-vertex station attributes.
func polylineVertices(pl *shp.PolyLine, baseStation float64) []Vertex {
	if pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	out := make([]Vertex, 0, len(pl.Points))
	running := baseStation
	for i, p := range pl.Points {
		if i > 0 {
			prev := pl.Points[i-1]
			running += approxFeetBetween(prev.Y, prev.X, p.Y, p.X)
		}
		out = append(out, Vertex{Lat: p.Y, Lng: p.X, CumulativeDistance: running})
	}
	return out
}

// approxFeetBetween estimates the great-circle distance between two
// lat/lng points in feet, using an equirectangular approximation adequate
// for the sub-mile vertex spacing typical of pipeline centerline exports.
func approxFeetBetween(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusFt = 20925721.0
	const degToRad = 0.017453292519943295

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	meanLat := (lat1 + lat2) / 2 * degToRad

	x := dLng * math.Cos(meanLat)
	y := dLat
	return math.Sqrt(x*x+y*y) * earthRadiusFt
}

func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

func parseStation(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}
