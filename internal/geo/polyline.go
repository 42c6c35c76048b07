package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/spotter-dz/spotter/pkg/core"
)

// Projection selects the coordinate system geometries are emitted in.
type Projection int

const (
	// EPSG4326 emits longitude/latitude degrees.
	EPSG4326 Projection = 4326
	// EPSG3857 emits Web Mercator meters.
	EPSG3857 Projection = 3857
)

// ParseProjection maps an EPSG code to a Projection.
func ParseProjection(code int) (Projection, error) {
	switch Projection(code) {
	case EPSG4326, EPSG3857:
		return Projection(code), nil
	default:
		return 0, fmt.Errorf("unsupported EPSG code %d", code)
	}
}

// XY returns p in the projection's axis order (x = east-ish, y = north-ish).
func (pr Projection) XY(p core.LatLon) geom.XY {
	if pr == EPSG3857 {
		x, y := Project3857(p)
		return geom.XY{X: x, Y: y}
	}
	return geom.XY{X: p.Lon, Y: p.Lat}
}

// Point builds a point geometry for p.
func (pr Projection) Point(p core.LatLon) (geom.Point, error) {
	pt, err := geom.NewPoint(geom.Coordinates{
		XY:   pr.XY(p),
		Type: geom.DimXY,
	})
	if err != nil {
		return geom.Point{}, fmt.Errorf("failed to build point: %w", err)
	}
	return pt, nil
}

// LineString builds a line through points. It needs at least 2 points.
func (pr Projection) LineString(points []core.LatLon) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, fmt.Errorf("polyline must have at least 2 points, got %d", len(points))
	}

	flatCoords := make([]float64, 0, len(points)*2)
	for _, p := range points {
		xy := pr.XY(p)
		flatCoords = append(flatCoords, xy.X, xy.Y)
	}

	seq := geom.NewSequence(flatCoords, geom.DimXY)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		return geom.LineString{}, fmt.Errorf("failed to build line string: %w", err)
	}
	return ls, nil
}

// Path builds the geometry of a path through points. A path that never
// leaves its first position is emitted as a point, since a line string needs
// two distinct positions.
func (pr Projection) Path(points []core.LatLon) (geom.Geometry, error) {
	if len(points) < 2 {
		return geom.Geometry{}, fmt.Errorf("polyline must have at least 2 points, got %d", len(points))
	}

	first := pr.XY(points[0])
	for _, p := range points[1:] {
		if pr.XY(p) != first {
			ls, err := pr.LineString(points)
			if err != nil {
				return geom.Geometry{}, err
			}
			return ls.AsGeometry(), nil
		}
	}

	pt, err := pr.Point(points[0])
	if err != nil {
		return geom.Geometry{}, err
	}
	return pt.AsGeometry(), nil
}

// PathToGeodetic converts offsets relative to origin into positions.
func PathToGeodetic(origin core.LatLon, offsets []core.DriftVector) ([]core.LatLon, error) {
	out := make([]core.LatLon, len(offsets))
	for i, o := range offsets {
		p, err := Offset(origin, o)
		if err != nil {
			return nil, fmt.Errorf("path point %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
