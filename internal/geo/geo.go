// Package geo converts between WGS84 positions and the local East-North
// plane centred on a landing zone.
//
// The local frame is equirectangular: good to a few meters over the tens of
// kilometers a jump run covers, and exactly invertible.
package geo

import (
	"fmt"
	"math"

	"github.com/spotter-dz/spotter/pkg/core"
	"github.com/wroge/wgs84"
)

// MetersPerDegreeLat is the length of one degree of latitude.
const MetersPerDegreeLat = 111_320.0

// minCosLat rejects origins so close to a pole that east offsets blow up.
const minCosLat = 1e-9

// Validate reports whether p is a usable WGS84 position.
func Validate(p core.LatLon) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return fmt.Errorf("%w: non-finite position (%v, %v)", core.ErrInvalidCoordinate, p.Lat, p.Lon)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v outside [-90, 90]", core.ErrInvalidCoordinate, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v outside [-180, 180]", core.ErrInvalidCoordinate, p.Lon)
	}
	return nil
}

func validateOrigin(origin core.LatLon) (cosLat float64, err error) {
	if err := Validate(origin); err != nil {
		return 0, err
	}
	cosLat = math.Cos(origin.Lat * math.Pi / 180)
	if cosLat < minCosLat {
		return 0, fmt.Errorf("%w: origin latitude %v is at a pole", core.ErrInvalidCoordinate, origin.Lat)
	}
	return cosLat, nil
}

// ToLocal returns the offset of point from origin in meters east and north.
func ToLocal(origin, point core.LatLon) (east, north float64, err error) {
	cosLat, err := validateOrigin(origin)
	if err != nil {
		return 0, 0, err
	}
	if err := Validate(point); err != nil {
		return 0, 0, err
	}

	dLon := NormalizeLon(point.Lon - origin.Lon)
	north = (point.Lat - origin.Lat) * MetersPerDegreeLat
	east = dLon * MetersPerDegreeLat * cosLat
	return east, north, nil
}

// ToGeodetic is the inverse of ToLocal.
func ToGeodetic(origin core.LatLon, east, north float64) (core.LatLon, error) {
	cosLat, err := validateOrigin(origin)
	if err != nil {
		return core.LatLon{}, err
	}

	p := core.LatLon{
		Lat: origin.Lat + north/MetersPerDegreeLat,
		Lon: NormalizeLon(origin.Lon + east/(MetersPerDegreeLat*cosLat)),
	}
	if err := Validate(p); err != nil {
		return core.LatLon{}, fmt.Errorf("offset (%.1f, %.1f) leaves the globe: %w", east, north, err)
	}
	return p, nil
}

// Offset moves origin by v.
func Offset(origin core.LatLon, v core.DriftVector) (core.LatLon, error) {
	return ToGeodetic(origin, v.East, v.North)
}

// Displacement returns the vector from origin to point.
func Displacement(origin, point core.LatLon) (core.DriftVector, error) {
	e, n, err := ToLocal(origin, point)
	if err != nil {
		return core.DriftVector{}, err
	}
	return core.DriftVector{East: e, North: n}, nil
}

// NormalizeLon wraps a longitude into [-180, 180].
func NormalizeLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// Project3857 converts a WGS84 position to Web Mercator meters.
func Project3857(p core.LatLon) (x, y float64) {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ = f(p.Lon, p.Lat, 0)
	return x, y
}
