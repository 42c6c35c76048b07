// pkg/core/geo.go
package core

// LatLon is a WGS84 position in degrees.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// TerrainData is the ground elevation at a location, meters AMSL.
type TerrainData struct {
	Location  LatLon  `json:"location"`
	Elevation float64 `json:"elevation"`
}

// DriftVector is a horizontal displacement in meters in the local
// East-North frame.
type DriftVector struct {
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Add returns the vector sum v + o.
func (v DriftVector) Add(o DriftVector) DriftVector {
	return DriftVector{East: v.East + o.East, North: v.North + o.North}
}

// Scale returns v multiplied by s.
func (v DriftVector) Scale(s float64) DriftVector {
	return DriftVector{East: v.East * s, North: v.North * s}
}

// Neg returns -v.
func (v DriftVector) Neg() DriftVector {
	return DriftVector{East: -v.East, North: -v.North}
}

// Drift splits a descent displacement into the part caused by wind and the
// part flown by the canopy pilot. Total is always Wind + Glide.
type Drift struct {
	Wind  DriftVector `json:"wind"`
	Glide DriftVector `json:"glide"`
}

// Total returns the combined displacement.
func (d Drift) Total() DriftVector {
	return d.Wind.Add(d.Glide)
}

// ExitPoint is the release location of one jump group.
type ExitPoint struct {
	Location    LatLon `json:"location"`
	GroupNumber int    `json:"groupNumber"`
}
