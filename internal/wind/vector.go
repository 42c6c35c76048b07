package wind

import (
	"math"

	"github.com/spotter-dz/spotter/pkg/core"
)

// Push converts a meteorological wind (direction it blows from, speed) into
// the velocity vector it imparts: toward direction+180°.
func Push(direction, speed float64) core.DriftVector {
	if speed == 0 {
		return core.DriftVector{}
	}
	return HeadingVector(direction + 180).Scale(speed)
}

// HeadingVector returns the unit vector for a compass heading
// (0 = north, 90 = east).
func HeadingVector(heading float64) core.DriftVector {
	rad := heading * math.Pi / 180
	return core.DriftVector{East: math.Sin(rad), North: math.Cos(rad)}
}

// VectorHeading returns the compass heading of v, 0 for the zero vector.
func VectorHeading(v core.DriftVector) float64 {
	if v.East == 0 && v.North == 0 {
		return 0
	}
	return NormalizeDirection(math.Atan2(v.East, v.North) * 180 / math.Pi)
}

// NormalizeDirection wraps degrees into [0, 360).
func NormalizeDirection(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// HeadingDifference returns the signed shortest turn from a to b, in
// (-180, 180].
func HeadingDifference(a, b float64) float64 {
	d := NormalizeDirection(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

// Magnitude returns |v|.
func Magnitude(v core.DriftVector) float64 {
	return math.Hypot(v.East, v.North)
}
