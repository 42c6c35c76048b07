// Package exitpoint finds where a jumper has to leave the aircraft so that
// freefall and canopy drift carry them onto the landing zone.
package exitpoint

import (
	"fmt"

	"github.com/spotter-dz/spotter/internal/geo"
	"github.com/spotter-dz/spotter/internal/wind"
	"github.com/spotter-dz/spotter/pkg/core"
)

// Pattern describes the jump run used when the aircraft does not fly over
// the landing zone.
type Pattern struct {
	// OffsetAngle rotates the jump run and glide heading, degrees clockwise.
	OffsetAngle float64 `json:"offsetAngle"`
}

// Solve returns the exit point for a jumper whose freefall and canopy legs
// drift by the given vectors. Drift does not depend on where the jumper
// exits, so the answer is the landing zone moved back by the total drift.
func Solve(landingZone core.LatLon, freefall, canopy core.DriftVector) (core.LatLon, error) {
	if err := geo.Validate(landingZone); err != nil {
		return core.LatLon{}, fmt.Errorf("landing zone: %w", err)
	}
	return geo.Offset(landingZone, freefall.Add(canopy).Neg())
}

// Heading picks the jump run heading. An explicit flight direction wins;
// otherwise the aircraft flies into the wind at opening altitude, or on
// heading 0 when it is calm there. glide reports whether the canopy flies
// under its own airspeed along the heading, which only an explicit flight
// direction asks for. Without one the canopy drifts with the wind alone.
func Heading(profile wind.Profile, openingAltitude float64, flightDirection *float64, overLandingZone bool, pattern Pattern) (heading float64, glide bool) {
	if flightDirection != nil {
		heading, glide = *flightDirection, true
	} else {
		dir, speed := profile.At(openingAltitude)
		if speed == 0 {
			return 0, false
		}
		heading = dir
	}

	if !overLandingZone {
		heading += pattern.OffsetAngle
	}
	return wind.NormalizeDirection(heading), glide
}

// CheckCoverage fails with core.ErrNoWindData when the profile cannot
// describe the wind between floor and top (AMSL), allowing tolerance
// meters of edge clamping on each side.
func CheckCoverage(profile wind.Profile, floor, top, tolerance float64) error {
	lo, hi, err := profile.Bounds()
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrNoWindData, err)
	}
	if !profile.Covers(floor, top, tolerance) {
		return fmt.Errorf("%w: need %.0f-%.0fm, profile has %.0f-%.0fm (tolerance %.0fm)",
			core.ErrNoWindData, floor, top, lo, hi, tolerance)
	}
	return nil
}
