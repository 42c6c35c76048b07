package engine

import (
	"fmt"
	"math"

	"github.com/spotter-dz/spotter/internal/exitpoint"
	"github.com/spotter-dz/spotter/internal/geo"
	"github.com/spotter-dz/spotter/internal/wind"
	"github.com/spotter-dz/spotter/pkg/core"
)

// Input is everything one calculation depends on.
type Input struct {
	Jump    core.JumpParameters
	Common  core.CommonParameters
	Terrain core.TerrainData
	Profile wind.Profile
}

// Options tune the numerics and the offset jump run pattern.
type Options struct {
	Resolution        float64           `json:"resolution"`
	CoverageTolerance float64           `json:"coverageTolerance"`
	Pattern           exitpoint.Pattern `json:"pattern"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Resolution:        50,
		CoverageTolerance: 500,
	}
}

// NewInput merges the separately owned parameter sets into one Input.
// Group count and spacing come from common when it sets a group count,
// otherwise from jump.
func NewInput(jump core.JumpParameters, common core.CommonParameters, terrain core.TerrainData, profile wind.Profile) Input {
	if common.NumberOfGroups > 0 {
		jump.NumberOfGroups = common.NumberOfGroups
		jump.TimeBetweenGroups = common.TimeBetweenGroups
	} else {
		common.NumberOfGroups = jump.NumberOfGroups
		common.TimeBetweenGroups = jump.TimeBetweenGroups
	}
	return Input{Jump: jump, Common: common, Terrain: terrain, Profile: profile}
}

// Validate checks every precondition of Calculate that does not need the
// wind profile.
func (in Input) Validate() error {
	if err := geo.Validate(in.Common.LandingZone); err != nil {
		return fmt.Errorf("landing zone: %w", err)
	}

	j := in.Jump
	positive := []struct {
		name  string
		value float64
	}{
		{"jumpAltitude", j.JumpAltitude},
		{"freefallSpeed", j.FreefallSpeed},
		{"openingAltitude", j.OpeningAltitude},
		{"canopyDescentRate", j.CanopyDescentRate},
		{"glideRatio", j.GlideRatio},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", core.ErrInvalidParameter, p.name, p.value)
		}
	}
	if j.AircraftSpeed < 0 || math.IsNaN(j.AircraftSpeed) {
		return fmt.Errorf("%w: aircraftSpeed must not be negative, got %v", core.ErrInvalidParameter, j.AircraftSpeed)
	}
	if j.SetupAltitude < 0 || math.IsNaN(j.SetupAltitude) {
		return fmt.Errorf("%w: setupAltitude must not be negative, got %v", core.ErrInvalidParameter, j.SetupAltitude)
	}
	if j.NumberOfGroups < 1 {
		return fmt.Errorf("%w: numberOfGroups must be at least 1, got %d", core.ErrInvalidParameter, j.NumberOfGroups)
	}
	if j.TimeBetweenGroups < 0 || math.IsNaN(j.TimeBetweenGroups) {
		return fmt.Errorf("%w: timeBetweenGroups must not be negative, got %v", core.ErrInvalidParameter, j.TimeBetweenGroups)
	}

	if j.OpeningAltitude >= j.JumpAltitude {
		return fmt.Errorf("%w: opening altitude %vm must be below jump altitude %vm",
			core.ErrInvalidAltitudeRange, j.OpeningAltitude, j.JumpAltitude)
	}
	if j.SetupAltitude >= j.OpeningAltitude {
		return fmt.Errorf("%w: setup altitude %vm must be below opening altitude %vm",
			core.ErrInvalidAltitudeRange, j.SetupAltitude, j.OpeningAltitude)
	}

	if d := in.Common.FlightDirection; d != nil && (math.IsNaN(*d) || math.IsInf(*d, 0)) {
		return fmt.Errorf("%w: flightDirection %v", core.ErrInvalidParameter, *d)
	}
	return nil
}

// amsl converts an altitude above the landing zone to AMSL.
func (in Input) amsl(agl float64) float64 {
	return agl + in.Terrain.Elevation
}
