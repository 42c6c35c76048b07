// Package engine computes exit points and drift trajectories for a jump.
//
// Calculate is a pure function: it reads only its arguments, performs no
// I/O and may be called from any number of goroutines.
package engine

import (
	"fmt"
	"slices"

	"github.com/spotter-dz/spotter/internal/descent"
	"github.com/spotter-dz/spotter/internal/exitpoint"
	"github.com/spotter-dz/spotter/internal/geo"
	"github.com/spotter-dz/spotter/internal/groups"
	"github.com/spotter-dz/spotter/pkg/core"
)

// Leg is one descent phase placed on the map.
type Leg struct {
	Drift   core.Drift    `json:"drift"`
	Elapsed float64       `json:"elapsed"`
	Path    []core.LatLon `json:"path"`
}

// Result is a complete calculation.
type Result struct {
	// Heading is the jump run heading, degrees true. The canopy glides
	// along the same heading when Glide is set, which happens only for an
	// explicit flight direction.
	Heading      float64          `json:"heading"`
	Glide        bool             `json:"glide"`
	ExitPoints   []core.ExitPoint `json:"exitPoints"`
	OpeningPoint core.LatLon      `json:"openingPoint"`
	Freefall     Leg              `json:"freefall"`
	Canopy       Leg              `json:"canopy"`
	GroupSpacing float64          `json:"groupSpacing"` // meters
	Track        []core.LatLon    `json:"track"`
}

// TotalDrift is the displacement from exit to landing.
func (r *Result) TotalDrift() core.DriftVector {
	return r.Freefall.Drift.Total().Add(r.Canopy.Drift.Total())
}

// Clone returns a deep copy of r that shares no slices with it.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.ExitPoints = slices.Clone(r.ExitPoints)
	out.Track = slices.Clone(r.Track)
	out.Freefall.Path = slices.Clone(r.Freefall.Path)
	out.Canopy.Path = slices.Clone(r.Canopy.Path)
	return &out
}

// Calculate solves the exit point for the first group, schedules the rest
// and builds the display geometry. It either succeeds completely or
// returns an error and no result.
func Calculate(in Input, opts Options) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	j := in.Jump
	top, opening, setup := in.amsl(j.JumpAltitude), in.amsl(j.OpeningAltitude), in.amsl(j.SetupAltitude)

	if err := exitpoint.CheckCoverage(in.Profile, setup, top, opts.CoverageTolerance); err != nil {
		return nil, err
	}

	heading, glide := exitpoint.Heading(in.Profile, opening, in.Common.FlightDirection,
		in.Common.FlightOverLandingZone, opts.Pattern)

	freefall, err := descent.Integrate(in.Profile, descent.Phase{
		Start:         top,
		End:           opening,
		VerticalSpeed: j.FreefallSpeed,
		Resolution:    opts.Resolution,
	})
	if err != nil {
		return nil, fmt.Errorf("freefall: %w", err)
	}

	canopyPhase := descent.Phase{
		Start:         opening,
		End:           setup,
		VerticalSpeed: j.CanopyDescentRate,
		Resolution:    opts.Resolution,
	}
	if glide {
		canopyPhase.Airspeed = j.CanopyDescentRate * j.GlideRatio
		canopyPhase.Heading = &heading
	}
	canopy, err := descent.Integrate(in.Profile, canopyPhase)
	if err != nil {
		return nil, fmt.Errorf("canopy: %w", err)
	}

	exit, err := exitpoint.Solve(in.Common.LandingZone, freefall.Drift.Total(), canopy.Drift.Total())
	if err != nil {
		return nil, err
	}

	points, err := groups.Schedule(exit, heading, j.AircraftSpeed, j.NumberOfGroups, j.TimeBetweenGroups)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Heading:      heading,
		Glide:        glide,
		ExitPoints:   points,
		GroupSpacing: groups.Spacing(j.AircraftSpeed, j.TimeBetweenGroups),
		Track:        groups.Track(points),
		Freefall:     Leg{Drift: freefall.Drift, Elapsed: freefall.Elapsed},
		Canopy:       Leg{Drift: canopy.Drift, Elapsed: canopy.Elapsed},
	}

	if res.Freefall.Path, err = geo.PathToGeodetic(exit, offsets(freefall.Path)); err != nil {
		return nil, fmt.Errorf("freefall path: %w", err)
	}
	res.OpeningPoint = res.Freefall.Path[len(res.Freefall.Path)-1]
	if res.Canopy.Path, err = geo.PathToGeodetic(res.OpeningPoint, offsets(canopy.Path)); err != nil {
		return nil, fmt.Errorf("canopy path: %w", err)
	}

	return res, nil
}

func offsets(path []descent.Sample) []core.DriftVector {
	out := make([]core.DriftVector, len(path))
	for i, s := range path {
		out[i] = s.Offset
	}
	return out
}
