// Package descent integrates a falling body's horizontal travel through a
// layered wind profile.
package descent

import (
	"fmt"
	"math"

	"github.com/spotter-dz/spotter/internal/wind"
	"github.com/spotter-dz/spotter/pkg/core"
)

// DefaultResolution is the altitude step in meters.
const DefaultResolution = 50.0

// Phase describes one leg of a descent. Altitudes are AMSL.
type Phase struct {
	Start         float64
	End           float64
	VerticalSpeed float64 // m/s, positive
	// Airspeed is the body's own horizontal speed. It is applied along
	// Heading and ignored when Heading is nil.
	Airspeed   float64
	Heading    *float64
	Resolution float64 // meters per step, DefaultResolution when 0
}

// Sample is the accumulated offset after a step.
type Sample struct {
	Altitude float64          `json:"altitude"`
	Elapsed  float64          `json:"elapsed"`
	Offset   core.DriftVector `json:"offset"`
}

// Result is the outcome of one phase.
type Result struct {
	Drift   core.Drift `json:"drift"`
	Elapsed float64    `json:"elapsed"` // seconds
	// Path starts at the phase's start altitude with a zero offset and has
	// one entry per step.
	Path []Sample `json:"path"`
}

func (ph Phase) validate() error {
	if math.IsNaN(ph.Start) || math.IsNaN(ph.End) || ph.Start <= ph.End {
		return fmt.Errorf("%w: start %vm must be above end %vm", core.ErrInvalidAltitudeRange, ph.Start, ph.End)
	}
	if !(ph.VerticalSpeed > 0) {
		return fmt.Errorf("%w: vertical speed %v must be positive", core.ErrInvalidParameter, ph.VerticalSpeed)
	}
	if ph.Airspeed < 0 || math.IsNaN(ph.Airspeed) {
		return fmt.Errorf("%w: airspeed %v must not be negative", core.ErrInvalidParameter, ph.Airspeed)
	}
	if ph.Resolution < 0 || math.IsNaN(ph.Resolution) {
		return fmt.Errorf("%w: resolution %v must be positive", core.ErrInvalidParameter, ph.Resolution)
	}
	return nil
}

// Integrate descends from ph.Start to ph.End in fixed altitude steps. Each
// step samples the wind at its midpoint and moves the body by wind plus
// airspeed for the time the step takes.
func Integrate(profile wind.Profile, ph Phase) (Result, error) {
	if err := ph.validate(); err != nil {
		return Result{}, err
	}

	res := ph.Resolution
	if res == 0 {
		res = DefaultResolution
	}

	var air core.DriftVector
	if ph.Heading != nil && ph.Airspeed > 0 {
		air = wind.HeadingVector(*ph.Heading).Scale(ph.Airspeed)
	}

	steps := int(math.Ceil((ph.Start - ph.End) / res))
	out := Result{Path: make([]Sample, 0, steps+1)}
	out.Path = append(out.Path, Sample{Altitude: ph.Start})

	alt := ph.Start
	for alt > ph.End {
		next := math.Max(alt-res, ph.End)
		dt := (alt - next) / ph.VerticalSpeed

		push := profile.Velocity((alt + next) / 2)
		out.Drift.Wind = out.Drift.Wind.Add(push.Scale(dt))
		out.Drift.Glide = out.Drift.Glide.Add(air.Scale(dt))
		out.Elapsed += dt

		out.Path = append(out.Path, Sample{
			Altitude: next,
			Elapsed:  out.Elapsed,
			Offset:   out.Drift.Total(),
		})
		alt = next
	}

	return out, nil
}
