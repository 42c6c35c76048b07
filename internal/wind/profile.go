// Package wind answers "what is the wind at this altitude" from a forecast
// sampled at discrete altitudes.
package wind

import (
	"fmt"
	"math"

	"github.com/spotter-dz/spotter/pkg/core"
)

// Profile is a validated wind profile, ascending by altitude.
// The zero value is an empty profile.
type Profile struct {
	samples []core.WindSample
}

// NewProfile validates samples and builds a Profile. Samples must already
// be in strictly increasing altitude order.
func NewProfile(samples []core.WindSample) (Profile, error) {
	if len(samples) == 0 {
		return Profile{}, core.ErrEmptyProfile
	}

	for i, s := range samples {
		if !finite(s.Altitude) || !finite(s.Direction) || !finite(s.Speed) {
			return Profile{}, fmt.Errorf("%w: sample %d has a non-finite value", core.ErrInvalidParameter, i)
		}
		if s.Speed < 0 {
			return Profile{}, fmt.Errorf("%w: sample %d has negative speed %v", core.ErrInvalidParameter, i, s.Speed)
		}
		if i > 0 && s.Altitude <= samples[i-1].Altitude {
			return Profile{}, fmt.Errorf("%w: sample %d at %vm follows %vm",
				core.ErrUnsortedProfile, i, s.Altitude, samples[i-1].Altitude)
		}
	}

	cp := make([]core.WindSample, len(samples))
	copy(cp, samples)
	for i := range cp {
		cp[i].Direction = NormalizeDirection(cp[i].Direction)
	}
	return Profile{samples: cp}, nil
}

// Len returns the number of samples.
func (p Profile) Len() int { return len(p.samples) }

// Samples returns a copy of the samples.
func (p Profile) Samples() []core.WindSample {
	out := make([]core.WindSample, len(p.samples))
	copy(out, p.samples)
	return out
}

// Bounds returns the lowest and highest sampled altitude.
func (p Profile) Bounds() (lo, hi float64, err error) {
	if len(p.samples) == 0 {
		return 0, 0, core.ErrEmptyProfile
	}
	return p.samples[0].Altitude, p.samples[len(p.samples)-1].Altitude, nil
}

// Covers reports whether [lo, hi] lies within the sampled range widened by
// tolerance meters on each side.
func (p Profile) Covers(lo, hi, tolerance float64) bool {
	first, last, err := p.Bounds()
	if err != nil {
		return false
	}
	return lo >= first-tolerance && hi <= last+tolerance
}

// At returns the wind direction (from, degrees) and speed at altitude.
// Outside the sampled range the nearest sample is used. An empty profile
// reports calm.
func (p Profile) At(altitude float64) (direction, speed float64) {
	n := len(p.samples)
	if n == 0 {
		return 0, 0
	}
	if altitude <= p.samples[0].Altitude {
		return p.samples[0].Direction, p.samples[0].Speed
	}
	if altitude >= p.samples[n-1].Altitude {
		return p.samples[n-1].Direction, p.samples[n-1].Speed
	}

	// first sample strictly above altitude
	hiIdx := search(p.samples, altitude)
	lo, hi := p.samples[hiIdx-1], p.samples[hiIdx]
	t := (altitude - lo.Altitude) / (hi.Altitude - lo.Altitude)

	speed = lo.Speed + t*(hi.Speed-lo.Speed)
	switch {
	case lo.Speed == 0 && hi.Speed == 0:
		direction = lo.Direction
	case lo.Speed == 0:
		direction = hi.Direction
	case hi.Speed == 0:
		direction = lo.Direction
	default:
		direction = NormalizeDirection(lo.Direction + t*HeadingDifference(lo.Direction, hi.Direction))
	}
	return direction, speed
}

// Velocity returns the push the wind at altitude gives a body, m/s east
// and north.
func (p Profile) Velocity(altitude float64) core.DriftVector {
	return Push(p.At(altitude))
}

func search(samples []core.WindSample, altitude float64) int {
	lo, hi := 0, len(samples)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if samples[mid].Altitude > altitude {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
