package wind

import (
	"fmt"
	"sort"
	"time"

	"github.com/spotter-dz/spotter/pkg/core"
)

// Forecast holds profiles valid at successive times, e.g. one per model
// hour.
type Forecast struct {
	steps []forecastStep
}

type forecastStep struct {
	valid   time.Time
	profile Profile
}

// NewForecast validates every step. Steps may arrive in any order.
func NewForecast(steps []core.TimedSamples) (*Forecast, error) {
	if len(steps) == 0 {
		return nil, core.ErrEmptyProfile
	}

	f := &Forecast{steps: make([]forecastStep, 0, len(steps))}
	for i, s := range steps {
		p, err := NewProfile(s.Samples)
		if err != nil {
			return nil, fmt.Errorf("forecast step %d (%s): %w", i, s.ValidTime.Format(time.RFC3339), err)
		}
		f.steps = append(f.steps, forecastStep{valid: s.ValidTime, profile: p})
	}
	sort.SliceStable(f.steps, func(i, j int) bool {
		return f.steps[i].valid.Before(f.steps[j].valid)
	})
	return f, nil
}

// At returns the profile whose valid time is nearest jumpTime. Ties go to
// the earlier step.
func (f *Forecast) At(jumpTime time.Time) (Profile, time.Time) {
	best := f.steps[0]
	bestDist := absDuration(jumpTime.Sub(best.valid))
	for _, s := range f.steps[1:] {
		d := absDuration(jumpTime.Sub(s.valid))
		if d < bestDist {
			best, bestDist = s, d
		}
	}
	return best.profile, best.valid
}

// Len returns the number of forecast steps.
func (f *Forecast) Len() int { return len(f.steps) }

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
