// Package groups spreads exit points for successive jump groups along the
// aircraft's ground track.
package groups

import (
	"fmt"
	"math"

	"github.com/spotter-dz/spotter/internal/geo"
	"github.com/spotter-dz/spotter/internal/wind"
	"github.com/spotter-dz/spotter/pkg/core"
)

// Spacing is the ground distance the aircraft covers between releases.
func Spacing(aircraftSpeed, timeBetweenGroups float64) float64 {
	return aircraftSpeed * timeBetweenGroups
}

// Schedule returns one exit point per group, numbered 1..n in exit order.
// Group 1 exits at solo; each later group is placed a further
// aircraftSpeed*timeBetweenGroups meters opposite the heading.
func Schedule(solo core.LatLon, heading, aircraftSpeed float64, n int, timeBetweenGroups float64) ([]core.ExitPoint, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: number of groups %d must be at least 1", core.ErrInvalidParameter, n)
	}
	if aircraftSpeed < 0 || math.IsNaN(aircraftSpeed) {
		return nil, fmt.Errorf("%w: aircraft speed %v must not be negative", core.ErrInvalidParameter, aircraftSpeed)
	}
	if timeBetweenGroups < 0 || math.IsNaN(timeBetweenGroups) {
		return nil, fmt.Errorf("%w: time between groups %v must not be negative", core.ErrInvalidParameter, timeBetweenGroups)
	}

	step := wind.HeadingVector(heading).Scale(-Spacing(aircraftSpeed, timeBetweenGroups))

	points := make([]core.ExitPoint, n)
	for i := range points {
		loc := solo
		if i > 0 && (step.East != 0 || step.North != 0) {
			var err error
			loc, err = geo.Offset(solo, step.Scale(float64(i)))
			if err != nil {
				return nil, fmt.Errorf("group %d: %w", i+1, err)
			}
		}
		points[i] = core.ExitPoint{Location: loc, GroupNumber: i + 1}
	}
	return points, nil
}

// Track returns the aircraft ground track over the exit points, from the
// first group's exit point to the last group's. A single group or zero
// spacing yields a two-point line of zero length.
func Track(points []core.ExitPoint) []core.LatLon {
	if len(points) == 0 {
		return nil
	}
	return []core.LatLon{points[0].Location, points[len(points)-1].Location}
}
