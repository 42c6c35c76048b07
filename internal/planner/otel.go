package planner

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/spotter-dz/spotter/pkg/core"
)

const instrumentationName = "github.com/spotter-dz/spotter/internal/planner"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	calculations metric.Int64Counter
	failures     metric.Int64Counter
	cacheHits    metric.Int64Counter
	duration     metric.Float64Histogram
}

func newMetrics() (*metrics, error) {
	m := meter()
	var (
		out metrics
		err error
	)
	if out.calculations, err = m.Int64Counter("spotter.calculations",
		metric.WithDescription("Calculations requested")); err != nil {
		return nil, err
	}
	if out.failures, err = m.Int64Counter("spotter.calculation.failures",
		metric.WithDescription("Failed calculations by error class")); err != nil {
		return nil, err
	}
	if out.cacheHits, err = m.Int64Counter("spotter.cache.hits",
		metric.WithDescription("Calculations served from the result cache")); err != nil {
		return nil, err
	}
	if out.duration, err = m.Float64Histogram("spotter.calculation.duration",
		metric.WithDescription("Engine run time"),
		metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	return &out, nil
}

// errorClass names the taxonomy class of err for metric attributes.
func errorClass(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyProfile):
		return "empty_profile"
	case errors.Is(err, core.ErrNoWindData):
		return "no_wind_data"
	case errors.Is(err, core.ErrUnsortedProfile):
		return "unsorted_profile"
	case errors.Is(err, core.ErrInvalidCoordinate):
		return "invalid_coordinate"
	case errors.Is(err, core.ErrInvalidAltitudeRange):
		return "invalid_altitude_range"
	case errors.Is(err, core.ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return "other"
	}
}
