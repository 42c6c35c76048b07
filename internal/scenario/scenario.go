// Package scenario reads jump scenarios from JSON files.
package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spotter-dz/spotter/internal/wind"
	"github.com/spotter-dz/spotter/pkg/core"
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Jump     core.JumpParameters
	Common   core.CommonParameters
	Terrain  core.TerrainData
	Forecast *wind.Forecast
}

// file is the on-disk layout.
type file struct {
	LandingZone           core.LatLon         `json:"landingZone"`
	Elevation             float64             `json:"elevation"`
	JumpTime              time.Time           `json:"jumpTime"`
	FlightDirection       *float64            `json:"flightDirection"`
	FlightOverLandingZone *bool               `json:"flightOverLandingZone"`
	NumberOfGroups        int                 `json:"numberOfGroups"`
	TimeBetweenGroups     float64             `json:"timeBetweenGroups"`
	Jump                  jumpOverrides       `json:"jump"`
	Forecast              []core.TimedSamples `json:"forecast"`
}

// jumpOverrides replaces individual configured jump defaults.
type jumpOverrides struct {
	JumpAltitude      *float64 `json:"jumpAltitude"`
	AircraftSpeed     *float64 `json:"aircraftSpeed"`
	FreefallSpeed     *float64 `json:"freefallSpeed"`
	OpeningAltitude   *float64 `json:"openingAltitude"`
	CanopyDescentRate *float64 `json:"canopyDescentRate"`
	GlideRatio        *float64 `json:"glideRatio"`
	SetupAltitude     *float64 `json:"setupAltitude"`
	NumberOfGroups    *int     `json:"numberOfGroups"`
	TimeBetweenGroups *float64 `json:"timeBetweenGroups"`
}

func (o jumpOverrides) apply(j core.JumpParameters) core.JumpParameters {
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&j.JumpAltitude, o.JumpAltitude)
	set(&j.AircraftSpeed, o.AircraftSpeed)
	set(&j.FreefallSpeed, o.FreefallSpeed)
	set(&j.OpeningAltitude, o.OpeningAltitude)
	set(&j.CanopyDescentRate, o.CanopyDescentRate)
	set(&j.GlideRatio, o.GlideRatio)
	set(&j.SetupAltitude, o.SetupAltitude)
	set(&j.TimeBetweenGroups, o.TimeBetweenGroups)
	if o.NumberOfGroups != nil {
		j.NumberOfGroups = *o.NumberOfGroups
	}
	return j
}

// Parse decodes a scenario. Jump parameters missing from the file keep
// their value from defaults. flightOverLandingZone defaults to true.
func Parse(r io.Reader, defaults core.JumpParameters) (*Scenario, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f file
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}

	forecast, err := wind.NewForecast(f.Forecast)
	if err != nil {
		return nil, fmt.Errorf("scenario forecast: %w", err)
	}

	overLZ := true
	if f.FlightOverLandingZone != nil {
		overLZ = *f.FlightOverLandingZone
	}

	return &Scenario{
		Jump: f.Jump.apply(defaults),
		Common: core.CommonParameters{
			LandingZone:           f.LandingZone,
			FlightDirection:       f.FlightDirection,
			FlightOverLandingZone: overLZ,
			JumpTime:              f.JumpTime,
			NumberOfGroups:        f.NumberOfGroups,
			TimeBetweenGroups:     f.TimeBetweenGroups,
		},
		Terrain:  core.TerrainData{Location: f.LandingZone, Elevation: f.Elevation},
		Forecast: forecast,
	}, nil
}

// Load parses the scenario file at path.
func Load(path string, defaults core.JumpParameters) (*Scenario, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	s, err := Parse(fh, defaults)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
