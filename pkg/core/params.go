// pkg/core/params.go
package core

import "time"

// JumpParameters describe aircraft and canopy performance.
// Altitudes are meters above the landing zone (AGL), speeds m/s.
type JumpParameters struct {
	JumpAltitude      float64 `json:"jumpAltitude"`
	AircraftSpeed     float64 `json:"aircraftSpeed"`
	FreefallSpeed     float64 `json:"freefallSpeed"`
	OpeningAltitude   float64 `json:"openingAltitude"`
	CanopyDescentRate float64 `json:"canopyDescentRate"`
	GlideRatio        float64 `json:"glideRatio"`
	SetupAltitude     float64 `json:"setupAltitude"`
	NumberOfGroups    int     `json:"numberOfGroups"`
	TimeBetweenGroups float64 `json:"timeBetweenGroups"` // seconds
}

// CommonParameters are the per-jump choices shared by every group.
type CommonParameters struct {
	LandingZone LatLon `json:"landingZone"`
	// FlightDirection is the jump run heading in degrees. Nil means fly
	// into the wind at opening altitude.
	FlightDirection       *float64  `json:"flightDirection,omitempty"`
	FlightOverLandingZone bool      `json:"flightOverLandingZone"`
	JumpTime              time.Time `json:"jumpTime"`
	NumberOfGroups        int       `json:"numberOfGroups"`
	TimeBetweenGroups     float64   `json:"timeBetweenGroups"`
}
